package service

import "errors"

// Guard and lookup failures surfaced by the lifecycle engine. Handlers map
// each of these to exactly one user-visible notice.
var (
	ErrProfileNotFound   = errors.New("profile not found")
	ErrReportNotFound    = errors.New("report not found")
	ErrInvalidRole       = errors.New("role must be reporter, picker or monitor")
	ErrPhotoRequired     = errors.New("a photo of the waste location is required")
	ErrForbidden         = errors.New("your role does not permit this action")
	ErrInvalidTransition = errors.New("the report status does not permit this action")
	ErrNotAssignedPicker = errors.New("the report is claimed by another picker")
	ErrProofExists       = errors.New("a cleanup photo was already submitted for this report")
	ErrConflict          = errors.New("the report was modified concurrently, please retry")
)
