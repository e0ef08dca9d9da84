package service

import (
	"slices"

	"github.com/cleansweep-app/cleansweep-api/internal/models"
)

// Action is one of the operations a client can perform on a report.
type Action string

const (
	ActionCreate      Action = "create"
	ActionClaim       Action = "claim"
	ActionSubmitProof Action = "submit_proof"
	ActionApprove     Action = "approve"
	ActionReject      Action = "reject"
)

// transition declares the required actor role and the admissible source
// statuses for an action. A nil "from" list means the action creates the
// report and has no source status.
type transition struct {
	role models.Role
	from []models.Status
}

// transitions is the single authoritative state machine table. Every
// role/status combination not listed here is rejected centrally, so the
// individual operations carry no scattered per-call checks.
var transitions = map[Action]transition{
	ActionCreate: {role: models.RoleReporter},
	ActionClaim:  {role: models.RolePicker, from: models.ClaimableStatuses()},
	ActionSubmitProof: {
		role: models.RolePicker,
		from: []models.Status{models.StatusClaimed},
	},
	ActionApprove: {role: models.RoleMonitor, from: []models.Status{models.StatusPendingReview}},
	ActionReject:  {role: models.RoleMonitor, from: []models.Status{models.StatusPendingReview}},
}

// checkTransition validates an action against the table. The report is nil
// for ActionCreate. It reports ErrForbidden for a role mismatch and
// ErrInvalidTransition for a status outside the table.
func checkTransition(action Action, actor *models.Profile, report *models.Report) error {
	t, ok := transitions[action]
	if !ok {
		return ErrInvalidTransition
	}
	if actor.Role != t.role {
		return ErrForbidden
	}
	if t.from == nil {
		return nil
	}
	if report == nil || !slices.Contains(t.from, report.Status) {
		return ErrInvalidTransition
	}
	return nil
}
