package advisory

import "errors"

var (
	errAdvisoryUnconfigured = errors.New("advisory endpoint not configured")
	errEmptyReply           = errors.New("advisory reply carried no candidates")
)

type statusError struct {
	status string
}

func (e *statusError) Error() string {
	return "advisory endpoint returned " + e.status
}
