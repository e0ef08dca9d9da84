package notify

// Severity of a user-facing notice.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notice is the single uniform envelope for everything shown to a user.
// Every engine failure produces exactly one of these with a human-readable
// cause; successes may carry one as confirmation.
type Notice struct {
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

func ErrorNotice(title, message string) Notice {
	return Notice{Title: title, Message: message, Severity: SeverityError}
}

func SuccessNotice(title, message string) Notice {
	return Notice{Title: title, Message: message, Severity: SeveritySuccess}
}
