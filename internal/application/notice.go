package application

// Severity grades a Notice.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notice is a short user facing message produced by a service call.
type Notice struct {
	Severity Severity
	Message  string
}

func successNotice(message string) Notice { return Notice{Severity: SeveritySuccess, Message: message} }

func errorNotice(message string) Notice { return Notice{Severity: SeverityError, Message: message} }

func warningNotice(message string) Notice { return Notice{Severity: SeverityWarning, Message: message} }
