package quote

// Severity tags a notification.
type Severity string

const (
	SeverityInfo Severity = "info"
	SeverityOK   Severity = "ok"
	SeverityWarn Severity = "warn"
	SeverityErr  Severity = "err"
)

// Notification is one message on the single notification channel.
type Notification struct {
	Severity Severity
	Text     string
}

// Notifier receives notifications as they are raised.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }
