package domain

// NotificationKind classifies a user-facing message.
type NotificationKind string

const (
	NotifySuccess NotificationKind = "success"
	NotifyError   NotificationKind = "error"
)

// Notification is a transient message for the user. The presentation layer decides how to show it.
type Notification struct {
	Kind    NotificationKind
	Title   string
	Message string
}

// Notifier receives notifications emitted by screens.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }
