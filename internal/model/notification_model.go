package model

// NotificationKind is the severity of a user-facing message.
type NotificationKind string

const (
	KindSuccess NotificationKind = "success"
	KindError   NotificationKind = "error"
	KindWarning NotificationKind = "warning"
	KindInfo    NotificationKind = "info"
)

// Notification is a single user-facing message.
type Notification struct {
	Kind    NotificationKind
	Message string
	Title   string
}
