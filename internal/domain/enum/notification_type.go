package enum

// NotificationType is the delivery channel recorded for a notification
type NotificationType string

const (
	NotificationTypeLINE  NotificationType = "LINE"
	NotificationTypeEmail NotificationType = "Email"
)

func (t NotificationType) String() string {
	return string(t)
}
