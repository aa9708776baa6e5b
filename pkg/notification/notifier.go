package notification

// NotificationSystem represents a delivery channel (e.g. email, SMS).
type NotificationSystem string

// NoticeType represents a kind of notice (e.g. "login_step_up_code").
type NoticeType string

const (
	EmailSystem NotificationSystem = "email"
	SMSSystem   NotificationSystem = "sms"
)

// NotificationData carries the recipient and template data for one send.
type NotificationData struct {
	To   string            // Recipient identifier (email address, phone number)
	Data map[string]string // Template variables
}

// NoticeTemplate holds the renderable content registered for a notice type.
type NoticeTemplate struct {
	Subject string
	Text    string
	Html    string
}

// Notifier sends a rendered notice over one delivery channel.
type Notifier interface {
	Send(noticeType NoticeType, notification NotificationData, template NoticeTemplate) error
}
