// Package notice wires the notification manager with the notice types and
// email templates the verification flows send.
package notice

import (
	"embed"
	"log/slog"

	"github.com/chirper-app/gatekit/pkg/notification"
)

const (
	// LoginStepUpNotice carries the OTP for a step-up login verification.
	LoginStepUpNotice notification.NoticeType = "login_step_up_code"

	// PasswordResetNotice carries the OTP for a password reset request.
	PasswordResetNotice notification.NoticeType = "password_reset_code"

	// AudioPostNotice carries the OTP authorizing an audio post.
	AudioPostNotice notification.NoticeType = "audio_post_code"

	// LanguageChangeNotice carries the OTP confirming a language switch.
	LanguageChangeNotice notification.NoticeType = "language_change_code"

	// NewPasswordNotice delivers the freshly generated password after a reset.
	NewPasswordNotice notification.NoticeType = "new_password"
)

//go:embed templates/*
var templateFiles embed.FS

func loadTemplate(filename string) string {
	content, err := templateFiles.ReadFile(filename)
	if err != nil {
		slog.Error("Error reading template file!", "err", err, "filename", filename)
		return ""
	}
	return string(content)
}

// NewNotificationManager creates a notification manager with an SMTP email
// notifier and all gate notice templates registered.
func NewNotificationManager(smtpConfig notification.SMTPConfig) (*notification.NotificationManager, error) {
	notificationManager := notification.NewNotificationManager()

	emailNotifier, err := notification.NewEmailNotifier(smtpConfig)
	if err != nil {
		return nil, err
	}
	notificationManager.RegisterNotifier(notification.EmailSystem, emailNotifier)

	if err := RegisterTemplates(notificationManager); err != nil {
		return nil, err
	}

	return notificationManager, nil
}

// RegisterTemplates registers the email templates for every gate notice type.
// Split out so tests can register templates against a mock notifier.
func RegisterTemplates(nm *notification.NotificationManager) error {
	templates := map[notification.NoticeType]notification.NoticeTemplate{
		LoginStepUpNotice: {
			Subject: "Login Verification Code",
			Html:    loadTemplate("templates/email/login_step_up.tmpl"),
		},
		PasswordResetNotice: {
			Subject: "Password Reset OTP",
			Html:    loadTemplate("templates/email/password_reset_code.tmpl"),
		},
		AudioPostNotice: {
			Subject: "Your OTP for Audio Post",
			Html:    loadTemplate("templates/email/audio_post_code.tmpl"),
		},
		LanguageChangeNotice: {
			Subject: "Verify Language Change",
			Html:    loadTemplate("templates/email/language_change_code.tmpl"),
		},
		NewPasswordNotice: {
			Subject: "Your New Password",
			Html:    loadTemplate("templates/email/new_password.tmpl"),
		},
	}

	for noticeType, template := range templates {
		if err := nm.RegisterNotification(noticeType, notification.EmailSystem, template); err != nil {
			slog.Error("failed to register notification template", "noticeType", noticeType, "error", err)
			return err
		}
	}

	return nil
}

// NoticeTypeForPurpose maps a code purpose string to its OTP notice type.
// Returns false for purposes with no registered notice.
func NoticeTypeForPurpose(purpose string) (notification.NoticeType, bool) {
	switch purpose {
	case "login_step_up":
		return LoginStepUpNotice, true
	case "password_reset":
		return PasswordResetNotice, true
	case "audio_post":
		return AudioPostNotice, true
	case "language_change":
		return LanguageChangeNotice, true
	default:
		return "", false
	}
}
