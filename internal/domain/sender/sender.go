package sender

import (
	"context"

	"office_manager_notifier/internal/domain/notification"
)

// Senders receive the pass's settings snapshot along with the message, so
// every send of one pass uses the same credentials even if the settings
// record is saved mid-pass.

// SmsSender sends a short text message to a phone number. Implementations
// must respect the context deadline; a timeout is a send failure, not a
// fatal error.
type SmsSender interface {
	SendSms(ctx context.Context, settings *notification.Settings, phoneNumber, message string) error
}

// EmailSender sends a plain-text email.
type EmailSender interface {
	SendEmail(ctx context.Context, settings *notification.Settings, address, subject, body string) error
}
