package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"office_manager_notifier/internal/domain/notification"
)

// SmtpClient sends plain-text email over SMTP. Like the SMS client, it
// takes its credentials from the settings snapshot passed with each send.
type SmtpClient struct{}

func NewSmtpClient() *SmtpClient {
	return &SmtpClient{}
}

func (c *SmtpClient) SendEmail(ctx context.Context, settings *notification.Settings, address, subject, body string) error {
	if !settings.EmailConfigured() {
		return fmt.Errorf("smtp credentials are missing")
	}

	m := gomail.NewMessage()
	from := settings.EmailAddress
	if settings.EmailSenderName != "" {
		from = m.FormatAddress(settings.EmailAddress, settings.EmailSenderName)
	}
	m.SetHeader("From", from)
	m.SetHeader("To", address)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	dialer := gomail.NewDialer(settings.EmailSmtpHost, settings.EmailSmtpPort, settings.EmailAddress, settings.EmailPassword)

	// The gomail dialer has no timeout knob, so the send runs under the
	// caller's deadline; a deadline hit is reported as a send failure.
	done := make(chan error, 1)
	go func() {
		done <- dialer.DialAndSend(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("smtp send timed out: %w", ctx.Err())
	}
}
