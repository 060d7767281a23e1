package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"office_manager_notifier/internal/app"
	"office_manager_notifier/internal/domain/notification"
)

type SettingsHandler struct {
	settings *app.SettingsService
}

func NewSettingsHandler(settings *app.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// settingsView is the wire shape of the settings record. Secrets are
// accepted on save but blanked on read.
type settingsView struct {
	EnableSmsNotifications   bool `json:"enable_sms_notifications"`
	EnableEmailNotifications bool `json:"enable_email_notifications"`

	UnpaidEarlyMonth bool `json:"unpaid_early_month"`
	UnpaidMidMonth   bool `json:"unpaid_mid_month"`
	UnpaidEndMonth   bool `json:"unpaid_end_month"`

	RentWeekBefore      bool `json:"rent_week_before"`
	RentThreeDaysBefore bool `json:"rent_three_days_before"`
	RentDueDate         bool `json:"rent_due_date"`

	SmsAPIKey       string `json:"sms_api_key,omitempty"`
	SmsAPISecret    string `json:"sms_api_secret,omitempty"`
	SmsSenderNumber string `json:"sms_sender_number"`

	EmailSmtpHost   string `json:"email_smtp_host"`
	EmailSmtpPort   int    `json:"email_smtp_port"`
	EmailAddress    string `json:"email_address"`
	EmailPassword   string `json:"email_password,omitempty"`
	EmailSenderName string `json:"email_sender_name"`

	SmsConfigured   bool `json:"sms_configured"`
	EmailConfigured bool `json:"email_configured"`
}

func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	s, err := h.settings.Current(c.Context())
	if err != nil {
		return internalError(c, err)
	}
	view := settingsView{
		EnableSmsNotifications:   s.EnableSmsNotifications,
		EnableEmailNotifications: s.EnableEmailNotifications,
		UnpaidEarlyMonth:         s.UnpaidEarlyMonth,
		UnpaidMidMonth:           s.UnpaidMidMonth,
		UnpaidEndMonth:           s.UnpaidEndMonth,
		RentWeekBefore:           s.RentWeekBefore,
		RentThreeDaysBefore:      s.RentThreeDaysBefore,
		RentDueDate:              s.RentDueDate,
		SmsSenderNumber:          s.SmsSenderNumber,
		EmailSmtpHost:            s.EmailSmtpHost,
		EmailSmtpPort:            s.EmailSmtpPort,
		EmailAddress:             s.EmailAddress,
		EmailSenderName:          s.EmailSenderName,
		SmsConfigured:            s.SmsConfigured(),
		EmailConfigured:          s.EmailConfigured(),
	}
	return c.JSON(view)
}

func (h *SettingsHandler) Save(c *fiber.Ctx) error {
	var view settingsView
	if err := c.BodyParser(&view); err != nil {
		return badRequest(c, err)
	}
	s := &notification.Settings{
		EnableSmsNotifications:   view.EnableSmsNotifications,
		EnableEmailNotifications: view.EnableEmailNotifications,
		UnpaidEarlyMonth:         view.UnpaidEarlyMonth,
		UnpaidMidMonth:           view.UnpaidMidMonth,
		UnpaidEndMonth:           view.UnpaidEndMonth,
		RentWeekBefore:           view.RentWeekBefore,
		RentThreeDaysBefore:      view.RentThreeDaysBefore,
		RentDueDate:              view.RentDueDate,
		SmsAPIKey:                view.SmsAPIKey,
		SmsAPISecret:             view.SmsAPISecret,
		SmsSenderNumber:          view.SmsSenderNumber,
		EmailSmtpHost:            view.EmailSmtpHost,
		EmailSmtpPort:            view.EmailSmtpPort,
		EmailAddress:             view.EmailAddress,
		EmailPassword:            view.EmailPassword,
		EmailSenderName:          view.EmailSenderName,
	}
	if s.EmailSmtpPort == 0 {
		s.EmailSmtpPort = 587
	}
	if err := h.settings.Save(c.Context(), s); err != nil {
		if errors.Is(err, app.ErrInvalidSettings) {
			return errorResponse(c, fiber.StatusUnprocessableEntity, err)
		}
		return internalError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
