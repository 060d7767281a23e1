package notification

// Settings is the single process-wide notification configuration record
// (at most one row in storage). The scheduler reads it once at the start of
// each pass and treats that copy as an immutable snapshot; only the
// explicit settings-save operation mutates it.
type Settings struct {
	ID int64

	EnableSmsNotifications   bool
	EnableEmailNotifications bool

	// Unpaid-balance reminder windows (day-of-month ranges).
	UnpaidEarlyMonth bool // days 1-5
	UnpaidMidMonth   bool // days 13-17
	UnpaidEndMonth   bool // day 25 through the last day

	// Rent-due reminder offsets (days before the due date).
	RentWeekBefore      bool // 7 days
	RentThreeDaysBefore bool // 3 days
	RentDueDate         bool // due date itself

	// SMS gateway credentials.
	SmsAPIKey       string `validate:"required_if=EnableSmsNotifications true"`
	SmsAPISecret    string
	SmsSenderNumber string `validate:"required_if=EnableSmsNotifications true"`

	// SMTP credentials.
	EmailSmtpHost   string `validate:"required_if=EnableEmailNotifications true"`
	EmailSmtpPort   int    `validate:"omitempty,min=1,max=65535"`
	EmailAddress    string `validate:"required_if=EnableEmailNotifications true,omitempty,email"`
	EmailPassword   string `validate:"required_if=EnableEmailNotifications true"`
	EmailSenderName string
}

// DefaultSettings mirrors the defaults applied when no settings row has
// been saved yet: every reminder enabled, standard submission SMTP port.
func DefaultSettings() *Settings {
	return &Settings{
		EnableSmsNotifications:   true,
		EnableEmailNotifications: true,
		UnpaidEarlyMonth:         true,
		UnpaidMidMonth:           true,
		UnpaidEndMonth:           true,
		RentWeekBefore:           true,
		RentThreeDaysBefore:      true,
		RentDueDate:              true,
		EmailSmtpPort:            587,
	}
}

// SmsConfigured reports whether the SMS gateway can be used at all.
func (s *Settings) SmsConfigured() bool {
	return s.SmsAPIKey != "" && s.SmsSenderNumber != ""
}

// EmailConfigured reports whether the SMTP sender can be used at all.
func (s *Settings) EmailConfigured() bool {
	return s.EmailSmtpHost != "" && s.EmailAddress != "" && s.EmailPassword != ""
}
