package database

import (
	"context"
	"database/sql"
	"fmt"

	"office_manager_notifier/internal/domain/notification"
)

var ErrSettingsNotFound = fmt.Errorf("notification settings not found")

type PostgresSettingsRepository struct {
	db *sql.DB
}

func NewPostgresSettingsRepository(db *sql.DB) *PostgresSettingsRepository {
	return &PostgresSettingsRepository{db: db}
}

func (r *PostgresSettingsRepository) Get(ctx context.Context) (*notification.Settings, error) {
	query := `SELECT id, enable_sms_notifications, enable_email_notifications,
	                 unpaid_early_month, unpaid_mid_month, unpaid_end_month,
	                 rent_week_before, rent_three_days_before, rent_due_date,
	                 sms_api_key, sms_api_secret, sms_sender_number,
	                 email_smtp_host, email_smtp_port, email_address, email_password, email_sender_name
	          FROM notification_settings WHERE id = 1`
	s := notification.Settings{}
	err := r.db.QueryRowContext(ctx, query).Scan(
		&s.ID, &s.EnableSmsNotifications, &s.EnableEmailNotifications,
		&s.UnpaidEarlyMonth, &s.UnpaidMidMonth, &s.UnpaidEndMonth,
		&s.RentWeekBefore, &s.RentThreeDaysBefore, &s.RentDueDate,
		&s.SmsAPIKey, &s.SmsAPISecret, &s.SmsSenderNumber,
		&s.EmailSmtpHost, &s.EmailSmtpPort, &s.EmailAddress, &s.EmailPassword, &s.EmailSenderName,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSettingsNotFound
		}
		return nil, fmt.Errorf("error getting notification settings: %w", err)
	}
	return &s, nil
}

// Save upserts the single settings row (id is fixed to 1).
func (r *PostgresSettingsRepository) Save(ctx context.Context, s *notification.Settings) error {
	query := `INSERT INTO notification_settings (
	              id, enable_sms_notifications, enable_email_notifications,
	              unpaid_early_month, unpaid_mid_month, unpaid_end_month,
	              rent_week_before, rent_three_days_before, rent_due_date,
	              sms_api_key, sms_api_secret, sms_sender_number,
	              email_smtp_host, email_smtp_port, email_address, email_password, email_sender_name)
	          VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	          ON CONFLICT (id) DO UPDATE SET
	              enable_sms_notifications = EXCLUDED.enable_sms_notifications,
	              enable_email_notifications = EXCLUDED.enable_email_notifications,
	              unpaid_early_month = EXCLUDED.unpaid_early_month,
	              unpaid_mid_month = EXCLUDED.unpaid_mid_month,
	              unpaid_end_month = EXCLUDED.unpaid_end_month,
	              rent_week_before = EXCLUDED.rent_week_before,
	              rent_three_days_before = EXCLUDED.rent_three_days_before,
	              rent_due_date = EXCLUDED.rent_due_date,
	              sms_api_key = EXCLUDED.sms_api_key,
	              sms_api_secret = EXCLUDED.sms_api_secret,
	              sms_sender_number = EXCLUDED.sms_sender_number,
	              email_smtp_host = EXCLUDED.email_smtp_host,
	              email_smtp_port = EXCLUDED.email_smtp_port,
	              email_address = EXCLUDED.email_address,
	              email_password = EXCLUDED.email_password,
	              email_sender_name = EXCLUDED.email_sender_name`
	_, err := r.db.ExecContext(ctx, query,
		s.EnableSmsNotifications, s.EnableEmailNotifications,
		s.UnpaidEarlyMonth, s.UnpaidMidMonth, s.UnpaidEndMonth,
		s.RentWeekBefore, s.RentThreeDaysBefore, s.RentDueDate,
		s.SmsAPIKey, s.SmsAPISecret, s.SmsSenderNumber,
		s.EmailSmtpHost, s.EmailSmtpPort, s.EmailAddress, s.EmailPassword, s.EmailSenderName,
	)
	if err != nil {
		return fmt.Errorf("error saving notification settings: %w", err)
	}
	s.ID = 1
	return nil
}
