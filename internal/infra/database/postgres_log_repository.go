package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"office_manager_notifier/internal/domain/notification"
)

const defaultLogListLimit = 200

type PostgresLogRepository struct {
	db *sql.DB
}

func NewPostgresLogRepository(db *sql.DB) *PostgresLogRepository {
	return &PostgresLogRepository{db: db}
}

func (r *PostgresLogRepository) Append(ctx context.Context, l *notification.Log) error {
	query := `INSERT INTO notification_logs
	              (sent_at, sent_on, channel, category, company_id, company_name, recipient, message, success, error_detail)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		l.SentAt, l.SentOn, l.Channel, l.Category, l.CompanyID, l.CompanyName,
		l.Recipient, l.Message, l.Success, l.ErrorDetail,
	).Scan(&l.ID)
	if err != nil {
		return fmt.Errorf("error appending notification log: %w", err)
	}
	return nil
}

func (r *PostgresLogRepository) HasEntryForDay(ctx context.Context, companyID int64, category notification.Category, channel notification.Channel, day time.Time) (bool, error) {
	dateOnly := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	query := `SELECT EXISTS (
	              SELECT 1 FROM notification_logs
	              WHERE company_id = $1 AND category = $2 AND channel = $3 AND sent_on = $4)`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, companyID, category, channel, dateOnly).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking notification log for day: %w", err)
	}
	return exists, nil
}

func (r *PostgresLogRepository) List(ctx context.Context, companyID int64, category notification.Category, limit int) ([]*notification.Log, error) {
	if limit <= 0 {
		limit = defaultLogListLimit
	}
	query := `SELECT id, sent_at, sent_on, channel, category, company_id, company_name, recipient, message, success, error_detail
	          FROM notification_logs
	          WHERE ($1 = 0 OR company_id = $1)
	            AND ($2 = '' OR category = $2)
	          ORDER BY sent_at DESC
	          LIMIT $3`
	rows, err := r.db.QueryContext(ctx, query, companyID, string(category), limit)
	if err != nil {
		return nil, fmt.Errorf("error querying notification logs: %w", err)
	}
	defer rows.Close()

	logs := make([]*notification.Log, 0)
	for rows.Next() {
		l := notification.Log{}
		if err := rows.Scan(
			&l.ID, &l.SentAt, &l.SentOn, &l.Channel, &l.Category, &l.CompanyID,
			&l.CompanyName, &l.Recipient, &l.Message, &l.Success, &l.ErrorDetail,
		); err != nil {
			return nil, fmt.Errorf("error scanning notification log row: %w", err)
		}
		logs = append(logs, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notification log rows: %w", err)
	}
	return logs, nil
}
