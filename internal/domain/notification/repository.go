package notification

import (
	"context"
	"time"
)

// SettingsRepository defines operations for the single Settings record.
type SettingsRepository interface {
	// Get returns the saved settings row. Implementations return a
	// not-found error when no row has been saved yet.
	Get(ctx context.Context) (*Settings, error)
	// Save inserts or replaces the single settings row.
	Save(ctx context.Context, s *Settings) error
}

// LogRepository defines operations for the append-only notification log.
type LogRepository interface {
	// Append records one send attempt. Entries are never updated or deleted.
	Append(ctx context.Context, l *Log) error
	// HasEntryForDay reports whether any attempt (successful or not) was
	// already logged for the dedup key on the given calendar date.
	HasEntryForDay(ctx context.Context, companyID int64, category Category, channel Channel, day time.Time) (bool, error)
	// List returns recent entries, newest first. Zero-valued filters are
	// ignored; limit <= 0 applies a default.
	List(ctx context.Context, companyID int64, category Category, limit int) ([]*Log, error)
}
