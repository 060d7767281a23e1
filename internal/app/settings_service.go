package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"office_manager_notifier/internal/domain/notification"
	idb "office_manager_notifier/internal/infra/database"
)

var ErrInvalidSettings = fmt.Errorf("notification settings failed validation")

// SettingsService owns reads and writes of the single notification
// settings record. Saves are validated: enabling a channel without its
// credentials is rejected before it can break a pass.
type SettingsService struct {
	repo     notification.SettingsRepository
	validate *validator.Validate
}

func NewSettingsService(repo notification.SettingsRepository) *SettingsService {
	return &SettingsService{
		repo:     repo,
		validate: validator.New(),
	}
}

// Current returns the saved settings, falling back to the defaults when
// nothing has been saved yet.
func (s *SettingsService) Current(ctx context.Context) (*notification.Settings, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, idb.ErrSettingsNotFound) {
			return notification.DefaultSettings(), nil
		}
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return settings, nil
}

// Save validates then persists the settings record. The running scheduler
// picks the new values up on its next pass; in-flight passes keep their
// snapshot.
func (s *SettingsService) Save(ctx context.Context, settings *notification.Settings) error {
	if err := s.validate.Struct(settings); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	if err := s.repo.Save(ctx, settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
