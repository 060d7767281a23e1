package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"office_manager_notifier/internal/domain/company"
	"office_manager_notifier/internal/domain/ledger"
	"office_manager_notifier/internal/domain/notification"
	idb "office_manager_notifier/internal/infra/database"
	"office_manager_notifier/internal/infra/metrics"
)

// NotificationService drives the evaluate-then-dispatch pipeline.
type NotificationService interface {
	// RunPass executes one pass over all active companies: evaluate
	// eligibility for today, then dispatch every decision. Safe to invoke
	// any number of times per day; the log-based dedup makes extra passes
	// harmless.
	RunPass(ctx context.Context) error
	// SendTestNotification sends an on-demand test reminder to one
	// company, bypassing eligibility. It reports whether every reachable
	// channel succeeded.
	SendTestNotification(ctx context.Context, companyID int64) (bool, error)
}

type NotificationServiceImpl struct {
	companyRepo  company.Repository
	paymentRepo  ledger.PaymentRepository
	settingsRepo notification.SettingsRepository
	dispatcher   *Dispatcher
	metrics      *metrics.Metrics
	logger       *logrus.Logger
	now          func() time.Time
}

func NewNotificationService(
	cr company.Repository,
	pr ledger.PaymentRepository,
	sr notification.SettingsRepository,
	dispatcher *Dispatcher,
	m *metrics.Metrics,
	logger *logrus.Logger,
) *NotificationServiceImpl {
	return &NotificationServiceImpl{
		companyRepo:  cr,
		paymentRepo:  pr,
		settingsRepo: sr,
		dispatcher:   dispatcher,
		metrics:      m,
		logger:       logger,
		now:          time.Now,
	}
}

// loadSettingsSnapshot returns the saved settings, or the defaults when no
// row has been saved yet. The snapshot is immutable for the pass; a
// concurrent settings save does not affect in-flight work.
func (s *NotificationServiceImpl) loadSettingsSnapshot(ctx context.Context) (*notification.Settings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, idb.ErrSettingsNotFound) {
			return notification.DefaultSettings(), nil
		}
		return nil, fmt.Errorf("failed to load notification settings: %w", err)
	}
	return settings, nil
}

func (s *NotificationServiceImpl) RunPass(ctx context.Context) (retErr error) {
	start := time.Now()
	defer func() { s.metrics.ObservePass(start, retErr) }()

	entry := s.logger.WithField("pass_id", uuid.NewString())

	settings, err := s.loadSettingsSnapshot(ctx)
	if err != nil {
		return err
	}
	if !settings.EnableSmsNotifications && !settings.EnableEmailNotifications {
		entry.Debug("all notification channels disabled, nothing to do")
		return nil
	}

	companies, err := s.companyRepo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active companies: %w", err)
	}
	if len(companies) == 0 {
		entry.Debug("no active companies")
		return nil
	}

	today := s.now()
	period := ledger.PeriodOf(today)

	var decisions []notification.Decision
	for _, c := range companies {
		// A storage failure for one company skips that company only.
		payments, err := s.paymentRepo.ListByCompanyAndPeriod(ctx, c.ID, period)
		if err != nil {
			entry.WithField("company_id", c.ID).Errorf("failed to load payments, skipping company: %v", err)
			continue
		}
		decisions = append(decisions, EvaluateCompany(today, settings, *c, payments)...)
	}

	entry.WithFields(logrus.Fields{
		"companies": len(companies),
		"decisions": len(decisions),
	}).Info("evaluation finished, dispatching")

	s.dispatcher.Dispatch(ctx, settings, decisions)
	return nil
}

func (s *NotificationServiceImpl) SendTestNotification(ctx context.Context, companyID int64) (bool, error) {
	settings, err := s.loadSettingsSnapshot(ctx)
	if err != nil {
		return false, err
	}

	c, err := s.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return false, fmt.Errorf("failed to load company %d: %w", companyID, err)
	}

	// A test send ignores the channel master flags: every channel with
	// contact data is attempted.
	var channels []notification.Channel
	if c.PhoneNumber != "" {
		channels = append(channels, notification.ChannelSMS)
	}
	if c.Email != "" {
		channels = append(channels, notification.ChannelEmail)
	}

	now := s.now()
	dec := &notification.Decision{
		Company:       *c,
		Category:      notification.CategoryRentDue,
		Channels:      channels,
		DueDate:       time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()),
		DaysRemaining: 0,
	}

	s.logger.WithFields(logrus.Fields{
		"company_id": c.ID,
		"channels":   len(channels),
	}).Info("sending manual test notification")

	return s.dispatcher.DispatchTest(ctx, settings, dec)
}
