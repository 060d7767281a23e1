package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"office_manager_notifier/internal/domain/notification"
	"office_manager_notifier/internal/infra/metrics"
)

// fakeLogRepo is an in-memory notification log: appended entries become
// visible to subsequent dedup checks, mirroring the real store.
type fakeLogRepo struct {
	mu      sync.Mutex
	entries []*notification.Log
	hasErr  error
}

func (f *fakeLogRepo) Append(_ context.Context, l *notification.Log) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, l)
	return nil
}

func (f *fakeLogRepo) HasEntryForDay(_ context.Context, companyID int64, category notification.Category, channel notification.Channel, day time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.hasErr != nil {
		return false, f.hasErr
	}
	for _, e := range f.entries {
		if e.CompanyID == companyID && e.Category == category && e.Channel == channel &&
			e.SentOn.Year() == day.Year() && e.SentOn.Month() == day.Month() && e.SentOn.Day() == day.Day() {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLogRepo) List(_ context.Context, _ int64, _ notification.Category, _ int) ([]*notification.Log, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*notification.Log(nil), f.entries...), nil
}

func (f *fakeLogRepo) all() []*notification.Log {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*notification.Log(nil), f.entries...)
}

type fakeSmsSender struct {
	mu    sync.Mutex
	sent  []string
	fails map[string]error // phone number -> error
}

func (f *fakeSmsSender) SendSms(_ context.Context, _ *notification.Settings, phoneNumber, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.fails[phoneNumber]; ok {
		return err
	}
	f.sent = append(f.sent, phoneNumber)
	return nil
}

type fakeEmailSender struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeEmailSender) SendEmail(_ context.Context, _ *notification.Settings, address, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, address)
	return nil
}

func newTestDispatcher(repo *fakeLogRepo, smsSender *fakeSmsSender, emailSender *fakeEmailSender) *Dispatcher {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	m := metrics.New(prometheus.NewRegistry())
	return NewDispatcher(repo, smsSender, emailSender, m, logger, time.Second, 4)
}

func unpaidDecision(companyID int64, name string, channels ...notification.Channel) notification.Decision {
	c := testCompany(20, 300000)
	c.ID = companyID
	c.Name = name
	return notification.Decision{
		Company:      c,
		Category:     notification.CategoryUnpaid,
		Channels:     channels,
		Period:       "2024-03",
		UnpaidAmount: decimal.NewFromInt(300000),
		Window:       notification.WindowEarlyMonth,
	}
}

func TestDispatchSendsAndRecords(t *testing.T) {
	repo := &fakeLogRepo{}
	smsSender := &fakeSmsSender{}
	emailSender := &fakeEmailSender{}
	d := newTestDispatcher(repo, smsSender, emailSender)

	decisions := []notification.Decision{
		unpaidDecision(1, "가나상사", notification.ChannelSMS, notification.ChannelEmail),
	}
	d.Dispatch(context.Background(), allEnabledSettings(), decisions)

	entries := repo.all()
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.True(t, e.Success)
		assert.Empty(t, e.ErrorDetail)
		assert.Equal(t, int64(1), e.CompanyID)
		assert.Equal(t, "가나상사", e.CompanyName)
		assert.NotEmpty(t, e.Message)
	}
	assert.Len(t, smsSender.sent, 1)
	assert.Len(t, emailSender.sent, 1)
}

func TestDispatchIsIdempotentPerDay(t *testing.T) {
	repo := &fakeLogRepo{}
	smsSender := &fakeSmsSender{}
	emailSender := &fakeEmailSender{}
	d := newTestDispatcher(repo, smsSender, emailSender)

	decisions := []notification.Decision{
		unpaidDecision(1, "가나상사", notification.ChannelSMS, notification.ChannelEmail),
	}
	d.Dispatch(context.Background(), allEnabledSettings(), decisions)
	d.Dispatch(context.Background(), allEnabledSettings(), decisions)

	// Second pass finds today's entries and sends nothing.
	assert.Len(t, repo.all(), 2)
	assert.Len(t, smsSender.sent, 1)
	assert.Len(t, emailSender.sent, 1)
}

func TestOverlappingWindowDecisionsCollapse(t *testing.T) {
	repo := &fakeLogRepo{}
	smsSender := &fakeSmsSender{}
	d := newTestDispatcher(repo, smsSender, &fakeEmailSender{})

	first := unpaidDecision(1, "가나상사", notification.ChannelSMS)
	second := first
	second.Window = notification.WindowMidMonth

	d.Dispatch(context.Background(), allEnabledSettings(), []notification.Decision{first, second})

	assert.Len(t, repo.all(), 1)
	assert.Len(t, smsSender.sent, 1)
}

func TestSendFailureIsRecordedAndContained(t *testing.T) {
	repo := &fakeLogRepo{}
	smsSender := &fakeSmsSender{fails: map[string]error{"01000000001": errors.New("provider rejected")}}
	d := newTestDispatcher(repo, smsSender, &fakeEmailSender{})

	failing := unpaidDecision(1, "실패상사", notification.ChannelSMS)
	failing.Company.PhoneNumber = "01000000001"
	healthy := unpaidDecision(2, "정상상사", notification.ChannelSMS)

	d.Dispatch(context.Background(), allEnabledSettings(), []notification.Decision{failing, healthy})

	entries := repo.all()
	require.Len(t, entries, 2)
	byCompany := map[int64]*notification.Log{}
	for _, e := range entries {
		byCompany[e.CompanyID] = e
	}
	require.Contains(t, byCompany, int64(1))
	require.Contains(t, byCompany, int64(2))
	assert.False(t, byCompany[1].Success)
	assert.Contains(t, byCompany[1].ErrorDetail, "provider rejected")
	assert.True(t, byCompany[2].Success)
}

func TestUnconfiguredChannelSkippedForWholePass(t *testing.T) {
	repo := &fakeLogRepo{}
	smsSender := &fakeSmsSender{}
	emailSender := &fakeEmailSender{}
	d := newTestDispatcher(repo, smsSender, emailSender)

	settings := allEnabledSettings()
	settings.SmsAPIKey = "" // SMS enabled but unusable

	decisions := []notification.Decision{
		unpaidDecision(1, "가나상사", notification.ChannelSMS, notification.ChannelEmail),
		unpaidDecision(2, "다라상사", notification.ChannelSMS, notification.ChannelEmail),
	}
	d.Dispatch(context.Background(), settings, decisions)

	// No SMS attempt was made for any company, and none was logged.
	assert.Empty(t, smsSender.sent)
	assert.Len(t, emailSender.sent, 2)
	for _, e := range repo.all() {
		assert.Equal(t, notification.ChannelEmail, e.Channel)
	}
}

func TestDedupLookupFailureSkipsChannelOnly(t *testing.T) {
	repo := &fakeLogRepo{hasErr: errors.New("storage down")}
	smsSender := &fakeSmsSender{}
	d := newTestDispatcher(repo, smsSender, &fakeEmailSender{})

	d.Dispatch(context.Background(), allEnabledSettings(), []notification.Decision{
		unpaidDecision(1, "가나상사", notification.ChannelSMS),
	})

	assert.Empty(t, smsSender.sent)
	assert.Empty(t, repo.all())
}

func TestDispatchTestBypassesDedup(t *testing.T) {
	repo := &fakeLogRepo{}
	smsSender := &fakeSmsSender{}
	emailSender := &fakeEmailSender{}
	d := newTestDispatcher(repo, smsSender, emailSender)

	c := testCompany(20, 300000)
	dec := &notification.Decision{
		Company:       c,
		Category:      notification.CategoryRentDue,
		Channels:      []notification.Channel{notification.ChannelSMS, notification.ChannelEmail},
		DueDate:       time.Now(),
		DaysRemaining: 0,
	}

	ok, err := d.DispatchTest(context.Background(), allEnabledSettings(), dec)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = d.DispatchTest(context.Background(), allEnabledSettings(), dec)
	require.NoError(t, err)
	assert.True(t, ok)

	// Both runs sent: the dedup guard does not apply to test sends.
	assert.Len(t, smsSender.sent, 2)
	assert.Len(t, emailSender.sent, 2)
	assert.Len(t, repo.all(), 4)
}

func TestDispatchTestSkipsUnconfiguredChannelAndAttemptsRest(t *testing.T) {
	repo := &fakeLogRepo{}
	smsSender := &fakeSmsSender{}
	emailSender := &fakeEmailSender{}
	d := newTestDispatcher(repo, smsSender, emailSender)

	// Email-only deployment: SMS credentials were never entered.
	settings := allEnabledSettings()
	settings.SmsAPIKey = ""

	c := testCompany(20, 300000)
	dec := &notification.Decision{
		Company:  c,
		Category: notification.CategoryRentDue,
		Channels: []notification.Channel{notification.ChannelSMS, notification.ChannelEmail},
	}

	ok, err := d.DispatchTest(context.Background(), settings, dec)
	require.NoError(t, err)
	assert.False(t, ok)

	// The configured email channel still went out; SMS was only skipped.
	assert.Empty(t, smsSender.sent)
	assert.Len(t, emailSender.sent, 1)
	entries := repo.all()
	require.Len(t, entries, 1)
	assert.Equal(t, notification.ChannelEmail, entries[0].Channel)
}

type settingsCapturingSender struct {
	mu       sync.Mutex
	captured []*notification.Settings
}

func (s *settingsCapturingSender) SendSms(_ context.Context, settings *notification.Settings, _, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.captured = append(s.captured, settings)
	return nil
}

func TestDispatchSendsWithPassSnapshot(t *testing.T) {
	capturing := &settingsCapturingSender{}
	repo := &fakeLogRepo{}
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	m := metrics.New(prometheus.NewRegistry())
	d := NewDispatcher(repo, capturing, &fakeEmailSender{}, m, logger, time.Second, 4)

	snapshot := allEnabledSettings()
	d.Dispatch(context.Background(), snapshot, []notification.Decision{
		unpaidDecision(1, "가나상사", notification.ChannelSMS),
	})

	// The sender sees the exact snapshot of the pass, never a re-read.
	require.Len(t, capturing.captured, 1)
	assert.Same(t, snapshot, capturing.captured[0])
}

func TestDispatchTestErrorsWhenNoChannelConfigured(t *testing.T) {
	d := newTestDispatcher(&fakeLogRepo{}, &fakeSmsSender{}, &fakeEmailSender{})

	settings := allEnabledSettings()
	settings.SmsAPIKey = ""
	settings.EmailSmtpHost = ""

	c := testCompany(20, 300000)
	dec := &notification.Decision{
		Company:  c,
		Category: notification.CategoryRentDue,
		Channels: []notification.Channel{notification.ChannelSMS, notification.ChannelEmail},
	}
	_, err := d.DispatchTest(context.Background(), settings, dec)
	assert.ErrorIs(t, err, ErrSmsNotConfigured)
	assert.ErrorIs(t, err, ErrEmailNotConfigured)
}
