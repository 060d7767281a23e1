package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"office_manager_notifier/internal/domain/company"
	"office_manager_notifier/internal/domain/ledger"
	"office_manager_notifier/internal/infra/metrics"
)

type fakeCompanyRepo struct {
	companies []*company.Company
}

func (f *fakeCompanyRepo) Create(_ context.Context, _ *company.Company) error { return nil }
func (f *fakeCompanyRepo) Update(_ context.Context, _ *company.Company) error { return nil }
func (f *fakeCompanyRepo) Delete(_ context.Context, _ int64) error            { return nil }

func (f *fakeCompanyRepo) GetByID(_ context.Context, id int64) (*company.Company, error) {
	for _, c := range f.companies {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, errors.New("company not found")
}

func (f *fakeCompanyRepo) ListActive(_ context.Context) ([]*company.Company, error) {
	active := make([]*company.Company, 0, len(f.companies))
	for _, c := range f.companies {
		if c.IsActive {
			active = append(active, c)
		}
	}
	return active, nil
}

func (f *fakeCompanyRepo) ListAll(_ context.Context) ([]*company.Company, error) {
	return f.companies, nil
}

type fakePaymentRepo struct {
	payments map[int64][]*ledger.Payment
	failFor  map[int64]error
	queried  []int64
}

func (f *fakePaymentRepo) Create(_ context.Context, _ *ledger.Payment) error { return nil }
func (f *fakePaymentRepo) Delete(_ context.Context, _ int64) error           { return nil }

func (f *fakePaymentRepo) GetByID(_ context.Context, _ int64) (*ledger.Payment, error) {
	return nil, errors.New("not implemented")
}

func (f *fakePaymentRepo) ListByPeriod(_ context.Context, _ string) ([]*ledger.Payment, error) {
	return nil, nil
}

func (f *fakePaymentRepo) ListByCompanyAndPeriod(_ context.Context, companyID int64, _ string) ([]*ledger.Payment, error) {
	f.queried = append(f.queried, companyID)
	if err, ok := f.failFor[companyID]; ok {
		return nil, err
	}
	return f.payments[companyID], nil
}

func activeCompany(id int64, name, phone, email string) *company.Company {
	return &company.Company{
		ID:           id,
		Name:         name,
		TenancyKind:  company.KindResident,
		ContractDate: date(2023, time.January, 20),
		MonthlyFee:   decimal.NewFromInt(300000),
		PhoneNumber:  phone,
		Email:        email,
		IsActive:     true,
	}
}

func newTestNotificationService(
	companies *fakeCompanyRepo,
	payments *fakePaymentRepo,
	settings *fakeSettingsRepo,
	logRepo *fakeLogRepo,
	smsSender *fakeSmsSender,
	emailSender *fakeEmailSender,
) *NotificationServiceImpl {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	m := metrics.New(prometheus.NewRegistry())
	d := NewDispatcher(logRepo, smsSender, emailSender, m, logger, time.Second, 4)
	return NewNotificationService(companies, payments, settings, d, m, logger)
}

func TestRunPassSkipsCompanyWithStorageFailure(t *testing.T) {
	companies := &fakeCompanyRepo{companies: []*company.Company{
		activeCompany(1, "고장상사", "01000000001", "one@example.com"),
		activeCompany(2, "정상상사", "01000000002", "two@example.com"),
	}}
	payments := &fakePaymentRepo{
		failFor: map[int64]error{1: errors.New("storage down")},
	}
	logRepo := &fakeLogRepo{}
	smsSender := &fakeSmsSender{}
	emailSender := &fakeEmailSender{}

	svc := newTestNotificationService(companies, payments, &fakeSettingsRepo{saved: allEnabledSettings()}, logRepo, smsSender, emailSender)
	// A day inside the early unpaid window, far from any rent-due offset.
	svc.now = func() time.Time { return date(2024, time.March, 3) }

	require.NoError(t, svc.RunPass(context.Background()))

	// Both companies were evaluated; only the healthy one produced sends.
	assert.ElementsMatch(t, []int64{1, 2}, payments.queried)
	entries := logRepo.all()
	require.NotEmpty(t, entries)
	for _, e := range entries {
		assert.Equal(t, int64(2), e.CompanyID)
	}
	assert.Equal(t, []string{"01000000002"}, smsSender.sent)
	assert.Equal(t, []string{"two@example.com"}, emailSender.sent)
}

func TestRunPassUsesDefaultsWhenNoSettingsSaved(t *testing.T) {
	companies := &fakeCompanyRepo{companies: []*company.Company{
		activeCompany(1, "가나상사", "01000000001", "one@example.com"),
	}}
	payments := &fakePaymentRepo{}
	logRepo := &fakeLogRepo{}
	smsSender := &fakeSmsSender{}
	emailSender := &fakeEmailSender{}

	// Empty settings repo: defaults enable every reminder but carry no
	// credentials, so both channels sit the pass out.
	svc := newTestNotificationService(companies, payments, &fakeSettingsRepo{}, logRepo, smsSender, emailSender)
	svc.now = func() time.Time { return date(2024, time.March, 3) }

	require.NoError(t, svc.RunPass(context.Background()))
	assert.Empty(t, smsSender.sent)
	assert.Empty(t, emailSender.sent)
	assert.Empty(t, logRepo.all())
}

func TestRunPassDoesNothingWhenAllChannelsDisabled(t *testing.T) {
	companies := &fakeCompanyRepo{companies: []*company.Company{
		activeCompany(1, "가나상사", "01000000001", "one@example.com"),
	}}
	payments := &fakePaymentRepo{}

	settings := allEnabledSettings()
	settings.EnableSmsNotifications = false
	settings.EnableEmailNotifications = false

	svc := newTestNotificationService(companies, payments, &fakeSettingsRepo{saved: settings}, &fakeLogRepo{}, &fakeSmsSender{}, &fakeEmailSender{})
	svc.now = func() time.Time { return date(2024, time.March, 3) }

	require.NoError(t, svc.RunPass(context.Background()))
	assert.Empty(t, payments.queried)
}
