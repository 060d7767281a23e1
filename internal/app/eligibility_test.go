package app

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"office_manager_notifier/internal/domain/company"
	"office_manager_notifier/internal/domain/ledger"
	"office_manager_notifier/internal/domain/notification"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func allEnabledSettings() *notification.Settings {
	s := notification.DefaultSettings()
	s.SmsAPIKey = "key"
	s.SmsSenderNumber = "0200000000"
	s.EmailSmtpHost = "smtp.example.com"
	s.EmailAddress = "office@example.com"
	s.EmailPassword = "secret"
	return s
}

func testCompany(contractDay int, fee int64) company.Company {
	return company.Company{
		ID:           1,
		Name:         "테스트물산",
		TenancyKind:  company.KindResident,
		ContractDate: date(2023, time.January, contractDay),
		MonthlyFee:   decimal.NewFromInt(fee),
		PhoneNumber:  "01012345678",
		Email:        "tenant@example.com",
		IsActive:     true,
	}
}

func payment(companyID int64, amount int64, period string) *ledger.Payment {
	return &ledger.Payment{CompanyID: companyID, Amount: decimal.NewFromInt(amount), Period: period}
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 29, DaysInMonth(2024, time.February)) // leap year
	assert.Equal(t, 28, DaysInMonth(2023, time.February))
	assert.Equal(t, 31, DaysInMonth(2024, time.January))
	assert.Equal(t, 30, DaysInMonth(2024, time.April))
	assert.Equal(t, 31, DaysInMonth(2024, time.December))
}

func TestDueDayClampsToMonthLength(t *testing.T) {
	assert.Equal(t, 29, DueDay(31, 2024, time.February))
	assert.Equal(t, 28, DueDay(31, 2023, time.February))
	assert.Equal(t, 30, DueDay(31, 2024, time.April))
	assert.Equal(t, 15, DueDay(15, 2024, time.February))
}

func TestUnpaidAmountSumsPartialPayments(t *testing.T) {
	fee := decimal.NewFromInt(300000)

	unpaid := UnpaidAmount(fee, nil)
	assert.True(t, unpaid.Equal(decimal.NewFromInt(300000)))

	unpaid = UnpaidAmount(fee, []*ledger.Payment{
		payment(1, 100000, "2024-03"),
		payment(1, 50000, "2024-03"),
	})
	assert.True(t, unpaid.Equal(decimal.NewFromInt(150000)))

	// Overpayment yields a non-positive balance.
	unpaid = UnpaidAmount(fee, []*ledger.Payment{payment(1, 400000, "2024-03")})
	assert.False(t, unpaid.IsPositive())
}

func TestRentDueOffsetSevenDays(t *testing.T) {
	// Contract day 31, February 2024 (leap): due day clamps to 29.
	c := testCompany(31, 500000)
	paid := []*ledger.Payment{payment(1, 500000, "2024-02")}

	// 2024-02-22: 29 - 22 = 7 days remaining.
	decisions := EvaluateCompany(date(2024, time.February, 22), allEnabledSettings(), c, paid)
	require.Len(t, decisions, 1)
	d := decisions[0]
	assert.Equal(t, notification.CategoryRentDue, d.Category)
	assert.Equal(t, 7, d.DaysRemaining)
	assert.Equal(t, date(2024, time.February, 29).Day(), d.DueDate.Day())
}

func TestRentDueOffsetsAreDisjoint(t *testing.T) {
	c := testCompany(31, 500000)
	paid := []*ledger.Payment{payment(1, 500000, "2024-02")}

	// 2024-02-28: one day before the clamped due day; no offset matches.
	decisions := EvaluateCompany(date(2024, time.February, 28), allEnabledSettings(), c, paid)
	assert.Empty(t, decisions)

	// At most one rent-due decision for any day of the month.
	for day := 1; day <= 29; day++ {
		decisions := EvaluateCompany(date(2024, time.February, day), allEnabledSettings(), c, paid)
		rentCount := 0
		for _, d := range decisions {
			if d.Category == notification.CategoryRentDue {
				rentCount++
			}
		}
		assert.LessOrEqual(t, rentCount, 1, "day %d", day)
	}
}

func TestRentDueRespectsOffsetToggles(t *testing.T) {
	c := testCompany(15, 500000)
	paid := []*ledger.Payment{payment(1, 500000, "2024-03")}

	s := allEnabledSettings()
	s.RentWeekBefore = false
	decisions := EvaluateCompany(date(2024, time.March, 8), s, c, paid) // 7 days before the 15th
	assert.Empty(t, decisions)

	s.RentWeekBefore = true
	decisions = EvaluateCompany(date(2024, time.March, 8), s, c, paid)
	require.Len(t, decisions, 1)
	assert.Equal(t, 7, decisions[0].DaysRemaining)
}

func TestPastDueDateNeverMatches(t *testing.T) {
	c := testCompany(5, 500000)
	paid := []*ledger.Payment{payment(1, 500000, "2024-03")}

	// Day 20: daysRemaining = -15.
	decisions := EvaluateCompany(date(2024, time.March, 20), allEnabledSettings(), c, paid)
	assert.Empty(t, decisions)
}

func TestUnpaidEarlyWindow(t *testing.T) {
	c := testCompany(20, 300000)

	decisions := EvaluateCompany(date(2024, time.March, 3), allEnabledSettings(), c, nil)
	require.Len(t, decisions, 1)
	d := decisions[0]
	assert.Equal(t, notification.CategoryUnpaid, d.Category)
	assert.Equal(t, notification.WindowEarlyMonth, d.Window)
	assert.Equal(t, "2024-03", d.Period)
	assert.True(t, d.UnpaidAmount.Equal(decimal.NewFromInt(300000)))
}

func TestUnpaidWindowBoundaries(t *testing.T) {
	c := testCompany(20, 300000)
	s := allEnabledSettings()

	cases := []struct {
		day      int
		eligible bool
	}{
		{1, true}, {5, true}, {6, false},
		{12, false}, {13, true}, {17, true}, {18, false},
		{24, false}, {25, true}, {31, true},
	}
	for _, tc := range cases {
		decisions := EvaluateCompany(date(2024, time.March, tc.day), s, c, nil)
		unpaidCount := 0
		for _, d := range decisions {
			if d.Category == notification.CategoryUnpaid {
				unpaidCount++
			}
		}
		if tc.eligible {
			assert.Equal(t, 1, unpaidCount, "day %d should be in a window", tc.day)
		} else {
			assert.Zero(t, unpaidCount, "day %d should not be in a window", tc.day)
		}
	}
}

func TestUnpaidEndWindowTracksMonthLength(t *testing.T) {
	c := testCompany(20, 300000)
	s := allEnabledSettings()

	// Feb 2023 has 28 days; the end window is [25, 28].
	decisions := EvaluateCompany(date(2023, time.February, 28), s, c, nil)
	require.Len(t, decisions, 1)
	assert.Equal(t, notification.WindowEndMonth, decisions[0].Window)
}

func TestUnpaidNotEligibleWhenPaidInFull(t *testing.T) {
	c := testCompany(20, 300000)
	paid := []*ledger.Payment{
		payment(1, 200000, "2024-03"),
		payment(1, 100000, "2024-03"),
	}
	decisions := EvaluateCompany(date(2024, time.March, 3), allEnabledSettings(), c, paid)
	assert.Empty(t, decisions)
}

func TestUnpaidWindowToggles(t *testing.T) {
	c := testCompany(20, 300000)
	s := allEnabledSettings()
	s.UnpaidEarlyMonth = false

	decisions := EvaluateCompany(date(2024, time.March, 3), s, c, nil)
	assert.Empty(t, decisions)
}

func TestChannelGating(t *testing.T) {
	s := allEnabledSettings()

	noEmail := testCompany(20, 300000)
	noEmail.Email = ""
	decisions := EvaluateCompany(date(2024, time.March, 3), s, noEmail, nil)
	require.Len(t, decisions, 1)
	assert.Equal(t, []notification.Channel{notification.ChannelSMS}, decisions[0].Channels)

	noPhone := testCompany(20, 300000)
	noPhone.PhoneNumber = ""
	decisions = EvaluateCompany(date(2024, time.March, 3), s, noPhone, nil)
	require.Len(t, decisions, 1)
	assert.Equal(t, []notification.Channel{notification.ChannelEmail}, decisions[0].Channels)

	s.EnableSmsNotifications = false
	both := testCompany(20, 300000)
	decisions = EvaluateCompany(date(2024, time.March, 3), s, both, nil)
	require.Len(t, decisions, 1)
	assert.Equal(t, []notification.Channel{notification.ChannelEmail}, decisions[0].Channels)

	// No reachable channel at all: nothing to decide.
	unreachable := testCompany(20, 300000)
	unreachable.PhoneNumber = ""
	unreachable.Email = ""
	decisions = EvaluateCompany(date(2024, time.March, 3), allEnabledSettings(), unreachable, nil)
	assert.Empty(t, decisions)
}
