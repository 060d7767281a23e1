package app

import (
	"time"

	"github.com/shopspring/decimal"

	"office_manager_notifier/internal/domain/company"
	"office_manager_notifier/internal/domain/ledger"
	"office_manager_notifier/internal/domain/notification"
)

// Eligibility evaluation: a pure function of (today, settings snapshot,
// company, payment history) producing the reminders that may fire today.
// All I/O, deduplication and sending happens downstream in the dispatcher.

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DueDay computes the rent due day for a contract day in a given month.
// Contract days beyond the month's length clamp to the last day, so a
// contract signed on the 31st is due on Feb 28 (29 in a leap year).
func DueDay(contractDay, year int, month time.Month) int {
	if last := DaysInMonth(year, month); contractDay > last {
		return last
	}
	return contractDay
}

// UnpaidAmount returns fee minus the sum of the company's confirmed-or-not
// payments for the period. Partial payments are summed; the result may be
// negative when a tenant overpaid.
func UnpaidAmount(fee decimal.Decimal, payments []*ledger.Payment) decimal.Decimal {
	paid := decimal.Zero
	for _, p := range payments {
		paid = paid.Add(p.Amount)
	}
	return fee.Sub(paid)
}

// unpaidWindows is evaluated independently per window: each enabled window
// whose day range contains today yields its own decision, and the per-day
// dedup collapses duplicates to one send.
func unpaidWindows(s *notification.Settings, day, lastDay int) []notification.UnpaidWindow {
	var windows []notification.UnpaidWindow
	if s.UnpaidEarlyMonth && day >= 1 && day <= 5 {
		windows = append(windows, notification.WindowEarlyMonth)
	}
	if s.UnpaidMidMonth && day >= 13 && day <= 17 {
		windows = append(windows, notification.WindowMidMonth)
	}
	if s.UnpaidEndMonth && day >= 25 && day <= lastDay {
		windows = append(windows, notification.WindowEndMonth)
	}
	return windows
}

// channelCandidates gates each channel on its master flag and a non-empty
// contact field. No decision ever carries a channel the company cannot be
// reached on.
func channelCandidates(s *notification.Settings, c *company.Company) []notification.Channel {
	var channels []notification.Channel
	if s.EnableSmsNotifications && c.PhoneNumber != "" {
		channels = append(channels, notification.ChannelSMS)
	}
	if s.EnableEmailNotifications && c.Email != "" {
		channels = append(channels, notification.ChannelEmail)
	}
	return channels
}

// EvaluateCompany returns the ordered reminder decisions for one company
// on the given day. It is called once per (company, today) pair and has no
// side effects.
func EvaluateCompany(today time.Time, settings *notification.Settings, c company.Company, payments []*ledger.Payment) []notification.Decision {
	channels := channelCandidates(settings, &c)
	if len(channels) == 0 {
		return nil
	}

	var decisions []notification.Decision

	// Unpaid-balance reminders.
	period := ledger.PeriodOf(today)
	lastDay := DaysInMonth(today.Year(), today.Month())
	unpaid := UnpaidAmount(c.MonthlyFee, payments)
	if unpaid.IsPositive() {
		for _, w := range unpaidWindows(settings, today.Day(), lastDay) {
			decisions = append(decisions, notification.Decision{
				Company:      c,
				Category:     notification.CategoryUnpaid,
				Channels:     channels,
				Period:       period,
				UnpaidAmount: unpaid,
				Window:       w,
			})
		}
	}

	// Rent-due reminder. The due date always falls inside the current
	// month, so the remaining days reduce to day-of-month arithmetic.
	// Past-due dates yield negative values, which match no offset.
	dueDay := DueDay(c.ContractDate.Day(), today.Year(), today.Month())
	daysRemaining := dueDay - today.Day()

	eligible := false
	switch daysRemaining {
	case 7:
		eligible = settings.RentWeekBefore
	case 3:
		eligible = settings.RentThreeDaysBefore
	case 0:
		eligible = settings.RentDueDate
	}
	if eligible {
		decisions = append(decisions, notification.Decision{
			Company:       c,
			Category:      notification.CategoryRentDue,
			Channels:      channels,
			DueDate:       time.Date(today.Year(), today.Month(), dueDay, 0, 0, 0, 0, today.Location()),
			DaysRemaining: daysRemaining,
		})
	}

	return decisions
}
