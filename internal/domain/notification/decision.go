package notification

import (
	"time"

	"github.com/shopspring/decimal"

	"office_manager_notifier/internal/domain/company"
)

// UnpaidWindow names the part of the month an unpaid-balance reminder
// fired in. Overlapping windows on one day produce independent decisions;
// the per-day dedup collapses them to a single send.
type UnpaidWindow string

const (
	WindowEarlyMonth UnpaidWindow = "early"
	WindowMidMonth   UnpaidWindow = "mid"
	WindowEndMonth   UnpaidWindow = "end"
)

// Decision is one reminder the evaluator deemed eligible for a company on
// a given day. The company is carried by value: the scheduler never
// mutates tenant records.
type Decision struct {
	Company  company.Company
	Category Category
	Channels []Channel

	// Unpaid-balance context (Category == CategoryUnpaid).
	Period       string
	UnpaidAmount decimal.Decimal
	Window       UnpaidWindow

	// Rent-due context (Category == CategoryRentDue).
	DueDate       time.Time
	DaysRemaining int
}
