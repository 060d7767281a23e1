package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is an operating expense of the office itself. It shares the
// period-keyed persistence pattern with payments but is never consumed by
// the notification scheduler.
type Expense struct {
	ID          int64           `json:"id"`
	ExpenseDate time.Time       `json:"expense_date"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Period      string          `json:"period"` // "YYYY-MM"
	Notes       string          `json:"notes"`
	CreatedAt   time.Time       `json:"created_at"`
}
