package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodLayout is the billing-period key format ("YYYY-MM"). Stored data
// depends on this exact ASCII form; it must never change.
const PeriodLayout = "2006-01"

// PeriodOf returns the billing-period key for a given date.
func PeriodOf(t time.Time) string {
	return t.Format(PeriodLayout)
}

// Payment is a single payment a company made against a billing period.
// A company may have zero, one, or many payments for the same period;
// partial payments are summed when computing the outstanding balance.
type Payment struct {
	ID          int64           `json:"id"`
	CompanyID   int64           `json:"company_id"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate time.Time       `json:"payment_date"`
	Period      string          `json:"period"` // "YYYY-MM"
	Method      string          `json:"method"`
	Notes       string          `json:"notes"`
	IsConfirmed bool            `json:"is_confirmed"`
	CreatedAt   time.Time       `json:"created_at"`
}
