package company

import (
	"time"

	"github.com/shopspring/decimal"
)

// TenancyKind distinguishes companies that physically occupy an office
// from address-only (non-resident) tenants.
type TenancyKind string

const (
	KindResident    TenancyKind = "resident"
	KindNonResident TenancyKind = "non-resident"
)

// Company represents a tenant company.
// The contract date is treated as immutable once payments exist for the
// company: the rent due-day formula derives from its day-of-month.
type Company struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	TenancyKind   TenancyKind     `json:"tenancy_kind"`
	ContractDate  time.Time       `json:"contract_date"`
	MonthlyFee    decimal.Decimal `json:"monthly_fee"`
	ContactPerson string          `json:"contact_person"`
	PhoneNumber   string          `json:"phone_number"`
	Email         string          `json:"email"`
	Notes         string          `json:"notes"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
