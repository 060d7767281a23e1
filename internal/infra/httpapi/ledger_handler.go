package httpapi

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"office_manager_notifier/internal/app"
	"office_manager_notifier/internal/domain/company"
	"office_manager_notifier/internal/domain/ledger"
	idb "office_manager_notifier/internal/infra/database"
)

type LedgerHandler struct {
	companies company.Repository
	payments  ledger.PaymentRepository
	expenses  ledger.ExpenseRepository
}

func NewLedgerHandler(companies company.Repository, payments ledger.PaymentRepository, expenses ledger.ExpenseRepository) *LedgerHandler {
	return &LedgerHandler{companies: companies, payments: payments, expenses: expenses}
}

// currentOrQueriedPeriod returns the "period" query param, defaulting to
// the current month.
func currentOrQueriedPeriod(c *fiber.Ctx) (string, error) {
	period := c.Query("period")
	if period == "" {
		return ledger.PeriodOf(time.Now()), nil
	}
	if _, err := time.Parse(ledger.PeriodLayout, period); err != nil {
		return "", fmt.Errorf("invalid period %q, want YYYY-MM", period)
	}
	return period, nil
}

type paymentPayload struct {
	CompanyID   int64           `json:"company_id"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate string          `json:"payment_date"` // "2006-01-02"
	Period      string          `json:"period"`       // "YYYY-MM"
	Method      string          `json:"method"`
	Notes       string          `json:"notes"`
	IsConfirmed *bool           `json:"is_confirmed"`
}

func (h *LedgerHandler) ListPayments(c *fiber.Ctx) error {
	period, err := currentOrQueriedPeriod(c)
	if err != nil {
		return badRequest(c, err)
	}
	companyID := int64(c.QueryInt("company_id"))

	var payments []*ledger.Payment
	if companyID > 0 {
		payments, err = h.payments.ListByCompanyAndPeriod(c.Context(), companyID, period)
	} else {
		payments, err = h.payments.ListByPeriod(c.Context(), period)
	}
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(payments)
}

func (h *LedgerHandler) CreatePayment(c *fiber.Ctx) error {
	var payload paymentPayload
	if err := c.BodyParser(&payload); err != nil {
		return badRequest(c, err)
	}
	if payload.CompanyID <= 0 {
		return badRequest(c, fmt.Errorf("company_id is required"))
	}
	paymentDate, err := time.Parse("2006-01-02", payload.PaymentDate)
	if err != nil {
		return badRequest(c, fmt.Errorf("invalid payment_date: %w", err))
	}
	period := payload.Period
	if period == "" {
		period = ledger.PeriodOf(paymentDate)
	} else if _, err := time.Parse(ledger.PeriodLayout, period); err != nil {
		return badRequest(c, fmt.Errorf("invalid period %q, want YYYY-MM", period))
	}
	confirmed := true
	if payload.IsConfirmed != nil {
		confirmed = *payload.IsConfirmed
	}

	p := &ledger.Payment{
		CompanyID:   payload.CompanyID,
		Amount:      payload.Amount,
		PaymentDate: paymentDate,
		Period:      period,
		Method:      payload.Method,
		Notes:       payload.Notes,
		IsConfirmed: confirmed,
	}
	if err := h.payments.Create(c.Context(), p); err != nil {
		return internalError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *LedgerHandler) DeletePayment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, err)
	}
	if err := h.payments.Delete(c.Context(), int64(id)); err != nil {
		if errors.Is(err, idb.ErrPaymentNotFound) {
			return notFound(c, err)
		}
		return internalError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type expensePayload struct {
	ExpenseDate string          `json:"expense_date"` // "2006-01-02"
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Period      string          `json:"period"`
	Notes       string          `json:"notes"`
}

func (h *LedgerHandler) ListExpenses(c *fiber.Ctx) error {
	period, err := currentOrQueriedPeriod(c)
	if err != nil {
		return badRequest(c, err)
	}
	expenses, err := h.expenses.ListByPeriod(c.Context(), period)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(expenses)
}

func (h *LedgerHandler) CreateExpense(c *fiber.Ctx) error {
	var payload expensePayload
	if err := c.BodyParser(&payload); err != nil {
		return badRequest(c, err)
	}
	expenseDate, err := time.Parse("2006-01-02", payload.ExpenseDate)
	if err != nil {
		return badRequest(c, fmt.Errorf("invalid expense_date: %w", err))
	}
	if payload.Category == "" {
		return badRequest(c, fmt.Errorf("category is required"))
	}
	period := payload.Period
	if period == "" {
		period = ledger.PeriodOf(expenseDate)
	} else if _, err := time.Parse(ledger.PeriodLayout, period); err != nil {
		return badRequest(c, fmt.Errorf("invalid period %q, want YYYY-MM", period))
	}

	e := &ledger.Expense{
		ExpenseDate: expenseDate,
		Category:    payload.Category,
		Amount:      payload.Amount,
		Description: payload.Description,
		Period:      period,
		Notes:       payload.Notes,
	}
	if err := h.expenses.Create(c.Context(), e); err != nil {
		return internalError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(e)
}

func (h *LedgerHandler) DeleteExpense(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, err)
	}
	if err := h.expenses.Delete(c.Context(), int64(id)); err != nil {
		if errors.Is(err, idb.ErrExpenseNotFound) {
			return notFound(c, err)
		}
		return internalError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type unpaidRow struct {
	CompanyID   int64           `json:"company_id"`
	CompanyName string          `json:"company_name"`
	MonthlyFee  decimal.Decimal `json:"monthly_fee"`
	Paid        decimal.Decimal `json:"paid"`
	Unpaid      decimal.Decimal `json:"unpaid"`
}

// UnpaidSummary reports each active company's outstanding balance for a
// period, using the same arithmetic the eligibility evaluator applies.
func (h *LedgerHandler) UnpaidSummary(c *fiber.Ctx) error {
	period, err := currentOrQueriedPeriod(c)
	if err != nil {
		return badRequest(c, err)
	}
	companies, err := h.companies.ListActive(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	rows := make([]unpaidRow, 0, len(companies))
	for _, comp := range companies {
		payments, err := h.payments.ListByCompanyAndPeriod(c.Context(), comp.ID, period)
		if err != nil {
			return internalError(c, err)
		}
		unpaid := app.UnpaidAmount(comp.MonthlyFee, payments)
		if !unpaid.IsPositive() {
			continue
		}
		rows = append(rows, unpaidRow{
			CompanyID:   comp.ID,
			CompanyName: comp.Name,
			MonthlyFee:  comp.MonthlyFee,
			Paid:        comp.MonthlyFee.Sub(unpaid),
			Unpaid:      unpaid,
		})
	}
	return c.JSON(fiber.Map{"period": period, "companies": rows})
}
