package ledger

import "context"

// PaymentRepository defines the operations for persisting and retrieving payments.
type PaymentRepository interface {
	Create(ctx context.Context, p *Payment) error
	GetByID(ctx context.Context, id int64) (*Payment, error)
	Delete(ctx context.Context, id int64) error
	ListByPeriod(ctx context.Context, period string) ([]*Payment, error)
	ListByCompanyAndPeriod(ctx context.Context, companyID int64, period string) ([]*Payment, error)
}

// ExpenseRepository defines the operations for persisting and retrieving expenses.
type ExpenseRepository interface {
	Create(ctx context.Context, e *Expense) error
	GetByID(ctx context.Context, id int64) (*Expense, error)
	Delete(ctx context.Context, id int64) error
	ListByPeriod(ctx context.Context, period string) ([]*Expense, error)
}
