package database

import (
	"context"
	"database/sql"
	"fmt"

	"office_manager_notifier/internal/domain/ledger"
)

var ErrPaymentNotFound = fmt.Errorf("payment not found")

type PostgresPaymentRepository struct {
	db *sql.DB
}

func NewPostgresPaymentRepository(db *sql.DB) *PostgresPaymentRepository {
	return &PostgresPaymentRepository{db: db}
}

const paymentColumns = `id, company_id, amount, payment_date, period, method, notes, is_confirmed, created_at`

func scanPayments(rows *sql.Rows) ([]*ledger.Payment, error) {
	payments := make([]*ledger.Payment, 0)
	for rows.Next() {
		p := ledger.Payment{}
		if err := rows.Scan(
			&p.ID, &p.CompanyID, &p.Amount, &p.PaymentDate, &p.Period,
			&p.Method, &p.Notes, &p.IsConfirmed, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning payment row: %w", err)
		}
		payments = append(payments, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment rows: %w", err)
	}
	return payments, nil
}

func (r *PostgresPaymentRepository) Create(ctx context.Context, p *ledger.Payment) error {
	query := `INSERT INTO payments (company_id, amount, payment_date, period, method, notes, is_confirmed)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query,
		p.CompanyID, p.Amount, p.PaymentDate, p.Period, p.Method, p.Notes, p.IsConfirmed,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating payment: %w", err)
	}
	return nil
}

func (r *PostgresPaymentRepository) GetByID(ctx context.Context, id int64) (*ledger.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	p := ledger.Payment{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.CompanyID, &p.Amount, &p.PaymentDate, &p.Period,
		&p.Method, &p.Notes, &p.IsConfirmed, &p.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("error getting payment by ID: %w", err)
	}
	return &p, nil
}

func (r *PostgresPaymentRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting payment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking deleted rows: %w", err)
	}
	if affected == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

func (r *PostgresPaymentRepository) ListByPeriod(ctx context.Context, period string) ([]*ledger.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE period = $1 ORDER BY payment_date, id`
	rows, err := r.db.QueryContext(ctx, query, period)
	if err != nil {
		return nil, fmt.Errorf("error querying payments by period: %w", err)
	}
	defer rows.Close()
	return scanPayments(rows)
}

func (r *PostgresPaymentRepository) ListByCompanyAndPeriod(ctx context.Context, companyID int64, period string) ([]*ledger.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE company_id = $1 AND period = $2 ORDER BY payment_date, id`
	rows, err := r.db.QueryContext(ctx, query, companyID, period)
	if err != nil {
		return nil, fmt.Errorf("error querying payments by company and period: %w", err)
	}
	defer rows.Close()
	return scanPayments(rows)
}
