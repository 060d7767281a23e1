package database

import (
	"context"
	"database/sql"
	"fmt"

	"office_manager_notifier/internal/domain/ledger"
)

var ErrExpenseNotFound = fmt.Errorf("expense not found")

type PostgresExpenseRepository struct {
	db *sql.DB
}

func NewPostgresExpenseRepository(db *sql.DB) *PostgresExpenseRepository {
	return &PostgresExpenseRepository{db: db}
}

const expenseColumns = `id, expense_date, category, amount, description, period, notes, created_at`

func (r *PostgresExpenseRepository) Create(ctx context.Context, e *ledger.Expense) error {
	query := `INSERT INTO expenses (expense_date, category, amount, description, period, notes)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query,
		e.ExpenseDate, e.Category, e.Amount, e.Description, e.Period, e.Notes,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating expense: %w", err)
	}
	return nil
}

func (r *PostgresExpenseRepository) GetByID(ctx context.Context, id int64) (*ledger.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = $1`
	e := ledger.Expense{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&e.ID, &e.ExpenseDate, &e.Category, &e.Amount, &e.Description, &e.Period, &e.Notes, &e.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrExpenseNotFound
		}
		return nil, fmt.Errorf("error getting expense by ID: %w", err)
	}
	return &e, nil
}

func (r *PostgresExpenseRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting expense: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking deleted rows: %w", err)
	}
	if affected == 0 {
		return ErrExpenseNotFound
	}
	return nil
}

func (r *PostgresExpenseRepository) ListByPeriod(ctx context.Context, period string) ([]*ledger.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE period = $1 ORDER BY expense_date, id`
	rows, err := r.db.QueryContext(ctx, query, period)
	if err != nil {
		return nil, fmt.Errorf("error querying expenses by period: %w", err)
	}
	defer rows.Close()

	expenses := make([]*ledger.Expense, 0)
	for rows.Next() {
		e := ledger.Expense{}
		if err := rows.Scan(
			&e.ID, &e.ExpenseDate, &e.Category, &e.Amount, &e.Description, &e.Period, &e.Notes, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning expense row: %w", err)
		}
		expenses = append(expenses, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expense rows: %w", err)
	}
	return expenses, nil
}
