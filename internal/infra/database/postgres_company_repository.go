package database

import (
	"context"
	"database/sql"
	"fmt"

	"office_manager_notifier/internal/domain/company"
)

var ErrCompanyNotFound = fmt.Errorf("company not found")

type PostgresCompanyRepository struct {
	db *sql.DB
}

func NewPostgresCompanyRepository(db *sql.DB) *PostgresCompanyRepository {
	return &PostgresCompanyRepository{db: db}
}

const companyColumns = `id, name, tenancy_kind, contract_date, monthly_fee, contact_person,
	phone_number, email, notes, is_active, created_at, updated_at`

func scanCompany(row interface{ Scan(...any) error }) (*company.Company, error) {
	c := company.Company{}
	err := row.Scan(
		&c.ID, &c.Name, &c.TenancyKind, &c.ContractDate, &c.MonthlyFee, &c.ContactPerson,
		&c.PhoneNumber, &c.Email, &c.Notes, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PostgresCompanyRepository) Create(ctx context.Context, c *company.Company) error {
	query := `INSERT INTO companies (name, tenancy_kind, contract_date, monthly_fee, contact_person, phone_number, email, notes, is_active)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		c.Name, c.TenancyKind, c.ContractDate, c.MonthlyFee, c.ContactPerson,
		c.PhoneNumber, c.Email, c.Notes, c.IsActive,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating company: %w", err)
	}
	return nil
}

func (r *PostgresCompanyRepository) GetByID(ctx context.Context, id int64) (*company.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`
	c, err := scanCompany(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("error getting company by ID: %w", err)
	}
	return c, nil
}

func (r *PostgresCompanyRepository) Update(ctx context.Context, c *company.Company) error {
	query := `UPDATE companies
	          SET name = $1, tenancy_kind = $2, contract_date = $3, monthly_fee = $4,
	              contact_person = $5, phone_number = $6, email = $7, notes = $8,
	              is_active = $9, updated_at = NOW()
	          WHERE id = $10
	          RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query,
		c.Name, c.TenancyKind, c.ContractDate, c.MonthlyFee, c.ContactPerson,
		c.PhoneNumber, c.Email, c.Notes, c.IsActive, c.ID,
	).Scan(&c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrCompanyNotFound
		}
		return fmt.Errorf("error updating company: %w", err)
	}
	return nil
}

func (r *PostgresCompanyRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting company: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking deleted rows: %w", err)
	}
	if affected == 0 {
		return ErrCompanyNotFound
	}
	return nil
}

func (r *PostgresCompanyRepository) listByQuery(ctx context.Context, query string) ([]*company.Company, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying companies: %w", err)
	}
	defer rows.Close()

	companies := make([]*company.Company, 0)
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning company row: %w", err)
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating company rows: %w", err)
	}
	return companies, nil
}

func (r *PostgresCompanyRepository) ListActive(ctx context.Context) ([]*company.Company, error) {
	return r.listByQuery(ctx, `SELECT `+companyColumns+` FROM companies WHERE is_active = TRUE ORDER BY name`)
}

func (r *PostgresCompanyRepository) ListAll(ctx context.Context) ([]*company.Company, error) {
	return r.listByQuery(ctx, `SELECT `+companyColumns+` FROM companies ORDER BY name`)
}
