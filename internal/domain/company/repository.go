package company

import "context"

// Repository defines the operations for persisting and retrieving Company entities.
type Repository interface {
	Create(ctx context.Context, c *Company) error
	GetByID(ctx context.Context, id int64) (*Company, error)
	Update(ctx context.Context, c *Company) error
	Delete(ctx context.Context, id int64) error
	ListActive(ctx context.Context) ([]*Company, error)
	ListAll(ctx context.Context) ([]*Company, error)
}
