package catalog

import (
	"context"
	"errors"

	"github.com/lamasat/storefront/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

// Repository defines the interface for catalog storage operations.
// Consumers define this interface, not the sqlite implementation.
type Repository interface {
	GetAll(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id int64) (domain.Product, error)
	GetByCategory(ctx context.Context, category domain.Category) ([]domain.Product, error)
	GetFeatured(ctx context.Context) ([]domain.Product, error)

	Create(ctx context.Context, p domain.Product) (domain.Product, error)
	Update(ctx context.Context, p domain.Product) error
	Delete(ctx context.Context, id int64) error
	SetFeatured(ctx context.Context, id int64, featured bool) error

	Close() error
}
