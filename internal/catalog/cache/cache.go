package cache

import (
	"context"
	"errors"

	"github.com/lamasat/storefront/internal/domain"
)

// ProductCache caches catalog listings keyed by query (all, category, featured).
type ProductCache interface {
	Get(ctx context.Context, key string) ([]domain.Product, error)
	Set(ctx context.Context, key string, products []domain.Product) error
	// Invalidate drops every cached listing. Issued after any catalog write.
	Invalidate(ctx context.Context) error
}

var ErrCacheMiss = errors.New("cache miss")
