package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/lamasat/storefront/internal/catalog/cache"
	"github.com/lamasat/storefront/internal/domain"
)

var ErrInvalidProduct = errors.New("invalid product")

// Service fronts the catalog repository with validation on writes and a cached
// read path for listings.
type Service struct {
	repo  Repository
	cache cache.ProductCache
	sfg   singleflight.Group // Prevents cache stampede on listing reads
}

// NewService creates a catalog service. cache may be nil, in which case every
// read goes to the repository.
func NewService(repo Repository, productCache cache.ProductCache) *Service {
	return &Service{
		repo:  repo,
		cache: productCache,
	}
}

func (s *Service) ListAll(ctx context.Context) ([]domain.Product, error) {
	return s.cachedList(ctx, "all", func(ctx context.Context) ([]domain.Product, error) {
		return s.repo.GetAll(ctx)
	})
}

func (s *Service) ListByCategory(ctx context.Context, category domain.Category) ([]domain.Product, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidProduct, category)
	}
	key := "category:" + category.String()
	return s.cachedList(ctx, key, func(ctx context.Context) ([]domain.Product, error) {
		return s.repo.GetByCategory(ctx, category)
	})
}

func (s *Service) ListFeatured(ctx context.Context) ([]domain.Product, error) {
	return s.cachedList(ctx, "featured", func(ctx context.Context) ([]domain.Product, error) {
		return s.repo.GetFeatured(ctx)
	})
}

func (s *Service) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	if err := validateProduct(p); err != nil {
		return domain.Product{}, err
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return domain.Product{}, err
	}

	s.invalidateListings()
	return created, nil
}

func (s *Service) UpdateProduct(ctx context.Context, p domain.Product) error {
	if err := validateProduct(p); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return err
	}

	s.invalidateListings()
	return nil
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateListings()
	return nil
}

func (s *Service) SetFeatured(ctx context.Context, id int64, featured bool) error {
	if err := s.repo.SetFeatured(ctx, id, featured); err != nil {
		return err
	}

	s.invalidateListings()
	return nil
}

// cachedList serves a listing from the cache, falling back to the repository
// on a miss. Singleflight collapses concurrent misses for the same key.
func (s *Service) cachedList(ctx context.Context, key string, load func(context.Context) ([]domain.Product, error)) ([]domain.Product, error) {
	if s.cache == nil {
		return load(ctx)
	}

	v, err, _ := s.sfg.Do(key, func() (interface{}, error) {
		products, err := s.cache.Get(ctx, key)
		if err == nil {
			return products, nil
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			slog.Warn("catalog cache get failed", "key", key, "err", err)
		}

		products, errLoad := load(ctx)
		if errLoad != nil {
			return nil, errLoad
		}

		go func() {
			setCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if errSet := s.cache.Set(setCtx, key, products); errSet != nil {
				slog.Warn("catalog cache set failed", "key", key, "err", errSet)
			}
		}()

		return products, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]domain.Product), nil
}

func (s *Service) invalidateListings() {
	if s.cache == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Invalidate(ctx); err != nil {
		slog.Warn("catalog cache invalidate failed", "err", err)
	}
}

func validateProduct(p domain.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	if p.Price <= 0 {
		return fmt.Errorf("%w: price must be positive", ErrInvalidProduct)
	}
	if !p.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidProduct, p.Category)
	}
	if p.Stock < 0 {
		return fmt.Errorf("%w: stock cannot be negative", ErrInvalidProduct)
	}
	return nil
}
