package product

import (
	"context"

	"shophub/internal/domain"
)

// Query narrows List results. Filters combine with logical AND. CategoryID is
// already resolved from a slug by the caller; an unresolvable slug never
// reaches this layer.
type Query struct {
	Search       string
	CategoryID   *int64
	FeaturedOnly bool
	Limit        int
}

type Repository interface {
	List(ctx context.Context, q Query) ([]domain.Product, error)
	NewArrivals(ctx context.Context, limit int) ([]domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
}
