// Package catalog answers read queries over products and categories and
// handles the administrative create operations.
package catalog

import (
	"context"
	"errors"
	"strings"

	"shophub/internal/domain"
	categoryrepo "shophub/internal/repository/category"
	productrepo "shophub/internal/repository/product"
)

const (
	defaultNewArrivalsLimit = 4
	defaultFeaturedLimit    = 3
)

type Service struct {
	products   productrepo.Repository
	categories categoryrepo.Repository
}

func New(products productrepo.Repository, categories categoryrepo.Repository) *Service {
	return &Service{products: products, categories: categories}
}

// Query mirrors the product list filters. All given filters combine with
// logical AND.
type Query struct {
	Search       string
	CategorySlug string
	Featured     bool
	Limit        int
}

// ListProducts applies the query filters. An unknown category slug yields an
// empty list rather than an error.
func (s *Service) ListProducts(ctx context.Context, q Query) ([]domain.Product, error) {
	repoQuery := productrepo.Query{
		Search:       strings.TrimSpace(q.Search),
		FeaturedOnly: q.Featured,
		Limit:        q.Limit,
	}

	if slug := strings.TrimSpace(q.CategorySlug); slug != "" {
		category, err := s.categories.GetBySlug(ctx, slug)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return []domain.Product{}, nil
			}
			return nil, err
		}
		repoQuery.CategoryID = &category.ID
	}

	products, err := s.products.List(ctx, repoQuery)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

// NewArrivals returns products newest first, default limit 4.
func (s *Service) NewArrivals(ctx context.Context, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = defaultNewArrivalsLimit
	}
	return s.products.NewArrivals(ctx, limit)
}

// FeaturedProducts returns featured products in store order, default limit 3.
func (s *Service) FeaturedProducts(ctx context.Context, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = defaultFeaturedLimit
	}
	return s.products.List(ctx, productrepo.Query{FeaturedOnly: true, Limit: limit})
}

func (s *Service) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return s.products.GetBySlug(ctx, slug)
}

type CreateProductInput struct {
	Name                string `json:"name"`
	Slug                string `json:"slug"`
	Description         string `json:"description"`
	PriceCents          int64  `json:"priceCents"`
	CompareAtPriceCents *int64 `json:"compareAtPriceCents"`
	ImageURL            string `json:"imageUrl"`
	CategoryID          *int64 `json:"categoryId"`
	InStock             bool   `json:"inStock"`
	IsNew               bool   `json:"isNew"`
	IsFeatured          bool   `json:"isFeatured"`
}

// Validate returns per-field problems for the API layer to surface.
func (in CreateProductInput) Validate() []domain.FieldError {
	var errs []domain.FieldError
	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "name is required"})
	}
	if strings.TrimSpace(in.Slug) == "" {
		errs = append(errs, domain.FieldError{Field: "slug", Message: "slug is required"})
	}
	if in.PriceCents < 0 {
		errs = append(errs, domain.FieldError{Field: "priceCents", Message: "price must not be negative"})
	}
	if in.CompareAtPriceCents != nil && *in.CompareAtPriceCents < 0 {
		errs = append(errs, domain.FieldError{Field: "compareAtPriceCents", Message: "compare-at price must not be negative"})
	}
	return errs
}

// CreateProduct stores a new product. Rating and review count always start
// at zero regardless of input.
func (s *Service) CreateProduct(ctx context.Context, in CreateProductInput) (*domain.Product, error) {
	if errs := in.Validate(); len(errs) > 0 {
		return nil, domain.ValidationError{Fields: errs}
	}
	return s.products.Create(ctx, domain.Product{
		Name:                strings.TrimSpace(in.Name),
		Slug:                strings.TrimSpace(in.Slug),
		Description:         in.Description,
		PriceCents:          in.PriceCents,
		CompareAtPriceCents: in.CompareAtPriceCents,
		ImageURL:            in.ImageURL,
		CategoryID:          in.CategoryID,
		InStock:             in.InStock,
		IsNew:               in.IsNew,
		IsFeatured:          in.IsFeatured,
	})
}

func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	return categories, nil
}

type CreateCategoryInput struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	ImageURL string `json:"imageUrl"`
}

func (in CreateCategoryInput) Validate() []domain.FieldError {
	var errs []domain.FieldError
	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "name is required"})
	}
	if strings.TrimSpace(in.Slug) == "" {
		errs = append(errs, domain.FieldError{Field: "slug", Message: "slug is required"})
	}
	return errs
}

func (s *Service) CreateCategory(ctx context.Context, in CreateCategoryInput) (*domain.Category, error) {
	if errs := in.Validate(); len(errs) > 0 {
		return nil, domain.ValidationError{Fields: errs}
	}
	return s.categories.Create(ctx, domain.Category{
		Name:     strings.TrimSpace(in.Name),
		Slug:     strings.TrimSpace(in.Slug),
		ImageURL: in.ImageURL,
	})
}
