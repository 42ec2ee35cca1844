package product

import (
	"context"
	"errors"
	"io"
	"log"

	"shophub/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const productColumns = `id, name, slug, COALESCE(description, ''), price_cents, compare_at_price_cents, COALESCE(image_url, ''), category_id, in_stock, rating, num_reviews, is_new, is_featured, created_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) List(ctx context.Context, q Query) ([]domain.Product, error) {
	const query = `
SELECT ` + productColumns + `
FROM products
WHERE ($1 = '' OR name ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%')
  AND ($2::bigint IS NULL OR category_id = $2)
  AND (NOT $3::boolean OR is_featured)
ORDER BY id
LIMIT NULLIF($4::int, 0)
`
	rows, err := r.pool.Query(ctx, query, q.Search, q.CategoryID, q.FeaturedOnly, q.Limit)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *postgresRepo) NewArrivals(ctx context.Context, limit int) ([]domain.Product, error) {
	const query = `
SELECT ` + productColumns + `
FROM products
ORDER BY created_at DESC, id DESC
LIMIT NULLIF($1::int, 0)
`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		r.logger.Printf("product repo: new arrivals error=%v", err)
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	const query = `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *postgresRepo) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	const query = `SELECT ` + productColumns + ` FROM products WHERE slug = $1`
	return r.getOne(ctx, query, slug)
}

func (r *postgresRepo) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const query = `
INSERT INTO products (name, slug, description, price_cents, compare_at_price_cents, image_url, category_id, in_stock, rating, num_reviews, is_new, is_featured)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, 0, $9, $10)
RETURNING id, created_at
`
	err := r.pool.QueryRow(ctx, query,
		p.Name, p.Slug, p.Description, p.PriceCents, p.CompareAtPriceCents,
		p.ImageURL, p.CategoryID, p.InStock, p.IsNew, p.IsFeatured,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrConflict
		}
		r.logger.Printf("product repo: create slug=%s error=%v", p.Slug, err)
		return nil, err
	}
	p.Rating = 0
	p.NumReviews = 0
	r.logger.Printf("product repo: created id=%d slug=%s", p.ID, p.Slug)
	return &p, nil
}

func (r *postgresRepo) getOne(ctx context.Context, query string, arg interface{}) (*domain.Product, error) {
	var p domain.Product
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.PriceCents, &p.CompareAtPriceCents,
		&p.ImageURL, &p.CategoryID, &p.InStock, &p.Rating, &p.NumReviews,
		&p.IsNew, &p.IsFeatured, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get error=%v", err)
		return nil, err
	}
	return &p, nil
}

func scanProducts(rows pgx.Rows) ([]domain.Product, error) {
	var result []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Slug, &p.Description, &p.PriceCents, &p.CompareAtPriceCents,
			&p.ImageURL, &p.CategoryID, &p.InStock, &p.Rating, &p.NumReviews,
			&p.IsNew, &p.IsFeatured, &p.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
