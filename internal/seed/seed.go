// Package seed loads the demo storefront data: an admin account, four
// categories and a small catalog. It is idempotent, keyed on slugs and the
// admin username, so it is safe to run on every start.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"shophub/internal/domain"
	categoryrepo "shophub/internal/repository/category"
	productrepo "shophub/internal/repository/product"
	userrepo "shophub/internal/repository/user"
)

// adminPasswordHash is bcrypt("admin123"); demo credentials only.
const adminPasswordHash = "$2b$10$TxTTGQaLX/sNAm8NQxRtB.kdQVEGTi3icy1qdF0FfKOaOTJ3z4o5O"

type Stores struct {
	Products   productrepo.Repository
	Categories categoryrepo.Repository
	Users      userrepo.Repository
}

type productSeed struct {
	Name                string
	Slug                string
	Description         string
	PriceCents          int64
	CompareAtPriceCents int64 // 0 means no compare-at price
	ImageURL            string
	Category            string // category slug
	IsNew               bool
	IsFeatured          bool
}

var categorySeeds = []domain.Category{
	{Name: "Electronics", Slug: "electronics", ImageURL: "https://images.unsplash.com/photo-1661961112835-ca6f5811d2af?w=300&h=300"},
	{Name: "Clothing", Slug: "clothing", ImageURL: "https://images.unsplash.com/photo-1489987707025-afc232f7ea0f?w=300&h=300"},
	{Name: "Home & Kitchen", Slug: "home-kitchen", ImageURL: "https://images.unsplash.com/photo-1583845112203-29329902332e?w=300&h=300"},
	{Name: "Beauty", Slug: "beauty", ImageURL: "https://images.unsplash.com/photo-1512418490979-92798cec1380?w=300&h=300"},
}

var productSeeds = []productSeed{
	{
		Name:                "Smart Watch Series 5",
		Slug:                "smart-watch-series-5",
		Description:         "Premium smartwatch with heart rate monitor, GPS, and fitness tracking features.",
		PriceCents:          29999,
		CompareAtPriceCents: 34999,
		ImageURL:            "https://images.unsplash.com/photo-1546868871-7041f2a55e12?w=400&h=400",
		Category:            "electronics",
		IsNew:               true,
	},
	{
		Name:        "Wireless Headphones",
		Slug:        "wireless-headphones",
		Description: "Noise-cancelling wireless headphones with 30-hour battery life and premium sound quality.",
		PriceCents:  19999,
		ImageURL:    "https://images.unsplash.com/photo-1600185365926-3a2ce3cdb9eb?w=400&h=400",
		Category:    "electronics",
		IsNew:       true,
	},
	{
		Name:                "Ultra Boost Running Shoes",
		Slug:                "ultra-boost-running-shoes",
		Description:         "Lightweight running shoes with responsive cushioning and breathable mesh upper.",
		PriceCents:          12999,
		CompareAtPriceCents: 15999,
		ImageURL:            "https://images.unsplash.com/photo-1525966222134-fcfa99b8ae77?w=400&h=400",
		Category:            "clothing",
	},
	{
		Name:        "Smart Video Doorbell",
		Slug:        "smart-video-doorbell",
		Description: "HD video doorbell with motion detection, two-way audio, and night vision.",
		PriceCents:  15999,
		ImageURL:    "https://images.unsplash.com/photo-1541643600914-78b084683601?w=400&h=400",
		Category:    "electronics",
		IsNew:       true,
	},
	{
		Name:        "Professional Coffee Maker",
		Slug:        "professional-coffee-maker",
		Description: "Premium coffee maker with programmable settings and built-in grinder for the perfect brew every time.",
		PriceCents:  34999,
		ImageURL:    "https://images.unsplash.com/photo-1585565804112-f201f68c48b4?w=300&h=300",
		Category:    "home-kitchen",
		IsFeatured:  true,
	},
	{
		Name:        "Wireless Bluetooth Earbuds",
		Slug:        "wireless-bluetooth-earbuds",
		Description: "True wireless earbuds with active noise cancellation and 8-hour battery life for immersive audio experience.",
		PriceCents:  12999,
		ImageURL:    "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=300&h=300",
		Category:    "electronics",
		IsFeatured:  true,
	},
	{
		Name:        "Premium Denim Jacket",
		Slug:        "premium-denim-jacket",
		Description: "Classic denim jacket with premium stitching and comfortable fit, perfect for any casual occasion.",
		PriceCents:  8999,
		ImageURL:    "https://images.unsplash.com/photo-1529374255404-311a2a4f1fd9?w=300&h=300",
		Category:    "clothing",
		IsFeatured:  true,
	},
}

// Apply seeds the stores. Existing records (matched by slug or username) are
// left alone.
func Apply(ctx context.Context, logger *log.Logger, stores Stores) error {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if err := ensureAdmin(ctx, stores.Users); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	categoryIDs := make(map[string]int64, len(categorySeeds))
	for _, c := range categorySeeds {
		id, err := ensureCategory(ctx, stores.Categories, c)
		if err != nil {
			return fmt.Errorf("seed category %s: %w", c.Slug, err)
		}
		categoryIDs[c.Slug] = id
	}

	created := 0
	for _, p := range productSeeds {
		ok, err := ensureProduct(ctx, stores.Products, p, categoryIDs)
		if err != nil {
			return fmt.Errorf("seed product %s: %w", p.Slug, err)
		}
		if ok {
			created++
		}
	}

	logger.Printf("seed: %d categories ensured, %d products created", len(categorySeeds), created)
	return nil
}

func ensureAdmin(ctx context.Context, users userrepo.Repository) error {
	_, err := users.GetByUsername(ctx, "admin")
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	_, err = users.Create(ctx, domain.User{
		Username:     "admin",
		PasswordHash: adminPasswordHash,
		Email:        "admin@example.com",
		FullName:     "Admin User",
		IsAdmin:      true,
	})
	return err
}

func ensureCategory(ctx context.Context, categories categoryrepo.Repository, c domain.Category) (int64, error) {
	existing, err := categories.GetBySlug(ctx, c.Slug)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return 0, err
	}
	created, err := categories.Create(ctx, c)
	if err != nil {
		return 0, err
	}
	return created.ID, nil
}

func ensureProduct(ctx context.Context, products productrepo.Repository, p productSeed, categoryIDs map[string]int64) (bool, error) {
	_, err := products.GetBySlug(ctx, p.Slug)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return false, err
	}

	record := domain.Product{
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		PriceCents:  p.PriceCents,
		ImageURL:    p.ImageURL,
		InStock:     true,
		IsNew:       p.IsNew,
		IsFeatured:  p.IsFeatured,
	}
	if p.CompareAtPriceCents > 0 {
		compareAt := p.CompareAtPriceCents
		record.CompareAtPriceCents = &compareAt
	}
	if id, ok := categoryIDs[p.Category]; ok {
		categoryID := id
		record.CategoryID = &categoryID
	}

	if _, err := products.Create(ctx, record); err != nil {
		return false, err
	}
	return true, nil
}
