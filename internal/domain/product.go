package domain

import "time"

type Product struct {
	ID                  int64     `json:"id"`
	Name                string    `json:"name"`
	Slug                string    `json:"slug"`
	Description         string    `json:"description,omitempty"`
	PriceCents          int64     `json:"priceCents"`
	CompareAtPriceCents *int64    `json:"compareAtPriceCents,omitempty"`
	ImageURL            string    `json:"imageUrl,omitempty"`
	CategoryID          *int64    `json:"categoryId,omitempty"`
	InStock             bool      `json:"inStock"`
	Rating              float64   `json:"rating"`
	NumReviews          int       `json:"numReviews"`
	IsNew               bool      `json:"isNew"`
	IsFeatured          bool      `json:"isFeatured"`
	CreatedAt           time.Time `json:"createdAt"`
}
