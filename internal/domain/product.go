package domain

import "time"

// Category is the fixed set of product categories the storefront sells.
type Category string

const (
	CategoryRings     Category = "rings"
	CategoryEarrings  Category = "earrings"
	CategoryBracelets Category = "bracelets"
	CategoryNecklaces Category = "necklaces"
	CategoryWatches   Category = "watches"
	CategoryGlasses   Category = "glasses"
)

// Categories lists every known category, in display order.
var Categories = []Category{
	CategoryRings,
	CategoryEarrings,
	CategoryBracelets,
	CategoryNecklaces,
	CategoryWatches,
	CategoryGlasses,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// Product is a catalog record. Price is stored in the canonical currency (USD);
// display conversion happens at the edge.
type Product struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Price      float64   `json:"price"`
	Category   Category  `json:"category"`
	Stock      int       `json:"stock"`
	ImageURL   string    `json:"image_url"`
	IsNew      bool      `json:"is_new"`
	IsFeatured bool      `json:"is_featured"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
