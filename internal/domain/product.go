package domain

import (
	"time"
)

// Sort key constants for product listings.
const (
	SortNewest    = "newest"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortRating    = "rating"
)

// ValidSortKeys returns the set of valid listing sort keys.
func ValidSortKeys() []string {
	return []string{SortNewest, SortPriceLow, SortPriceHigh, SortRating}
}

// IsValidSortKey checks whether the given sort key is valid. The empty string
// is valid and means "newest".
func IsValidSortKey(key string) bool {
	if key == "" {
		return true
	}
	for _, k := range ValidSortKeys() {
		if k == key {
			return true
		}
	}
	return false
}

// Color is a selectable color option on a product. Swatch is the explicit
// display hex populated at write time; Name may itself be a hex token for
// colors without a human name.
type Color struct {
	Name   string `json:"name"`
	Swatch string `json:"swatch,omitempty"`
}

// Variant is a purchasable size/option permutation of a product with its own
// price. Value is the normalized identifier derived from the raw row (unique
// within the product); Label is the display string shown in size pickers.
type Variant struct {
	Name       string  `json:"name"`
	Value      string  `json:"value"`
	Price      float64 `json:"price"`
	Dimensions string  `json:"dimensions,omitempty"`
	Label      string  `json:"label"`
}

// Product represents a made-to-order catalog product. Category references a
// Category by slug; Collection must be a member of that category's
// Collections. Price is the resolved base price (explicit admin price, or the
// minimum variant price when no explicit price was given).
type Product struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Slug        string      `json:"slug"`
	Category    string      `json:"category"`
	Collection  string      `json:"collection,omitempty"`
	Price       float64     `json:"price"`
	Description string      `json:"description"`
	Colors      []Color     `json:"colors,omitempty"`
	Media       []MediaItem `json:"media"`
	Variants    []Variant   `json:"variants,omitempty"`
	InStock     bool        `json:"in_stock"`
	Featured    bool        `json:"featured"`
	Rating      float64     `json:"rating"`
	RatingCount int         `json:"rating_count"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// HasColor reports whether name is one of the product's declared colors.
func (p *Product) HasColor(name string) bool {
	for _, c := range p.Colors {
		if c.Name == name {
			return true
		}
	}
	return false
}

// ColorNames returns the declared color names in order.
func (p *Product) ColorNames() []string {
	names := make([]string, len(p.Colors))
	for i, c := range p.Colors {
		names[i] = c.Name
	}
	return names
}

// ProductDetail is the enriched product response for detail pages: the base
// product plus the media set resolved for the requested color selection and
// the owning category.
type ProductDetail struct {
	Product
	DisplayMedia []MediaItem `json:"display_media"`
	CategoryInfo *Category   `json:"category_info,omitempty"`
}
