// Package catalog holds the pure resolution and query logic of the product
// catalog: variant resolution, media-color resolution, and the facet engine.
// Every function here is side-effect-free over in-memory values so the admin
// write path and the storefront read path share one implementation of the
// rules instead of drifting copies.
package catalog

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/maisonarte/catalog-service/internal/domain"
	apperrors "github.com/maisonarte/catalog-service/pkg/errors"
	"github.com/maisonarte/catalog-service/pkg/slug"
)

// VariantRow is one raw size/price row as submitted by the admin product form.
// Price arrives as free text and is validated during resolution. Value is
// empty on new rows; rows rebuilt from stored variants carry their value so
// re-resolution cannot rename them.
type VariantRow struct {
	Name       string `json:"name"`
	Dimensions string `json:"dimensions"`
	Price      string `json:"price"`
	Value      string `json:"value,omitempty"`
}

// VariantResolution is the outcome of resolving raw variant rows: the
// canonical variant records that survived validation and the effective base
// price for the product.
type VariantResolution struct {
	Variants  []domain.Variant
	BasePrice float64
}

// ResolveVariants turns raw form rows into canonical variant records and
// computes the product's effective base price.
//
// Row processing, in order:
//  1. Name is trimmed and defaults to "Variant {n}" when blank. Value is the
//     row's carried value when present, else the normalized form of
//     "{rawName|variant}-{dimensions|rowIndex}". A carried value keeps the
//     identifier of a defaulted-name variant stable when stored variants are
//     re-resolved during a partial update.
//  2. Rows with an empty value, an unparsable/non-finite price, or a negative
//     price are dropped, not defaulted. A row whose value duplicates an
//     earlier row is likewise dropped so values stay unique in the product.
//  3. If hasVariants was requested and no row survived, the write is rejected.
//  4. The base price is the explicit product-level price when it is finite and
//     non-negative; otherwise the minimum surviving variant price; otherwise
//     the write is rejected.
func ResolveVariants(rows []VariantRow, explicitPrice *float64, hasVariants bool) (*VariantResolution, error) {
	variants := make([]domain.Variant, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))

	for i, row := range rows {
		rawName := strings.TrimSpace(row.Name)
		dims := strings.TrimSpace(row.Dimensions)

		name := rawName
		if name == "" {
			name = fmt.Sprintf("Variant %d", i+1)
		}

		value := slug.Make(row.Value)
		if value == "" {
			namePart := rawName
			if namePart == "" {
				namePart = "variant"
			}
			dimsPart := dims
			if dimsPart == "" {
				dimsPart = strconv.Itoa(i + 1)
			}
			value = slug.Make(namePart + "-" + dimsPart)
		}
		if value == "" {
			continue
		}

		price, err := parseFinite(row.Price)
		if err != nil || price < 0 {
			continue
		}

		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}

		variants = append(variants, domain.Variant{
			Name:       name,
			Value:      value,
			Price:      price,
			Dimensions: dims,
			Label:      variantLabel(name, dims, price),
		})
	}

	if hasVariants && len(variants) == 0 {
		return nil, apperrors.NoValidVariants()
	}

	basePrice, ok := resolveBasePrice(explicitPrice, variants)
	if !ok {
		return nil, apperrors.InvalidPrice("a non-negative price is required when a product has no variants")
	}

	return &VariantResolution{Variants: variants, BasePrice: basePrice}, nil
}

// resolveBasePrice picks the effective base price: the explicit price when
// usable, else the minimum variant price. When several variants share the
// minimum only the numeric value matters, not which variant supplied it.
func resolveBasePrice(explicit *float64, variants []domain.Variant) (float64, bool) {
	if explicit != nil && isFinite(*explicit) && *explicit >= 0 {
		return *explicit, true
	}

	if len(variants) == 0 {
		return 0, false
	}

	min := variants[0].Price
	for _, v := range variants[1:] {
		if v.Price < min {
			min = v.Price
		}
	}
	return min, true
}

// FormatPrice renders a price the way variant labels display it: whole values
// without a decimal part ("2000"), fractional values with trailing zeros
// trimmed ("1999.5").
func FormatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}

// variantLabel builds the display label, omitting the dimension segment when
// no dimensions were given.
func variantLabel(name, dimensions string, price float64) string {
	if dimensions == "" {
		return name + " - " + FormatPrice(price)
	}
	return name + ": " + dimensions + " - " + FormatPrice(price)
}

func parseFinite(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	if !isFinite(v) {
		return 0, fmt.Errorf("price %q is not finite", raw)
	}
	return v, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
