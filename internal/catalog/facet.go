package catalog

import (
	"sort"
	"strings"

	"github.com/maisonarte/catalog-service/internal/domain"
	"github.com/maisonarte/catalog-service/pkg/pagination"
)

// FilterSpec describes one catalog listing query. Nil pointer fields mean "no
// constraint". Category slugs and collection names are matched verbatim; the
// search term matches case-insensitively against name and description.
type FilterSpec struct {
	CategorySlugs []string
	Collections   []string
	PriceMin      *float64
	PriceMax      *float64
	Search        string
	Featured      *bool
	InStock       *bool
	Sort          string
	Page          pagination.Params
}

// PriceRange is the min/max price observed across a result scope.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// FacetCounts carries the storefront filter sidebar metadata. Each facet is
// counted with its own dimension relaxed so the numbers answer "how many
// results would I get if I switched to this value" instead of collapsing to
// the current selection.
type FacetCounts struct {
	Categories  map[string]int `json:"categories"`
	Collections map[string]int `json:"collections"`
	PriceRange  *PriceRange    `json:"price_range,omitempty"`
}

// QueryResult is the outcome of one listing query: the requested page of
// products plus totals and facet metadata over the full match set.
type QueryResult struct {
	Items      []domain.Product `json:"items"`
	TotalCount int              `json:"total_count"`
	TotalPages int              `json:"total_pages"`
	Facets     FacetCounts      `json:"facets"`
}

// facet identifies a filter dimension that can be relaxed while counting.
type facet int

const (
	facetNone facet = iota
	facetCategory
	facetCollection
	facetPrice
)

// Query filters, sorts, and paginates the product snapshot and computes facet
// counts in a single pass discipline over the same inputs. It never mutates
// the snapshot; an inverted min/max price window simply matches nothing.
func Query(products []domain.Product, categories []domain.Category, spec FilterSpec) QueryResult {
	if spec.Page.Page < 1 {
		spec.Page.Page = 1
	}
	if spec.Page.PerPage < 1 {
		spec.Page.PerPage = pagination.DefaultPerPage
	}
	if spec.Page.PerPage > pagination.MaxPerPage {
		spec.Page.PerPage = pagination.MaxPerPage
	}

	matched := make([]domain.Product, 0, len(products))
	for i := range products {
		if spec.matches(&products[i], facetNone) {
			matched = append(matched, products[i])
		}
	}

	sortProducts(matched, spec.Sort)

	return QueryResult{
		Items:      pageOf(matched, spec.Page),
		TotalCount: len(matched),
		TotalPages: spec.Page.TotalPages(len(matched)),
		Facets:     facetCounts(products, categories, spec),
	}
}

// matches reports whether p satisfies every active filter except the relaxed
// dimension.
func (s *FilterSpec) matches(p *domain.Product, relax facet) bool {
	if relax != facetCategory && len(s.CategorySlugs) > 0 && !containsString(s.CategorySlugs, p.Category) {
		return false
	}
	if relax != facetCollection && len(s.Collections) > 0 && !containsString(s.Collections, p.Collection) {
		return false
	}
	if relax != facetPrice {
		if s.PriceMin != nil && p.Price < *s.PriceMin {
			return false
		}
		if s.PriceMax != nil && p.Price > *s.PriceMax {
			return false
		}
	}
	if s.Featured != nil && p.Featured != *s.Featured {
		return false
	}
	if s.InStock != nil && p.InStock != *s.InStock {
		return false
	}
	if term := strings.TrimSpace(s.Search); term != "" {
		needle := strings.ToLower(term)
		if !strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) {
			return false
		}
	}
	return true
}

// sortProducts orders the match set in place. All comparisons are stable so
// products tying on the sort key keep their snapshot order.
func sortProducts(products []domain.Product, key string) {
	switch key {
	case domain.SortPriceLow:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price < products[j].Price
		})
	case domain.SortPriceHigh:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price > products[j].Price
		})
	case domain.SortRating:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Rating > products[j].Rating
		})
	default:
		// SortNewest and the empty key.
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].CreatedAt.After(products[j].CreatedAt)
		})
	}
}

// pageOf slices one page out of the sorted match set. A page past the end is
// an empty result, not an error.
func pageOf(products []domain.Product, page pagination.Params) []domain.Product {
	start := page.Offset()
	if start >= len(products) {
		return []domain.Product{}
	}
	end := start + page.PerPage
	if end > len(products) {
		end = len(products)
	}
	out := make([]domain.Product, end-start)
	copy(out, products[start:end])
	return out
}

// facetCounts computes per-facet counts over the snapshot, relaxing one
// dimension at a time.
//
// Category counts cover every known category. Collection counts cover the
// collections of the currently filtered categories (all categories when none
// is filtered) so the sidebar only offers collections reachable from the
// category context. The price range spans what the result set would be with
// the price window removed, which is what a price slider needs for its
// bounds.
func facetCounts(products []domain.Product, categories []domain.Category, spec FilterSpec) FacetCounts {
	categoryCounts := make(map[string]int, len(categories))
	for _, c := range categories {
		categoryCounts[c.Slug] = 0
	}

	collectionCounts := make(map[string]int)
	for _, c := range categories {
		if len(spec.CategorySlugs) > 0 && !containsString(spec.CategorySlugs, c.Slug) {
			continue
		}
		for _, name := range c.Collections {
			collectionCounts[name] = 0
		}
	}

	var priceRange *PriceRange
	for i := range products {
		p := &products[i]

		if spec.matches(p, facetCategory) {
			if _, known := categoryCounts[p.Category]; known {
				categoryCounts[p.Category]++
			}
		}
		if spec.matches(p, facetCollection) {
			if _, known := collectionCounts[p.Collection]; known {
				collectionCounts[p.Collection]++
			}
		}
		if spec.matches(p, facetPrice) {
			if priceRange == nil {
				priceRange = &PriceRange{Min: p.Price, Max: p.Price}
			} else {
				if p.Price < priceRange.Min {
					priceRange.Min = p.Price
				}
				if p.Price > priceRange.Max {
					priceRange.Max = p.Price
				}
			}
		}
	}

	return FacetCounts{
		Categories:  categoryCounts,
		Collections: collectionCounts,
		PriceRange:  priceRange,
	}
}

func containsString(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
