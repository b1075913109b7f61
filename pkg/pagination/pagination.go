// Package pagination provides query-string pagination parsing shared by all
// list endpoints.
package pagination

import (
	"net/http"
	"strconv"
)

const (
	// DefaultPerPage is the page size used when the client does not specify one.
	DefaultPerPage = 20
	// MaxPerPage caps the page size a client may request.
	MaxPerPage = 100
)

// Params holds pagination parameters extracted from query strings.
type Params struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// DefaultParams returns sensible pagination defaults.
func DefaultParams() Params {
	return Params{Page: 1, PerPage: DefaultPerPage}
}

// FromRequest extracts pagination parameters from an HTTP request. Invalid or
// out-of-range values fall back to the defaults rather than erroring: list
// endpoints degrade gracefully.
func FromRequest(r *http.Request) Params {
	p := DefaultParams()

	if page := r.URL.Query().Get("page"); page != "" {
		if v, err := strconv.Atoi(page); err == nil && v > 0 {
			p.Page = v
		}
	}

	if perPage := r.URL.Query().Get("per_page"); perPage != "" {
		if v, err := strconv.Atoi(perPage); err == nil && v > 0 && v <= MaxPerPage {
			p.PerPage = v
		}
	}

	return p
}

// Offset returns the zero-based item offset for the page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// TotalPages computes the number of pages needed for totalCount items.
func (p Params) TotalPages(totalCount int) int {
	if p.PerPage <= 0 {
		return 0
	}
	pages := totalCount / p.PerPage
	if totalCount%p.PerPage > 0 {
		pages++
	}
	return pages
}
