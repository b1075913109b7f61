package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequest_Defaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/products", nil)
	p := FromRequest(r)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPerPage, p.PerPage)
	assert.Equal(t, 0, p.Offset())
}

func TestFromRequest_Explicit(t *testing.T) {
	r := httptest.NewRequest("GET", "/products?page=3&per_page=10", nil)
	p := FromRequest(r)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 10, p.PerPage)
	assert.Equal(t, 20, p.Offset())
}

func TestFromRequest_InvalidFallsBack(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"non-numeric page", "?page=abc"},
		{"zero page", "?page=0"},
		{"negative page", "?page=-2"},
		{"per_page over cap", "?per_page=5000"},
		{"zero per_page", "?per_page=0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/products"+tt.query, nil)
			p := FromRequest(r)
			assert.Equal(t, 1, p.Page)
			assert.Equal(t, DefaultPerPage, p.PerPage)
		})
	}
}

func TestTotalPages(t *testing.T) {
	p := Params{Page: 1, PerPage: 20}
	assert.Equal(t, 0, p.TotalPages(0))
	assert.Equal(t, 1, p.TotalPages(20))
	assert.Equal(t, 2, p.TotalPages(21))
	assert.Equal(t, 5, p.TotalPages(100))
}
