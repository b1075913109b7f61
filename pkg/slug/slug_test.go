package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake_Basic(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Islamic Art", "islamic-art"},
		{"Ayatul Kursi Wall Art", "ayatul-kursi-wall-art"},
		{"Simple", "simple"},
		{"ALL UPPER CASE", "all-upper-case"},
		{"already-a-slug", "already-a-slug"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Make(tt.input))
		})
	}
}

func TestMake_SpecialCharacters(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"  A/B  ", "a-b"},
		{"Gold & Marble!!!", "gold-marble"},
		{"price: $100", "price-100"},
		{"Small - 6 inch", "small-6-inch"},
		{"one___two", "one-two"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Make(tt.input))
		})
	}
}

func TestMake_Idempotent(t *testing.T) {
	inputs := []string{"Islamic Art", "  A/B  ", "a---b", "Café Décor", "variant-6-inch"}
	for _, in := range inputs {
		once := Make(in)
		assert.Equal(t, once, Make(once), "Make should be idempotent for %q", in)
	}
}

func TestMake_EmptyAndSeparatorOnly(t *testing.T) {
	assert.Equal(t, "", Make(""))
	assert.Equal(t, "", Make("   "))
	assert.Equal(t, "", Make("!!!"))
	assert.Equal(t, "", Make("---"))
}

func TestMake_NoLeadingTrailingOrDoubledHyphens(t *testing.T) {
	assert.Equal(t, "a-b", Make("a---b"))
	assert.Equal(t, "a-b", Make("a - - b"))
	assert.Equal(t, "hello", Make("-hello-"))
	assert.Equal(t, "hello", Make("!hello!"))
}
