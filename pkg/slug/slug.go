// Package slug provides the canonical identifier normalization used for
// category slugs and variant values across the catalog. Every caller that
// needs a URL- or key-safe identifier goes through Make so the rules cannot
// drift between the admin forms and the storefront.
package slug

import (
	"regexp"
	"strings"
)

// separatorRegexp matches a maximal run of characters not allowed in a slug.
var separatorRegexp = regexp.MustCompile(`[^a-z0-9]+`)

// Make normalizes free text into a slug: the input is lower-cased, every
// maximal run of characters outside [a-z0-9] collapses to a single hyphen,
// and leading/trailing hyphens are stripped.
//
// Make is idempotent and deterministic. Empty or all-separator input yields
// the empty string; callers must treat an empty slug as invalid, not as a
// valid empty identifier.
//
// Examples:
//   - "Islamic Art"      → "islamic-art"
//   - "  A/B  "          → "a-b"
//   - "Small - 6 inch"   → "small-6-inch"
func Make(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = separatorRegexp.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
