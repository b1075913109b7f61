package catalog

import (
	"strings"

	"github.com/maisonarte/catalog-service/internal/domain"
)

// videoExtensions are the file extensions treated as video when inferring the
// media type of legacy records that predate explicit typing.
var videoExtensions = []string{".mp4", ".mov", ".avi", ".webm"}

// legacySwatches maps the color names used by early catalog entries to display
// hex values. Unknown names backfill to an empty swatch and keep rendering
// from the name.
var legacySwatches = map[string]string{
	"black":      "#000000",
	"white":      "#ffffff",
	"gold":       "#d4af37",
	"silver":     "#c0c0c0",
	"copper":     "#b87333",
	"bronze":     "#cd7f32",
	"red":        "#c0392b",
	"blue":       "#2e5894",
	"navy":       "#1f2a44",
	"green":      "#2e6f40",
	"olive":      "#708238",
	"brown":      "#6b4226",
	"walnut":     "#5d432c",
	"beige":      "#d9c7a7",
	"cream":      "#f3ead3",
	"grey":       "#808080",
	"gray":       "#808080",
	"charcoal":   "#36454f",
	"rose gold":  "#b76e79",
	"natural":    "#e6d5b8",
	"multicolor": "#a0a0a0",
}

// InferMediaType classifies a media URL by file extension for backfilling
// legacy records. Query strings and fragments are ignored; anything that is
// not a known video extension counts as an image.
func InferMediaType(url string) string {
	path := strings.ToLower(url)
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	for _, ext := range videoExtensions {
		if strings.HasSuffix(path, ext) {
			return domain.MediaTypeVideo
		}
	}
	return domain.MediaTypeImage
}

// LegacySwatch resolves a display hex for a legacy color name. Names that are
// already hex tokens pass through unchanged; known names map via the legacy
// table; unknown names resolve to "".
func LegacySwatch(name string) string {
	trimmed := strings.TrimSpace(name)
	if strings.HasPrefix(trimmed, "#") {
		return strings.ToLower(trimmed)
	}
	return legacySwatches[strings.ToLower(trimmed)]
}

// BackfillMediaTypes fills in the Type of any media item missing one,
// returning the number of items changed. Items that already carry a type are
// left untouched.
func BackfillMediaTypes(media []domain.MediaItem) int {
	changed := 0
	for i := range media {
		if media[i].Type == "" {
			media[i].Type = InferMediaType(media[i].URL)
			changed++
		}
	}
	return changed
}

// BackfillSwatches fills in the Swatch of any color missing one, returning the
// number of colors changed. Unknown names stay blank so they are easy to find
// and fix by hand.
func BackfillSwatches(colors []domain.Color) int {
	changed := 0
	for i := range colors {
		if colors[i].Swatch != "" {
			continue
		}
		if swatch := LegacySwatch(colors[i].Name); swatch != "" {
			colors[i].Swatch = swatch
			changed++
		}
	}
	return changed
}
