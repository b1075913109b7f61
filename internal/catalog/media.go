package catalog

import (
	"github.com/maisonarte/catalog-service/internal/domain"
)

// ResolveDisplayMedia selects the gallery to display for a color selection.
//
// With no selection the full gallery is returned. With a selection, items
// tagged with exactly that color are returned; when the selection has no
// tagged items at all, the untagged (general) items are returned instead so a
// color choice never empties the gallery for products whose media is shared
// across colors. Relative order is preserved and the input is never mutated.
func ResolveDisplayMedia(media []domain.MediaItem, selectedColor string) []domain.MediaItem {
	if selectedColor == "" {
		out := make([]domain.MediaItem, len(media))
		copy(out, media)
		return out
	}

	tagged := make([]domain.MediaItem, 0, len(media))
	general := make([]domain.MediaItem, 0, len(media))
	for _, m := range media {
		switch {
		case m.Color == selectedColor:
			tagged = append(tagged, m)
		case m.IsGeneral():
			general = append(general, m)
		}
	}

	if len(tagged) > 0 {
		return tagged
	}
	return general
}
