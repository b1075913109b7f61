package domain

// Media type constants.
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// MediaItem is one entry in a product's ordered gallery. Type is an explicit,
// required field populated at write time (upload detection or backfill), never
// re-inferred on the read path. Color optionally references one of the owning
// product's declared colors; an empty Color means "general" media, shown
// regardless of which color is selected.
type MediaItem struct {
	URL   string `json:"url"`
	Type  string `json:"type"`
	Color string `json:"color,omitempty"`
}

// IsGeneral reports whether the item carries no color tag.
func (m MediaItem) IsGeneral() bool {
	return m.Color == ""
}

// ValidMediaTypes returns the set of valid media types.
func ValidMediaTypes() []string {
	return []string{MediaTypeImage, MediaTypeVideo}
}

// IsValidMediaType checks whether the given media type string is valid.
func IsValidMediaType(t string) bool {
	for _, v := range ValidMediaTypes() {
		if v == t {
			return true
		}
	}
	return false
}
