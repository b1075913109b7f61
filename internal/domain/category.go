package domain

import (
	"time"
)

// Category is a top-level catalog grouping (e.g. "Islamic Art"). Collections
// are named sub-groupings scoped to their category: they are string keys, not
// entities with their own IDs.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	ImageURL    string    `json:"image"`
	Description string    `json:"description"`
	Collections []string  `json:"collections"`
	// CollectionImages maps a collection name (verbatim, not normalized) to
	// its display image. Keys must be a subset of Collections.
	CollectionImages map[string]string `json:"collection_images,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// HasCollection reports whether name is one of the category's collections.
func (c *Category) HasCollection(name string) bool {
	for _, col := range c.Collections {
		if col == name {
			return true
		}
	}
	return false
}

// DuplicateCollections returns the collection names that appear more than once.
func (c *Category) DuplicateCollections() []string {
	seen := make(map[string]int, len(c.Collections))
	var dups []string
	for _, col := range c.Collections {
		seen[col]++
		if seen[col] == 2 {
			dups = append(dups, col)
		}
	}
	return dups
}

// OrphanedImageKeys returns the CollectionImages keys that do not reference a
// declared collection.
func (c *Category) OrphanedImageKeys() []string {
	var orphans []string
	for key := range c.CollectionImages {
		if !c.HasCollection(key) {
			orphans = append(orphans, key)
		}
	}
	return orphans
}

// PruneCollectionImages removes CollectionImages entries whose key no longer
// references a declared collection. Called when collections are renamed or
// removed so the key-subset invariant holds after every write.
func (c *Category) PruneCollectionImages() {
	for key := range c.CollectionImages {
		if !c.HasCollection(key) {
			delete(c.CollectionImages, key)
		}
	}
}
