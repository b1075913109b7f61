// Package repository defines the persistence interfaces of the catalog
// service. Implementations live in the postgres subpackage.
package repository

import (
	"context"

	"github.com/maisonarte/catalog-service/internal/domain"
)

// ProductRepository defines the interface for product persistence operations.
// Listing filters are not part of this interface: filtering, sorting, and
// faceting run in memory over the snapshot returned by ListAll.
type ProductRepository interface {
	// Create inserts a new product into the store.
	Create(ctx context.Context, product *domain.Product) error

	// GetByID retrieves a product by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// GetBySlug retrieves a product by its URL-friendly slug.
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)

	// ListAll returns every product ordered by creation time descending.
	ListAll(ctx context.Context) ([]domain.Product, error)

	// Update modifies an existing product in the store.
	Update(ctx context.Context, product *domain.Product) error

	// UpdateRating stores the review aggregate on the product record.
	UpdateRating(ctx context.Context, productID string, rating float64, count int) error

	// Delete removes a product from the store by its identifier.
	Delete(ctx context.Context, id string) error
}

// CategoryRepository defines the interface for category persistence operations.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
	ListAll(ctx context.Context) ([]domain.Category, error)
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id string) error
}

// ReviewRepository defines the interface for review persistence operations.
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error

	// ListByProductID returns paginated reviews for a product with the total count.
	ListByProductID(ctx context.Context, productID string, page, perPage int) ([]domain.Review, int, error)

	// GetSummary returns the rating aggregate for a product.
	GetSummary(ctx context.Context, productID string) (*domain.ReviewSummary, error)
}
