// Package service implements the business logic of the catalog: product and
// category writes (with variant resolution and collection validation), the
// snapshot-backed read path, reviews, and media uploads.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/maisonarte/catalog-service/internal/cache"
	"github.com/maisonarte/catalog-service/internal/catalog"
	"github.com/maisonarte/catalog-service/internal/domain"
	"github.com/maisonarte/catalog-service/internal/event"
	"github.com/maisonarte/catalog-service/internal/repository"
	apperrors "github.com/maisonarte/catalog-service/pkg/errors"
	"github.com/maisonarte/catalog-service/pkg/slug"
)

// ProductService implements the business logic for product operations. Reads
// run over a cached snapshot of the whole catalog; writes go to the
// repository and invalidate the snapshot.
type ProductService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	snapshots  cache.SnapshotStore
	producer   *event.Producer
	logger     *slog.Logger
}

// NewProductService creates a new product service.
func NewProductService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	snapshots cache.SnapshotStore,
	producer *event.Producer,
	logger *slog.Logger,
) *ProductService {
	return &ProductService{
		products:   products,
		categories: categories,
		snapshots:  snapshots,
		producer:   producer,
		logger:     logger,
	}
}

// CreateProductInput holds the parameters for creating a product. Price is
// the optional explicit base price; when nil the base price falls back to the
// minimum variant price. VariantRows carries the raw admin form rows.
type CreateProductInput struct {
	Name        string
	Category    string
	Collection  string
	Description string
	Price       *float64
	Colors      []domain.Color
	Media       []domain.MediaItem
	VariantRows []catalog.VariantRow
	HasVariants bool
	InStock     bool
	Featured    bool
}

// UpdateProductInput holds the parameters for updating a product. Nil fields
// are left unchanged. When VariantRows is set the variants and base price are
// re-resolved from scratch.
type UpdateProductInput struct {
	Name        *string
	Category    *string
	Collection  *string
	Description *string
	Price       *float64
	Colors      *[]domain.Color
	Media       *[]domain.MediaItem
	VariantRows *[]catalog.VariantRow
	HasVariants *bool
	InStock     *bool
	Featured    *bool
}

// CreateProduct creates a new product with the given input. The variant rows
// are resolved into canonical variants and the effective base price before
// anything is persisted.
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*domain.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.InvalidInput("product name is required")
	}

	productSlug := slug.Make(name)
	if productSlug == "" {
		return nil, apperrors.InvalidInput("product name must contain at least one letter or digit")
	}

	category, err := s.resolveCategory(ctx, input.Category, input.Collection)
	if err != nil {
		return nil, err
	}

	if err := validateMedia(input.Media); err != nil {
		return nil, err
	}

	resolution, err := catalog.ResolveVariants(input.VariantRows, input.Price, input.HasVariants)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:          uuid.New().String(),
		Name:        name,
		Slug:        productSlug,
		Category:    category.Slug,
		Collection:  input.Collection,
		Price:       resolution.BasePrice,
		Description: input.Description,
		Colors:      input.Colors,
		Media:       input.Media,
		Variants:    resolution.Variants,
		InStock:     input.InStock,
		Featured:    input.Featured,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.warnUnknownMediaColors(ctx, product)

	if err := s.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	if err := s.producer.PublishProductCreated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.created event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	s.invalidateSnapshot(ctx)

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID),
		slog.String("slug", product.Slug),
		slog.Int("variants", len(product.Variants)),
	)

	return product, nil
}

// UpdateProduct applies partial updates to an existing product.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, input *UpdateProductInput) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product for update: %w", err)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.InvalidInput("product name must not be empty")
		}
		productSlug := slug.Make(name)
		if productSlug == "" {
			return nil, apperrors.InvalidInput("product name must contain at least one letter or digit")
		}
		product.Name = name
		product.Slug = productSlug
	}

	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.Collection != nil {
		product.Collection = *input.Collection
	}
	if input.Category != nil || input.Collection != nil {
		if _, err := s.resolveCategory(ctx, product.Category, product.Collection); err != nil {
			return nil, err
		}
	}

	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Colors != nil {
		product.Colors = *input.Colors
	}
	if input.Media != nil {
		if err := validateMedia(*input.Media); err != nil {
			return nil, err
		}
		product.Media = *input.Media
	}
	if input.InStock != nil {
		product.InStock = *input.InStock
	}
	if input.Featured != nil {
		product.Featured = *input.Featured
	}

	// Price and variants resolve together: an explicit price alone re-prices
	// the product, new variant rows rebuild the whole variant set.
	if input.VariantRows != nil || input.Price != nil || input.HasVariants != nil {
		rows := rowsFromVariants(product.Variants)
		if input.VariantRows != nil {
			rows = *input.VariantRows
		}
		hasVariants := len(product.Variants) > 0
		if input.HasVariants != nil {
			hasVariants = *input.HasVariants
		}
		resolution, err := catalog.ResolveVariants(rows, input.Price, hasVariants)
		if err != nil {
			return nil, err
		}
		product.Variants = resolution.Variants
		product.Price = resolution.BasePrice
	}

	s.warnUnknownMediaColors(ctx, product)

	if err := s.products.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	if err := s.producer.PublishProductUpdated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.updated event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}

	s.invalidateSnapshot(ctx)

	s.logger.InfoContext(ctx, "product updated",
		slog.String("product_id", product.ID),
		slog.String("slug", product.Slug),
	)

	return product, nil
}

// DeleteProduct removes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	// Verify the product exists before deleting.
	if _, err := s.products.GetByID(ctx, id); err != nil {
		return fmt.Errorf("get product for delete: %w", err)
	}

	if err := s.products.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if err := s.producer.PublishProductDeleted(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.deleted event",
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.invalidateSnapshot(ctx)

	s.logger.InfoContext(ctx, "product deleted",
		slog.String("product_id", id),
	)

	return nil
}

// ListProducts runs a listing query against the catalog snapshot.
func (s *ProductService) ListProducts(ctx context.Context, spec catalog.FilterSpec) (*catalog.QueryResult, error) {
	if !domain.IsValidSortKey(spec.Sort) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid sort %q, must be one of: %s",
			spec.Sort, strings.Join(domain.ValidSortKeys(), ", ")))
	}

	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	result := catalog.Query(snapshot.Products, snapshot.Categories, spec)
	return &result, nil
}

// GetProductDetail retrieves a product by slug and resolves its gallery for
// the selected color. A selected color the product never declared is allowed:
// the gallery falls back to general media and the mismatch is logged.
func (s *ProductService) GetProductDetail(ctx context.Context, productSlug, selectedColor string) (*domain.ProductDetail, error) {
	product, err := s.products.GetBySlug(ctx, productSlug)
	if err != nil {
		return nil, fmt.Errorf("get product by slug: %w", err)
	}

	if selectedColor != "" && !product.HasColor(selectedColor) {
		s.logger.WarnContext(ctx, "color selection not declared on product",
			slog.String("product_id", product.ID),
			slog.String("color", selectedColor),
		)
	}

	detail := &domain.ProductDetail{
		Product:      *product,
		DisplayMedia: catalog.ResolveDisplayMedia(product.Media, selectedColor),
	}

	category, err := s.categories.GetBySlug(ctx, product.Category)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load product category",
			slog.String("product_id", product.ID),
			slog.String("category", product.Category),
			slog.String("error", err.Error()),
		)
	} else {
		detail.CategoryInfo = category
	}

	return detail, nil
}

// GetProduct retrieves a product by its ID.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product by id: %w", err)
	}
	return product, nil
}

// snapshot returns the catalog snapshot, serving from cache when possible.
func (s *ProductService) snapshot(ctx context.Context) (*cache.Snapshot, error) {
	snapshot, err := s.snapshots.Get(ctx)
	if err == nil {
		return snapshot, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		s.logger.WarnContext(ctx, "snapshot cache unavailable, loading from database",
			slog.String("error", err.Error()),
		)
	}

	products, err := s.products.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load product snapshot: %w", err)
	}
	categories, err := s.categories.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load category snapshot: %w", err)
	}

	snapshot = &cache.Snapshot{
		Products:   products,
		Categories: categories,
		CachedAt:   time.Now().UTC(),
	}

	if err := s.snapshots.Set(ctx, snapshot); err != nil {
		s.logger.WarnContext(ctx, "failed to cache catalog snapshot",
			slog.String("error", err.Error()),
		)
	}

	return snapshot, nil
}

func (s *ProductService) invalidateSnapshot(ctx context.Context) {
	if err := s.snapshots.Invalidate(ctx); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate catalog snapshot",
			slog.String("error", err.Error()),
		)
	}
}

// resolveCategory loads the category and checks collection membership. The
// collection name is matched verbatim against the category's list.
func (s *ProductService) resolveCategory(ctx context.Context, categorySlug, collection string) (*domain.Category, error) {
	if categorySlug == "" {
		return nil, apperrors.InvalidInput("category is required")
	}

	category, err := s.categories.GetBySlug(ctx, categorySlug)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.InvalidInput(fmt.Sprintf("unknown category %q", categorySlug))
		}
		return nil, fmt.Errorf("get category: %w", err)
	}

	if collection != "" && !category.HasCollection(collection) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("collection %q does not belong to category %q", collection, categorySlug))
	}

	return category, nil
}

// warnUnknownMediaColors logs media color tags that reference colors the
// product does not declare. Such items never match a selection, so they only
// ever show through the general-media fallback.
func (s *ProductService) warnUnknownMediaColors(ctx context.Context, product *domain.Product) {
	for _, m := range product.Media {
		if m.Color != "" && !product.HasColor(m.Color) {
			s.logger.WarnContext(ctx, "media item tagged with undeclared color",
				slog.String("product_id", product.ID),
				slog.String("url", m.URL),
				slog.String("color", m.Color),
			)
		}
	}
}

// validateMedia enforces the gallery invariant: a product is persistable only
// with at least one media item, and every item needs a URL and a known type.
func validateMedia(media []domain.MediaItem) error {
	if len(media) == 0 {
		return apperrors.InvalidInput("at least one media item is required")
	}
	for _, m := range media {
		if m.URL == "" {
			return apperrors.InvalidInput("media item url is required")
		}
		if !domain.IsValidMediaType(m.Type) {
			return apperrors.InvalidInput(fmt.Sprintf("invalid media type %q, must be one of: %s",
				m.Type, strings.Join(domain.ValidMediaTypes(), ", ")))
		}
	}
	return nil
}

// rowsFromVariants converts stored variants back into raw rows so a partial
// update that only changes the explicit price can re-run resolution.
func rowsFromVariants(variants []domain.Variant) []catalog.VariantRow {
	rows := make([]catalog.VariantRow, len(variants))
	for i, v := range variants {
		rows[i] = catalog.VariantRow{
			Name:       v.Name,
			Dimensions: v.Dimensions,
			Price:      catalog.FormatPrice(v.Price),
			Value:      v.Value,
		}
	}
	return rows
}
