package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/maisonarte/catalog-service/internal/cache"
	"github.com/maisonarte/catalog-service/internal/domain"
	"github.com/maisonarte/catalog-service/internal/event"
	"github.com/maisonarte/catalog-service/internal/repository"
	apperrors "github.com/maisonarte/catalog-service/pkg/errors"
	"github.com/maisonarte/catalog-service/pkg/slug"
)

// CategoryService implements the business logic for category operations.
// Collection names are verbatim keys: membership checks and the collection
// image map both use the exact name.
type CategoryService struct {
	categories repository.CategoryRepository
	snapshots  cache.SnapshotStore
	producer   *event.Producer
	logger     *slog.Logger
}

// NewCategoryService creates a new category service.
func NewCategoryService(
	categories repository.CategoryRepository,
	snapshots cache.SnapshotStore,
	producer *event.Producer,
	logger *slog.Logger,
) *CategoryService {
	return &CategoryService{
		categories: categories,
		snapshots:  snapshots,
		producer:   producer,
		logger:     logger,
	}
}

// CreateCategoryInput holds the parameters for creating a category. Slug is
// an optional override; when empty the slug is derived from the name.
type CreateCategoryInput struct {
	Name             string
	Slug             string
	ImageURL         string
	Description      string
	Collections      []string
	CollectionImages map[string]string
}

// UpdateCategoryInput holds the parameters for updating a category. Nil
// fields are left unchanged. A name change re-derives the slug unless an
// explicit Slug is given in the same update.
type UpdateCategoryInput struct {
	Name             *string
	Slug             *string
	ImageURL         *string
	Description      *string
	Collections      *[]string
	CollectionImages *map[string]string
}

// CreateCategory creates a new category with the given input.
func (s *CategoryService) CreateCategory(ctx context.Context, input *CreateCategoryInput) (*domain.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.InvalidInput("category name is required")
	}

	var categorySlug string
	if override := strings.TrimSpace(input.Slug); override != "" {
		categorySlug = slug.Make(override)
		if categorySlug == "" {
			return nil, apperrors.InvalidInput("category slug must contain at least one letter or digit")
		}
	} else {
		categorySlug = slug.Make(name)
		if categorySlug == "" {
			return nil, apperrors.InvalidInput("category name must contain at least one letter or digit")
		}
	}

	now := time.Now().UTC()
	category := &domain.Category{
		ID:               uuid.New().String(),
		Name:             name,
		Slug:             categorySlug,
		ImageURL:         input.ImageURL,
		Description:      input.Description,
		Collections:      input.Collections,
		CollectionImages: input.CollectionImages,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := validateCollections(category); err != nil {
		return nil, err
	}

	if err := s.categories.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	if err := s.producer.PublishCategoryCreated(ctx, category); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish category.created event",
			slog.String("category_id", category.ID),
			slog.String("error", err.Error()),
		)
	}

	s.invalidateSnapshot(ctx)

	s.logger.InfoContext(ctx, "category created",
		slog.String("category_id", category.ID),
		slog.String("slug", category.Slug),
		slog.Int("collections", len(category.Collections)),
	)

	return category, nil
}

// UpdateCategory applies partial updates to an existing category. When the
// collection list changes, image map entries for removed or renamed
// collections are pruned rather than kept as orphans.
func (s *CategoryService) UpdateCategory(ctx context.Context, id string, input *UpdateCategoryInput) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get category for update: %w", err)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.InvalidInput("category name must not be empty")
		}
		categorySlug := slug.Make(name)
		if categorySlug == "" {
			return nil, apperrors.InvalidInput("category name must contain at least one letter or digit")
		}
		category.Name = name
		category.Slug = categorySlug
	}

	if input.Slug != nil {
		categorySlug := slug.Make(*input.Slug)
		if categorySlug == "" {
			return nil, apperrors.InvalidInput("category slug must contain at least one letter or digit")
		}
		category.Slug = categorySlug
	}

	if input.ImageURL != nil {
		category.ImageURL = *input.ImageURL
	}
	if input.Description != nil {
		category.Description = *input.Description
	}
	if input.Collections != nil {
		category.Collections = *input.Collections
	}

	if input.CollectionImages != nil {
		category.CollectionImages = *input.CollectionImages
		if err := validateCollections(category); err != nil {
			return nil, err
		}
	} else {
		if dups := category.DuplicateCollections(); len(dups) > 0 {
			return nil, apperrors.InvalidInput(fmt.Sprintf("duplicate collection names: %s", strings.Join(dups, ", ")))
		}
		category.PruneCollectionImages()
	}

	if err := s.categories.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}

	if err := s.producer.PublishCategoryUpdated(ctx, category); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish category.updated event",
			slog.String("category_id", category.ID),
			slog.String("error", err.Error()),
		)
	}

	s.invalidateSnapshot(ctx)

	s.logger.InfoContext(ctx, "category updated",
		slog.String("category_id", category.ID),
		slog.String("slug", category.Slug),
	)

	return category, nil
}

// DeleteCategory removes a category by its ID.
func (s *CategoryService) DeleteCategory(ctx context.Context, id string) error {
	if _, err := s.categories.GetByID(ctx, id); err != nil {
		return fmt.Errorf("get category for delete: %w", err)
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	if err := s.producer.PublishCategoryDeleted(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish category.deleted event",
			slog.String("category_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.invalidateSnapshot(ctx)

	s.logger.InfoContext(ctx, "category deleted",
		slog.String("category_id", id),
	)

	return nil
}

// GetCategory retrieves a category by its slug.
func (s *CategoryService) GetCategory(ctx context.Context, categorySlug string) (*domain.Category, error) {
	category, err := s.categories.GetBySlug(ctx, categorySlug)
	if err != nil {
		return nil, fmt.Errorf("get category by slug: %w", err)
	}
	return category, nil
}

// ListCategories returns all categories.
func (s *CategoryService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (s *CategoryService) invalidateSnapshot(ctx context.Context) {
	if err := s.snapshots.Invalidate(ctx); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate catalog snapshot",
			slog.String("error", err.Error()),
		)
	}
}

// validateCollections rejects duplicate collection names and image map keys
// that do not match any collection.
func validateCollections(category *domain.Category) error {
	if dups := category.DuplicateCollections(); len(dups) > 0 {
		return apperrors.InvalidInput(fmt.Sprintf("duplicate collection names: %s", strings.Join(dups, ", ")))
	}
	if orphans := category.OrphanedImageKeys(); len(orphans) > 0 {
		return apperrors.InvalidInput(fmt.Sprintf("collection images reference unknown collections: %s", strings.Join(orphans, ", ")))
	}
	return nil
}
