package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/maisonarte/catalog-service/internal/cache"
	"github.com/maisonarte/catalog-service/internal/domain"
	"github.com/maisonarte/catalog-service/internal/repository"
	apperrors "github.com/maisonarte/catalog-service/pkg/errors"
)

// CreateReviewInput holds the parameters for creating a review.
type CreateReviewInput struct {
	ProductID string
	Author    string
	Title     string
	Body      string
	Rating    int
}

// ReviewListResult contains reviews and their aggregate summary.
type ReviewListResult struct {
	Reviews    []domain.Review       `json:"reviews"`
	Summary    *domain.ReviewSummary `json:"summary"`
	TotalCount int                   `json:"total_count"`
	Page       int                   `json:"page"`
	PerPage    int                   `json:"per_page"`
	TotalPages int                   `json:"total_pages"`
}

// ReviewService implements the business logic for review operations. Each
// accepted review refreshes the rating aggregate stored on the product, which
// feeds the "rating" listing sort.
type ReviewService struct {
	reviews   repository.ReviewRepository
	products  repository.ProductRepository
	snapshots cache.SnapshotStore
	logger    *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(
	reviews repository.ReviewRepository,
	products repository.ProductRepository,
	snapshots cache.SnapshotStore,
	logger *slog.Logger,
) *ReviewService {
	return &ReviewService{
		reviews:   reviews,
		products:  products,
		snapshots: snapshots,
		logger:    logger,
	}
}

// CreateReview creates a new product review and refreshes the product's
// rating aggregate.
func (s *ReviewService) CreateReview(ctx context.Context, input *CreateReviewInput) (*domain.Review, error) {
	if input.ProductID == "" {
		return nil, apperrors.InvalidInput("product_id is required")
	}
	if input.Author == "" {
		return nil, apperrors.InvalidInput("author is required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, apperrors.InvalidInput("rating must be between 1 and 5")
	}

	if _, err := s.products.GetByID(ctx, input.ProductID); err != nil {
		return nil, fmt.Errorf("get product for review: %w", err)
	}

	review := &domain.Review{
		ID:        uuid.New().String(),
		ProductID: input.ProductID,
		Author:    input.Author,
		Rating:    input.Rating,
		Title:     input.Title,
		Body:      input.Body,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	s.refreshRating(ctx, input.ProductID)

	s.logger.InfoContext(ctx, "review created",
		slog.String("review_id", review.ID),
		slog.String("product_id", review.ProductID),
		slog.Int("rating", review.Rating),
	)

	return review, nil
}

// ListReviews returns paginated reviews for a product along with the aggregate summary.
func (s *ReviewService) ListReviews(ctx context.Context, productID string, page, perPage int) (*ReviewListResult, error) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}

	reviews, total, err := s.reviews.ListByProductID(ctx, productID, page, perPage)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	summary, err := s.reviews.GetSummary(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get review summary: %w", err)
	}

	totalPages := total / perPage
	if total%perPage > 0 {
		totalPages++
	}

	return &ReviewListResult{
		Reviews:    reviews,
		Summary:    summary,
		TotalCount: total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}, nil
}

// refreshRating recomputes the aggregate and stores it on the product. A
// failure here leaves the stored aggregate stale until the next review, so it
// is logged rather than failing the review write.
func (s *ReviewService) refreshRating(ctx context.Context, productID string) {
	summary, err := s.reviews.GetSummary(ctx, productID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to compute review summary",
			slog.String("product_id", productID),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := s.products.UpdateRating(ctx, productID, summary.AverageRating, summary.TotalCount); err != nil {
		s.logger.ErrorContext(ctx, "failed to store product rating",
			slog.String("product_id", productID),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := s.snapshots.Invalidate(ctx); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate catalog snapshot",
			slog.String("error", err.Error()),
		)
	}
}
