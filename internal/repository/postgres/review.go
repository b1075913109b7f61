package postgres

import (
	"context"
	"fmt"

	"github.com/maisonarte/catalog-service/internal/domain"
	"github.com/maisonarte/catalog-service/pkg/database"
)

// ReviewRepository persists customer reviews. Reviews are append-only on the
// catalog surface: there is no edit or delete, and rows disappear only
// through the product cascade.
type ReviewRepository struct {
	pool database.DBTX
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(pool database.DBTX) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

// Create appends a review for a product.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO product_reviews (id, product_id, author, rating, title, body, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		review.ID,
		review.ProductID,
		review.Author,
		review.Rating,
		review.Title,
		review.Body,
		review.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}

	return nil
}

// ListByProductID returns one newest-first page of a product's reviews along
// with the total count. The id tiebreak keeps page boundaries stable when
// several reviews share a timestamp. Page and perPage arrive already clamped
// by the service.
func (r *ReviewRepository) ListByProductID(ctx context.Context, productID string, page, perPage int) ([]domain.Review, int, error) {
	query := `
		SELECT id, product_id, author, rating, title, body, created_at,
		       count(*) OVER() AS total_count
		FROM product_reviews
		WHERE product_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, productID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []domain.Review{}
	totalCount := 0

	for rows.Next() {
		var rv domain.Review

		if err := rows.Scan(
			&rv.ID,
			&rv.ProductID,
			&rv.Author,
			&rv.Rating,
			&rv.Title,
			&rv.Body,
			&rv.CreatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan review row: %w", err)
		}

		reviews = append(reviews, rv)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate review rows: %w", err)
	}

	return reviews, totalCount, nil
}

// GetSummary computes the rating aggregate that is stored back onto the
// product. The one-decimal rounding happens in SQL so every consumer sees the
// exact value the "rating" listing sort orders by.
func (r *ReviewRepository) GetSummary(ctx context.Context, productID string) (*domain.ReviewSummary, error) {
	query := `
		SELECT COALESCE(ROUND(AVG(rating)::numeric, 1), 0)::float8, COUNT(*)
		FROM product_reviews
		WHERE product_id = $1`

	var summary domain.ReviewSummary

	err := r.pool.QueryRow(ctx, query, productID).Scan(
		&summary.AverageRating,
		&summary.TotalCount,
	)
	if err != nil {
		return nil, fmt.Errorf("get review summary: %w", err)
	}

	return &summary, nil
}
