package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maisonarte/catalog-service/internal/domain"
	"github.com/maisonarte/catalog-service/pkg/database"
	apperrors "github.com/maisonarte/catalog-service/pkg/errors"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	return mock
}

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

// ─── Product column definitions ─────────────────────────────────────────────

var productCols = []string{
	"id", "name", "slug", "category_slug", "collection", "price", "description",
	"colors", "media", "variants", "in_stock", "featured", "rating", "rating_count",
	"created_at", "updated_at",
}

func sampleProduct() domain.Product {
	return domain.Product{
		ID:          "prod-1",
		Name:        "Oak Frame",
		Slug:        "oak-frame",
		Category:    "frames",
		Collection:  "Classic Frames",
		Price:       2000,
		Description: "Hand-finished oak frame",
		Colors:      []domain.Color{{Name: "Gold", Swatch: "#d4af37"}},
		Media:       []domain.MediaItem{{URL: "oak.jpg", Type: domain.MediaTypeImage}},
		Variants: []domain.Variant{
			{Name: "Small", Value: "small-6-inch", Price: 2000, Dimensions: "6 inch", Label: "Small: 6 inch - 2000"},
		},
		InStock:     true,
		Featured:    false,
		Rating:      4.5,
		RatingCount: 8,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func productRow(p domain.Product) []any {
	colorsJSON, _ := json.Marshal(p.Colors)
	mediaJSON, _ := json.Marshal(p.Media)
	variantsJSON, _ := json.Marshal(p.Variants)
	return []any{
		p.ID, p.Name, p.Slug, p.Category, p.Collection, p.Price, p.Description,
		colorsJSON, mediaJSON, variantsJSON, p.InStock, p.Featured, p.Rating,
		p.RatingCount, p.CreatedAt, p.UpdatedAt,
	}
}

// ─── Category column definitions ────────────────────────────────────────────

var categoryCols = []string{
	"id", "name", "slug", "image_url", "description",
	"collections", "collection_images", "created_at", "updated_at",
}

func sampleCategory() domain.Category {
	return domain.Category{
		ID:          "cat-1",
		Name:        "Frames",
		Slug:        "frames",
		ImageURL:    "https://cdn.example.com/frames.jpg",
		Description: "Made-to-order frames",
		Collections: []string{"Classic Frames", "Modern Frames"},
		CollectionImages: map[string]string{
			"Classic Frames": "classic.jpg",
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func categoryRow(c domain.Category) []any {
	collectionsJSON, _ := json.Marshal(c.Collections)
	imagesJSON, _ := json.Marshal(c.CollectionImages)
	return []any{
		c.ID, c.Name, c.Slug, c.ImageURL, c.Description,
		collectionsJSON, imagesJSON, c.CreatedAt, c.UpdatedAt,
	}
}

// ─── Review column definitions ──────────────────────────────────────────────

var reviewColsWithCount = []string{
	"id", "product_id", "author", "rating", "title", "body", "created_at",
	"total_count",
}

func sampleReview() domain.Review {
	return domain.Review{
		ID:        "review-1",
		ProductID: "prod-1",
		Author:    "Amira",
		Rating:    5,
		Title:     "Beautiful finish",
		Body:      "Exactly as pictured.",
		CreatedAt: now,
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// ProductRepository
// ─────────────────────────────────────────────────────────────────────────────

func TestProductRepository_Create_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	p := sampleProduct()
	colorsJSON, _ := json.Marshal(p.Colors)
	mediaJSON, _ := json.Marshal(p.Media)
	variantsJSON, _ := json.Marshal(p.Variants)

	mock.ExpectExec("INSERT INTO products").
		WithArgs(
			p.ID, p.Name, p.Slug, p.Category, p.Collection, p.Price, p.Description,
			colorsJSON, mediaJSON, variantsJSON, p.InStock, p.Featured,
			p.Rating, p.RatingCount, p.CreatedAt, p.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), &p)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Create_UniqueViolation(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	p := sampleProduct()
	colorsJSON, _ := json.Marshal(p.Colors)
	mediaJSON, _ := json.Marshal(p.Media)
	variantsJSON, _ := json.Marshal(p.Variants)

	mock.ExpectExec("INSERT INTO products").
		WithArgs(
			p.ID, p.Name, p.Slug, p.Category, p.Collection, p.Price, p.Description,
			colorsJSON, mediaJSON, variantsJSON, p.InStock, p.Featured,
			p.Rating, p.RatingCount, p.CreatedAt, p.UpdatedAt,
		).
		WillReturnError(errors.New("ERROR: duplicate key value violates unique constraint (SQLSTATE 23505)"))

	err := repo.Create(context.Background(), &p)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_GetByID_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	p := sampleProduct()
	mock.ExpectQuery("SELECT .+ FROM products WHERE id").
		WithArgs(p.ID).
		WillReturnRows(
			pgxmock.NewRows(productCols).AddRow(productRow(p)...),
		)

	result, err := repo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, result.ID)
	assert.Equal(t, p.Slug, result.Slug)
	assert.Equal(t, p.Colors, result.Colors)
	assert.Equal(t, p.Media, result.Media)
	assert.Equal(t, p.Variants, result.Variants)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_GetByID_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM products WHERE id").
		WithArgs("missing-id").
		WillReturnError(pgx.ErrNoRows)

	result, err := repo.GetByID(context.Background(), "missing-id")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_GetBySlug_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	p := sampleProduct()
	mock.ExpectQuery("SELECT .+ FROM products WHERE slug").
		WithArgs(p.Slug).
		WillReturnRows(
			pgxmock.NewRows(productCols).AddRow(productRow(p)...),
		)

	result, err := repo.GetBySlug(context.Background(), p.Slug)
	require.NoError(t, err)
	assert.Equal(t, p.ID, result.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_ListAll_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	p1 := sampleProduct()
	p2 := sampleProduct()
	p2.ID = "prod-2"
	p2.Slug = "walnut-frame"

	mock.ExpectQuery("SELECT .+ FROM products ORDER BY created_at DESC").
		WillReturnRows(
			pgxmock.NewRows(productCols).
				AddRow(productRow(p1)...).
				AddRow(productRow(p2)...),
		)

	products, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, p1.ID, products[0].ID)
	assert.Equal(t, p2.ID, products[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_ListAll_Empty(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM products ORDER BY created_at DESC").
		WillReturnRows(pgxmock.NewRows(productCols))

	products, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Product{}, products)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Update_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	p := sampleProduct()
	colorsJSON, _ := json.Marshal(p.Colors)
	mediaJSON, _ := json.Marshal(p.Media)
	variantsJSON, _ := json.Marshal(p.Variants)

	mock.ExpectExec("UPDATE products").
		WithArgs(
			p.Name, p.Slug, p.Category, p.Collection, p.Price, p.Description,
			colorsJSON, mediaJSON, variantsJSON, p.InStock, p.Featured,
			pgxmock.AnyArg(), // updated_at is set inside Update
			p.ID,
		).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.Update(context.Background(), &p)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Update_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	p := sampleProduct()
	p.ID = "nonexistent-id"
	colorsJSON, _ := json.Marshal(p.Colors)
	mediaJSON, _ := json.Marshal(p.Media)
	variantsJSON, _ := json.Marshal(p.Variants)

	mock.ExpectExec("UPDATE products").
		WithArgs(
			p.Name, p.Slug, p.Category, p.Collection, p.Price, p.Description,
			colorsJSON, mediaJSON, variantsJSON, p.InStock, p.Featured,
			pgxmock.AnyArg(),
			p.ID,
		).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), &p)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_UpdateRating_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	mock.ExpectExec("UPDATE products SET rating").
		WithArgs(4.6, 12, pgxmock.AnyArg(), "prod-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.UpdateRating(context.Background(), "prod-1", 4.6, 12)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Delete_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	mock.ExpectExec("DELETE FROM products WHERE").
		WithArgs("missing-id").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), "missing-id")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ─────────────────────────────────────────────────────────────────────────────
// CategoryRepository
// ─────────────────────────────────────────────────────────────────────────────

func TestCategoryRepository_Create_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewCategoryRepository(mock)

	c := sampleCategory()
	collectionsJSON, _ := json.Marshal(c.Collections)
	imagesJSON, _ := json.Marshal(c.CollectionImages)

	mock.ExpectExec("INSERT INTO categories").
		WithArgs(
			c.ID, c.Name, c.Slug, c.ImageURL, c.Description,
			collectionsJSON, imagesJSON, c.CreatedAt, c.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), &c)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepository_Create_UniqueViolation(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewCategoryRepository(mock)

	c := sampleCategory()
	collectionsJSON, _ := json.Marshal(c.Collections)
	imagesJSON, _ := json.Marshal(c.CollectionImages)

	mock.ExpectExec("INSERT INTO categories").
		WithArgs(
			c.ID, c.Name, c.Slug, c.ImageURL, c.Description,
			collectionsJSON, imagesJSON, c.CreatedAt, c.UpdatedAt,
		).
		WillReturnError(errors.New("ERROR: duplicate key value violates unique constraint (SQLSTATE 23505)"))

	err := repo.Create(context.Background(), &c)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepository_GetBySlug_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewCategoryRepository(mock)

	c := sampleCategory()
	mock.ExpectQuery("SELECT .+ FROM categories WHERE slug").
		WithArgs(c.Slug).
		WillReturnRows(
			pgxmock.NewRows(categoryCols).AddRow(categoryRow(c)...),
		)

	result, err := repo.GetBySlug(context.Background(), c.Slug)
	require.NoError(t, err)
	assert.Equal(t, c.ID, result.ID)
	assert.Equal(t, c.Collections, result.Collections)
	assert.Equal(t, c.CollectionImages, result.CollectionImages)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepository_GetByID_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewCategoryRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM categories WHERE id").
		WithArgs("missing-id").
		WillReturnError(pgx.ErrNoRows)

	result, err := repo.GetByID(context.Background(), "missing-id")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepository_ListAll_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewCategoryRepository(mock)

	c1 := sampleCategory()
	c2 := sampleCategory()
	c2.ID = "cat-2"
	c2.Name = "Wall Art"
	c2.Slug = "wall-art"

	mock.ExpectQuery("SELECT .+ FROM categories ORDER BY name").
		WillReturnRows(
			pgxmock.NewRows(categoryCols).
				AddRow(categoryRow(c1)...).
				AddRow(categoryRow(c2)...),
		)

	categories, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, categories, 2)
	assert.Equal(t, c1.ID, categories[0].ID)
	assert.Equal(t, c2.ID, categories[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepository_Update_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewCategoryRepository(mock)

	c := sampleCategory()
	c.ID = "nonexistent-id"
	collectionsJSON, _ := json.Marshal(c.Collections)
	imagesJSON, _ := json.Marshal(c.CollectionImages)

	mock.ExpectExec("UPDATE categories").
		WithArgs(
			c.Name, c.Slug, c.ImageURL, c.Description,
			collectionsJSON, imagesJSON,
			pgxmock.AnyArg(),
			c.ID,
		).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), &c)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepository_Delete_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewCategoryRepository(mock)

	mock.ExpectExec("DELETE FROM categories WHERE id").
		WithArgs("cat-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := repo.Delete(context.Background(), "cat-1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ─────────────────────────────────────────────────────────────────────────────
// ReviewRepository
// ─────────────────────────────────────────────────────────────────────────────

func TestReviewRepository_Create_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	r := sampleReview()
	mock.ExpectExec("INSERT INTO product_reviews").
		WithArgs(r.ID, r.ProductID, r.Author, r.Rating, r.Title, r.Body, r.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), &r)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_ListByProductID_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	r := sampleReview()
	row := []any{r.ID, r.ProductID, r.Author, r.Rating, r.Title, r.Body, r.CreatedAt, 1}

	mock.ExpectQuery("SELECT .+ FROM product_reviews WHERE product_id").
		WithArgs("prod-1", 20, 0). // productID, limit, offset
		WillReturnRows(
			pgxmock.NewRows(reviewColsWithCount).AddRow(row...),
		)

	reviews, total, err := repo.ListByProductID(context.Background(), "prod-1", 1, 20)
	require.NoError(t, err)
	assert.Len(t, reviews, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, r.ID, reviews[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_ListByProductID_Empty(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM product_reviews WHERE product_id").
		WithArgs("prod-no-reviews", 20, 0).
		WillReturnRows(pgxmock.NewRows(reviewColsWithCount))

	reviews, total, err := repo.ListByProductID(context.Background(), "prod-no-reviews", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, []domain.Review{}, reviews)
	assert.Equal(t, 0, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_GetSummary_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	// Rounding to one decimal happens inside the query.
	mock.ExpectQuery(`SELECT COALESCE\(ROUND`).
		WithArgs("prod-1").
		WillReturnRows(
			pgxmock.NewRows([]string{"avg", "count"}).AddRow(4.6, 12),
		)

	summary, err := repo.GetSummary(context.Background(), "prod-1")
	require.NoError(t, err)
	assert.Equal(t, 4.6, summary.AverageRating)
	assert.Equal(t, 12, summary.TotalCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_GetSummary_NoReviews(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	mock.ExpectQuery(`SELECT COALESCE\(ROUND`).
		WithArgs("prod-empty").
		WillReturnRows(
			pgxmock.NewRows([]string{"avg", "count"}).AddRow(0.0, 0),
		)

	summary, err := repo.GetSummary(context.Background(), "prod-empty")
	require.NoError(t, err)
	assert.Equal(t, 0.0, summary.AverageRating)
	assert.Equal(t, 0, summary.TotalCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}
