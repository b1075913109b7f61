package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/maisonarte/catalog-service/internal/domain"
	"github.com/maisonarte/catalog-service/pkg/database"
	apperrors "github.com/maisonarte/catalog-service/pkg/errors"
)

// categoryColumns is the standard SELECT column list for categories.
const categoryColumns = `id, name, slug, image_url, description,
	collections, collection_images, created_at, updated_at`

// CategoryRepository implements category persistence operations using
// PostgreSQL. The collection list and the collection image map are stored as
// JSONB documents on the category row.
type CategoryRepository struct {
	pool database.DBTX
}

// NewCategoryRepository creates a new PostgreSQL-backed category repository.
func NewCategoryRepository(pool database.DBTX) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

// Create inserts a new category into the database.
func (r *CategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	collectionsJSON, imagesJSON, err := marshalCategoryDocs(c)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO categories (id, name, slug, image_url, description,
			collections, collection_images, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = r.pool.Exec(ctx, query,
		c.ID,
		c.Name,
		c.Slug,
		c.ImageURL,
		c.Description,
		collectionsJSON,
		imagesJSON,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("category", "slug", c.Slug)
		}
		return fmt.Errorf("insert category: %w", err)
	}

	return nil
}

// GetByID retrieves a category by its unique identifier.
func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM categories WHERE id = $1`, categoryColumns)
	return r.scanCategory(ctx, query, id)
}

// GetBySlug retrieves a category by its URL-friendly slug.
func (r *CategoryRepository) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM categories WHERE slug = $1`, categoryColumns)
	return r.scanCategory(ctx, query, slug)
}

// ListAll returns all categories ordered by name.
func (r *CategoryRepository) ListAll(ctx context.Context) ([]domain.Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM categories ORDER BY name`, categoryColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category

	for rows.Next() {
		var c domain.Category
		if err := scanCategoryRow(rows, &c); err != nil {
			return nil, fmt.Errorf("scan category row: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category rows: %w", err)
	}

	if categories == nil {
		categories = []domain.Category{}
	}

	return categories, nil
}

// Update modifies an existing category in the database.
func (r *CategoryRepository) Update(ctx context.Context, c *domain.Category) error {
	collectionsJSON, imagesJSON, err := marshalCategoryDocs(c)
	if err != nil {
		return err
	}

	c.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE categories
		SET name = $1, slug = $2, image_url = $3, description = $4,
		    collections = $5, collection_images = $6, updated_at = $7
		WHERE id = $8`

	ct, err := r.pool.Exec(ctx, query,
		c.Name,
		c.Slug,
		c.ImageURL,
		c.Description,
		collectionsJSON,
		imagesJSON,
		c.UpdatedAt,
		c.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("category", "slug", c.Slug)
		}
		return fmt.Errorf("update category: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("category", c.ID)
	}

	return nil
}

// Delete removes a category from the database by its ID.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("category", id)
	}

	return nil
}

// scanCategory executes a query expected to return a single category row.
func (r *CategoryRepository) scanCategory(ctx context.Context, query string, args ...any) (*domain.Category, error) {
	var (
		c               domain.Category
		collectionsJSON []byte
		imagesJSON      []byte
	)

	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&c.ID,
		&c.Name,
		&c.Slug,
		&c.ImageURL,
		&c.Description,
		&collectionsJSON,
		&imagesJSON,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan category: %w", err)
	}

	if err := unmarshalCategoryDocs(&c, collectionsJSON, imagesJSON); err != nil {
		return nil, err
	}

	return &c, nil
}

// scanCategoryRow scans a single row from a rows iterator into a Category struct.
func scanCategoryRow(rows pgx.Rows, c *domain.Category) error {
	var (
		collectionsJSON []byte
		imagesJSON      []byte
	)

	if err := rows.Scan(
		&c.ID,
		&c.Name,
		&c.Slug,
		&c.ImageURL,
		&c.Description,
		&collectionsJSON,
		&imagesJSON,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return err
	}

	return unmarshalCategoryDocs(c, collectionsJSON, imagesJSON)
}

func marshalCategoryDocs(c *domain.Category) (collections, images []byte, err error) {
	collections, err = json.Marshal(c.Collections)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal collections: %w", err)
	}
	images, err = json.Marshal(c.CollectionImages)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal collection images: %w", err)
	}
	return collections, images, nil
}

func unmarshalCategoryDocs(c *domain.Category, collectionsJSON, imagesJSON []byte) error {
	if collectionsJSON != nil {
		if err := json.Unmarshal(collectionsJSON, &c.Collections); err != nil {
			return fmt.Errorf("unmarshal collections: %w", err)
		}
	}
	if imagesJSON != nil {
		if err := json.Unmarshal(imagesJSON, &c.CollectionImages); err != nil {
			return fmt.Errorf("unmarshal collection images: %w", err)
		}
	}
	return nil
}
