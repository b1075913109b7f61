package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/maisonarte/catalog-service/internal/domain"
	"github.com/maisonarte/catalog-service/pkg/database"
	apperrors "github.com/maisonarte/catalog-service/pkg/errors"
)

// productColumns is the standard SELECT column list for products.
const productColumns = `id, name, slug, category_slug, collection, price, description,
	colors, media, variants, in_stock, featured, rating, rating_count, created_at, updated_at`

// ProductRepository implements product persistence operations using
// PostgreSQL. Colors, media, and variants are stored as JSONB documents on
// the product row; they are always read and written as a whole.
type ProductRepository struct {
	pool database.DBTX
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool database.DBTX) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// Create inserts a new product into the database.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	colorsJSON, mediaJSON, variantsJSON, err := marshalProductDocs(p)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO products (id, name, slug, category_slug, collection, price, description,
			colors, media, variants, in_stock, featured, rating, rating_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err = r.pool.Exec(ctx, query,
		p.ID,
		p.Name,
		p.Slug,
		p.Category,
		p.Collection,
		p.Price,
		p.Description,
		colorsJSON,
		mediaJSON,
		variantsJSON,
		p.InStock,
		p.Featured,
		p.Rating,
		p.RatingCount,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("product", "slug", p.Slug)
		}
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

// GetByID retrieves a product by its ID.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)
	return r.scanProduct(ctx, query, id)
}

// GetBySlug retrieves a product by its URL-friendly slug.
func (r *ProductRepository) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE slug = $1`, productColumns)
	return r.scanProduct(ctx, query, slug)
}

// ListAll returns every product ordered by creation time descending. The
// result is the snapshot the in-memory facet engine operates on.
func (r *ProductRepository) ListAll(ctx context.Context) ([]domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products ORDER BY created_at DESC`, productColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product

	for rows.Next() {
		var p domain.Product
		if err := scanProductRow(rows, &p); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	if products == nil {
		products = []domain.Product{}
	}

	return products, nil
}

// Update modifies an existing product in the database.
func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	colorsJSON, mediaJSON, variantsJSON, err := marshalProductDocs(p)
	if err != nil {
		return err
	}

	p.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE products
		SET name = $1, slug = $2, category_slug = $3, collection = $4, price = $5,
		    description = $6, colors = $7, media = $8, variants = $9,
		    in_stock = $10, featured = $11, updated_at = $12
		WHERE id = $13`

	ct, err := r.pool.Exec(ctx, query,
		p.Name,
		p.Slug,
		p.Category,
		p.Collection,
		p.Price,
		p.Description,
		colorsJSON,
		mediaJSON,
		variantsJSON,
		p.InStock,
		p.Featured,
		p.UpdatedAt,
		p.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("product", "slug", p.Slug)
		}
		return fmt.Errorf("update product: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", p.ID)
	}

	return nil
}

// UpdateRating stores the review aggregate on the product record.
func (r *ProductRepository) UpdateRating(ctx context.Context, productID string, rating float64, count int) error {
	query := `UPDATE products SET rating = $1, rating_count = $2, updated_at = $3 WHERE id = $4`

	ct, err := r.pool.Exec(ctx, query, rating, count, time.Now().UTC(), productID)
	if err != nil {
		return fmt.Errorf("update product rating: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", productID)
	}

	return nil
}

// Delete removes a product from the database by its ID.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", id)
	}

	return nil
}

// scanProduct executes a query expected to return a single product row.
func (r *ProductRepository) scanProduct(ctx context.Context, query string, args ...any) (*domain.Product, error) {
	var (
		p            domain.Product
		colorsJSON   []byte
		mediaJSON    []byte
		variantsJSON []byte
	)

	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&p.ID,
		&p.Name,
		&p.Slug,
		&p.Category,
		&p.Collection,
		&p.Price,
		&p.Description,
		&colorsJSON,
		&mediaJSON,
		&variantsJSON,
		&p.InStock,
		&p.Featured,
		&p.Rating,
		&p.RatingCount,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}

	if err := unmarshalProductDocs(&p, colorsJSON, mediaJSON, variantsJSON); err != nil {
		return nil, err
	}

	return &p, nil
}

// scanProductRow scans a single row from a rows iterator into a Product struct.
func scanProductRow(rows pgx.Rows, p *domain.Product) error {
	var (
		colorsJSON   []byte
		mediaJSON    []byte
		variantsJSON []byte
	)

	if err := rows.Scan(
		&p.ID,
		&p.Name,
		&p.Slug,
		&p.Category,
		&p.Collection,
		&p.Price,
		&p.Description,
		&colorsJSON,
		&mediaJSON,
		&variantsJSON,
		&p.InStock,
		&p.Featured,
		&p.Rating,
		&p.RatingCount,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return err
	}

	return unmarshalProductDocs(p, colorsJSON, mediaJSON, variantsJSON)
}

func marshalProductDocs(p *domain.Product) (colors, media, variants []byte, err error) {
	colors, err = json.Marshal(p.Colors)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("marshal colors: %w", err)
	}
	media, err = json.Marshal(p.Media)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("marshal media: %w", err)
	}
	variants, err = json.Marshal(p.Variants)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("marshal variants: %w", err)
	}
	return colors, media, variants, nil
}

func unmarshalProductDocs(p *domain.Product, colorsJSON, mediaJSON, variantsJSON []byte) error {
	if colorsJSON != nil {
		if err := json.Unmarshal(colorsJSON, &p.Colors); err != nil {
			return fmt.Errorf("unmarshal colors: %w", err)
		}
	}
	if mediaJSON != nil {
		if err := json.Unmarshal(mediaJSON, &p.Media); err != nil {
			return fmt.Errorf("unmarshal media: %w", err)
		}
	}
	if variantsJSON != nil {
		if err := json.Unmarshal(variantsJSON, &p.Variants); err != nil {
			return fmt.Errorf("unmarshal variants: %w", err)
		}
	}
	return nil
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
