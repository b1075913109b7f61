// Package http contains the HTTP handlers and router of the catalog service.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/maisonarte/catalog-service/internal/catalog"
	"github.com/maisonarte/catalog-service/internal/domain"
	"github.com/maisonarte/catalog-service/internal/service"
	"github.com/maisonarte/catalog-service/pkg/httputil"
	"github.com/maisonarte/catalog-service/pkg/pagination"
	"github.com/maisonarte/catalog-service/pkg/validator"
)

// ProductHandler handles HTTP requests for product endpoints.
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(svc *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// VariantRowRequest is one raw size/price row in a product write request. The
// optional value pins an existing variant's identifier across edits.
type VariantRowRequest struct {
	Name       string `json:"name"`
	Dimensions string `json:"dimensions"`
	Price      string `json:"price"`
	Value      string `json:"value"`
}

// CreateProductRequest is the JSON request body for creating a product.
type CreateProductRequest struct {
	Name        string              `json:"name" validate:"required,min=1,max=500"`
	Category    string              `json:"category" validate:"required"`
	Collection  string              `json:"collection"`
	Description string              `json:"description"`
	Price       *float64            `json:"price"`
	Colors      []domain.Color      `json:"colors"`
	Media       []domain.MediaItem  `json:"media"`
	Variants    []VariantRowRequest `json:"variants"`
	HasVariants bool                `json:"has_variants"`
	InStock     bool                `json:"in_stock"`
	Featured    bool                `json:"featured"`
}

// UpdateProductRequest is the JSON request body for updating a product. All
// fields are optional; absent fields are left unchanged.
type UpdateProductRequest struct {
	Name        *string              `json:"name" validate:"omitempty,min=1,max=500"`
	Category    *string              `json:"category"`
	Collection  *string              `json:"collection"`
	Description *string              `json:"description"`
	Price       *float64             `json:"price"`
	Colors      *[]domain.Color      `json:"colors"`
	Media       *[]domain.MediaItem  `json:"media"`
	Variants    *[]VariantRowRequest `json:"variants"`
	HasVariants *bool                `json:"has_variants"`
	InStock     *bool                `json:"in_stock"`
	Featured    *bool                `json:"featured"`
}

// ProductListResponse is the listing payload: one page of products plus the
// facet metadata for the filter sidebar.
type ProductListResponse struct {
	Items      []domain.Product    `json:"items"`
	TotalCount int                 `json:"total_count"`
	Page       int                 `json:"page"`
	PerPage    int                 `json:"per_page"`
	TotalPages int                 `json:"total_pages"`
	Facets     catalog.FacetCounts `json:"facets"`
}

// --- Handlers ---

// ListProducts handles GET /api/v1/products. Category and collection filters
// accept repeated parameters. An inverted price window is a valid query that
// matches nothing, not an error.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	spec := catalog.FilterSpec{
		CategorySlugs: splitMulti(query["category"]),
		Collections:   splitMulti(query["collection"]),
		Search:        query.Get("search"),
		Sort:          query.Get("sort"),
		Page:          pagination.FromRequest(r),
	}

	if v := query.Get("min_price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeParamError(w, "min_price must be a valid number")
			return
		}
		spec.PriceMin = &price
	}
	if v := query.Get("max_price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeParamError(w, "max_price must be a valid number")
			return
		}
		spec.PriceMax = &price
	}
	if v := query.Get("featured"); v != "" {
		featured, err := strconv.ParseBool(v)
		if err != nil {
			writeParamError(w, "featured must be true or false")
			return
		}
		spec.Featured = &featured
	}
	if v := query.Get("in_stock"); v != "" {
		inStock, err := strconv.ParseBool(v)
		if err != nil {
			writeParamError(w, "in_stock must be true or false")
			return
		}
		spec.InStock = &inStock
	}

	result, err := h.service.ListProducts(r.Context(), spec)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: ProductListResponse{
		Items:      result.Items,
		TotalCount: result.TotalCount,
		Page:       spec.Page.Page,
		PerPage:    spec.Page.PerPage,
		TotalPages: result.TotalPages,
		Facets:     result.Facets,
	}})
}

// GetProduct handles GET /api/v1/products/{slug}. The optional color query
// parameter selects which gallery variant to resolve.
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		writeParamError(w, "product slug is required")
		return
	}

	detail, err := h.service.GetProductDetail(r.Context(), slug, r.URL.Query().Get("color"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: detail})
}

// CreateProduct handles POST /api/v1/products.
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	// Limit request body to 1MB to prevent DoS via large payloads.
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBodyError(w, err)
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.service.CreateProduct(r.Context(), &service.CreateProductInput{
		Name:        req.Name,
		Category:    req.Category,
		Collection:  req.Collection,
		Description: req.Description,
		Price:       req.Price,
		Colors:      req.Colors,
		Media:       req.Media,
		VariantRows: variantRows(req.Variants),
		HasVariants: req.HasVariants,
		InStock:     req.InStock,
		Featured:    req.Featured,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: product})
}

// UpdateProduct handles PUT /api/v1/products/{id}.
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBodyError(w, err)
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	input := &service.UpdateProductInput{
		Name:        req.Name,
		Category:    req.Category,
		Collection:  req.Collection,
		Description: req.Description,
		Price:       req.Price,
		Colors:      req.Colors,
		Media:       req.Media,
		HasVariants: req.HasVariants,
		InStock:     req.InStock,
		Featured:    req.Featured,
	}
	if req.Variants != nil {
		rows := variantRows(*req.Variants)
		input.VariantRows = &rows
	}

	product, err := h.service.UpdateProduct(r.Context(), id.String(), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// DeleteProduct handles DELETE /api/v1/products/{id}.
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.DeleteProduct(r.Context(), id.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"id": id.String(), "status": "deleted"}})
}

// --- helpers ---

func variantRows(rows []VariantRowRequest) []catalog.VariantRow {
	out := make([]catalog.VariantRow, len(rows))
	for i, row := range rows {
		out[i] = catalog.VariantRow{
			Name:       row.Name,
			Dimensions: row.Dimensions,
			Price:      row.Price,
			Value:      row.Value,
		}
	}
	return out
}

// splitMulti accepts both repeated parameters and comma-separated values.
func splitMulti(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func writeParamError(w http.ResponseWriter, message string) {
	httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
		Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: message},
	})
}

func writeBodyError(w http.ResponseWriter, err error) {
	httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
		Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
	})
}
