package http

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/maisonarte/catalog-service/internal/domain"
	"github.com/maisonarte/catalog-service/internal/service"
	"github.com/maisonarte/catalog-service/pkg/health"
	"github.com/maisonarte/catalog-service/pkg/middleware"
)

const testAdminToken = "test-admin-token"

func (f *handlerFixture) fullRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := testLogger()
	producer := testEventProducer()

	productService := service.NewProductService(f.products, f.categories, f.snapshots, producer, logger)
	categoryService := service.NewCategoryService(f.categories, f.snapshots, producer, logger)
	reviewService := service.NewReviewService(f.reviews, f.products, f.snapshots, logger)
	uploadService := service.NewUploadService(t.TempDir(), "https://cdn.example.com/media", logger)

	return NewRouter(productService, categoryService, reviewService, uploadService,
		health.NewHandler(), logger, RouterConfig{
			AdminToken: testAdminToken,
			CORS:       middleware.DefaultCORSConfig(),
		})
}

func TestRouter_PublicReadsNeedNoToken(t *testing.T) {
	f := newFixture()
	router := f.fullRouter(t)

	f.snapshots.On("Get", mock.Anything).Return(catalogSnapshot(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_AdminWriteRequiresToken(t *testing.T) {
	f := newFixture()
	router := f.fullRouter(t)

	b, _ := json.Marshal(CreateProductRequest{Name: "Ceramic Vase", Category: "wall-art"})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	f.products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRouter_AdminWriteRejectsWrongToken(t *testing.T) {
	f := newFixture()
	router := f.fullRouter(t)

	b, _ := json.Marshal(CreateProductRequest{Name: "Ceramic Vase", Category: "wall-art"})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer wrong-token")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_AdminWriteWithToken(t *testing.T) {
	f := newFixture()
	router := f.fullRouter(t)

	f.categories.On("GetBySlug", mock.Anything, "wall-art").Return(wallArtCategory(), nil)
	f.products.On("Create", mock.Anything, mock.AnythingOfType("*domain.Product")).Return(nil)
	f.snapshots.On("Invalidate", mock.Anything).Return(nil)

	price := 1800.0
	b, _ := json.Marshal(CreateProductRequest{
		Name:     "Ceramic Vase",
		Category: "wall-art",
		Price:    &price,
		Media:    []domain.MediaItem{{URL: "https://cdn.example.com/vase.jpg", Type: domain.MediaTypeImage}},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+testAdminToken)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	f.products.AssertExpectations(t)
}

func TestRouter_UploadWithToken(t *testing.T) {
	f := newFixture()
	router := f.fullRouter(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("files", "photo.png")
	require.NoError(t, err)
	_, err = part.Write(pngHeader)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/images", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+testAdminToken)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var envelope struct {
		Data UploadMediaResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	require.Len(t, envelope.Data.Images, 1)
	assert.Equal(t, domain.MediaTypeImage, envelope.Data.Images[0].Type)
}

func TestRouter_UploadWithoutToken(t *testing.T) {
	f := newFixture()
	router := f.fullRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/images", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_HealthEndpoints(t *testing.T) {
	f := newFixture()
	router := f.fullRouter(t)

	for _, path := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

// pngHeader is a minimal PNG prefix, enough for content sniffing.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13, 'I', 'H', 'D', 'R'}
