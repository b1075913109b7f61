package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/maisonarte/catalog-service/internal/domain"
	"github.com/maisonarte/catalog-service/internal/service"
	apperrors "github.com/maisonarte/catalog-service/pkg/errors"
)

func (f *handlerFixture) categoryRouter() *chi.Mux {
	svc := service.NewCategoryService(f.categories, f.snapshots, testEventProducer(), testLogger())
	handler := NewCategoryHandler(svc, testLogger())
	r := chi.NewRouter()
	r.Route("/api/v1/categories", func(r chi.Router) {
		r.Get("/", handler.ListCategories)
		r.Get("/{slug}", handler.GetCategory)
		r.Post("/", handler.CreateCategory)
		r.Put("/{id}", handler.UpdateCategory)
		r.Delete("/{id}", handler.DeleteCategory)
	})
	return r
}

func TestListCategories_Success(t *testing.T) {
	f := newFixture()
	router := f.categoryRouter()

	f.categories.On("ListAll", mock.Anything).
		Return([]domain.Category{*wallArtCategory()}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data []domain.Category `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "wall-art", envelope.Data[0].Slug)
	f.categories.AssertExpectations(t)
}

func TestGetCategory_NotFound(t *testing.T) {
	f := newFixture()
	router := f.categoryRouter()

	f.categories.On("GetBySlug", mock.Anything, "missing").
		Return(nil, apperrors.NotFound("category", "missing"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/categories/missing", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestCreateCategory_Success(t *testing.T) {
	f := newFixture()
	router := f.categoryRouter()

	f.categories.On("Create", mock.Anything, mock.AnythingOfType("*domain.Category")).Return(nil)
	f.snapshots.On("Invalidate", mock.Anything).Return(nil)

	body := CreateCategoryRequest{
		Name:        "Islamic Art",
		Collections: []string{"Calligraphy", "Geometric"},
		CollectionImages: map[string]string{
			"Calligraphy": "https://cdn.example.com/calligraphy.jpg",
		},
	}
	b, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/categories", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var envelope struct {
		Data domain.Category `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	assert.Equal(t, "islamic-art", envelope.Data.Slug)
	f.categories.AssertExpectations(t)
}

func TestCreateCategory_OrphanedImageKey(t *testing.T) {
	f := newFixture()
	router := f.categoryRouter()

	body := CreateCategoryRequest{
		Name:        "Islamic Art",
		Collections: []string{"Calligraphy"},
		CollectionImages: map[string]string{
			// Key case does not match the declared collection.
			"calligraphy": "https://cdn.example.com/calligraphy.jpg",
		},
	}
	b, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/categories", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
	f.categories.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestDeleteCategory_InvalidUUID(t *testing.T) {
	f := newFixture()
	router := f.categoryRouter()

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/categories/not-a-uuid", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_PARAMETER", resp.Error.Code)
}
