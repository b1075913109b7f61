package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/maisonarte/catalog-service/internal/service"
	"github.com/maisonarte/catalog-service/pkg/health"
	"github.com/maisonarte/catalog-service/pkg/middleware"
)

// RouterConfig carries the router-level settings that come from the
// environment rather than from a service dependency.
type RouterConfig struct {
	AdminToken string
	PprofCIDRs []string
	CORS       middleware.CORSConfig
	UploadDir  string
}

// NewRouter creates a chi router with all catalog service routes registered.
// Storefront reads are public; catalog writes and uploads require the admin
// token.
func NewRouter(
	productService *service.ProductService,
	categoryService *service.CategoryService,
	reviewService *service.ReviewService,
	uploadService *service.UploadService,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("catalog"))
	r.Use(middleware.Tracing("catalog"))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, cfg.PprofCIDRs, logger)

	adminOnly := func(r chi.Router) chi.Router {
		return r.With(
			middleware.Auth(StaticTokenValidator(cfg.AdminToken)),
			middleware.RequireRole("admin"),
		)
	}

	// Product API endpoints
	productHandler := NewProductHandler(productService, logger)

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.With(middleware.CacheControl(60)).Get("/", productHandler.ListProducts)
		r.With(middleware.CacheControl(60)).Get("/{slug}", productHandler.GetProduct)

		admin := adminOnly(r)
		admin.Post("/", productHandler.CreateProduct)
		admin.Put("/{id}", productHandler.UpdateProduct)
		admin.Delete("/{id}", productHandler.DeleteProduct)
	})

	// Review API endpoints (nested under products)
	reviewHandler := NewReviewHandler(reviewService, logger)

	r.Route("/api/v1/products/{productId}/reviews", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/", reviewHandler.ListReviews)
		r.Post("/", reviewHandler.CreateReview)
	})

	// Category API endpoints
	categoryHandler := NewCategoryHandler(categoryService, logger)

	r.Route("/api/v1/categories", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.With(middleware.CacheControl(300)).Get("/", categoryHandler.ListCategories)
		r.With(middleware.CacheControl(300)).Get("/{slug}", categoryHandler.GetCategory)

		admin := adminOnly(r)
		admin.Post("/", categoryHandler.CreateCategory)
		admin.Put("/{id}", categoryHandler.UpdateCategory)
		admin.Delete("/{id}", categoryHandler.DeleteCategory)
	})

	// Upload API endpoints
	uploadHandler := NewUploadHandler(uploadService, logger)

	r.Route("/api/v1/uploads", func(r chi.Router) {
		admin := adminOnly(r)
		admin.Post("/images", uploadHandler.UploadMedia)
	})

	// Stored uploads, for deployments without an external CDN.
	if cfg.UploadDir != "" {
		fileServer := http.StripPrefix("/media/", http.FileServer(http.Dir(cfg.UploadDir)))
		r.With(middleware.CacheControl(3600)).Get("/media/*", fileServer.ServeHTTP)
	}

	return r
}
