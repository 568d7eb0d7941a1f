// Package http wires the engine's services into a chi router.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okarpov/storecore/internal/service"
	"github.com/okarpov/storecore/pkg/health"
	"github.com/okarpov/storecore/pkg/middleware"
)

// RouterConfig bundles everything the router needs.
type RouterConfig struct {
	Products  *service.ProductService
	Customers *service.CustomerService
	Orders    *service.OrderService
	Reviews   *service.ReviewService
	Analytics *service.AnalyticsService
	Health    *health.Handler
	Log       *slog.Logger

	CORSAllowedOrigins []string
}

// NewRouter builds the full HTTP surface.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(cfg.Log))
	r.Use(middleware.RequestLogging(cfg.Log))
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	products := NewProductHandler(cfg.Products, cfg.Log)
	customers := NewCustomerHandler(cfg.Customers, cfg.Log)
	orders := NewOrderHandler(cfg.Orders, cfg.Log)
	reviews := NewReviewHandler(cfg.Reviews, cfg.Log)
	analytics := NewAnalyticsHandler(cfg.Analytics, cfg.Log)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Post("/", products.Create)
			r.Get("/", products.List)
			r.Get("/out-of-stock", products.OutOfStock)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", products.Get)
				r.Put("/", products.Update)
				r.Delete("/", products.Delete)
				r.Get("/reviews", reviews.ListByProduct)
			})
		})

		r.Route("/customers", func(r chi.Router) {
			r.Post("/", customers.Create)
			r.Get("/", customers.List)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", customers.Get)
				r.Get("/orders", customers.Orders)
				r.Get("/reviews", customers.Reviews)
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", orders.Create)
			r.Get("/", orders.List)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", orders.Get)
				r.Patch("/status", orders.UpdateStatus)
				r.Post("/cancel", orders.Cancel)
			})
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Post("/", reviews.Create)
			r.Get("/{id}", reviews.Get)
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/top-products", analytics.TopProducts)
			r.Get("/common-products", analytics.CommonProducts)
		})

		r.Get("/stats", analytics.Stats)
	})

	return r
}
