package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/zedlink-test/My-Shop/internal/logger"
)

type RouterConfig struct {
	RequestTimeout time.Duration
	MaxBodySize    int64
	Session        SessionOptions
	JWTSecret      string
	AdminRole      string
}

type Services struct {
	Catalog  CatalogService
	Carts    CartService
	Checkout CheckoutService
	Admin    AdminService
	Metrics  http.Handler
}

// NewRouter wires the storefront and admin routes.
func NewRouter(cfg RouterConfig, svc Services, log *zap.Logger) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 15 * time.Second
	}
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = 1 << 20 // 1MB
	}

	catalogHandler := NewCatalogHandler(svc.Catalog, cfg.RequestTimeout, log)
	cartHandler := NewCartHandler(svc.Carts, cfg.RequestTimeout, log)
	checkoutHandler := NewCheckoutHandler(svc.Checkout, cfg.RequestTimeout, log)
	adminHandler := NewAdminHandler(svc.Admin, cfg.RequestTimeout, log)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.Middleware(log))
	r.Use(logger.Recovery(log))
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.RequestSize(cfg.MaxBodySize))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if svc.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", svc.Metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(SessionMiddleware(cfg.Session))

			r.Get("/products", catalogHandler.ListProducts)
			r.Get("/products/{id}", catalogHandler.GetProduct)
			r.Get("/categories", catalogHandler.ListCategories)
			r.Get("/regions", catalogHandler.ListRegions)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartHandler.GetCart)
				r.Delete("/", cartHandler.ClearCart)
				r.Post("/items", cartHandler.AddItem)
				r.Put("/items/{product_id}", cartHandler.UpdateQuantity)
				r.Delete("/items/{product_id}", cartHandler.RemoveItem)
			})

			r.Post("/checkout", checkoutHandler.Checkout)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(AdminAuth(cfg.JWTSecret, cfg.AdminRole))

			r.Get("/connection", adminHandler.CheckConnection)

			r.Get("/orders", adminHandler.ListOrders)
			r.Patch("/orders/{id}/status", adminHandler.UpdateOrderStatus)
			r.Delete("/orders/{id}", adminHandler.DeleteOrder)

			r.Post("/products", adminHandler.CreateProduct)
			r.Put("/products/{id}", adminHandler.UpdateProduct)
			r.Delete("/products/{id}", adminHandler.DeleteProduct)
		})
	})

	return r
}
