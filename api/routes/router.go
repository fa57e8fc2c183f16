package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sgavilan/leatherstore-backend/api/controllers"
	categorycontrollers "github.com/sgavilan/leatherstore-backend/api/controllers/categories"
	clientcontrollers "github.com/sgavilan/leatherstore-backend/api/controllers/clients"
	ordercontrollers "github.com/sgavilan/leatherstore-backend/api/controllers/orders"
	productcontrollers "github.com/sgavilan/leatherstore-backend/api/controllers/products"
	stockcontrollers "github.com/sgavilan/leatherstore-backend/api/controllers/stock"
	"github.com/sgavilan/leatherstore-backend/api/middleware"
	"github.com/sgavilan/leatherstore-backend/internal/categories"
	"github.com/sgavilan/leatherstore-backend/internal/clients"
	"github.com/sgavilan/leatherstore-backend/internal/inventory"
	"github.com/sgavilan/leatherstore-backend/internal/orders"
	"github.com/sgavilan/leatherstore-backend/internal/products"
	"github.com/sgavilan/leatherstore-backend/pkg/config"
	"github.com/sgavilan/leatherstore-backend/pkg/db"
	"github.com/sgavilan/leatherstore-backend/pkg/logger"
	"github.com/sgavilan/leatherstore-backend/pkg/metrics"
	"github.com/sgavilan/leatherstore-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          db.Pinger
	Redis       *redis.Client
	HTTPMetrics *metrics.HTTPMetrics
	Registry    *prometheus.Registry

	Orders     orders.Service
	Stock      inventory.Service
	Products   products.Service
	Categories categories.Service
	Clients    clients.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "Idempotency-Key", "X-Request-Id"},
			AllowCredentials: false,
			MaxAge:           300,
		}),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", ordercontrollers.Create(deps.Orders, logg))
			r.Get("/", ordercontrollers.List(deps.Orders, logg))
			r.Get("/client/{clientId}", ordercontrollers.ListByClient(deps.Orders, logg))
			r.Get("/status/{status}", ordercontrollers.ListByStatus(deps.Orders, logg))
			r.Get("/{orderId}", ordercontrollers.Get(deps.Orders, logg))
			r.Put("/{orderId}", ordercontrollers.Update(deps.Orders, logg))
			r.Put("/{orderId}/status", ordercontrollers.ChangeStatus(deps.Orders, logg))
			r.Delete("/{orderId}", ordercontrollers.Cancel(deps.Orders, logg))
		})

		r.Route("/stock", func(r chi.Router) {
			r.Post("/", stockcontrollers.Create(deps.Stock, logg))
			r.Get("/", stockcontrollers.List(deps.Stock, logg))
			r.Get("/low", stockcontrollers.ListLow(deps.Stock, logg))
			r.Get("/product/{productId}", stockcontrollers.GetByProduct(deps.Stock, logg))
			r.Put("/increase/{productId}", stockcontrollers.Increase(deps.Stock, logg))
			r.Put("/decrease/{productId}", stockcontrollers.Decrease(deps.Stock, logg))
			r.Get("/{stockId}", stockcontrollers.Get(deps.Stock, logg))
			r.Put("/{stockId}", stockcontrollers.Update(deps.Stock, logg))
			r.Delete("/{stockId}", stockcontrollers.Delete(deps.Stock, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Post("/", productcontrollers.Create(deps.Products, logg))
			r.Get("/", productcontrollers.List(deps.Products, logg))
			r.Get("/category/{categoryId}", productcontrollers.ListByCategory(deps.Products, logg))
			r.Get("/{productId}", productcontrollers.Get(deps.Products, logg))
			r.Put("/{productId}", productcontrollers.Update(deps.Products, logg))
			r.Delete("/{productId}", productcontrollers.Delete(deps.Products, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Post("/", categorycontrollers.Create(deps.Categories, logg))
			r.Get("/", categorycontrollers.List(deps.Categories, logg))
			r.Get("/{categoryId}", categorycontrollers.Get(deps.Categories, logg))
			r.Put("/{categoryId}", categorycontrollers.Update(deps.Categories, logg))
			r.Delete("/{categoryId}", categorycontrollers.Delete(deps.Categories, logg))
		})

		r.Route("/clients", func(r chi.Router) {
			r.Post("/", clientcontrollers.Create(deps.Clients, logg))
			r.Get("/", clientcontrollers.List(deps.Clients, logg))
			r.Get("/document/{documentId}", clientcontrollers.GetByDocument(deps.Clients, logg))
			r.Get("/{clientId}", clientcontrollers.Get(deps.Clients, logg))
			r.Put("/{clientId}", clientcontrollers.Update(deps.Clients, logg))
			r.Delete("/{clientId}", clientcontrollers.Delete(deps.Clients, logg))
		})
	})

	return r
}
