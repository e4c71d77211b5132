package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/davidromeroc/tienda-backend/api/controllers"
	"github.com/davidromeroc/tienda-backend/api/middleware"
	"github.com/davidromeroc/tienda-backend/internal/accounts"
	"github.com/davidromeroc/tienda-backend/internal/analytics"
	authsvc "github.com/davidromeroc/tienda-backend/internal/auth"
	"github.com/davidromeroc/tienda-backend/internal/catalog"
	"github.com/davidromeroc/tienda-backend/internal/inventory"
	"github.com/davidromeroc/tienda-backend/internal/orders"
	"github.com/davidromeroc/tienda-backend/pkg/config"
	"github.com/davidromeroc/tienda-backend/pkg/db"
	"github.com/davidromeroc/tienda-backend/pkg/logger"
	"github.com/davidromeroc/tienda-backend/pkg/metrics"
	pkgredis "github.com/davidromeroc/tienda-backend/pkg/redis"
)

// Services bundles the wired domain services the router serves.
type Services struct {
	Auth      authsvc.Service
	Catalog   catalog.Service
	Orders    orders.Service
	Inventory inventory.Service
	Accounts  accounts.Service
	Analytics analytics.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *pkgredis.Client,
	registry *prometheus.Registry,
	httpMetrics *metrics.HTTPMetrics,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Metrics(httpMetrics),
	)

	loginPolicy := middleware.NewThrottlePolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewThrottlePolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbClient, redisClient, logg))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.Throttle(loginPolicy, redisClient, logg)).
			Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		r.With(
			middleware.Throttle(registerPolicy, redisClient, logg),
			middleware.Idempotency(redisClient, logg),
		).Post("/register", controllers.AuthRegister(svcs.Auth, logg))
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		// Public catalog reads.
		r.Get("/", controllers.ListProducts(svcs.Catalog, logg))
		r.Get("/categories", controllers.ListCategories(svcs.Catalog, logg))
		r.Get("/{productID}", controllers.GetProduct(svcs.Catalog, logg))

		// Catalog writes are admin only.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg), middleware.RequireAdmin(logg))
			r.Post("/", controllers.CreateProduct(svcs.Catalog, logg))
			r.Put("/{productID}", controllers.UpdateProduct(svcs.Catalog, logg))
			r.Delete("/{productID}", controllers.DeleteProduct(svcs.Catalog, logg))
		})
	})

	// Authenticated surface.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Get("/users/me", controllers.AuthMe(svcs.Auth, logg))

		r.Post("/orders", controllers.CreateOrder(svcs.Orders, logg))
		r.Get("/orders", controllers.ListMyOrders(svcs.Orders, logg))
		r.Get("/orders/{orderID}", controllers.GetOrder(svcs.Orders, logg))

		// Admin surface.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(logg))

			r.Post("/inventory/movements", controllers.CreateMovement(svcs.Inventory, logg))
			r.Get("/inventory/movements", controllers.ListMovements(svcs.Inventory, logg))
			r.Get("/inventory/dashboard", controllers.InventoryDashboard(svcs.Inventory, logg))

			r.Get("/admin/users", controllers.ListCustomers(svcs.Accounts, logg))
			r.Get("/admin/users/{userID}", controllers.GetCustomer(svcs.Accounts, logg))

			r.Get("/analytics/dashboard", controllers.SalesDashboard(svcs.Analytics, logg))
		})
	})

	return r
}
