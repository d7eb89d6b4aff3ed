package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/markberon/sari-store-backend/api/controllers"
	"github.com/markberon/sari-store-backend/api/middleware"
	cartsvc "github.com/markberon/sari-store-backend/internal/cart"
	checkoutsvc "github.com/markberon/sari-store-backend/internal/checkout"
	"github.com/markberon/sari-store-backend/internal/notify"
	orderssvc "github.com/markberon/sari-store-backend/internal/orders"
	"github.com/markberon/sari-store-backend/internal/products"
	"github.com/markberon/sari-store-backend/pkg/config"
	"github.com/markberon/sari-store-backend/pkg/db"
	"github.com/markberon/sari-store-backend/pkg/logger"
	pkgredis "github.com/markberon/sari-store-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config       *config.Config
	Logger       *logger.Logger
	DB           db.Pinger
	Redis        *pkgredis.Client
	Catalog      products.Service
	Cart         cartsvc.Service
	Checkout     checkoutsvc.Service
	Orders       orderssvc.Service
	Notifier     *notify.Dispatcher
	PromGatherer prometheus.Gatherer
}

func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(deps.Logger),
		middleware.RequestID(deps.Logger),
		middleware.Logging(deps.Logger),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(deps.Config))
		r.Get("/ready", controllers.HealthReady(deps.Config, deps.Logger, deps.DB, redisPinger(deps.Redis)))
	})

	if deps.PromGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.PromGatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/categories", controllers.ListCategories(deps.Catalog, deps.Logger))
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.BrowseProducts(deps.Catalog, deps.Logger))
			r.Get("/{slug}", controllers.GetProduct(deps.Catalog, deps.Logger))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.Session(deps.Logger))
			r.Get("/", controllers.CartFetch(deps.Cart, deps.Logger))
			r.Post("/items", controllers.CartAdd(deps.Cart, deps.Logger))
			r.Patch("/items/{productID}", controllers.CartUpdateQuantity(deps.Cart, deps.Logger))
			r.Delete("/items/{productID}", controllers.CartRemove(deps.Cart, deps.Logger))
			r.Delete("/", controllers.CartClear(deps.Cart, deps.Logger))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(deps.Logger))
			r.Use(middleware.Idempotency(idempotencyStore(deps.Redis), deps.Logger))
			r.Post("/checkout", controllers.Checkout(deps.Checkout, deps.Logger))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/{orderNumber}", controllers.GetOrder(deps.Orders, deps.Logger))
			r.Get("/", controllers.OrderHistory(deps.Orders, deps.Logger))
			r.Post("/history", controllers.MergeOrderHistory(deps.Orders, deps.Logger))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(deps.Logger))
			r.Use(middleware.Idempotency(idempotencyStore(deps.Redis), deps.Logger))
			r.Post("/notifications/order", controllers.SendOrderNotification(deps.Notifier, deps.Logger))
		})
	})

	return r
}

// redisPinger smooths over the typed-nil pitfall when redis is not wired.
func redisPinger(client *pkgredis.Client) interface {
	Ping(ctx context.Context) error
} {
	if client == nil {
		return nil
	}
	return client
}

func idempotencyStore(client *pkgredis.Client) pkgredis.IdempotencyStore {
	if client == nil {
		return nil
	}
	return client
}
