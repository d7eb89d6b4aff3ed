package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/markberon/sari-store-backend/api/routes"
	cartsvc "github.com/markberon/sari-store-backend/internal/cart"
	checkoutsvc "github.com/markberon/sari-store-backend/internal/checkout"
	"github.com/markberon/sari-store-backend/internal/notify"
	orderssvc "github.com/markberon/sari-store-backend/internal/orders"
	"github.com/markberon/sari-store-backend/internal/products"
	"github.com/markberon/sari-store-backend/pkg/config"
	"github.com/markberon/sari-store-backend/pkg/db"
	"github.com/markberon/sari-store-backend/pkg/logger"
	"github.com/markberon/sari-store-backend/pkg/metrics"
	"github.com/markberon/sari-store-backend/pkg/migrate"
	"github.com/markberon/sari-store-backend/pkg/pricing"
	pkgredis "github.com/markberon/sari-store-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := pkgredis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	storeMetrics := metrics.NewStorefrontMetrics(registry)

	rule := pricing.NewRule(cfg.Delivery.BaseFeeAmount(), cfg.Delivery.FreeThresholdAmount())

	catalogRepo := products.NewRepository(dbClient.DB())
	catalogService, err := products.NewService(catalogRepo, catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	cartRepo := cartsvc.NewRepository(dbClient.DB())
	cartService, err := cartsvc.NewService(cartRepo, dbClient, catalogRepo, rule)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	notifier, err := notify.NewDispatcher(cfg.Notify, cfg.Store, logg, storeMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create notification dispatcher", err)
		os.Exit(1)
	}

	ordersRepo := orderssvc.NewRepository(dbClient.DB())
	ordersService, err := orderssvc.NewService(ordersRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(ordersRepo, cartRepo, dbClient, notifier, rule, storeMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:       cfg,
			Logger:       logg,
			DB:           dbClient,
			Redis:        redisClient,
			Catalog:      catalogService,
			Cart:         cartService,
			Checkout:     checkoutService,
			Orders:       ordersService,
			Notifier:     notifier,
			PromGatherer: registry,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
