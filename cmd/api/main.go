package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/sgavilan/leatherstore-backend/api/routes"
	"github.com/sgavilan/leatherstore-backend/internal/categories"
	"github.com/sgavilan/leatherstore-backend/internal/clients"
	"github.com/sgavilan/leatherstore-backend/internal/inventory"
	"github.com/sgavilan/leatherstore-backend/internal/orders"
	"github.com/sgavilan/leatherstore-backend/internal/products"
	"github.com/sgavilan/leatherstore-backend/pkg/config"
	"github.com/sgavilan/leatherstore-backend/pkg/db"
	"github.com/sgavilan/leatherstore-backend/pkg/logger"
	"github.com/sgavilan/leatherstore-backend/pkg/metrics"
	"github.com/sgavilan/leatherstore-backend/pkg/migrate"
	"github.com/sgavilan/leatherstore-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logg := logger.New(logger.Options{
		ServiceName: "leatherstore-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return fmt.Errorf("connecting database: %w", err)
	}
	defer dbClient.Close()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return fmt.Errorf("auto migration: %w", err)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return fmt.Errorf("connecting redis: %w", err)
	}
	defer redisClient.Close()

	conn := dbClient.DB()
	categoryRepo := categories.NewRepository(conn)
	clientRepo := clients.NewRepository(conn)
	productRepo := products.NewRepository(conn)
	stockRepo := inventory.NewRepository(conn)
	orderRepo := orders.NewRepository(conn)
	ledger := inventory.NewLedger()

	categoryService, err := categories.NewService(categoryRepo)
	if err != nil {
		return err
	}
	clientService, err := clients.NewService(clientRepo)
	if err != nil {
		return err
	}
	productService, err := products.NewService(productRepo, dbClient, categoryRepo, ledger, stockRepo)
	if err != nil {
		return err
	}
	stockService, err := inventory.NewService(stockRepo, dbClient, productRepo)
	if err != nil {
		return err
	}
	orderService, err := orders.NewService(orderRepo, dbClient, clientRepo, productRepo, ledger)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	router := routes.NewRouter(routes.Deps{
		Config:      cfg,
		Logger:      logg,
		DB:          dbClient,
		Redis:       redisClient,
		HTTPMetrics: httpMetrics,
		Registry:    registry,
		Orders:      orderService,
		Stock:       stockService,
		Products:    productService,
		Categories:  categoryService,
		Clients:     clientService,
	})

	server := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(logg.WithField(ctx, "port", cfg.App.Port), "http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logg.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
