package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DanielPopoola/rental-payment-gateway/internal/adapters/gateway"
	"github.com/DanielPopoola/rental-payment-gateway/internal/adapters/handler"
	"github.com/DanielPopoola/rental-payment-gateway/internal/adapters/handler/middleware"
	"github.com/DanielPopoola/rental-payment-gateway/internal/adapters/postgres"
	"github.com/DanielPopoola/rental-payment-gateway/internal/adapters/sqlite"
	"github.com/DanielPopoola/rental-payment-gateway/internal/config"
	"github.com/DanielPopoola/rental-payment-gateway/internal/core/ports"
	"github.com/DanielPopoola/rental-payment-gateway/internal/core/service"
	"github.com/DanielPopoola/rental-payment-gateway/internal/metrics"
	"github.com/DanielPopoola/rental-payment-gateway/internal/worker"
)

// storage is what main needs from either backend.
type storage interface {
	Ping(ctx context.Context) error
	Close()
}

func openStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ports.Repository, storage, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		db, err := postgres.Connect(ctx, &cfg.Database, logger)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Storage.AutoMigrate {
			if err := db.Migrate(ctx); err != nil {
				db.Close()
				return nil, nil, err
			}
		}
		return postgres.NewRepository(db), db, nil
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.Storage.SQLitePath, logger)
		if err != nil {
			return nil, nil, err
		}
		return sqlite.NewRepository(db), db, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting rental payment service",
		"port", cfg.Server.Port,
		"storage", cfg.Storage.Driver,
		"log_level", cfg.Logger.Level,
	)

	ctx := context.Background()
	repo, db, err := openStorage(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	counters := metrics.New()
	gatewayClient := gateway.NewClient(cfg.Gateway)

	orderService := service.NewOrderService(gatewayClient, counters, cfg.Gateway.Currency, logger)
	reconcileService := service.NewReconcileService(repo, gatewayClient, counters, cfg.Gateway.MinorUnitFactor, logger)
	queryService := service.NewPaymentQueryService(repo, counters, logger)

	paymentHandler := handler.NewPaymentHandler(orderService, reconcileService, queryService, logger)
	healthHandler := handler.NewHealthHandler(db, cfg.Storage.Driver, counters, logger)

	mux := http.NewServeMux()
	handler.RegisterDocsRoutes(mux)
	paymentHandler.RegisterRoutes(mux)
	healthHandler.RegisterRoutes(mux)

	doc, err := handler.LoadOpenAPISpec(ctx)
	if err != nil {
		logger.Error("failed to load api description", "error", err)
		os.Exit(1)
	}
	validateRequests, err := middleware.OpenAPIValidator(doc, logger)
	if err != nil {
		logger.Error("failed to build request validator", "error", err)
		os.Exit(1)
	}

	h := validateRequests(mux)
	h = middleware.Recovery(logger)(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Timeout(cfg.Server.RequestTimeout)(h)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      h,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	if cfg.Worker.Enabled {
		scanner := worker.NewInconsistencyScanner(
			repo,
			counters,
			cfg.Worker.Interval,
			cfg.Worker.BatchSize,
			logger,
		)
		go scanner.Start(workerCtx)
	}

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	cancelWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
