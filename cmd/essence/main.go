package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/gallery-essence/essence-pos/internal/app"
	"github.com/gallery-essence/essence-pos/internal/catalog"
	"github.com/gallery-essence/essence-pos/internal/inventory"
	"github.com/gallery-essence/essence-pos/internal/observability"
	"github.com/gallery-essence/essence-pos/internal/platform/cache"
	"github.com/gallery-essence/essence-pos/internal/platform/db"
	"github.com/gallery-essence/essence-pos/internal/reports"
	"github.com/gallery-essence/essence-pos/internal/sales"
	"github.com/gallery-essence/essence-pos/internal/sales/customers"
	"github.com/gallery-essence/essence-pos/internal/shared"
	"github.com/gallery-essence/essence-pos/jobs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	auditLogger := shared.NewAuditLogger(dbpool)
	idemStore := shared.NewIdempotencyStore(dbpool)
	metrics := observability.NewMetrics()

	pricing := sales.PricingConfig{
		CardPaymentMethod:         cfg.CardPaymentMethod,
		CardSurchargeRate:         cfg.CardSurchargeRate,
		ExtraFragranceCostPerGram: cfg.ExtraFragranceCostPerGram,
		DefaultBottleType:         cfg.DefaultBottleType,
	}

	catalogRepo := catalog.NewRepository(dbpool)
	catalogService := catalog.NewService(catalogRepo, auditLogger, catalog.CostConfig{FragranceCostPerGram: cfg.FragranceCostPerGram})
	catalogHandler := catalog.NewHandler(logger, catalogService)

	customerRepo := customers.NewRepository(dbpool)
	customerService := customers.NewService(customerRepo)
	customerHandler := customers.NewHandler(logger, customerService)

	inventoryRepo := inventory.NewRepository(dbpool)
	inventoryService := inventory.NewService(inventoryRepo)
	inventoryHandler := inventory.NewHandler(logger, inventoryService)

	salesRepo := sales.NewRepository(dbpool)
	salesService := sales.NewService(salesRepo, catalogService, customerRepo, auditLogger, idemStore, pricing)
	salesHandler := sales.NewHandler(logger, salesService, metrics)

	reportsService := reports.NewService(salesRepo, redisClient, cfg.SummaryCacheTTL, logger)
	reportsHandler := reports.NewHandler(logger, reportsService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("build job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, jobClient, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		SalesHandler:     salesHandler,
		ReportsHandler:   reportsHandler,
		CatalogHandler:   catalogHandler,
		CustomersHandler: customerHandler,
		InventoryHandler: inventoryHandler,
		JobsHandler:      jobHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
