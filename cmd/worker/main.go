package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/gallery-essence/essence-pos/internal/app"
	"github.com/gallery-essence/essence-pos/internal/catalog"
	"github.com/gallery-essence/essence-pos/internal/platform/cache"
	"github.com/gallery-essence/essence-pos/internal/platform/db"
	"github.com/gallery-essence/essence-pos/internal/reports"
	"github.com/gallery-essence/essence-pos/internal/sales"
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

	catalogRepo := catalog.NewRepository(dbpool)
	catalogService := catalog.NewService(catalogRepo, nil, catalog.CostConfig{FragranceCostPerGram: cfg.FragranceCostPerGram})

	salesRepo := sales.NewRepository(dbpool)
	reportsService := reports.NewService(salesRepo, redisClient, cfg.SummaryCacheTTL, logger)

	warmTask, err := jobs.NewSummaryWarmTask(jobs.SummaryWarmPayload{})
	if err != nil {
		logger.Error("build warm task", slog.Any("error", err))
		os.Exit(1)
	}
	refreshTask, err := jobs.NewRecipeCostRefreshTask(time.Now().UTC())
	if err != nil {
		logger.Error("build refresh task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypeSummaryWarm, Handler: jobs.NewSummaryWarmHandler(reportsService, logger)},
			{Type: jobs.TaskTypeRecipeCostRefresh, Handler: jobs.NewRecipeCostRefreshHandler(catalogService, logger)},
		},
		Cron: []jobs.CronRegistration{
			// Keep today's summary warm through business hours.
			{Spec: "*/30 * * * *", Task: warmTask},
			// Nightly estimated-cost refresh.
			{Spec: "0 3 * * *", Task: refreshTask},
		},
	})
	if err != nil {
		logger.Error("build worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("starting worker", slog.String("redis", cfg.RedisAddr))
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker shut down")
}
