package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"HealthRocket/config"
	"HealthRocket/internal/bootstrap"
	"HealthRocket/internal/cache"
	"HealthRocket/internal/queue"
	"HealthRocket/internal/repository"
	"HealthRocket/pkg/logger"
	"HealthRocket/pkg/snowflake"
	"HealthRocket/storage"
	"HealthRocket/storage/database"
)

func main() {
	logger.Init("worker")
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Logger.Info("Received shutdown signal",
			zap.String("signal", sig.String()),
		)
		cancel()
	}()

	shutdownTelemetry := bootstrap.Telemetry(ctx, &config.Cfg, "worker")
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTelemetry(shutdownCtx)
	}()

	if err := snowflake.Init(config.Cfg.SnowflakeMachineID, config.Cfg.SnowflakeDataCenter); err != nil {
		logger.Logger.Fatal("Failed to initialize snowflake", zap.Error(err))
	}

	if err := storage.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer storage.Close()

	events := queue.NewProgressEventConsumer(
		repository.NewFuelPointRepository(database.DB()),
		cache.NewSnapshotCache(config.Cfg.SnapshotCacheTTL()),
	)
	reminders := queue.NewBoostReminderConsumer()

	logger.Logger.Info("Worker service starting",
		zap.String("service", config.Cfg.ServiceName+"-worker"),
		zap.String("environment", config.Cfg.Environment),
	)

	// one consumer failing stops the other so the process restarts as a whole
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return events.Start(gctx) })
	g.Go(func() error { return reminders.Start(gctx) })

	if err := g.Wait(); err != nil {
		logger.Logger.Error("Consumer stopped", zap.Error(err))
	}

	logger.Logger.Info("Worker service shutting down gracefully")
}
