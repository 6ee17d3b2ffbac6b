package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"go.uber.org/zap"

	"HealthRocket/config"
	"HealthRocket/internal/bootstrap"
	"HealthRocket/internal/cache"
	"HealthRocket/internal/middleware"
	"HealthRocket/internal/queue"
	"HealthRocket/internal/repository"
	"HealthRocket/internal/router"
	"HealthRocket/internal/service"
	"HealthRocket/pkg/logger"
	"HealthRocket/pkg/snowflake"
	"HealthRocket/storage"
	"HealthRocket/storage/database"
)

func main() {
	config.MustValidate()

	logger.Init("server")
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

	shutdownTelemetry := bootstrap.Telemetry(ctx, &config.Cfg, "server")
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			logger.Logger.Warn("Failed to flush telemetry", zap.Error(err))
		}
	}()

	if err := snowflake.Init(config.Cfg.SnowflakeMachineID, config.Cfg.SnowflakeDataCenter); err != nil {
		logger.Logger.Fatal("Failed to initialize snowflake", zap.Error(err))
	}

	// external connections, closed on exit
	if err := storage.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer storage.Close()

	rules, err := bootstrap.Rules(&config.Cfg)
	if err != nil {
		logger.Logger.Fatal("Failed to load progression rules", zap.Error(err))
	}

	db := database.DB()
	service.SetProgress(service.NewProgressService(rules, repository.NewProgressRepository(db, rules),
		service.WithSnapshotCache(cache.NewSnapshotCache(config.Cfg.SnapshotCacheTTL())),
		service.WithEventPublisher(queue.NewPublisher()),
		service.WithFuelPointLedger(repository.NewFuelPointRepository(db)),
	))

	if err := middleware.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize middlewares", zap.Error(err))
	}

	logger.Logger.Info("Server starting",
		zap.String("service", config.Cfg.ServiceName),
		zap.String("port", config.Cfg.ServerPort),
		zap.String("environment", config.Cfg.Environment),
	)

	addr := net.JoinHostPort(config.Cfg.ServerHost, config.Cfg.ServerPort)
	tracer, tracing := middleware.NewServerTracerConfig()
	h := server.Default(server.WithHostPorts(addr), tracer)
	h.Use(tracing)

	router.Register(h)

	go func() {
		<-ctx.Done()
		logger.Logger.Info("Initiating graceful shutdown...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := h.Shutdown(shutdownCtx); err != nil {
			logger.Logger.Error("Failed to shutdown HTTP server", zap.Error(err))
		}
	}()

	logger.Logger.Info("HTTP server listening", zap.String("addr", addr))

	h.Spin()

	logger.Logger.Info("Server shutting down gracefully")
}
