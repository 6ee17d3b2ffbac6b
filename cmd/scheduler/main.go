package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"HealthRocket/config"
	"HealthRocket/internal/bootstrap"
	"HealthRocket/internal/queue"
	"HealthRocket/internal/repository"
	"HealthRocket/internal/schedule"
	"HealthRocket/pkg/logger"
	"HealthRocket/pkg/snowflake"
	"HealthRocket/storage"
	"HealthRocket/storage/database"
)

func main() {
	logger.Init("scheduler")
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Logger.Info("Scheduler received shutdown signal",
			zap.String("signal", sig.String()),
		)
		cancel()
	}()

	shutdownTelemetry := bootstrap.Telemetry(ctx, &config.Cfg, "scheduler")
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTelemetry(shutdownCtx)
	}()

	if err := snowflake.Init(config.Cfg.SnowflakeMachineID, config.Cfg.SnowflakeDataCenter); err != nil {
		logger.Logger.Fatal("Failed to initialize snowflake for scheduler", zap.Error(err))
	}

	if err := storage.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize storage for scheduler", zap.Error(err))
	}
	defer storage.Close()

	rules, err := bootstrap.Rules(&config.Cfg)
	if err != nil {
		logger.Logger.Fatal("Failed to load progression rules", zap.Error(err))
	}

	s := schedule.NewBoostReminderScheduler(rules,
		repository.NewProgressRepository(database.DB(), rules),
		queue.NewPublisher(),
	)

	logger.Logger.Info("Scheduler service starting",
		zap.String("service", config.Cfg.ServiceName+"-scheduler"),
		zap.String("environment", config.Cfg.Environment),
	)

	runBoostReminderLoop(ctx, s, rules.Scheduler.Location)

	logger.Logger.Info("Scheduler service shutting down gracefully")
}

// runBoostReminderLoop fires once a day at BOOST_REMINDER_AT in the window
// timezone. In development it runs every minute for local debugging.
func runBoostReminderLoop(ctx context.Context, s *schedule.BoostReminderScheduler, loc *time.Location) {
	run := func() {
		runCtx, cancel := context.WithTimeout(ctx, 10*time.Minute)
		defer cancel()
		if _, err := s.Run(runCtx); err != nil {
			logger.Logger.Error("Boost reminder run failed", zap.Error(err))
		}
	}

	if config.Cfg.IsDevelopment() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()

		logger.Logger.Info("Boost reminder scheduler running in development mode with 1m interval")
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				run()
			}
		}
	}

	hour, minute, err := config.Cfg.ReminderClock()
	if err != nil {
		logger.Logger.Fatal("Invalid reminder time", zap.Error(err))
	}

	for {
		now := time.Now()
		next := schedule.NextRun(now, loc, hour, minute)
		delay := next.Sub(now)
		logger.Logger.Info("Scheduled next boost reminder run",
			zap.Time("next_run", next),
			zap.Duration("delay", delay),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			run()
		}
	}
}
