// Package bootstrap holds the start-up steps shared by the server, worker and
// scheduler binaries.
package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"HealthRocket/config"
	"HealthRocket/internal/catalog"
	"HealthRocket/internal/engine"
	"HealthRocket/pkg/logger"
	"HealthRocket/pkg/otel"
)

// Rules loads the catalog and builds the rule set from configuration.
func Rules(cfg *config.Config) (*engine.Rules, error) {
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	weekday, err := cfg.ResetWeekday()
	if err != nil {
		return nil, err
	}
	if cfg.ActiveChallengeCap < 1 {
		return nil, fmt.Errorf("ACTIVE_CHALLENGE_CAP must be at least 1, got %d", cfg.ActiveChallengeCap)
	}

	logger.Logger.Info("Catalog loaded",
		zap.Int("challenges", len(cat.Challenges())),
		zap.Int("boosts", len(cat.Boosts())),
		zap.String("window_timezone", loc.String()),
		zap.String("weekly_reset", weekday.String()),
	)
	return engine.NewRules(cat, cfg.ActiveChallengeCap, engine.NewResetScheduler(loc, weekday, cfg.WeeklyResetHour)), nil
}

// Telemetry installs the OTLP providers when enabled. The returned shutdown is
// always safe to call.
func Telemetry(ctx context.Context, cfg *config.Config, component string) func(context.Context) error {
	if !cfg.OTELEnabled {
		return otel.NoopShutdown
	}

	shutdown, err := otel.InitOpenTelemetry(ctx, otel.Config{
		ServiceName:  cfg.ServiceName + "-" + component,
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTELEndpoint,
	})
	if err != nil {
		logger.Logger.Warn("Failed to initialize OpenTelemetry, continuing without it", zap.Error(err))
		return otel.NoopShutdown
	}
	return shutdown
}
