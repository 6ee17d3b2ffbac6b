package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"HealthRocket/pkg/logger"
	"HealthRocket/storage/database"
	"HealthRocket/storage/mq"
	"HealthRocket/storage/redis"
)

const closeTimeout = 15 * time.Second

type closer struct {
	name  string
	close func(ctx context.Context) error
}

// shutdownOrder is the reverse of Init so the worker stops consuming before
// the stores its handlers write to go away.
var shutdownOrder = []closer{
	{name: "rabbitmq", close: mq.Close},
	{name: "redis", close: redis.Close},
	{name: "postgres", close: database.Close},
}

// Close shuts every connection down within closeTimeout and logs failures.
func Close() {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	if err := closeAll(ctx, shutdownOrder); err != nil {
		logger.Logger.Error("Storage shutdown finished with errors", zap.Error(err))
		return
	}
	logger.Logger.Info("All storage connections closed")
}

// closeAll runs every closer even after a failure and joins the errors.
func closeAll(ctx context.Context, closers []closer) error {
	var errs []error
	for _, c := range closers {
		start := time.Now()
		if err := c.close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", c.name, err))
			continue
		}
		logger.Logger.Debug("Storage connection closed",
			zap.String("component", c.name),
			zap.Duration("took", time.Since(start)),
		)
	}
	return errors.Join(errs...)
}
