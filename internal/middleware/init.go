package middleware

import (
	"go.uber.org/zap"

	"HealthRocket/config"
	"HealthRocket/pkg/logger"
)

// Init prepares middlewares that need configuration.
func Init() error {
	return InitWithSecret(config.Cfg.JWTSecret)
}

// InitWithSecret is Init with an explicit JWT secret, used by tests.
func InitWithSecret(secret string) error {
	if err := initAuthMiddleware(secret); err != nil {
		logger.Logger.Error("Failed to initialize auth middleware", zap.Error(err))
		return err
	}

	logger.Logger.Info("All middlewares initialized successfully")
	return nil
}
