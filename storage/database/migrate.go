package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"HealthRocket/internal/model"
	"HealthRocket/pkg/logger"
)

// Models lists every table owned by this service.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.ChallengeProgress{},
		&model.BoostCompletion{},
		&model.Recommendation{},
		&model.FuelPointTransaction{},
	}
}

// Migrate runs AutoMigrate on the shared connection.
func Migrate() error {
	db := DB()
	if db == nil {
		return gorm.ErrInvalidDB
	}
	return AutoMigrate(db)
}

func AutoMigrate(db *gorm.DB) error {
	logger.Logger.Info("Starting database migration...")

	if err := db.AutoMigrate(Models()...); err != nil {
		logger.Logger.Error("Database migration failed", zap.Error(err))
		return err
	}

	logger.Logger.Info("Database migration completed successfully")
	return nil
}
