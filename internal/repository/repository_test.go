package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"HealthRocket/internal/catalog"
	"HealthRocket/internal/engine"
	"HealthRocket/storage/database"
)

// monday is the start of a weekly window under the default scheduler.
var monday = time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection keeps the in-memory database alive and serializes writers
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

func newTestRules() *engine.Rules {
	return engine.NewRules(catalog.Default(), engine.DefaultActiveChallengeCap,
		engine.NewResetScheduler(time.UTC, time.Monday, 0))
}

func newTestRepository(t *testing.T) (*ProgressRepository, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewProgressRepository(db, newTestRules()), db
}
