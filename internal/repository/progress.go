package repository

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/dbresolver"

	"HealthRocket/internal/catalog"
	"HealthRocket/internal/engine"
	"HealthRocket/internal/model"
	"HealthRocket/pkg/errors"
	"HealthRocket/pkg/logger"
)

// Progress is what FetchSnapshot returns and what the snapshot cache stores.
type Progress struct {
	Snapshot   engine.Snapshot `json:"snapshot"`
	Timezone   string          `json:"timezone"`
	FuelPoints int             `json:"fuel_points"`
}

// ProgressRepository is the gorm-backed progress store. Every mutation runs
// the same rule check as the service, but inside a transaction that holds the
// user's row lock, so concurrent requests for one user serialize and cannot
// both pass a cap or quota check.
type ProgressRepository struct {
	db    *gorm.DB
	rules *engine.Rules
}

func NewProgressRepository(db *gorm.DB, rules *engine.Rules) *ProgressRepository {
	return &ProgressRepository{db: db, rules: rules}
}

// storeErr tags a database failure as retryable for the caller.
func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, errors.StoreUnavailable, err)
}

func isDuplicate(err error) bool {
	if stderrors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

// EnsureUser returns the user row, creating it on first sight.
func (r *ProgressRepository) EnsureUser(ctx context.Context, userID int64) (*model.User, error) {
	if userID <= 0 {
		return nil, errors.InvalidUserID
	}
	var user model.User
	err := r.db.WithContext(ctx).Clauses(dbresolver.Write).
		Where(model.User{PublicID: userID}).
		Attrs(model.User{BoostReminders: true}).
		FirstOrCreate(&user).Error
	if err != nil {
		if isDuplicate(err) {
			// lost a creation race, the row exists now
			if err := r.db.WithContext(ctx).Clauses(dbresolver.Write).Where("public_id = ?", userID).First(&user).Error; err == nil {
				return &user, nil
			}
		}
		return nil, storeErr("ensure user", err)
	}
	return &user, nil
}

func (r *ProgressRepository) lockUser(tx *gorm.DB, userID int64) (*model.User, error) {
	var user model.User
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("public_id = ?", userID).
		First(&user).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.UserNotFound
		}
		return nil, storeErr("lock user", err)
	}
	return &user, nil
}

// load reads the rows that can affect a snapshot at now and folds them.
func (r *ProgressRepository) load(tx *gorm.DB, userID int64, sched engine.ResetScheduler, now time.Time) (engine.Snapshot, error) {
	var rows []model.ChallengeProgress
	if err := tx.Where("user_id = ?", userID).Order("started_at, id").Find(&rows).Error; err != nil {
		return engine.Snapshot{}, storeErr("load challenge progress", err)
	}

	var boosts []model.BoostCompletion
	if err := tx.Where("user_id = ? AND completed_at >= ?", userID, sched.WindowsStart(now).UTC()).
		Order("completed_at").Find(&boosts).Error; err != nil {
		return engine.Snapshot{}, storeErr("load boost completions", err)
	}

	progress := make([]engine.ChallengeProgress, 0, len(rows))
	for _, row := range rows {
		progress = append(progress, toEngineProgress(row))
	}
	completions := make([]engine.BoostCompletion, 0, len(boosts))
	for _, b := range boosts {
		completions = append(completions, engine.BoostCompletion{BoostID: b.BoostID, CompletedAt: b.CompletedAt})
	}

	snap, err := engine.BuildSnapshot(r.rules.Catalog, progress, completions, sched, now)
	if err != nil {
		logger.Logger.Error("Progress rows do not match the catalog",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return engine.Snapshot{}, err
	}
	return snap, nil
}

func toEngineProgress(row model.ChallengeProgress) engine.ChallengeProgress {
	return engine.ChallengeProgress{
		ChallengeID: row.ChallengeID,
		Status:      engine.ProgressStatus(row.Status),
		StartedAt:   row.StartedAt,
		CompletedAt: row.CompletedAt,
	}
}

// FetchSnapshot reads from the primary so a dashboard refresh right after a
// mutation sees it.
func (r *ProgressRepository) FetchSnapshot(ctx context.Context, userID int64, now time.Time) (Progress, error) {
	user, err := r.EnsureUser(ctx, userID)
	if err != nil {
		return Progress{}, err
	}
	sched := r.rules.SchedulerFor(user.Timezone)

	snap, err := r.load(r.db.WithContext(ctx).Clauses(dbresolver.Write), userID, sched, now)
	if err != nil {
		return Progress{}, err
	}
	return Progress{Snapshot: snap, Timezone: user.Timezone, FuelPoints: user.FuelPoints}, nil
}

// StartChallenge performs none -> active.
func (r *ProgressRepository) StartChallenge(ctx context.Context, userID int64, challengeID string, now time.Time) (*model.ChallengeProgress, catalog.ChallengeDefinition, error) {
	if _, err := r.EnsureUser(ctx, userID); err != nil {
		return nil, catalog.ChallengeDefinition{}, err
	}

	var (
		row model.ChallengeProgress
		def catalog.ChallengeDefinition
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := r.lockUser(tx, userID)
		if err != nil {
			return err
		}
		snap, err := r.load(tx, userID, r.rules.SchedulerFor(user.Timezone), now)
		if err != nil {
			return err
		}
		if def, err = r.rules.CheckStart(challengeID, snap); err != nil {
			return err
		}

		row = model.ChallengeProgress{
			UserID:      userID,
			ChallengeID: challengeID,
			Status:      model.ChallengeStatusActive,
			StartedAt:   now.UTC(),
		}
		if err := tx.Create(&row).Error; err != nil {
			return storeErr("create challenge progress", err)
		}
		return nil
	})
	if err != nil {
		return nil, def, err
	}

	logger.Logger.Info("Challenge started",
		zap.Int64("user_id", userID),
		zap.String("challenge_id", challengeID),
		zap.Int("tier", def.Tier),
	)
	return &row, def, nil
}

// CompleteChallenge performs active -> completed. Verifying the completion
// criteria is the caller's concern.
func (r *ProgressRepository) CompleteChallenge(ctx context.Context, userID int64, challengeID string, now time.Time) (*model.ChallengeProgress, catalog.ChallengeDefinition, error) {
	if _, err := r.EnsureUser(ctx, userID); err != nil {
		return nil, catalog.ChallengeDefinition{}, err
	}

	var (
		row model.ChallengeProgress
		def catalog.ChallengeDefinition
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := r.lockUser(tx, userID)
		if err != nil {
			return err
		}
		snap, err := r.load(tx, userID, r.rules.SchedulerFor(user.Timezone), now)
		if err != nil {
			return err
		}
		if def, err = r.rules.CheckComplete(challengeID, snap); err != nil {
			return err
		}

		if err := tx.Where("user_id = ? AND challenge_id = ? AND status = ?", userID, challengeID, model.ChallengeStatusActive).
			Order("started_at DESC").First(&row).Error; err != nil {
			return storeErr("find active challenge", err)
		}
		completedAt := now.UTC()
		row.Status = model.ChallengeStatusCompleted
		row.CompletedAt = &completedAt
		if err := tx.Model(&row).Updates(map[string]interface{}{
			"status":       row.Status,
			"completed_at": completedAt,
		}).Error; err != nil {
			return storeErr("complete challenge", err)
		}
		return nil
	})
	if err != nil {
		return nil, def, err
	}

	logger.Logger.Info("Challenge completed",
		zap.Int64("user_id", userID),
		zap.String("challenge_id", challengeID),
		zap.Int("fuel_points", def.FuelPoints),
	)
	return &row, def, nil
}

// CompleteBoost records a boost for the user's current daily window.
func (r *ProgressRepository) CompleteBoost(ctx context.Context, userID int64, boostID string, now time.Time) (*model.BoostCompletion, catalog.BoostDefinition, error) {
	if _, err := r.EnsureUser(ctx, userID); err != nil {
		return nil, catalog.BoostDefinition{}, err
	}

	var (
		row   model.BoostCompletion
		boost catalog.BoostDefinition
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := r.lockUser(tx, userID)
		if err != nil {
			return err
		}
		sched := r.rules.SchedulerFor(user.Timezone)
		snap, err := r.load(tx, userID, sched, now)
		if err != nil {
			return err
		}
		if boost, _, err = r.rules.CheckBoost(boostID, snap, sched, now); err != nil {
			return err
		}

		row = model.BoostCompletion{
			UserID:      userID,
			BoostID:     boostID,
			Category:    string(boost.Category),
			WindowDate:  string(sched.CurrentDailyWindow(now)),
			WindowStart: sched.DailyWindowStart(now).UTC(),
			CompletedAt: now.UTC(),
		}
		if err := tx.Create(&row).Error; err != nil {
			if isDuplicate(err) {
				return errors.AlreadyCompletedThisWindow
			}
			return storeErr("create boost completion", err)
		}
		return nil
	})
	if err != nil {
		return nil, boost, err
	}

	logger.Logger.Info("Boost completed",
		zap.Int64("user_id", userID),
		zap.String("boost_id", boostID),
		zap.String("window", row.WindowDate),
	)
	return &row, boost, nil
}

// RecommendedIDs returns the stored recommendation list, empty if none.
func (r *ProgressRepository) RecommendedIDs(ctx context.Context, userID int64) ([]string, error) {
	var rec model.Recommendation
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Limit(1).Find(&rec).Error
	if err != nil {
		return nil, storeErr("load recommendations", err)
	}
	return rec.ChallengeIDs, nil
}

// SetRecommendedIDs replaces the list. Ids must exist in the catalog.
func (r *ProgressRepository) SetRecommendedIDs(ctx context.Context, userID int64, ids []string) error {
	clean := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := r.rules.Catalog.Challenge(id); !ok {
			return fmt.Errorf("%w: %s", errors.UnknownChallenge, id)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		clean = append(clean, id)
	}

	rec := model.Recommendation{UserID: userID, ChallengeIDs: clean}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"challenge_ids", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return storeErr("save recommendations", err)
	}
	return nil
}

// UpdateSettings applies the non-nil fields and returns the updated user.
func (r *ProgressRepository) UpdateSettings(ctx context.Context, userID int64, displayName, timezone *string, reminders *bool) (*model.User, error) {
	user, err := r.EnsureUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if displayName != nil {
		updates["display_name"] = strings.TrimSpace(*displayName)
	}
	if timezone != nil {
		if *timezone != "" {
			if _, err := time.LoadLocation(*timezone); err != nil {
				return nil, errors.InvalidTZ
			}
		}
		updates["timezone"] = *timezone
	}
	if reminders != nil {
		updates["boost_reminders"] = *reminders
	}
	if len(updates) == 0 {
		return user, nil
	}

	if err := r.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, storeErr("update settings", err)
	}
	if err := r.db.WithContext(ctx).Clauses(dbresolver.Write).First(user, user.ID).Error; err != nil {
		return nil, storeErr("reload user", err)
	}
	return user, nil
}

// UsersWithReminders pages through opted-in users by id, for the scheduler.
// Reads may go to a replica.
func (r *ProgressRepository) UsersWithReminders(ctx context.Context, afterID int64, limit int) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Where("boost_reminders = ? AND id > ?", true, afterID).
		Order("id").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, storeErr("list reminder users", err)
	}
	return users, nil
}
