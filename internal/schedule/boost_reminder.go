package schedule

// Boost reminder scheduler: once a day, nudge opted-in users who still have
// boost quota left in their current daily window.

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"HealthRocket/internal/cache"
	"HealthRocket/internal/engine"
	"HealthRocket/internal/model"
	"HealthRocket/internal/queue"
	"HealthRocket/internal/repository"
	"HealthRocket/pkg/logger"
)

const (
	defaultPageSize = 500              // users per page
	runLockTTL      = 30 * time.Minute // upper bound on one run
)

// ReminderStore pages opted-in users and loads their progress.
type ReminderStore interface {
	UsersWithReminders(ctx context.Context, afterID int64, limit int) ([]model.User, error)
	FetchSnapshot(ctx context.Context, userID int64, now time.Time) (repository.Progress, error)
}

// ReminderPublisher hands reminders to the queue.
type ReminderPublisher interface {
	PublishBoostReminder(ctx context.Context, msg model.BoostReminderMessage) error
}

// RunStats summarises one pass.
type RunStats struct {
	Scanned   int // users looked at
	Published int // reminders sent
	Skipped   int // no quota left or already reminded this window
	Failed    int // errors, logged and skipped
}

// BoostReminderScheduler runs the daily reminder pass.
type BoostReminderScheduler struct {
	rules     *engine.Rules
	store     ReminderStore
	publisher ReminderPublisher
	now       func() time.Time // injectable clock
	pageSize  int
	logger    *zap.Logger

	running   bool // guards overlapping runs in this process
	runningMu sync.Mutex
}

func NewBoostReminderScheduler(rules *engine.Rules, store ReminderStore, publisher ReminderPublisher) *BoostReminderScheduler {
	return &BoostReminderScheduler{
		rules:     rules,
		store:     store,
		publisher: publisher,
		now:       time.Now,
		pageSize:  defaultPageSize,
		logger:    logger.Logger,
	}
}

// Run scans every opted-in user once. A second scheduler instance that starts
// the same day's run while this one holds the lock skips it.
func (s *BoostReminderScheduler) Run(ctx context.Context) (RunStats, error) {
	var stats RunStats

	s.runningMu.Lock()
	if s.running {
		s.runningMu.Unlock()
		s.logger.Info("Boost reminder run already in progress, skipping")
		return stats, nil
	}
	s.running = true
	s.runningMu.Unlock()

	defer func() {
		s.runningMu.Lock()
		s.running = false
		s.runningMu.Unlock()
	}()

	now := s.now()
	lockKey := "boost_reminder:" + string(s.rules.Scheduler.CurrentDailyWindow(now))
	locked, err := cache.TryLock(ctx, lockKey, runLockTTL)
	if err != nil {
		return stats, fmt.Errorf("failed to take reminder lock: %w", err)
	}
	if !locked {
		s.logger.Info("Boost reminder run owned by another instance", zap.String("lock", lockKey))
		return stats, nil
	}
	defer func() {
		if err := cache.Unlock(context.Background(), lockKey); err != nil {
			s.logger.Warn("Failed to release reminder lock", zap.String("lock", lockKey), zap.Error(err))
		}
	}()

	s.logger.Info("Starting boost reminder run", zap.Time("now", now))

	var afterID int64
	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		users, err := s.store.UsersWithReminders(ctx, afterID, s.pageSize)
		if err != nil {
			return stats, fmt.Errorf("failed to list reminder users: %w", err)
		}
		if len(users) == 0 {
			break
		}

		for i := range users {
			stats.Scanned++
			published, err := s.remind(ctx, &users[i], now)
			switch {
			case err != nil:
				stats.Failed++
				s.logger.Error("Failed to remind user",
					zap.Int64("user_id", users[i].PublicID),
					zap.Error(err),
				)
			case published:
				stats.Published++
			default:
				stats.Skipped++
			}
		}

		afterID = users[len(users)-1].ID
		if len(users) < s.pageSize {
			break
		}
	}

	s.logger.Info("Boost reminder run finished",
		zap.Int("scanned", stats.Scanned),
		zap.Int("published", stats.Published),
		zap.Int("skipped", stats.Skipped),
		zap.Int("failed", stats.Failed),
		zap.Duration("elapsed", time.Since(now)),
	)
	return stats, nil
}

// remind publishes one reminder if the user has quota left. The sent marker is
// keyed by the user's own daily window, so a rerun on the same day is a no-op.
func (s *BoostReminderScheduler) remind(ctx context.Context, user *model.User, now time.Time) (bool, error) {
	progress, err := s.store.FetchSnapshot(ctx, user.PublicID, now)
	if err != nil {
		return false, err
	}

	sched := s.rules.SchedulerFor(user.Timezone)
	remaining := make(map[string]int)
	total := 0
	for _, category := range s.rules.Catalog.BoostCategories() {
		left := sched.RemainingQuota(category, progress.Snapshot, now)
		remaining[string(category.ID)] = left
		total += left
	}
	if total == 0 {
		return false, nil
	}

	window := string(sched.CurrentDailyWindow(now))
	marked, err := cache.MarkReminderSent(ctx, window, user.PublicID)
	if err != nil {
		return false, err
	}
	if !marked {
		return false, nil
	}

	msg := model.BoostReminderMessage{
		MessageID:      queue.ReminderMessageID(window, user.PublicID),
		UserID:         user.PublicID,
		WindowDate:     window,
		Remaining:      remaining,
		DaysUntilReset: sched.DaysUntilReset(now),
		ScheduledAt:    now.UTC().Format(time.RFC3339),
	}
	if err := s.publisher.PublishBoostReminder(ctx, msg); err != nil {
		if unmarkErr := cache.UnmarkReminderSent(ctx, window, user.PublicID); unmarkErr != nil {
			s.logger.Warn("Failed to release reminder marker",
				zap.Int64("user_id", user.PublicID),
				zap.Error(unmarkErr),
			)
		}
		return false, err
	}
	return true, nil
}

// NextRun returns the next time of day hour:minute in loc strictly after now.
func NextRun(now time.Time, loc *time.Location, hour, minute int) time.Time {
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc)
	if !next.After(local) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, hour, minute, 0, 0, loc)
	}
	return next
}
