package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"HealthRocket/internal/catalog"
	"HealthRocket/internal/engine"
	"HealthRocket/internal/model"
	"HealthRocket/internal/model/dto"
	"HealthRocket/internal/queue"
	"HealthRocket/internal/repository"
	"HealthRocket/pkg/errors"
	"HealthRocket/pkg/logger"
	"HealthRocket/pkg/metrics"
)

// ProgressStore is the authoritative progress store. Mutations re-run the
// eligibility check atomically; the service's own check is advisory.
type ProgressStore interface {
	EnsureUser(ctx context.Context, userID int64) (*model.User, error)
	FetchSnapshot(ctx context.Context, userID int64, now time.Time) (repository.Progress, error)
	StartChallenge(ctx context.Context, userID int64, challengeID string, now time.Time) (*model.ChallengeProgress, catalog.ChallengeDefinition, error)
	CompleteChallenge(ctx context.Context, userID int64, challengeID string, now time.Time) (*model.ChallengeProgress, catalog.ChallengeDefinition, error)
	CompleteBoost(ctx context.Context, userID int64, boostID string, now time.Time) (*model.BoostCompletion, catalog.BoostDefinition, error)
	RecommendedIDs(ctx context.Context, userID int64) ([]string, error)
	SetRecommendedIDs(ctx context.Context, userID int64, ids []string) error
	UpdateSettings(ctx context.Context, userID int64, displayName, timezone *string, reminders *bool) (*model.User, error)
}

type SnapshotCache interface {
	Get(ctx context.Context, userID int64) (*repository.Progress, bool, error)
	Set(ctx context.Context, userID int64, p *repository.Progress) error
	Invalidate(ctx context.Context, userID int64) error
}

type EventPublisher interface {
	PublishProgressEvent(ctx context.Context, msg model.ProgressEventMessage) error
}

type FuelPointLedger interface {
	History(ctx context.Context, userID int64, limit int) ([]model.FuelPointTransaction, error)
}

var (
	progressService *ProgressService
	progressMu      sync.RWMutex
)

// Progress returns the service installed by SetProgress.
func Progress() *ProgressService {
	progressMu.RLock()
	defer progressMu.RUnlock()
	if progressService == nil {
		panic("progress service not initialized")
	}
	return progressService
}

func SetProgress(s *ProgressService) {
	progressMu.Lock()
	defer progressMu.Unlock()
	progressService = s
}

type ProgressService struct {
	rules  *engine.Rules
	store  ProgressStore
	cache  SnapshotCache
	events EventPublisher
	ledger FuelPointLedger
	now    func() time.Time
}

type Option func(*ProgressService)

func WithClock(now func() time.Time) Option {
	return func(s *ProgressService) { s.now = now }
}

func WithSnapshotCache(c SnapshotCache) Option {
	return func(s *ProgressService) { s.cache = c }
}

func WithEventPublisher(p EventPublisher) Option {
	return func(s *ProgressService) { s.events = p }
}

func WithFuelPointLedger(l FuelPointLedger) Option {
	return func(s *ProgressService) { s.ledger = l }
}

func NewProgressService(rules *engine.Rules, store ProgressStore, opts ...Option) *ProgressService {
	s := &ProgressService{rules: rules, store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// progressView is everything a read endpoint needs, fetched once.
type progressView struct {
	progress    repository.Progress
	recommended []string
	sched       engine.ResetScheduler
	now         time.Time
}

func (s *ProgressService) snapshot(ctx context.Context, userID int64, now time.Time) (repository.Progress, error) {
	if s.cache != nil {
		p, hit, err := s.cache.Get(ctx, userID)
		if err != nil {
			logger.Logger.Warn("Snapshot cache read failed", zap.Int64("user_id", userID), zap.Error(err))
		} else if hit {
			return *p, nil
		}
	}

	p, err := s.store.FetchSnapshot(ctx, userID, now)
	if err != nil {
		return repository.Progress{}, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, &p); err != nil {
			logger.Logger.Warn("Snapshot cache write failed", zap.Int64("user_id", userID), zap.Error(err))
		}
	}
	return p, nil
}

func (s *ProgressService) invalidate(ctx context.Context, userID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		logger.Logger.Warn("Snapshot cache invalidation failed", zap.Int64("user_id", userID), zap.Error(err))
	}
}

func (s *ProgressService) view(ctx context.Context, userID int64, withRecommendations bool) (*progressView, error) {
	v := &progressView{now: s.now()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.snapshot(gctx, userID, v.now)
		v.progress = p
		return err
	})
	if withRecommendations {
		g.Go(func() error {
			ids, err := s.store.RecommendedIDs(gctx, userID)
			v.recommended = ids
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	v.sched = s.rules.SchedulerFor(v.progress.Timezone)
	return v, nil
}

// ListChallenges classifies the catalog for userID. An empty category means
// all of them.
func (s *ProgressService) ListChallenges(ctx context.Context, userID int64, category string) (*dto.ChallengeListData, error) {
	var filter catalog.Category
	if category != "" {
		c, ok := catalog.ParseCategory(category)
		if !ok {
			return nil, fmt.Errorf("%w: unknown category %q", errors.InvalidRequest, category)
		}
		filter = c
	}

	v, err := s.view(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	return s.challengeList(v, filter)
}

func (s *ProgressService) challengeList(v *progressView, filter catalog.Category) (*dto.ChallengeListData, error) {
	classified, err := s.rules.Eligibility.Classify(v.progress.Snapshot, v.recommended)
	if err != nil {
		return nil, err
	}

	data := &dto.ChallengeListData{
		ActiveCount: len(v.progress.Snapshot.ActiveChallenges),
		ActiveCap:   s.rules.Eligibility.Cap(),
	}

	if first, ok := s.rules.Catalog.RequiredFirst(); ok && !v.progress.Snapshot.IsCompleted(first.ID) {
		for i := range classified {
			if classified[i].ID == first.ID {
				c := classified[i]
				data.RequiredFirstChallenge = &c
				break
			}
		}
	}

	if focus, ok := engine.FocusCategory(s.rules.Catalog.Challenges(), v.recommended); ok {
		data.FocusCategory = string(focus)
	}

	if filter != "" {
		kept := classified[:0]
		for _, c := range classified {
			if c.Category == filter {
				kept = append(kept, c)
			}
		}
		classified = kept
	}
	data.Challenges = engine.RankChallenges(classified, v.recommended)
	return data, nil
}

// ListBoosts reports per category quota and per boost availability in the
// user's current windows.
func (s *ProgressService) ListBoosts(ctx context.Context, userID int64) (*dto.BoostListData, error) {
	v, err := s.view(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	return s.boostList(v), nil
}

func (s *ProgressService) boostList(v *progressView) *dto.BoostListData {
	snap, sched, now := v.progress.Snapshot, v.sched, v.now

	data := &dto.BoostListData{
		DailyWindow:    string(sched.CurrentDailyWindow(now)),
		WeeklyWindow:   string(sched.CurrentWeeklyWindow(now)),
		DaysUntilReset: sched.DaysUntilReset(now),
		NextDailyReset: sched.NextDailyReset(now).Format(time.RFC3339),
	}

	for _, category := range s.rules.Catalog.BoostCategories() {
		cd := dto.BoostCategoryData{
			ID:             string(category.ID),
			Name:           category.Name,
			MaxDailyBoosts: category.MaxDailyBoosts,
			Remaining:      sched.RemainingQuota(category, snap, now),
		}
		for _, boost := range s.rules.Catalog.BoostsIn(category.ID) {
			item := dto.BoostItem{
				ID:             boost.ID,
				Name:           boost.Name,
				Description:    boost.Description,
				FuelPoints:     boost.FuelPoints,
				CompletedToday: sched.CompletedToday(boost.ID, snap, now),
				WeeklyLimit:    boost.WeeklyLimit,
			}
			if left := sched.WeeklyRemaining(boost, snap, now); left >= 0 {
				item.WeeklyRemaining = &left
			}
			if err := sched.CanCompleteBoost(boost, category, snap, now); err != nil {
				if def, ok := errors.AsDefinition(err); ok {
					item.Reason = def.Code
				}
			} else {
				item.Available = true
			}
			cd.Boosts = append(cd.Boosts, item)
		}
		data.Categories = append(data.Categories, cd)
	}
	return data
}

// Dashboard is the challenge list, the boost list and the balance from one
// snapshot read.
func (s *ProgressService) Dashboard(ctx context.Context, userID int64) (*dto.DashboardData, error) {
	v, err := s.view(ctx, userID, true)
	if err != nil {
		return nil, err
	}

	challenges, err := s.challengeList(v, "")
	if err != nil {
		return nil, err
	}
	return &dto.DashboardData{
		Challenges: *challenges,
		Boosts:     *s.boostList(v),
		FuelPoints: v.progress.FuelPoints,
	}, nil
}

// reject records an eligibility rejection and passes err through.
func (s *ProgressService) reject(ctx context.Context, userID int64, subject string, err error) error {
	if def, ok := errors.AsDefinition(err); ok && errors.IsIneligible(err) {
		metrics.Get().RecordRejection(ctx, def.Code)
		logger.Logger.Info("Progress request rejected",
			zap.Int64("user_id", userID),
			zap.String("subject", subject),
			zap.String("reason", def.Code),
		)
	}
	return err
}

func (s *ProgressService) StartChallenge(ctx context.Context, userID int64, challengeID string) (*dto.StartChallengeData, error) {
	now := s.now()

	p, err := s.snapshot(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	if _, err := s.rules.CheckStart(challengeID, p.Snapshot); err != nil {
		return nil, s.reject(ctx, userID, challengeID, err)
	}

	row, def, err := s.store.StartChallenge(ctx, userID, challengeID, now)
	if err != nil {
		return nil, s.reject(ctx, userID, challengeID, err)
	}
	s.invalidate(ctx, userID)

	metrics.Get().RecordChallengeStarted(ctx, def.Tier)
	s.publish(ctx, model.ProgressEventMessage{
		MessageID:  queue.ChallengeEventID(row.ID, model.EventChallengeStarted),
		Type:       model.EventChallengeStarted,
		UserID:     userID,
		SourceID:   def.ID,
		Category:   string(def.Category),
		Tier:       def.Tier,
		OccurredAt: row.StartedAt.Format(time.RFC3339),
	})

	return &dto.StartChallengeData{
		ChallengeID: def.ID,
		Status:      string(row.Status),
		StartedAt:   row.StartedAt.Format(time.RFC3339),
	}, nil
}

// CompleteChallenge moves an active challenge to completed. Completion
// criteria are verified upstream.
func (s *ProgressService) CompleteChallenge(ctx context.Context, userID int64, challengeID string) (*dto.CompleteChallengeData, error) {
	now := s.now()

	p, err := s.snapshot(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	if _, err := s.rules.CheckComplete(challengeID, p.Snapshot); err != nil {
		return nil, s.reject(ctx, userID, challengeID, err)
	}

	row, def, err := s.store.CompleteChallenge(ctx, userID, challengeID, now)
	if err != nil {
		return nil, s.reject(ctx, userID, challengeID, err)
	}
	s.invalidate(ctx, userID)

	completedAt := now.UTC()
	if row.CompletedAt != nil {
		completedAt = *row.CompletedAt
	}

	metrics.Get().RecordChallengeCompleted(ctx, def.Tier)
	s.publish(ctx, model.ProgressEventMessage{
		MessageID:  queue.ChallengeEventID(row.ID, model.EventChallengeCompleted),
		Type:       model.EventChallengeCompleted,
		UserID:     userID,
		SourceID:   def.ID,
		Category:   string(def.Category),
		Tier:       def.Tier,
		FuelPoints: def.FuelPoints,
		OccurredAt: completedAt.Format(time.RFC3339),
	})

	return &dto.CompleteChallengeData{
		ChallengeID: def.ID,
		Status:      string(row.Status),
		CompletedAt: completedAt.Format(time.RFC3339),
		FuelPoints:  def.FuelPoints,
	}, nil
}

func (s *ProgressService) CompleteBoost(ctx context.Context, userID int64, boostID string) (*dto.CompleteBoostData, error) {
	now := s.now()

	p, err := s.snapshot(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	sched := s.rules.SchedulerFor(p.Timezone)
	if _, _, err := s.rules.CheckBoost(boostID, p.Snapshot, sched, now); err != nil {
		return nil, s.reject(ctx, userID, boostID, err)
	}

	row, boost, err := s.store.CompleteBoost(ctx, userID, boostID, now)
	if err != nil {
		return nil, s.reject(ctx, userID, boostID, err)
	}
	s.invalidate(ctx, userID)

	metrics.Get().RecordBoostCompleted(ctx, string(boost.Category))
	s.publish(ctx, model.ProgressEventMessage{
		MessageID:  queue.BoostEventID(row.ID),
		Type:       model.EventBoostCompleted,
		UserID:     userID,
		SourceID:   boost.ID,
		Category:   string(boost.Category),
		FuelPoints: boost.FuelPoints,
		OccurredAt: row.CompletedAt.Format(time.RFC3339),
	})

	data := &dto.CompleteBoostData{
		BoostID:     boost.ID,
		Category:    string(boost.Category),
		CompletedAt: row.CompletedAt.Format(time.RFC3339),
		FuelPoints:  boost.FuelPoints,
	}

	// remaining comes from a fresh read; the advisory snapshot may predate a
	// completion made on another device
	fresh, err := s.snapshot(ctx, userID, now)
	if category, ok := s.rules.Catalog.BoostCategory(boost.Category); ok {
		if err == nil {
			data.Remaining = sched.RemainingQuota(category, fresh.Snapshot, now)
		} else {
			logger.Logger.Warn("Failed to refresh snapshot after boost", zap.Int64("user_id", userID), zap.Error(err))
			data.Remaining = max(sched.RemainingQuota(category, p.Snapshot, now)-1, 0)
		}
	}
	return data, nil
}

// SetRecommendations stores ids computed by the recommendation pipeline.
func (s *ProgressService) SetRecommendations(ctx context.Context, userID int64, ids []string) error {
	if _, err := s.store.EnsureUser(ctx, userID); err != nil {
		return err
	}
	return s.store.SetRecommendedIDs(ctx, userID, ids)
}

// publish logs instead of failing the request: the mutation is already
// committed.
func (s *ProgressService) publish(ctx context.Context, msg model.ProgressEventMessage) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishProgressEvent(ctx, msg); err != nil {
		logger.Logger.Error("Failed to publish progress event",
			zap.String("message_id", msg.MessageID),
			zap.Int64("user_id", msg.UserID),
			zap.Error(err),
		)
	}
}
