package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"HealthRocket/internal/cache"
	"HealthRocket/internal/model"
	"HealthRocket/pkg/errors"
	"HealthRocket/pkg/logger"
	"HealthRocket/pkg/metrics"
	"HealthRocket/storage/mq"
)

const dedupeTTL = 48 * time.Hour

type FuelPointAwarder interface {
	Award(ctx context.Context, userID int64, source model.FuelPointSource, sourceID, messageID string, amount int) (int, error)
}

type SnapshotInvalidator interface {
	Invalidate(ctx context.Context, userID int64) error
}

// ProgressEventConsumer credits fuel points for completions. The ledger's
// unique message id is the authority; the Redis marker only keeps concurrent
// redeliveries off the database.
type ProgressEventConsumer struct {
	awarder   FuelPointAwarder
	snapshots SnapshotInvalidator
}

func NewProgressEventConsumer(awarder FuelPointAwarder, snapshots SnapshotInvalidator) *ProgressEventConsumer {
	return &ProgressEventConsumer{awarder: awarder, snapshots: snapshots}
}

func (c *ProgressEventConsumer) Start(ctx context.Context) error {
	return mq.Consume(ctx, mq.ConsumeOptions{
		Queue:         mq.QueueProgressEvents,
		ConsumerTag:   "fuel-points",
		PrefetchCount: 20,
		Handler:       c.Handle,
	})
}

func (c *ProgressEventConsumer) Handle(ctx context.Context, body []byte) error {
	var msg model.ProgressEventMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("failed to unmarshal progress event: %w", err)
	}

	source, ok := awardSource(msg.Type)
	if !ok || msg.FuelPoints <= 0 {
		// starts carry no points
		return nil
	}

	marked, err := cache.TryMarkMessageProcessing(ctx, msg.MessageID, dedupeTTL)
	if err != nil {
		logger.Logger.Warn("Failed to check message processed status, falling back to ledger",
			zap.String("message_id", msg.MessageID),
			zap.Error(err),
		)
	} else if !marked {
		return &errors.SkipMessageError{MessageID: msg.MessageID}
	}

	balance, err := c.awarder.Award(ctx, msg.UserID, source, msg.SourceID, msg.MessageID, msg.FuelPoints)
	if err != nil {
		if errors.IsSkipMessage(err) {
			_ = cache.MarkMessageProcessed(ctx, msg.MessageID, dedupeTTL)
			return err
		}
		if unmarkErr := cache.UnmarkMessageProcessing(ctx, msg.MessageID); unmarkErr != nil {
			logger.Logger.Warn("Failed to release message marker",
				zap.String("message_id", msg.MessageID),
				zap.Error(unmarkErr),
			)
		}
		return fmt.Errorf("award fuel points for %s: %w", msg.MessageID, err)
	}

	if err := cache.MarkMessageProcessed(ctx, msg.MessageID, dedupeTTL); err != nil {
		logger.Logger.Warn("Failed to mark message as processed",
			zap.String("message_id", msg.MessageID),
			zap.Error(err),
		)
	}
	if c.snapshots != nil {
		if err := c.snapshots.Invalidate(ctx, msg.UserID); err != nil {
			logger.Logger.Warn("Failed to invalidate snapshot after award",
				zap.Int64("user_id", msg.UserID),
				zap.Error(err),
			)
		}
	}

	metrics.Get().RecordFuelPoints(ctx, string(source), msg.FuelPoints)
	logger.Logger.Info("Processed progress event",
		zap.String("message_id", msg.MessageID),
		zap.String("type", string(msg.Type)),
		zap.Int64("user_id", msg.UserID),
		zap.Int("balance", balance),
	)
	return nil
}

func awardSource(t model.ProgressEventType) (model.FuelPointSource, bool) {
	switch t {
	case model.EventBoostCompleted:
		return model.FuelPointSourceBoost, true
	case model.EventChallengeCompleted:
		return model.FuelPointSourceChallenge, true
	default:
		return "", false
	}
}

// BoostReminderConsumer delivers boost reminders. Delivery is a structured
// log line that the notification pipeline tails.
type BoostReminderConsumer struct{}

func NewBoostReminderConsumer() *BoostReminderConsumer {
	return &BoostReminderConsumer{}
}

func (c *BoostReminderConsumer) Start(ctx context.Context) error {
	return mq.Consume(ctx, mq.ConsumeOptions{
		Queue:         mq.QueueBoostReminder,
		ConsumerTag:   "boost-reminder",
		PrefetchCount: 50,
		Handler:       c.Handle,
	})
}

func (c *BoostReminderConsumer) Handle(ctx context.Context, body []byte) error {
	var msg model.BoostReminderMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("failed to unmarshal boost reminder: %w", err)
	}

	marked, err := cache.TryMarkMessageProcessing(ctx, msg.MessageID, dedupeTTL)
	if err != nil {
		return fmt.Errorf("check reminder %s: %w", msg.MessageID, err)
	}
	if !marked {
		return &errors.SkipMessageError{MessageID: msg.MessageID}
	}

	categories := make([]string, 0, len(msg.Remaining))
	for category, left := range msg.Remaining {
		if left > 0 {
			categories = append(categories, category)
		}
	}
	sort.Strings(categories)

	logger.Logger.Info("Boost reminder delivered",
		zap.String("message_id", msg.MessageID),
		zap.Int64("user_id", msg.UserID),
		zap.String("window", msg.WindowDate),
		zap.Strings("categories", categories),
		zap.Int("days_until_reset", msg.DaysUntilReset),
	)
	for _, category := range categories {
		metrics.Get().RecordReminder(ctx, category)
	}

	if err := cache.MarkMessageProcessed(ctx, msg.MessageID, dedupeTTL); err != nil {
		logger.Logger.Warn("Failed to mark reminder as processed",
			zap.String("message_id", msg.MessageID),
			zap.Error(err),
		)
	}
	return nil
}
