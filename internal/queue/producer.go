package queue

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"HealthRocket/internal/model"
	"HealthRocket/pkg/logger"
	"HealthRocket/pkg/snowflake"
	"HealthRocket/storage/mq"
)

// Publisher sends progress messages to RabbitMQ.
type Publisher struct{}

func NewPublisher() *Publisher {
	return &Publisher{}
}

// PublishProgressEvent announces a committed progress mutation. The worker
// turns it into fuel points.
func (p *Publisher) PublishProgressEvent(ctx context.Context, msg model.ProgressEventMessage) error {
	if err := ensureMessageID(&msg.MessageID, "progress"); err != nil {
		return err
	}

	if err := mq.PublishMessage(ctx, mq.QueueProgressEvents, msg.MessageID, msg); err != nil {
		logger.Logger.Error("Failed to publish progress event",
			zap.String("message_id", msg.MessageID),
			zap.String("type", string(msg.Type)),
			zap.Int64("user_id", msg.UserID),
			zap.Error(err),
		)
		return err
	}

	logger.Logger.Debug("Published progress event",
		zap.String("message_id", msg.MessageID),
		zap.String("type", string(msg.Type)),
		zap.Int64("user_id", msg.UserID),
	)
	return nil
}

func (p *Publisher) PublishBoostReminder(ctx context.Context, msg model.BoostReminderMessage) error {
	if err := ensureMessageID(&msg.MessageID, "reminder"); err != nil {
		return err
	}

	if err := mq.PublishMessage(ctx, mq.QueueBoostReminder, msg.MessageID, msg); err != nil {
		logger.Logger.Error("Failed to publish boost reminder",
			zap.String("message_id", msg.MessageID),
			zap.Int64("user_id", msg.UserID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func ensureMessageID(id *string, prefix string) error {
	if *id != "" {
		return nil
	}
	n, err := snowflake.NextID()
	if err != nil {
		return fmt.Errorf("failed to generate message ID: %w", err)
	}
	*id = fmt.Sprintf("%s_%d", prefix, n)
	return nil
}

// ChallengeEventID and BoostEventID derive message ids from the stored row,
// so republishing the same mutation cannot award twice.
func ChallengeEventID(progressID int64, typ model.ProgressEventType) string {
	return fmt.Sprintf("challenge:%d:%s", progressID, typ)
}

func BoostEventID(completionID int64) string {
	return fmt.Sprintf("boost:%d", completionID)
}

func ReminderMessageID(window string, userID int64) string {
	return fmt.Sprintf("reminder:%s:%d", window, userID)
}
