package cache

import (
	"context"
	"fmt"
	"time"

	"HealthRocket/storage/redis"
)

const (
	messageProcessedPrefix = "msg:processed"    // key prefix for dedup markers
	processedTTL           = 7 * 24 * time.Hour // default marker lifetime
)

// TryMarkMessageProcessing marks messageID as in flight. false means another
// consumer already holds it or it was processed before.
func TryMarkMessageProcessing(ctx context.Context, messageID string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = processedTTL
	}

	ok, err := redis.Client().SetNX(ctx, redis.Key(messageProcessedPrefix, messageID), "processing", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark message as processing: %w", err)
	}
	return ok, nil
}

// UnmarkMessageProcessing releases the marker after a failure so a redelivery
// can retry.
func UnmarkMessageProcessing(ctx context.Context, messageID string) error {
	return redis.Client().Del(ctx, redis.Key(messageProcessedPrefix, messageID)).Err()
}

// MarkMessageProcessed records messageID as done so redeliveries are skipped.
func MarkMessageProcessed(ctx context.Context, messageID string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = processedTTL
	}
	return redis.Client().Set(ctx, redis.Key(messageProcessedPrefix, messageID), "completed", ttl).Err()
}
