package cache

import (
	"context"
	"strconv"
	"time"

	"HealthRocket/storage/redis"
)

const (
	reminderSentPrefix = "reminder:sent"
	reminderSentTTL    = 48 * time.Hour
)

// MarkReminderSent records that userID was reminded for window and reports
// whether this call set the marker.
func MarkReminderSent(ctx context.Context, window string, userID int64) (bool, error) {
	key := redis.Key(reminderSentPrefix, window, strconv.FormatInt(userID, 10))
	return redis.Client().SetNX(ctx, key, 1, reminderSentTTL).Result()
}

func UnmarkReminderSent(ctx context.Context, window string, userID int64) error {
	key := redis.Key(reminderSentPrefix, window, strconv.FormatInt(userID, 10))
	return redis.Client().Del(ctx, key).Err()
}
