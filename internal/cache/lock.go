package cache

import (
	"context"
	"time"

	"HealthRocket/storage/redis"
)

const lockPrefix = "lock"

// TryLock takes a SETNX lock that expires after ttl. Callers that lose the
// race get false and should skip the work.
func TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return redis.Client().SetNX(ctx, redis.Key(lockPrefix, key), 1, ttl).Result()
}

func Unlock(ctx context.Context, key string) error {
	return redis.Client().Del(ctx, redis.Key(lockPrefix, key)).Err()
}
