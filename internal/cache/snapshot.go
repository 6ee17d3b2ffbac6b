package cache

import (
	"context"
	"strconv"
	"time"

	"HealthRocket/internal/repository"
)

const snapshotPrefix = "progress:snapshot"

// SnapshotCache caches the last fetched Progress per user. Entries carry the
// windows they were computed for, so a hit that outlives midnight or the
// weekly reset is read with zeroed counters by the engine.
type SnapshotCache struct {
	cache *ProtectedCache
}

func NewSnapshotCache(ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{cache: NewProtectedCache(snapshotPrefix, ttl, SnapshotBreaker)}
}

func (c *SnapshotCache) Get(ctx context.Context, userID int64) (*repository.Progress, bool, error) {
	var p repository.Progress
	hit, err := c.cache.Get(ctx, strconv.FormatInt(userID, 10), &p)
	if err != nil || !hit {
		return nil, false, err
	}
	return &p, true, nil
}

func (c *SnapshotCache) Set(ctx context.Context, userID int64, p *repository.Progress) error {
	if p == nil {
		return nil
	}
	return c.cache.Set(ctx, strconv.FormatInt(userID, 10), p)
}

func (c *SnapshotCache) Invalidate(ctx context.Context, userID int64) error {
	return c.cache.Delete(ctx, strconv.FormatInt(userID, 10))
}
