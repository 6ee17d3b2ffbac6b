package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	ri "github.com/redis/go-redis/v9"

	"HealthRocket/storage/redis"
)

const (
	emptyValueFlag = "__EMPTY__"     // marker for a cached nil value
	emptyValueTTL  = 5 * time.Minute // empty markers expire quickly
)

// ProtectedCache stores JSON values under a key prefix. A nil value is cached
// as an empty marker so repeated misses do not reach the database, and TTLs
// get up to 10% jitter so keys written together do not expire together.
type ProtectedCache struct {
	keyPrefix string          // prepended to every key
	ttl       time.Duration   // base TTL for real values
	emptyTTL  time.Duration   // TTL for empty markers
	breaker   *CircuitBreaker // optional, nil calls redis directly
}

// NewProtectedCache creates a cache; breaker may be nil.
func NewProtectedCache(keyPrefix string, ttl time.Duration, breaker *CircuitBreaker) *ProtectedCache {
	return &ProtectedCache{
		keyPrefix: keyPrefix,
		ttl:       ttl,
		emptyTTL:  emptyValueTTL,
		breaker:   breaker,
	}
}

// Set stores value as JSON, or an empty marker when value is nil.
func (pc *ProtectedCache) Set(ctx context.Context, key string, value interface{}) error {
	data := emptyValueFlag
	ttl := pc.emptyTTL

	if value != nil {
		dataBytes, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to marshal cache value: %w", err)
		}
		data = string(dataBytes)
		ttl = jitter(pc.ttl)
	}

	return pc.call(ctx, func(ctx context.Context) error {
		return redis.Client().Set(ctx, redis.Key(pc.keyPrefix, key), data, ttl).Err()
	})
}

// Get reports whether key was present. An empty-marker hit returns true and
// leaves dest untouched.
func (pc *ProtectedCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	var data string
	err := pc.call(ctx, func(ctx context.Context) error {
		var err error
		data, err = redis.Client().Get(ctx, redis.Key(pc.keyPrefix, key)).Result()
		if errors.Is(err, ri.Nil) {
			return nil
		}
		return err
	})
	if err != nil {
		return false, fmt.Errorf("failed to get cache: %w", err)
	}

	switch data {
	case "":
		return false, nil
	case emptyValueFlag:
		return true, nil
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

// Delete removes key.
func (pc *ProtectedCache) Delete(ctx context.Context, key string) error {
	return pc.call(ctx, func(ctx context.Context) error {
		return redis.Client().Del(ctx, redis.Key(pc.keyPrefix, key)).Err()
	})
}

func (pc *ProtectedCache) call(ctx context.Context, op func(ctx context.Context) error) error {
	if pc.breaker == nil {
		return op(ctx)
	}
	return pc.breaker.Call(ctx, op)
}

// jitter adds up to 10% to ttl.
func jitter(ttl time.Duration) time.Duration {
	if ttl <= 10 {
		return ttl
	}
	return ttl + time.Duration(rand.Int63n(int64(ttl/10)))
}
