package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"HealthRocket/pkg/errors"
	"HealthRocket/pkg/logger"
	"HealthRocket/pkg/response"
	"HealthRocket/storage/redis"
)

// RateLimitConfig describes one sliding window limit.
type RateLimitConfig struct {
	Window      time.Duration // length of the sliding window
	MaxRequests int           // requests allowed per window
	KeyPrefix   string        // redis key namespace
	// ByUserID needs AuthMiddleware to run first
	ByUserID bool
	ByIP     bool
	// BlockDuration keeps a caller out after exceeding the limit; 0 disables it
	BlockDuration time.Duration
}

// MutationRateLimitConfig guards start/complete endpoints. A double tap on a
// boost is answered by the store; this only stops scripted hammering.
var MutationRateLimitConfig = RateLimitConfig{
	Window:        time.Minute,
	MaxRequests:   30,
	KeyPrefix:     "rate:mutation",
	ByUserID:      true,
	ByIP:          true,
	BlockDuration: 5 * time.Minute,
}

// UserSettingsRateLimitConfig limits profile writes per user.
var UserSettingsRateLimitConfig = RateLimitConfig{
	Window:      10 * time.Minute,
	MaxRequests: 5,
	KeyPrefix:   "rate:settings",
	ByUserID:    true,
}

// RateLimiter applies a RateLimitConfig against Redis.
type RateLimiter struct {
	config RateLimitConfig
}

func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		config: config,
	}
}

// getKey identifies the caller by user id, IP, or both.
func (rl *RateLimiter) getKey(ctx context.Context, c *app.RequestContext) string {
	var identifier string

	if rl.config.ByUserID {
		if userID, exists := GetUserID(ctx, c); exists {
			identifier = "user:" + strconv.FormatInt(userID, 10)
		}
	}

	if identifier == "" && rl.config.ByIP {
		identifier = "ip:" + c.ClientIP()
	}

	return redis.Key(rl.config.KeyPrefix, identifier)
}

// Allow records the request in a sliding window ZSET and reports whether the
// caller is still under the limit.
func (rl *RateLimiter) Allow(ctx context.Context, key string, now time.Time) (bool, int, error) {
	windowStart := now.Add(-rl.config.Window)

	pipe := redis.Client().Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart.UnixNano(), 10))
	pipe.ZAdd(ctx, key, redislib.Z{
		Score:  float64(now.UnixNano()),
		Member: now.UnixNano(),
	})
	zcardCmd := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, rl.config.Window+10*time.Second)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, fmt.Errorf("failed to execute pipeline: %w", err)
	}

	count := int(zcardCmd.Val())
	return count <= rl.config.MaxRequests, count, nil
}

func (rl *RateLimiter) blockKey(key string) string {
	return redis.Key(rl.config.KeyPrefix, "block", key)
}

// Block keeps key out for BlockDuration.
func (rl *RateLimiter) Block(ctx context.Context, key string) error {
	if rl.config.BlockDuration <= 0 {
		return nil
	}
	return redis.Client().Set(ctx, rl.blockKey(key), "1", rl.config.BlockDuration).Err()
}

// IsBlocked reports whether key is serving a block.
func (rl *RateLimiter) IsBlocked(ctx context.Context, key string) (bool, error) {
	if rl.config.BlockDuration <= 0 {
		return false, nil
	}
	n, err := redis.Client().Exists(ctx, rl.blockKey(key)).Result()
	return n > 0, err
}

// RateLimitMiddleware rejects with 429 over the limit. Redis failures let the
// request through: progression correctness does not depend on the limiter.
func RateLimitMiddleware(config RateLimitConfig) app.HandlerFunc {
	limiter := NewRateLimiter(config)

	return func(ctx context.Context, c *app.RequestContext) {
		key := limiter.getKey(ctx, c)

		blocked, err := limiter.IsBlocked(ctx, key)
		if err != nil {
			logger.Logger.Warn("Rate limiter unavailable, allowing request", zap.String("key", key), zap.Error(err))
			c.Next(ctx)
			return
		}
		if blocked {
			c.Abort()
			response.Error(ctx, c, errors.TooManyRequests)
			return
		}

		now := time.Now()
		allowed, count, err := limiter.Allow(ctx, key, now)
		if err != nil {
			logger.Logger.Warn("Rate limiter unavailable, allowing request", zap.String("key", key), zap.Error(err))
			c.Next(ctx)
			return
		}

		remaining := config.MaxRequests - count
		if remaining < 0 {
			remaining = 0
		}
		c.Response.Header.Set("X-RateLimit-Limit", strconv.Itoa(config.MaxRequests))
		c.Response.Header.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Response.Header.Set("X-RateLimit-Reset", strconv.FormatInt(now.Add(config.Window).Unix(), 10))

		if !allowed {
			if err := limiter.Block(ctx, key); err != nil {
				logger.Logger.Error("Failed to block caller", zap.String("key", key), zap.Error(err))
			}
			logger.Logger.Info("Rate limit exceeded", zap.String("key", key), zap.Int("count", count))
			c.Abort()
			response.Error(ctx, c, errors.TooManyRequests)
			return
		}

		c.Next(ctx)
	}
}

func MutationRateLimitMiddleware() app.HandlerFunc {
	return RateLimitMiddleware(MutationRateLimitConfig)
}

func UserSettingsRateLimitMiddleware() app.HandlerFunc {
	return RateLimitMiddleware(UserSettingsRateLimitConfig)
}
