package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ncb6206/SIKBOO/pkg/database"
)

// RateDecision is the outcome of a single rate limit check.
type RateDecision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// RateLimiter is a sliding-window limiter over a redis sorted set. It guards
// the generation endpoint, where each request fans out into a model call.
type RateLimiter struct {
	redis *database.Redis
}

func NewRateLimiter(redis *database.Redis) *RateLimiter {
	return &RateLimiter{redis: redis}
}

// Allow records the request under key and decides whether it fits within
// limit requests per window. The window slides: each check drops entries
// older than window before counting.
func (r *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (RateDecision, error) {
	now := time.Now()
	windowStart := now.Add(-window)
	redisKey := "ratelimit:" + key

	pipe := r.redis.Client.Pipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", fmt.Sprintf("%d", windowStart.UnixNano()))
	card := pipe.ZCard(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return RateDecision{}, fmt.Errorf("failed to count window entries: %w", err)
	}

	count := card.Val()
	if count >= int64(limit) {
		decision := RateDecision{RetryAfter: window}
		oldest, err := r.redis.Client.ZRangeWithScores(ctx, redisKey, 0, 0).Result()
		if err == nil && len(oldest) > 0 {
			oldestAt := time.Unix(0, int64(oldest[0].Score))
			decision.RetryAfter = window - now.Sub(oldestAt)
		}
		return decision, nil
	}

	pipe = r.redis.Client.Pipeline()
	pipe.ZAdd(ctx, redisKey, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: fmt.Sprintf("%d", now.UnixNano()),
	})
	pipe.Expire(ctx, redisKey, window+time.Minute)
	if _, err := pipe.Exec(ctx); err != nil {
		return RateDecision{}, fmt.Errorf("failed to record request: %w", err)
	}

	remaining := limit - int(count) - 1
	if remaining < 0 {
		remaining = 0
	}
	return RateDecision{Allowed: true, Remaining: remaining}, nil
}
