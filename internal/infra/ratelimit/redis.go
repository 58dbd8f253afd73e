package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter is a fixed-window counter over Redis. One INCR per request; the
// first hit in a window sets the TTL. Redis being down fails open: throttling
// protects capacity, it must never take the booking flow down with it.
type Limiter struct {
	client *redis.Client
	logger *slog.Logger
	limit  int64
	window time.Duration
}

func NewLimiter(client *redis.Client, logger *slog.Logger, limit int64, window time.Duration) *Limiter {
	return &Limiter{
		client: client,
		logger: logger,
		limit:  limit,
		window: window,
	}
}

func (l *Limiter) Allow(ctx context.Context, key string) bool {
	if l.client == nil {
		return true
	}
	window := time.Now().Unix() / int64(l.window.Seconds())
	bucket := fmt.Sprintf("ratelimit:%s:%d", key, window)

	count, err := l.client.Incr(ctx, bucket).Result()
	if err != nil {
		l.logger.Warn("rate limit check failed, allowing request", "key", key, "error", err.Error())
		return true
	}
	if count == 1 {
		if err := l.client.Expire(ctx, bucket, l.window+time.Second).Err(); err != nil {
			l.logger.Warn("rate limit expire failed", "key", key, "error", err.Error())
		}
	}
	return count <= l.limit
}
