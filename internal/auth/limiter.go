package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter counts login attempts per key within a window.
type LoginLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisLoginLimiter is a fixed-window counter stored in Redis.
type RedisLoginLimiter struct {
	client redis.UniversalClient
	limit  int
	window time.Duration
	prefix string
}

func NewRedisLoginLimiter(client redis.UniversalClient, limit int, window time.Duration) *RedisLoginLimiter {
	return &RedisLoginLimiter{
		client: client,
		limit:  limit,
		window: window,
		prefix: "stayfix:login:",
	}
}

func (l *RedisLoginLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := l.prefix + key
	n, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("count login attempt: %w", err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			return false, fmt.Errorf("set login window: %w", err)
		}
	}
	return n <= int64(l.limit), nil
}
