package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/zizozako94-cmyk/soqdz/internal/ratelimit"
)

// RedisLimiter is a fixed-window counter shared by all instances, for
// deployments where the per-process limiter's bound is too loose. One INCR
// per check; the window TTL is set when the key is first created.
type RedisLimiter struct {
	rdb    *redis.Client
	window time.Duration
	max    int
}

func NewRedisLimiter(rdb *redis.Client, window time.Duration, max int) *RedisLimiter {
	if window <= 0 {
		window = ratelimit.DefaultWindow
	}
	if max <= 0 {
		max = ratelimit.DefaultMaxPerWindow
	}
	return &RedisLimiter{rdb: rdb, window: window, max: max}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (ratelimit.Decision, error) {
	k := "ratelimit:orders:" + key

	n, err := l.rdb.Incr(ctx, k).Result()
	if err != nil {
		return ratelimit.Decision{}, err
	}
	if n == 1 {
		if err := l.rdb.PExpire(ctx, k, l.window).Err(); err != nil {
			return ratelimit.Decision{}, err
		}
	}

	resetIn, err := l.rdb.PTTL(ctx, k).Result()
	if err != nil {
		return ratelimit.Decision{}, err
	}
	if resetIn < 0 {
		resetIn = l.window
	}

	if int(n) > l.max {
		return ratelimit.Decision{Allowed: false, Remaining: 0, ResetIn: resetIn}, nil
	}
	return ratelimit.Decision{Allowed: true, Remaining: l.max - int(n), ResetIn: resetIn}, nil
}

var _ ratelimit.Limiter = (*RedisLimiter)(nil)
