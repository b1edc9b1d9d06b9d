// Package ratelimit request admission per client key
package ratelimit

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Limiter decides whether one more request from key is admitted
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// LocalLimiter token bucket per key, held in process memory
type LocalLimiter struct {
	limiters sync.Map
	rate     rate.Limit
	burst    int
}

func NewLocalLimiter(r float64, burst int) *LocalLimiter {
	return &LocalLimiter{
		rate:  rate.Limit(r),
		burst: burst,
	}
}

func (l *LocalLimiter) Allow(_ context.Context, key string) (bool, error) {
	return l.getLimiter(key).Allow(), nil
}

func (l *LocalLimiter) getLimiter(key string) *rate.Limiter {
	if limiter, ok := l.limiters.Load(key); ok {
		return limiter.(*rate.Limiter)
	}
	limiter, _ := l.limiters.LoadOrStore(key, rate.NewLimiter(l.rate, l.burst))
	return limiter.(*rate.Limiter)
}

// RedisLimiter fixed-window counter shared by every instance
type RedisLimiter struct {
	rdb    *redis.Client
	prefix string
	limit  int64
	window time.Duration
}

// NewRedisLimiter admits limit requests per window; limit is rate*window plus burst
func NewRedisLimiter(rdb *redis.Client, r float64, burst int, window time.Duration) *RedisLimiter {
	if window <= 0 {
		window = time.Second
	}
	limit := int64(math.Ceil(r*window.Seconds())) + int64(burst)
	if limit < 1 {
		limit = 1
	}
	return &RedisLimiter{rdb: rdb, prefix: "ratelimit:", limit: limit, window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	slot := time.Now().UnixNano() / int64(l.window)
	k := fmt.Sprintf("%s%s:%d", l.prefix, key, slot)

	pipe := l.rdb.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit counter: %w", err)
	}
	return incr.Val() <= l.limit, nil
}

// Limit requests admitted per window
func (l *RedisLimiter) Limit() int64 { return l.limit }

// Fallback consults primary and degrades to secondary when primary errors
type Fallback struct {
	Primary   Limiter
	Secondary Limiter
	OnError   func(err error)
}

func (f Fallback) Allow(ctx context.Context, key string) (bool, error) {
	ok, err := f.Primary.Allow(ctx, key)
	if err == nil {
		return ok, nil
	}
	if f.OnError != nil {
		f.OnError(err)
	}
	return f.Secondary.Allow(ctx, key)
}

var (
	_ Limiter = (*LocalLimiter)(nil)
	_ Limiter = (*RedisLimiter)(nil)
	_ Limiter = Fallback{}
)
