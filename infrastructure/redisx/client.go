// Package redisx Redis connection shared by the rate limiter and readiness checks
package redisx

import (
	"context"
	"fmt"
	"time"

	"posimarket/config"

	"github.com/redis/go-redis/v9"
)

const dialTimeout = 2 * time.Second

// New opens a client and verifies the server answers
func New(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  dialTimeout,
		ReadTimeout:  dialTimeout,
		WriteTimeout: dialTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}

// Pinger readiness probe
type Pinger struct {
	rdb *redis.Client
}

func NewPinger(rdb *redis.Client) *Pinger {
	return &Pinger{rdb: rdb}
}

func (p *Pinger) Ping(ctx context.Context) error {
	return p.rdb.Ping(ctx).Err()
}
