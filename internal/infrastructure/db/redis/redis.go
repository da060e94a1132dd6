// Package redis implements the Redis-backed stores: the connection helper
// and the single-use password-reset token store.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// defaultDialTimeout bounds the initial dial and ping.
	defaultDialTimeout = 5 * time.Second
	// defaultOpTimeout bounds individual commands. The store only ever moves
	// single small token values, so a slow command means trouble, not load.
	defaultOpTimeout = 2 * time.Second
)

// Config carries the connection settings for the reset-token store.
type Config struct {
	Addr        string
	DB          int
	DialTimeout time.Duration
}

func (c Config) dialTimeout() time.Duration {
	if c.DialTimeout > 0 {
		return c.DialTimeout
	}
	return defaultDialTimeout
}

// Connect dials Redis and verifies connectivity with a ping before the token
// store is built on the returned client.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	timeout := cfg.dialTimeout()

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		DB:           cfg.DB,
		DialTimeout:  timeout,
		ReadTimeout:  defaultOpTimeout,
		WriteTimeout: defaultOpTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}
