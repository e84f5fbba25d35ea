// Package redis opens the optional Redis connection shared by webhook update
// de-duplication and the admin API response cache.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultDialTimeout = 2 * time.Second
	DefaultIOTimeout   = 500 * time.Millisecond
)

type Options struct {
	Addr     string
	Password string
	DB       int

	DialTimeout time.Duration
	// IOTimeout bounds every read and write. The webhook handler waits on
	// the de-duplication SETNX before answering Telegram, so it stays short.
	IOTimeout time.Duration
}

// Open connects and pings. Zero timeouts fall back to the defaults above.
func Open(ctx context.Context, opts Options) (*redis.Client, error) {
	if opts.Addr == "" {
		return nil, fmt.Errorf("redis: empty addr")
	}
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = DefaultDialTimeout
	}
	if opts.IOTimeout <= 0 {
		opts.IOTimeout = DefaultIOTimeout
	}

	c := redis.NewClient(&redis.Options{
		Addr:                  opts.Addr,
		Password:              opts.Password,
		DB:                    opts.DB,
		DialTimeout:           opts.DialTimeout,
		ReadTimeout:           opts.IOTimeout,
		WriteTimeout:          opts.IOTimeout,
		ContextTimeoutEnabled: true,
		MaxRetries:            1,
	})
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", opts.Addr, err)
	}
	return c, nil
}
