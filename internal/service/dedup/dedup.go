// Package dedup drops webhook deliveries Telegram has already handed us.
// Telegram redelivers an update when the webhook call times out or fails, and
// a redelivered admin message would otherwise run its action twice.
package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Guard interface {
	// Seen marks updateID as processed and reports whether it already was.
	Seen(ctx context.Context, updateID int64) (bool, error)
}

// RedisGuard remembers update ids in Redis for ttl.
type RedisGuard struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisGuard(client redis.Cmdable, ttl time.Duration) *RedisGuard {
	return &RedisGuard{client: client, ttl: ttl}
}

func (g *RedisGuard) key(updateID int64) string { return fmt.Sprintf("tg:update:%d", updateID) }

func (g *RedisGuard) Seen(ctx context.Context, updateID int64) (bool, error) {
	fresh, err := g.client.SetNX(ctx, g.key(updateID), 1, g.ttl).Result()
	if err != nil {
		return false, err
	}
	return !fresh, nil
}

// Nop never reports an update as seen.
type Nop struct{}

func (Nop) Seen(context.Context, int64) (bool, error) { return false, nil }
