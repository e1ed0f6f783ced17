// Package ratelimit provides the fixed-window inbound limiter the HTTP
// layer consults per request. The window state lives in Redis so limits
// hold across replicas.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Limiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// New builds a limiter allowing limit requests per window per key.
func New(client *redis.Client, limit int, window time.Duration) *Limiter {
	return &Limiter{
		client: client,
		limit:  limit,
		window: window,
	}
}

// Allow consumes one slot for the key and reports whether the request may
// proceed. The limiter fails open on store errors: an unreachable Redis
// should degrade to unlimited, not lock everyone out.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	bucket := fmt.Sprintf("ratelimit:%s:%d", key, time.Now().Unix()/int64(l.window.Seconds()))

	count, err := l.client.Incr(ctx, bucket).Result()
	if err != nil {
		return true, err
	}

	if count == 1 {
		if err := l.client.Expire(ctx, bucket, l.window).Err(); err != nil {
			return true, err
		}
	}

	return count <= int64(l.limit), nil
}
