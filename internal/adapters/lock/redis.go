// Package lock provides BookingLocker implementations.
package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"courtfind/internal/domain"
)

const releaseTimeout = 2 * time.Second

// releaseScript deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

type redisLocker struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisLocker returns a BookingLocker shared by every API instance using the same Redis.
func NewRedisLocker(rdb *redis.Client, prefix string) domain.BookingLocker {
	if prefix == "" {
		prefix = "lock"
	}
	return &redisLocker{rdb: rdb, prefix: prefix}
}

func (l *redisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	fullKey := l.prefix + ":" + key
	token := uuid.NewString()
	ok, err := l.rdb.SetNX(ctx, fullKey, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", fullKey, err)
	}
	if !ok {
		return nil, domain.ErrBookingLocked
	}
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
		defer cancel()
		_ = releaseScript.Run(ctx, l.rdb, []string{fullKey}, token).Err()
	}, nil
}
