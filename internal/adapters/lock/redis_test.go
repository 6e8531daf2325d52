package lock

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtfind/internal/domain"
)

func TestRedisLocker_UnreachableServer(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()
	locker := NewRedisLocker(rdb, "")

	release, err := locker.Acquire(context.Background(), "booking:c-1:2025-03-03", time.Second)

	require.Error(t, err)
	assert.Nil(t, release)
	assert.NotErrorIs(t, err, domain.ErrBookingLocked)
	assert.Contains(t, err.Error(), "acquire lock lock:booking:c-1:2025-03-03")
}
