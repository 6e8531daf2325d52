package lock

import (
	"context"
	"sync"
	"time"

	"courtfind/internal/domain"
)

type localLocker struct {
	mu   sync.Mutex
	held map[string]localLease
	now  func() time.Time
	seq  uint64
}

type localLease struct {
	id      uint64
	expires time.Time
}

// NewLocalLocker returns an in-process BookingLocker for single-instance deployments and tests.
func NewLocalLocker() domain.BookingLocker {
	return &localLocker{held: make(map[string]localLease), now: time.Now}
}

func (l *localLocker) Acquire(_ context.Context, key string, ttl time.Duration) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	if lease, ok := l.held[key]; ok && now.Before(lease.expires) {
		return nil, domain.ErrBookingLocked
	}
	l.seq++
	lease := localLease{id: l.seq, expires: now.Add(ttl)}
	l.held[key] = lease
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if cur, ok := l.held[key]; ok && cur.id == lease.id {
			delete(l.held, key)
		}
	}, nil
}
