// Package memory is a single-process lock backend for LOCK_BACKEND=memory
// and tests. Entries expire like Redis keys do.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/seatlock/internal/core/domain"
)

type entry struct {
	token     string
	expiresAt time.Time
}

type Locker struct {
	mu    sync.Mutex
	locks map[string]entry
	now   func() time.Time
}

func New() *Locker {
	return NewWithClock(time.Now)
}

func NewWithClock(now func() time.Time) *Locker {
	return &Locker{
		locks: make(map[string]entry),
		now:   now,
	}
}

func (l *Locker) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if held, ok := l.locks[key]; ok && now.Before(held.expiresAt) {
		return "", false, nil
	}

	token := uuid.NewString()
	l.locks[key] = entry{token: token, expiresAt: now.Add(ttl)}

	return token, true, nil
}

func (l *Locker) Release(_ context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	held, ok := l.locks[key]
	if !ok || held.token != token || !l.now().Before(held.expiresAt) {
		return domain.ErrLockNotOwned
	}

	delete(l.locks, key)
	return nil
}
