package ports

import (
	"context"
	"time"
)

//go:generate mockery --name LockService --output ./mocks --outpkg mocks

// LockService grants exclusive, self-expiring ownership of a key.
type LockService interface {
	// Acquire never blocks waiting for a holder. acquired is false when the
	// key is already held.
	Acquire(ctx context.Context, key string, ttl time.Duration) (token string, acquired bool, err error)
	// Release deletes the key only while token still owns it, otherwise it
	// returns domain.ErrLockNotOwned.
	Release(ctx context.Context, key, token string) error
}
