// Package redislock is a token-owned mutual exclusion lock on Redis.
package redislock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/srgjo27/seatlock/internal/core/domain"
)

// ReleaseScript deletes the key only while it still holds our token, so a
// holder whose TTL lapsed cannot drop a lock someone else now owns.
const ReleaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`

type Locker struct {
	client redis.Cmdable
}

func New(client redis.Cmdable) *Locker {
	return &Locker{client: client}
}

func (l *Locker) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("%w: acquire %s: %v", domain.ErrLockServiceUnavailable, key, err)
	}
	if !ok {
		return "", false, nil
	}

	return token, true, nil
}

func (l *Locker) Release(ctx context.Context, key, token string) error {
	n, err := l.client.Eval(ctx, ReleaseScript, []string{key}, token).Int64()
	if err != nil {
		return fmt.Errorf("%w: release %s: %v", domain.ErrLockServiceUnavailable, key, err)
	}
	if n == 0 {
		return domain.ErrLockNotOwned
	}

	return nil
}
