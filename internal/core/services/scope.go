package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/seatlock/internal/core/domain"
	"github.com/srgjo27/seatlock/internal/core/ports"
)

const releaseTimeout = 2 * time.Second

func ShowLockKey(showID uuid.UUID) string {
	return fmt.Sprintf("show:%s:seats", showID)
}

// withShowLock runs fn while holding the show's seat-set lock. The lock is
// released on every exit path, and fn's context expires with the lock TTL so
// the guarded work cannot outlive its ownership.
func withShowLock(ctx context.Context, locker ports.LockService, showID uuid.UUID, ttl time.Duration, fn func(ctx context.Context) error) error {
	key := ShowLockKey(showID)

	token, acquired, err := locker.Acquire(ctx, key, ttl)
	if err != nil {
		return lockError(err)
	}
	if !acquired {
		return domain.ErrReservationInProgress
	}

	defer func() {
		relCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
		defer cancel()

		if err := locker.Release(relCtx, key, token); err != nil {
			log.Printf("reservation: failed to release lock %s: %v", key, err)
		}
	}()

	lockCtx, cancel := context.WithTimeout(ctx, ttl)
	defer cancel()

	return fn(lockCtx)
}

// withTx commits when fn succeeds and rolls back on every other exit,
// panics included.
func withTx(ctx context.Context, store ports.InventoryStore, fn func(tx ports.InventoryTx) error) error {
	tx, err := store.BeginTx(ctx)
	if err != nil {
		return storageError(err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if err := tx.Rollback(); err != nil {
			log.Printf("reservation: rollback failed: %v", err)
		}
	}()

	if err := fn(tx); err != nil {
		return storageError(err)
	}

	if err := tx.Commit(); err != nil {
		return storageError(err)
	}
	committed = true

	return nil
}

var knownErrors = []error{
	domain.ErrReservationInProgress,
	domain.ErrInvalidRequest,
	domain.ErrSeatAlreadyBooked,
	domain.ErrInsufficientCapacity,
	domain.ErrShowNotFound,
	domain.ErrSeatNotFound,
	domain.ErrBookingNotFound,
	domain.ErrNotBookingOwner,
	domain.ErrBookingNotConfirmable,
	domain.ErrBookingNotCancellable,
	domain.ErrTransactionConflict,
	domain.ErrStorageUnavailable,
	domain.ErrLockServiceUnavailable,
}

func isKnown(err error) bool {
	for _, k := range knownErrors {
		if errors.Is(err, k) {
			return true
		}
	}
	return false
}

// storageError keeps taxonomy errors and folds everything else into
// ErrStorageUnavailable without exposing the driver's message chain.
func storageError(err error) error {
	if isKnown(err) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
}

func lockError(err error) error {
	if errors.Is(err, domain.ErrLockServiceUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrLockServiceUnavailable, err)
}
