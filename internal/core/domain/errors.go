package domain

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// Lock contention. The caller may retry.
var ErrReservationInProgress = errors.New("another reservation for this show is in progress")

// Validation failures. Not retryable without changing the request.
var (
	ErrInvalidRequest       = errors.New("invalid request")
	ErrSeatAlreadyBooked    = errors.New("seat already booked")
	ErrInsufficientCapacity = errors.New("not enough seats available")
)

var (
	ErrShowNotFound    = errors.New("show not found")
	ErrSeatNotFound    = errors.New("seat not found")
	ErrBookingNotFound = errors.New("booking not found")
)

// State mismatches on an existing booking.
var (
	ErrNotBookingOwner       = errors.New("booking belongs to another user")
	ErrBookingNotConfirmable = errors.New("booking cannot be confirmed")
	ErrBookingNotCancellable = errors.New("booking cannot be cancelled")
)

// Infrastructure failures. Fatal for the attempt, safe to retry later.
var (
	ErrTransactionConflict    = errors.New("transaction conflict")
	ErrStorageUnavailable     = errors.New("storage unavailable")
	ErrLockServiceUnavailable = errors.New("lock service unavailable")
	ErrLockNotOwned           = errors.New("lock not owned")
)

// SeatsError names the offending seats of a rejected reservation.
type SeatsError struct {
	Err     error
	SeatIDs []uuid.UUID
}

func (e *SeatsError) Error() string {
	ids := make([]string, len(e.SeatIDs))
	for i, id := range e.SeatIDs {
		ids[i] = id.String()
	}
	return e.Err.Error() + ": " + strings.Join(ids, ",")
}

func (e *SeatsError) Unwrap() error {
	return e.Err
}
