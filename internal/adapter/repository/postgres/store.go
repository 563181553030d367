package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/srgjo27/seatlock/internal/core/domain"
	"github.com/srgjo27/seatlock/internal/core/ports"
)

// InventoryStore implements ports.InventoryStore on PostgreSQL. Seat checks
// run after the show row is locked FOR UPDATE, and the partial unique index
// booking_seats_one_booked rejects a second BOOKED row for a (show, seat).
type InventoryStore struct {
	db *sql.DB
}

func NewInventoryStore(db *sql.DB) *InventoryStore {
	return &InventoryStore{db: db}
}

func (s *InventoryStore) BeginTx(ctx context.Context) (ports.InventoryTx, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, translateError(err)
	}
	return &inventoryTx{tx: tx}, nil
}

type inventoryTx struct {
	tx *sql.Tx
}

func (t *inventoryTx) Commit() error {
	if err := t.tx.Commit(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return translateError(err)
	}
	return nil
}

func (t *inventoryTx) Rollback() error {
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return translateError(err)
	}
	return nil
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeCheckViolation       = "23514"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"

	constraintOneBooked       = "booking_seats_one_booked"
	constraintSeatExists      = "booking_seats_seat_fk"
	constraintAvailableNonNeg = "shows_available_nonnegative"
)

// translateError maps driver failures onto the domain taxonomy. Unclassified
// errors become ErrStorageUnavailable and keep the driver text out of the
// errors.Is chain.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case codeUniqueViolation:
			if pqErr.Constraint == constraintOneBooked {
				return domain.ErrSeatAlreadyBooked
			}
		case codeForeignKeyViolation:
			if pqErr.Constraint == constraintSeatExists {
				return domain.ErrSeatNotFound
			}
		case codeCheckViolation:
			if pqErr.Constraint == constraintAvailableNonNeg {
				return domain.ErrInsufficientCapacity
			}
		case codeSerializationFailure, codeDeadlockDetected:
			return domain.ErrTransactionConflict
		}
		return fmt.Errorf("%w: postgres error %s", domain.ErrStorageUnavailable, pqErr.Code)
	}

	return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
}

func uuidArray(ids []uuid.UUID) pq.StringArray {
	out := make(pq.StringArray, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
