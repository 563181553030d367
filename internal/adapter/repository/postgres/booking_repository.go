package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/srgjo27/seatlock/internal/core/domain"
)

const bookingColumns = `b.id, b.user_id, b.show_id, b.total_amount_cents, b.status, b.payment_ref, b.created_at, b.expires_at, b.confirmed_at`

const selectBookingWithSeats = `
	SELECT ` + bookingColumns + `,
		COALESCE(array_agg(bs.seat_id::text ORDER BY bs.seat_id) FILTER (WHERE bs.seat_id IS NOT NULL), '{}')
	FROM bookings b
	LEFT JOIN booking_seats bs ON bs.booking_id = b.id
	`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner, extra ...any) (*domain.Booking, error) {
	var (
		booking     domain.Booking
		paymentRef  sql.NullString
		confirmedAt sql.NullTime
	)

	dest := []any{
		&booking.ID,
		&booking.UserID,
		&booking.ShowID,
		&booking.TotalAmountCents,
		&booking.Status,
		&paymentRef,
		&booking.CreatedAt,
		&booking.ExpiresAt,
		&confirmedAt,
	}

	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	if paymentRef.Valid {
		booking.PaymentRef = &paymentRef.String
	}
	if confirmedAt.Valid {
		t := confirmedAt.Time
		booking.ConfirmedAt = &t
	}

	return &booking, nil
}

func scanBookingWithSeats(row rowScanner) (*domain.Booking, error) {
	var seats pq.StringArray
	booking, err := scanBooking(row, &seats)
	if err != nil {
		return nil, err
	}

	booking.SeatIDs, err = parseUUIDs(seats)
	if err != nil {
		return nil, err
	}

	return booking, nil
}

func (t *inventoryTx) InsertBooking(ctx context.Context, booking *domain.Booking) error {
	query := `
	INSERT INTO bookings (id, user_id, show_id, total_amount_cents, status, created_at, expires_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $6)
	`

	_, err := t.tx.ExecContext(ctx, query,
		booking.ID,
		booking.UserID,
		booking.ShowID,
		booking.TotalAmountCents,
		booking.Status,
		booking.CreatedAt,
		booking.ExpiresAt,
	)

	return translateError(err)
}

// LockBooking row-locks the booking so confirm, cancel and expire on the same
// booking serialize.
func (t *inventoryTx) LockBooking(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b WHERE b.id = $1 FOR UPDATE`

	booking, err := scanBooking(t.tx.QueryRowContext(ctx, query, bookingID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, translateError(err)
	}

	booking.SeatIDs, err = queryIDs(ctx, t.tx, `
	SELECT seat_id FROM booking_seats WHERE booking_id = $1 ORDER BY seat_id
	`, bookingID)
	if err != nil {
		return nil, err
	}

	return booking, nil
}

// UpdateBookingStatus is conditional on the current status. A booking that
// moved under us surfaces as ErrTransactionConflict.
func (t *inventoryTx) UpdateBookingStatus(ctx context.Context, bookingID uuid.UUID, from, to domain.BookingStatus, paymentRef *string, at time.Time) error {
	query := `
	UPDATE bookings
	SET status = $3, payment_ref = $4, confirmed_at = COALESCE($5, confirmed_at), updated_at = $6
	WHERE id = $1 AND status = $2
	`

	var confirmedAt *time.Time
	if to == domain.BookingConfirmed {
		confirmedAt = &at
	}

	result, err := t.tx.ExecContext(ctx, query, bookingID, from, to, paymentRef, confirmedAt, at)
	if err != nil {
		return translateError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return translateError(err)
	}

	if rowsAffected == 0 {
		return domain.ErrTransactionConflict
	}

	return nil
}

func (t *inventoryTx) ScheduleExpiry(ctx context.Context, bookingID uuid.UUID, dueAt time.Time) error {
	query := `
	INSERT INTO booking_expiries (booking_id, due_at)
	VALUES ($1, $2)
	ON CONFLICT (booking_id) DO UPDATE SET due_at = EXCLUDED.due_at
	`

	_, err := t.tx.ExecContext(ctx, query, bookingID, dueAt)
	return translateError(err)
}

func (t *inventoryTx) CancelExpiry(ctx context.Context, bookingID uuid.UUID) error {
	_, err := t.tx.ExecContext(ctx, `DELETE FROM booking_expiries WHERE booking_id = $1`, bookingID)
	return translateError(err)
}

func (s *InventoryStore) GetBooking(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error) {
	query := selectBookingWithSeats + `WHERE b.id = $1 GROUP BY b.id`

	booking, err := scanBookingWithSeats(s.db.QueryRowContext(ctx, query, bookingID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, translateError(err)
	}

	return booking, nil
}

func (s *InventoryStore) ListBookingsByUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error) {
	query := selectBookingWithSeats + `WHERE b.user_id = $1 GROUP BY b.id ORDER BY b.created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, translateError(err)
	}

	defer rows.Close()

	bookings := []domain.Booking{}
	for rows.Next() {
		booking, err := scanBookingWithSeats(rows)
		if err != nil {
			return nil, translateError(err)
		}

		bookings = append(bookings, *booking)
	}

	if err := rows.Err(); err != nil {
		return nil, translateError(err)
	}

	return bookings, nil
}

// DueExpiries returns bookings whose expiry task is due at now, oldest first.
func (s *InventoryStore) DueExpiries(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	query := `
	SELECT booking_id
	FROM booking_expiries
	WHERE due_at <= $1
	ORDER BY due_at
	LIMIT $2
	`

	return queryIDs(ctx, s.db, query, now, limit)
}

func parseUUIDs(values []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
