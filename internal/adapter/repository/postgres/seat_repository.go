package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/srgjo27/seatlock/internal/core/domain"
)

const selectShow = `
	SELECT id, screen_id, price_cents, total_seats, available_seats
	FROM shows
	WHERE id = $1
	`

func scanShow(row *sql.Row) (*domain.Show, error) {
	var show domain.Show
	err := row.Scan(
		&show.ID,
		&show.ScreenID,
		&show.PriceCents,
		&show.TotalSeats,
		&show.AvailableSeats,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrShowNotFound
		}

		return nil, translateError(err)
	}

	return &show, nil
}

func (s *InventoryStore) GetShow(ctx context.Context, showID uuid.UUID) (*domain.Show, error) {
	return scanShow(s.db.QueryRowContext(ctx, selectShow, showID))
}

// LockShow serializes every writer that decrements this show's counter.
func (t *inventoryTx) LockShow(ctx context.Context, showID uuid.UUID) (*domain.Show, error) {
	return scanShow(t.tx.QueryRowContext(ctx, selectShow+` FOR UPDATE`, showID))
}

func (t *inventoryTx) UnknownSeats(ctx context.Context, showID uuid.UUID, seatIDs []uuid.UUID) ([]uuid.UUID, error) {
	query := `
	SELECT req.id
	FROM unnest($2::uuid[]) AS req(id)
	WHERE NOT EXISTS (
		SELECT 1
		FROM seats s
		JOIN shows sh ON sh.screen_id = s.screen_id
		WHERE sh.id = $1 AND s.id = req.id
	)
	`

	return queryIDs(ctx, t.tx, query, showID, uuidArray(seatIDs))
}

func (t *inventoryTx) CheckSeatsFree(ctx context.Context, showID uuid.UUID, seatIDs []uuid.UUID) ([]uuid.UUID, error) {
	query := `
	SELECT seat_id
	FROM booking_seats
	WHERE show_id = $1 AND seat_id = ANY($2::uuid[]) AND status = 'BOOKED'
	`

	return queryIDs(ctx, t.tx, query, showID, uuidArray(seatIDs))
}

func (t *inventoryTx) MarkSeatsBooked(ctx context.Context, bookingID, showID uuid.UUID, seatIDs []uuid.UUID) error {
	query := `
	INSERT INTO booking_seats (booking_id, show_id, seat_id, status)
	VALUES ($1, $2, $3, 'BOOKED')
	`

	stmt, err := t.tx.PrepareContext(ctx, query)
	if err != nil {
		return translateError(err)
	}

	defer stmt.Close()

	for _, seatID := range seatIDs {
		if _, err := stmt.ExecContext(ctx, bookingID, showID, seatID); err != nil {
			return translateError(err)
		}
	}

	return nil
}

func (t *inventoryTx) DecrementAvailability(ctx context.Context, showID uuid.UUID, count int) error {
	query := `
	UPDATE shows
	SET available_seats = available_seats - $2
	WHERE id = $1 AND available_seats >= $2
	`

	result, err := t.tx.ExecContext(ctx, query, showID, count)
	if err != nil {
		return translateError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return translateError(err)
	}

	if rowsAffected == 0 {
		return domain.ErrInsufficientCapacity
	}

	return nil
}

// ReleaseBookingSeats takes the show row before touching booking_seats, the
// same order the reserve path uses, so restore and reserve never deadlock.
func (t *inventoryTx) ReleaseBookingSeats(ctx context.Context, bookingID, showID uuid.UUID) (int, error) {
	var count int
	err := t.tx.QueryRowContext(ctx, `
	SELECT COUNT(*) FROM booking_seats WHERE booking_id = $1 AND status = 'BOOKED'
	`, bookingID).Scan(&count)
	if err != nil {
		return 0, translateError(err)
	}

	if count == 0 {
		return 0, nil
	}

	if _, err := t.tx.ExecContext(ctx, `
	UPDATE shows
	SET available_seats = available_seats + $2
	WHERE id = $1
	`, showID, count); err != nil {
		return 0, translateError(err)
	}

	result, err := t.tx.ExecContext(ctx, `
	UPDATE booking_seats
	SET status = 'CANCELLED'
	WHERE booking_id = $1 AND status = 'BOOKED'
	`, bookingID)
	if err != nil {
		return 0, translateError(err)
	}

	released, err := result.RowsAffected()
	if err != nil {
		return 0, translateError(err)
	}

	if int(released) != count {
		return 0, domain.ErrTransactionConflict
	}

	return count, nil
}

func (s *InventoryStore) SeatMap(ctx context.Context, showID uuid.UUID) (*domain.SeatMap, error) {
	show, err := s.GetShow(ctx, showID)
	if err != nil {
		return nil, err
	}

	query := `
	SELECT s.id, s.row_label, s.seat_number,
		EXISTS (
			SELECT 1 FROM booking_seats bs
			WHERE bs.show_id = $1 AND bs.seat_id = s.id AND bs.status = 'BOOKED'
		) AS is_booked
	FROM seats s
	WHERE s.screen_id = $2
	ORDER BY s.row_label, s.seat_number
	`

	rows, err := s.db.QueryContext(ctx, query, show.ID, show.ScreenID)
	if err != nil {
		return nil, translateError(err)
	}

	defer rows.Close()

	seatMap := &domain.SeatMap{
		ShowID:         show.ID,
		PriceCents:     show.PriceCents,
		AvailableSeats: show.AvailableSeats,
		Seats:          []domain.ShowSeat{},
	}

	for rows.Next() {
		var seat domain.ShowSeat
		if err := rows.Scan(
			&seat.SeatID,
			&seat.RowLabel,
			&seat.SeatNumber,
			&seat.IsBooked,
		); err != nil {
			return nil, translateError(err)
		}

		seatMap.Seats = append(seatMap.Seats, seat)
	}

	if err := rows.Err(); err != nil {
		return nil, translateError(err)
	}

	return seatMap, nil
}

func queryIDs(ctx context.Context, q querier, query string, args ...any) ([]uuid.UUID, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translateError(err)
	}

	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, translateError(err)
		}

		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, translateError(err)
	}

	return ids, nil
}
