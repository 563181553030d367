package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/seatlock/internal/core/domain"
)

//go:generate mockery --name InventoryStore --output ./mocks --outpkg mocks
//go:generate mockery --name InventoryTx --output ./mocks --outpkg mocks

// InventoryStore is the authoritative record of shows, seats and bookings.
type InventoryStore interface {
	BeginTx(ctx context.Context) (InventoryTx, error)

	GetShow(ctx context.Context, showID uuid.UUID) (*domain.Show, error)
	GetBooking(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error)
	ListBookingsByUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error)
	SeatMap(ctx context.Context, showID uuid.UUID) (*domain.SeatMap, error)
	DueExpiries(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error)
}

// InventoryTx groups writes that must land together or not at all.
// Commit and Rollback are both safe to call after the other.
type InventoryTx interface {
	LockShow(ctx context.Context, showID uuid.UUID) (*domain.Show, error)
	UnknownSeats(ctx context.Context, showID uuid.UUID, seatIDs []uuid.UUID) ([]uuid.UUID, error)
	CheckSeatsFree(ctx context.Context, showID uuid.UUID, seatIDs []uuid.UUID) ([]uuid.UUID, error)
	DecrementAvailability(ctx context.Context, showID uuid.UUID, count int) error
	InsertBooking(ctx context.Context, booking *domain.Booking) error
	MarkSeatsBooked(ctx context.Context, bookingID, showID uuid.UUID, seatIDs []uuid.UUID) error
	ScheduleExpiry(ctx context.Context, bookingID uuid.UUID, dueAt time.Time) error

	LockBooking(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error)
	UpdateBookingStatus(ctx context.Context, bookingID uuid.UUID, from, to domain.BookingStatus, paymentRef *string, at time.Time) error
	ReleaseBookingSeats(ctx context.Context, bookingID, showID uuid.UUID) (int, error)
	CancelExpiry(ctx context.Context, bookingID uuid.UUID) error

	Commit() error
	Rollback() error
}
