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

const (
	DefaultLockTTL      = 30 * time.Second
	DefaultExpiryWindow = 15 * time.Minute

	sideEffectTimeout = 2 * time.Second
)

type ReservationConfig struct {
	LockTTL      time.Duration
	ExpiryWindow time.Duration
	Now          func() time.Time
}

type ReserveRequest struct {
	UserID  uuid.UUID
	ShowID  uuid.UUID
	SeatIDs []uuid.UUID
}

type Reservation struct {
	Booking   *domain.Booking
	ExpiresIn time.Duration
}

type ReservationService struct {
	store        ports.InventoryStore
	locker       ports.LockService
	cache        ports.SeatMapCache
	publisher    ports.EventPublisher
	lockTTL      time.Duration
	expiryWindow time.Duration
	now          func() time.Time
}

// NewReservationService wires the protocol. cache and publisher may be nil.
func NewReservationService(store ports.InventoryStore, locker ports.LockService, cache ports.SeatMapCache, publisher ports.EventPublisher, cfg ReservationConfig) *ReservationService {
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = DefaultLockTTL
	}
	if cfg.ExpiryWindow <= 0 {
		cfg.ExpiryWindow = DefaultExpiryWindow
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &ReservationService{
		store:        store,
		locker:       locker,
		cache:        cache,
		publisher:    publisher,
		lockTTL:      cfg.LockTTL,
		expiryWindow: cfg.ExpiryWindow,
		now:          cfg.Now,
	}
}

// Reserve holds seatIDs for userID as a pending booking. Lock contention
// fails fast with domain.ErrReservationInProgress; retrying is up to the caller.
func (s *ReservationService) Reserve(ctx context.Context, req ReserveRequest) (*Reservation, error) {
	if req.UserID == uuid.Nil || req.ShowID == uuid.Nil {
		return nil, fmt.Errorf("%w: user and show are required", domain.ErrInvalidRequest)
	}

	seatIDs, err := normalizeSeatIDs(req.SeatIDs)
	if err != nil {
		return nil, err
	}

	var booking *domain.Booking
	err = withShowLock(ctx, s.locker, req.ShowID, s.lockTTL, func(ctx context.Context) error {
		return withTx(ctx, s.store, func(tx ports.InventoryTx) error {
			b, err := s.reserveTx(ctx, tx, req.UserID, req.ShowID, seatIDs)
			if err != nil {
				return err
			}
			booking = b
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, domain.EventBookingReserved, booking, true)

	return &Reservation{
		Booking:   booking,
		ExpiresIn: booking.ExpiresIn(s.now()),
	}, nil
}

func (s *ReservationService) reserveTx(ctx context.Context, tx ports.InventoryTx, userID, showID uuid.UUID, seatIDs []uuid.UUID) (*domain.Booking, error) {
	show, err := tx.LockShow(ctx, showID)
	if err != nil {
		return nil, err
	}

	unknown, err := tx.UnknownSeats(ctx, showID, seatIDs)
	if err != nil {
		return nil, err
	}
	if len(unknown) > 0 {
		return nil, &domain.SeatsError{Err: domain.ErrSeatNotFound, SeatIDs: unknown}
	}

	taken, err := tx.CheckSeatsFree(ctx, showID, seatIDs)
	if err != nil {
		return nil, err
	}
	if len(taken) > 0 {
		return nil, &domain.SeatsError{Err: domain.ErrSeatAlreadyBooked, SeatIDs: taken}
	}

	if !show.HasCapacity(len(seatIDs)) {
		return nil, domain.ErrInsufficientCapacity
	}

	now := s.now().UTC()
	booking := &domain.Booking{
		ID:               uuid.New(),
		UserID:           userID,
		ShowID:           showID,
		TotalAmountCents: show.PriceCents * int64(len(seatIDs)),
		Status:           domain.BookingPending,
		CreatedAt:        now,
		ExpiresAt:        now.Add(s.expiryWindow),
		SeatIDs:          seatIDs,
	}

	if err := tx.InsertBooking(ctx, booking); err != nil {
		return nil, err
	}
	if err := tx.MarkSeatsBooked(ctx, booking.ID, showID, seatIDs); err != nil {
		return nil, err
	}
	if err := tx.DecrementAvailability(ctx, showID, len(seatIDs)); err != nil {
		return nil, err
	}
	// Commits with the booking: every held seat has a reclaim scheduled.
	if err := tx.ScheduleExpiry(ctx, booking.ID, booking.ExpiresAt); err != nil {
		return nil, err
	}

	return booking, nil
}

// Confirm moves a pending booking to confirmed and drops its expiry task.
func (s *ReservationService) Confirm(ctx context.Context, bookingID, userID uuid.UUID, paymentRef string) (*domain.Booking, error) {
	var booking *domain.Booking
	err := withTx(ctx, s.store, func(tx ports.InventoryTx) error {
		b, err := tx.LockBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		if b.UserID != userID {
			return domain.ErrNotBookingOwner
		}

		now := s.now().UTC()
		if !b.CanConfirm(now) {
			return domain.ErrBookingNotConfirmable
		}

		var ref *string
		if paymentRef != "" {
			ref = &paymentRef
		}

		if err := tx.UpdateBookingStatus(ctx, b.ID, domain.BookingPending, domain.BookingConfirmed, ref, now); err != nil {
			return err
		}
		if err := tx.CancelExpiry(ctx, b.ID); err != nil {
			return err
		}

		b.Status = domain.BookingConfirmed
		b.PaymentRef = ref
		b.ConfirmedAt = &now
		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, domain.EventBookingConfirmed, booking, false)

	return booking, nil
}

// Cancel releases a pending or confirmed booking. Availability only grows on
// this path, so the show lock is not taken.
func (s *ReservationService) Cancel(ctx context.Context, bookingID, userID uuid.UUID) (*domain.Booking, error) {
	var booking *domain.Booking
	err := withTx(ctx, s.store, func(tx ports.InventoryTx) error {
		b, err := tx.LockBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		if b.UserID != userID {
			return domain.ErrNotBookingOwner
		}
		if !b.CanCancel() {
			return domain.ErrBookingNotCancellable
		}

		if err := s.release(ctx, tx, b, domain.BookingCancelled); err != nil {
			return err
		}
		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, domain.EventBookingCancelled, booking, true)

	return booking, nil
}

// Expire reclaims a booking that is still pending after its window. It
// reports whether seats were released; anything else is a no-op that only
// clears the expiry task.
func (s *ReservationService) Expire(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	var booking *domain.Booking
	err := withTx(ctx, s.store, func(tx ports.InventoryTx) error {
		b, err := tx.LockBooking(ctx, bookingID)
		if errors.Is(err, domain.ErrBookingNotFound) {
			return tx.CancelExpiry(ctx, bookingID)
		}
		if err != nil {
			return err
		}

		if !b.CanExpire() {
			return tx.CancelExpiry(ctx, bookingID)
		}
		if s.now().Before(b.ExpiresAt) {
			return nil
		}

		if err := s.release(ctx, tx, b, domain.BookingExpired); err != nil {
			return err
		}
		booking = b
		return nil
	})
	if err != nil {
		return false, err
	}
	if booking == nil {
		return false, nil
	}

	s.afterCommit(ctx, domain.EventBookingExpired, booking, true)

	return true, nil
}

// release restores the booking's seats and moves it to status in tx.
func (s *ReservationService) release(ctx context.Context, tx ports.InventoryTx, b *domain.Booking, status domain.BookingStatus) error {
	if _, err := tx.ReleaseBookingSeats(ctx, b.ID, b.ShowID); err != nil {
		return err
	}

	now := s.now().UTC()
	if err := tx.UpdateBookingStatus(ctx, b.ID, b.Status, status, b.PaymentRef, now); err != nil {
		return err
	}
	if err := tx.CancelExpiry(ctx, b.ID); err != nil {
		return err
	}

	b.Status = status
	return nil
}

func (s *ReservationService) GetBooking(ctx context.Context, bookingID, userID uuid.UUID) (*domain.Booking, error) {
	b, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, storageError(err)
	}
	if b.UserID != userID {
		return nil, domain.ErrNotBookingOwner
	}
	return b, nil
}

func (s *ReservationService) ListBookings(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error) {
	bookings, err := s.store.ListBookingsByUser(ctx, userID)
	if err != nil {
		return nil, storageError(err)
	}
	return bookings, nil
}

// ExpiresIn is the remaining hold time of b as seen by this service's clock.
func (s *ReservationService) ExpiresIn(b *domain.Booking) time.Duration {
	return b.ExpiresIn(s.now())
}

// afterCommit runs best-effort side effects. Failures are logged, never
// returned: the booking change is already durable. They run detached from
// the caller's cancellation and are bounded by sideEffectTimeout.
func (s *ReservationService) afterCommit(ctx context.Context, t domain.EventType, b *domain.Booking, seatsChanged bool) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()

	if seatsChanged && s.cache != nil {
		if err := s.cache.Invalidate(ctx, b.ShowID); err != nil {
			log.Printf("reservation: failed to invalidate seat map for show %s: %v", b.ShowID, err)
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, domain.NewBookingEvent(t, b, s.now())); err != nil {
			log.Printf("reservation: failed to publish %s for booking %s: %v", t, b.ID, err)
		}
	}
}

func normalizeSeatIDs(ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no seats selected", domain.ErrInvalidRequest)
	}

	seen := make(map[uuid.UUID]struct{}, len(ids))
	unique := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			return nil, fmt.Errorf("%w: invalid seat id", domain.ErrInvalidRequest)
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	return unique, nil
}
