package services_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/seatlock/internal/adapter/lock/memory"
	"github.com/srgjo27/seatlock/internal/adapter/publisher/rabbitmq"
	"github.com/srgjo27/seatlock/internal/core/domain"
	"github.com/srgjo27/seatlock/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type harness struct {
	store      *memStore
	locker     *memory.Locker
	clock      *testClock
	service    *services.ReservationService
	supervisor *services.ExpirySupervisor
}

func newHarness() *harness {
	clock := &testClock{now: fixedNow}
	store := newMemStore()
	locker := memory.NewWithClock(clock.Now)
	service := services.NewReservationService(store, locker, nil, nil, services.ReservationConfig{Now: clock.Now})

	return &harness{
		store:      store,
		locker:     locker,
		clock:      clock,
		service:    service,
		supervisor: services.NewExpirySupervisor(store, service, services.ExpiryConfig{Now: clock.Now}),
	}
}

// reserve retries lock contention the way a client would.
func (h *harness) reserve(userID, showID uuid.UUID, seats ...uuid.UUID) (*services.Reservation, error) {
	for {
		res, err := h.service.Reserve(context.Background(), services.ReserveRequest{UserID: userID, ShowID: showID, SeatIDs: seats})
		if errors.Is(err, domain.ErrReservationInProgress) {
			time.Sleep(time.Millisecond)
			continue
		}
		return res, err
	}
}

func (h *harness) assertCounter(t *testing.T, show domain.Show) {
	t.Helper()
	assert.Equal(t, show.TotalSeats, h.store.available(show.ID)+h.store.bookedCount(show.ID),
		"available seats plus live holds must equal capacity")
}

func TestProtocol_OverlappingReservesAtMostOneWins(t *testing.T) {
	h := newHarness()
	show, seats := h.store.addShow(5, 100)

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Every request contains seats[0]; half also ask for seats[1].
			req := []uuid.UUID{seats[0]}
			if i%2 == 0 {
				req = append(req, seats[1])
			}
			_, err := h.reserve(uuid.New(), show.ID, req...)
			if err == nil {
				wins.Add(1)
				return
			}
			assert.ErrorIs(t, err, domain.ErrSeatAlreadyBooked)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	h.assertCounter(t, show)
}

func TestProtocol_TwoSeatScenario(t *testing.T) {
	h := newHarness()
	show, seats := h.store.addShow(2, 100)

	var (
		wg         sync.WaitGroup
		resA, resB *services.Reservation
		errA, errB error
	)
	wg.Add(2)
	go func() { defer wg.Done(); resA, errA = h.reserve(uuid.New(), show.ID, seats[0], seats[1]) }()
	go func() { defer wg.Done(); resB, errB = h.reserve(uuid.New(), show.ID, seats[0]) }()
	wg.Wait()

	require.True(t, (errA == nil) != (errB == nil), "exactly one reservation wins")

	if errA == nil {
		assert.Equal(t, int64(200), resA.Booking.TotalAmountCents)
		assert.Equal(t, 0, h.store.available(show.ID))
		assert.ErrorIs(t, errB, domain.ErrSeatAlreadyBooked)
	} else {
		assert.Equal(t, int64(100), resB.Booking.TotalAmountCents)
		assert.Equal(t, 1, h.store.available(show.ID))
		assert.ErrorIs(t, errA, domain.ErrSeatAlreadyBooked)
	}
	h.assertCounter(t, show)
}

func TestProtocol_CounterInvariantAcrossLifecycle(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	show, seats := h.store.addShow(6, 50)
	user := uuid.New()

	r1, err := h.reserve(user, show.ID, seats[0], seats[1])
	require.NoError(t, err)
	h.assertCounter(t, show)

	r2, err := h.reserve(user, show.ID, seats[2])
	require.NoError(t, err)
	_, err = h.service.Confirm(ctx, r2.Booking.ID, user, "pay_1")
	require.NoError(t, err)
	h.assertCounter(t, show)

	r3, err := h.reserve(user, show.ID, seats[3], seats[4])
	require.NoError(t, err)

	_, err = h.service.Cancel(ctx, r1.Booking.ID, user)
	require.NoError(t, err)
	h.assertCounter(t, show)

	_, err = h.service.Cancel(ctx, r2.Booking.ID, user)
	require.NoError(t, err)
	h.assertCounter(t, show)

	h.clock.Advance(services.DefaultExpiryWindow)
	n, err := h.supervisor.SweepOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	h.assertCounter(t, show)

	got, err := h.service.GetBooking(ctx, r3.Booking.ID, user)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingExpired, got.Status)
	assert.Equal(t, show.TotalSeats, h.store.available(show.ID))
	assert.Equal(t, 0, h.store.pendingExpiries())
}

func TestProtocol_ConfirmTwice(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	show, seats := h.store.addShow(3, 100)
	user := uuid.New()

	res, err := h.reserve(user, show.ID, seats[0])
	require.NoError(t, err)

	_, err = h.service.Confirm(ctx, res.Booking.ID, user, "")
	require.NoError(t, err)

	_, err = h.service.Confirm(ctx, res.Booking.ID, user, "")
	assert.ErrorIs(t, err, domain.ErrBookingNotConfirmable)

	assert.Equal(t, 2, h.store.available(show.ID))
	h.assertCounter(t, show)
}

func TestProtocol_ConfirmVersusExpire(t *testing.T) {
	for _, offset := range []time.Duration{-time.Second, 0, time.Second} {
		t.Run(offset.String(), func(t *testing.T) {
			h := newHarness()
			ctx := context.Background()
			show, seats := h.store.addShow(1, 100)
			user := uuid.New()

			res, err := h.reserve(user, show.ID, seats[0])
			require.NoError(t, err)

			h.clock.Advance(services.DefaultExpiryWindow + offset)

			var (
				wg         sync.WaitGroup
				confirmErr error
				released   bool
				expireErr  error
			)
			wg.Add(2)
			go func() { defer wg.Done(); _, confirmErr = h.service.Confirm(ctx, res.Booking.ID, user, "") }()
			go func() { defer wg.Done(); released, expireErr = h.service.Expire(ctx, res.Booking.ID) }()
			wg.Wait()

			require.NoError(t, expireErr)
			assert.True(t, (confirmErr == nil) != released, "exactly one of confirm and expire takes effect")

			final, err := h.service.GetBooking(ctx, res.Booking.ID, user)
			require.NoError(t, err)
			if released {
				assert.Equal(t, domain.BookingExpired, final.Status)
				assert.ErrorIs(t, confirmErr, domain.ErrBookingNotConfirmable)
				assert.Equal(t, 1, h.store.available(show.ID))
			} else {
				assert.Equal(t, domain.BookingConfirmed, final.Status)
				assert.Equal(t, 0, h.store.available(show.ID))
			}
			h.assertCounter(t, show)
		})
	}
}

func TestProtocol_UnconfirmedHoldExpiresOnce(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	show, seats := h.store.addShow(2, 100)
	user := uuid.New()

	res, err := h.reserve(user, show.ID, seats[0], seats[1])
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, res.ExpiresIn)
	assert.Equal(t, 0, h.store.available(show.ID))

	h.clock.Advance(14 * time.Minute)
	n, err := h.supervisor.SweepOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "nothing is due before the window closes")

	h.clock.Advance(time.Minute)
	n, err = h.supervisor.SweepOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 2, h.store.available(show.ID))

	released, err := h.service.Expire(ctx, res.Booking.ID)
	require.NoError(t, err)
	assert.False(t, released, "a second expiry must not restore seats again")
	assert.Equal(t, 2, h.store.available(show.ID))

	_, err = h.service.Confirm(ctx, res.Booking.ID, user, "")
	assert.ErrorIs(t, err, domain.ErrBookingNotConfirmable)

	// The seats are free for someone else.
	_, err = h.reserve(uuid.New(), show.ID, seats[0], seats[1])
	assert.NoError(t, err)
	h.assertCounter(t, show)
}

func TestProtocol_LockSelfHealsAfterTTL(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	show, seats := h.store.addShow(1, 100)

	// A holder that crashed without releasing.
	_, ok, err := h.locker.Acquire(ctx, services.ShowLockKey(show.ID), services.DefaultLockTTL)
	require.NoError(t, err)
	require.True(t, ok)

	req := services.ReserveRequest{UserID: uuid.New(), ShowID: show.ID, SeatIDs: seats}

	_, err = h.service.Reserve(ctx, req)
	assert.ErrorIs(t, err, domain.ErrReservationInProgress)

	h.clock.Advance(services.DefaultLockTTL - time.Second)
	_, err = h.service.Reserve(ctx, req)
	assert.ErrorIs(t, err, domain.ErrReservationInProgress)

	h.clock.Advance(time.Second)
	_, err = h.service.Reserve(ctx, req)
	assert.NoError(t, err)
}

func TestProtocol_FailedReserveLeavesNoTrace(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	show, seats := h.store.addShow(2, 100)
	other, _ := h.store.addShow(1, 100)

	_, err := h.service.Reserve(ctx, services.ReserveRequest{UserID: uuid.New(), ShowID: other.ID, SeatIDs: seats[:1]})
	assert.ErrorIs(t, err, domain.ErrSeatNotFound, "seats of another screen are unknown to this show")

	_, err = h.reserve(uuid.New(), show.ID, seats[0])
	require.NoError(t, err)

	_, err = h.reserve(uuid.New(), show.ID, seats[1], seats[0])
	assert.ErrorIs(t, err, domain.ErrSeatAlreadyBooked)

	assert.Equal(t, 1, h.store.available(show.ID))
	assert.Equal(t, 1, h.store.pendingExpiries())
	h.assertCounter(t, show)

	// The show lock was released on the failure path.
	_, ok, err := h.locker.Acquire(ctx, services.ShowLockKey(show.ID), time.Second)
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestProtocol_CancelTwice(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	show, seats := h.store.addShow(1, 100)
	user := uuid.New()

	res, err := h.reserve(user, show.ID, seats[0])
	require.NoError(t, err)

	_, err = h.service.Cancel(ctx, res.Booking.ID, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotBookingOwner)

	_, err = h.service.Cancel(ctx, res.Booking.ID, user)
	require.NoError(t, err)

	_, err = h.service.Cancel(ctx, res.Booking.ID, user)
	assert.ErrorIs(t, err, domain.ErrBookingNotCancellable)

	assert.Equal(t, 1, h.store.available(show.ID))
	assert.Equal(t, 0, h.store.pendingExpiries())
}

func TestProtocol_UnreachableBrokerDoesNotDelayBookings(t *testing.T) {
	h := newHarness()
	show, seats := h.store.addShow(3, 100)

	pub := rabbitmq.NewPublisher(func(ctx context.Context) (rabbitmq.Channel, func() error, error) {
		<-ctx.Done()
		return nil, nil, ctx.Err()
	}, rabbitmq.Config{SendTimeout: 500 * time.Millisecond})
	service := services.NewReservationService(h.store, h.locker, nil, pub, services.ReservationConfig{Now: h.clock.Now})

	start := time.Now()
	var wg sync.WaitGroup
	for _, seat := range seats {
		wg.Add(1)
		go func(seat uuid.UUID) {
			defer wg.Done()
			for {
				_, err := service.Reserve(context.Background(), services.ReserveRequest{UserID: uuid.New(), ShowID: show.ID, SeatIDs: []uuid.UUID{seat}})
				if errors.Is(err, domain.ErrReservationInProgress) {
					time.Sleep(time.Millisecond)
					continue
				}
				assert.NoError(t, err)
				return
			}
		}(seat)
	}
	wg.Wait()

	assert.Less(t, time.Since(start), 250*time.Millisecond)
	assert.Equal(t, 0, h.store.available(show.ID))
	require.NoError(t, pub.Close())
}
