package services_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/seatlock/internal/core/domain"
	"github.com/srgjo27/seatlock/internal/core/ports"
)

// memStore is an in-memory ports.InventoryStore. A transaction holds the
// store mutex from BeginTx until Commit or Rollback, which is stricter than
// row locks but keeps the same atomicity.
type memStore struct {
	mu    sync.Mutex
	state memState
}

type bookingSeat struct {
	bookingID uuid.UUID
	showID    uuid.UUID
	seatID    uuid.UUID
	status    domain.SeatStatus
}

type memState struct {
	shows        map[uuid.UUID]domain.Show
	seats        map[uuid.UUID]domain.Seat
	bookings     map[uuid.UUID]domain.Booking
	bookingSeats []bookingSeat
	expiries     map[uuid.UUID]time.Time
}

func newMemStore() *memStore {
	return &memStore{state: memState{
		shows:    map[uuid.UUID]domain.Show{},
		seats:    map[uuid.UUID]domain.Seat{},
		bookings: map[uuid.UUID]domain.Booking{},
		expiries: map[uuid.UUID]time.Time{},
	}}
}

// addShow creates a show with n seats on a fresh screen.
func (m *memStore) addShow(n int, price int64) (domain.Show, []uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	show := domain.Show{ID: uuid.New(), ScreenID: uuid.New(), PriceCents: price, TotalSeats: n, AvailableSeats: n}
	m.state.shows[show.ID] = show

	ids := make([]uuid.UUID, n)
	for i := range ids {
		seat := domain.Seat{ID: uuid.New(), ScreenID: show.ScreenID, RowLabel: "A", SeatNumber: i + 1}
		m.state.seats[seat.ID] = seat
		ids[i] = seat.ID
	}

	return show, ids
}

func (s memState) clone() memState {
	c := memState{
		shows:        make(map[uuid.UUID]domain.Show, len(s.shows)),
		seats:        s.seats,
		bookings:     make(map[uuid.UUID]domain.Booking, len(s.bookings)),
		bookingSeats: append([]bookingSeat(nil), s.bookingSeats...),
		expiries:     make(map[uuid.UUID]time.Time, len(s.expiries)),
	}
	for k, v := range s.shows {
		c.shows[k] = v
	}
	for k, v := range s.bookings {
		c.bookings[k] = v
	}
	for k, v := range s.expiries {
		c.expiries[k] = v
	}
	return c
}

func (m *memStore) BeginTx(ctx context.Context) (ports.InventoryTx, error) {
	m.mu.Lock()
	return &memTx{store: m, snapshot: m.state.clone()}, nil
}

func (m *memStore) GetShow(_ context.Context, showID uuid.UUID) (*domain.Show, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	show, ok := m.state.shows[showID]
	if !ok {
		return nil, domain.ErrShowNotFound
	}
	return &show, nil
}

func (m *memStore) GetBooking(_ context.Context, bookingID uuid.UUID) (*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.state.bookings[bookingID]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	return &b, nil
}

func (m *memStore) ListBookingsByUser(_ context.Context, userID uuid.UUID) ([]domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []domain.Booking{}
	for _, b := range m.state.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memStore) SeatMap(_ context.Context, showID uuid.UUID) (*domain.SeatMap, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	show, ok := m.state.shows[showID]
	if !ok {
		return nil, domain.ErrShowNotFound
	}

	sm := &domain.SeatMap{ShowID: showID, PriceCents: show.PriceCents, AvailableSeats: show.AvailableSeats}
	for _, seat := range m.state.seats {
		if seat.ScreenID != show.ScreenID {
			continue
		}
		sm.Seats = append(sm.Seats, domain.ShowSeat{
			SeatID:     seat.ID,
			RowLabel:   seat.RowLabel,
			SeatNumber: seat.SeatNumber,
			IsBooked:   m.state.isBooked(showID, seat.ID),
		})
	}
	sort.Slice(sm.Seats, func(i, j int) bool { return sm.Seats[i].SeatNumber < sm.Seats[j].SeatNumber })
	return sm, nil
}

func (m *memStore) DueExpiries(_ context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var ids []uuid.UUID
	for id, due := range m.state.expiries {
		if !due.After(now) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return m.state.expiries[ids[i]].Before(m.state.expiries[ids[j]]) })
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

// bookedCount is the number of live holds for showID.
func (m *memStore) bookedCount(showID uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, bs := range m.state.bookingSeats {
		if bs.showID == showID && bs.status == domain.SeatBooked {
			n++
		}
	}
	return n
}

func (m *memStore) available(showID uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.shows[showID].AvailableSeats
}

func (m *memStore) pendingExpiries() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.state.expiries)
}

func (s memState) isBooked(showID, seatID uuid.UUID) bool {
	for _, bs := range s.bookingSeats {
		if bs.showID == showID && bs.seatID == seatID && bs.status == domain.SeatBooked {
			return true
		}
	}
	return false
}

type memTx struct {
	store    *memStore
	snapshot memState
	done     bool
}

func (t *memTx) st() *memState {
	return &t.store.state
}

func (t *memTx) LockShow(_ context.Context, showID uuid.UUID) (*domain.Show, error) {
	show, ok := t.st().shows[showID]
	if !ok {
		return nil, domain.ErrShowNotFound
	}
	return &show, nil
}

func (t *memTx) UnknownSeats(_ context.Context, showID uuid.UUID, seatIDs []uuid.UUID) ([]uuid.UUID, error) {
	show := t.st().shows[showID]
	var unknown []uuid.UUID
	for _, id := range seatIDs {
		seat, ok := t.st().seats[id]
		if !ok || seat.ScreenID != show.ScreenID {
			unknown = append(unknown, id)
		}
	}
	return unknown, nil
}

func (t *memTx) CheckSeatsFree(_ context.Context, showID uuid.UUID, seatIDs []uuid.UUID) ([]uuid.UUID, error) {
	var taken []uuid.UUID
	for _, id := range seatIDs {
		if t.st().isBooked(showID, id) {
			taken = append(taken, id)
		}
	}
	return taken, nil
}

func (t *memTx) DecrementAvailability(_ context.Context, showID uuid.UUID, count int) error {
	show := t.st().shows[showID]
	if show.AvailableSeats < count {
		return domain.ErrInsufficientCapacity
	}
	show.AvailableSeats -= count
	t.st().shows[showID] = show
	return nil
}

func (t *memTx) InsertBooking(_ context.Context, b *domain.Booking) error {
	t.st().bookings[b.ID] = *b
	return nil
}

func (t *memTx) MarkSeatsBooked(_ context.Context, bookingID, showID uuid.UUID, seatIDs []uuid.UUID) error {
	for _, id := range seatIDs {
		if t.st().isBooked(showID, id) {
			return domain.ErrSeatAlreadyBooked
		}
		t.st().bookingSeats = append(t.st().bookingSeats, bookingSeat{bookingID: bookingID, showID: showID, seatID: id, status: domain.SeatBooked})
	}
	return nil
}

func (t *memTx) ScheduleExpiry(_ context.Context, bookingID uuid.UUID, dueAt time.Time) error {
	t.st().expiries[bookingID] = dueAt
	return nil
}

func (t *memTx) LockBooking(_ context.Context, bookingID uuid.UUID) (*domain.Booking, error) {
	b, ok := t.st().bookings[bookingID]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	return &b, nil
}

func (t *memTx) UpdateBookingStatus(_ context.Context, bookingID uuid.UUID, from, to domain.BookingStatus, paymentRef *string, at time.Time) error {
	b, ok := t.st().bookings[bookingID]
	if !ok || b.Status != from {
		return domain.ErrTransactionConflict
	}
	b.Status = to
	b.PaymentRef = paymentRef
	if to == domain.BookingConfirmed {
		b.ConfirmedAt = &at
	}
	t.st().bookings[bookingID] = b
	return nil
}

func (t *memTx) ReleaseBookingSeats(_ context.Context, bookingID, showID uuid.UUID) (int, error) {
	n := 0
	for i, bs := range t.st().bookingSeats {
		if bs.bookingID == bookingID && bs.status == domain.SeatBooked {
			t.st().bookingSeats[i].status = domain.SeatCancelled
			n++
		}
	}
	show := t.st().shows[showID]
	show.AvailableSeats += n
	t.st().shows[showID] = show
	return n, nil
}

func (t *memTx) CancelExpiry(_ context.Context, bookingID uuid.UUID) error {
	delete(t.st().expiries, bookingID)
	return nil
}

func (t *memTx) Commit() error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.mu.Unlock()
	return nil
}

func (t *memTx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.state = t.snapshot
	t.store.mu.Unlock()
	return nil
}
