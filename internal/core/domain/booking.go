package domain

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingExpired   BookingStatus = "EXPIRED"
	BookingCancelled BookingStatus = "CANCELLED"
)

type Booking struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	ShowID           uuid.UUID
	TotalAmountCents int64
	Status           BookingStatus
	PaymentRef       *string
	CreatedAt        time.Time
	ExpiresAt        time.Time
	ConfirmedAt      *time.Time
	SeatIDs          []uuid.UUID
}

// IsTerminal reports whether the booking can never change again.
func (b *Booking) IsTerminal() bool {
	return b.Status == BookingCancelled || b.Status == BookingExpired
}

// CanConfirm requires a pending booking whose window has not elapsed at now.
func (b *Booking) CanConfirm(now time.Time) bool {
	return b.Status == BookingPending && now.Before(b.ExpiresAt)
}

func (b *Booking) CanCancel() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed
}

func (b *Booking) CanExpire() bool {
	return b.Status == BookingPending
}

// ExpiresIn is the remaining hold time, clamped to zero.
func (b *Booking) ExpiresIn(now time.Time) time.Duration {
	if b.Status != BookingPending {
		return 0
	}
	d := b.ExpiresAt.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}
