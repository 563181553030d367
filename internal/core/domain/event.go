package domain

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventBookingReserved  EventType = "booking.reserved"
	EventBookingConfirmed EventType = "booking.confirmed"
	EventBookingCancelled EventType = "booking.cancelled"
	EventBookingExpired   EventType = "booking.expired"
)

// BookingEvent is emitted after a booking state change has been committed.
type BookingEvent struct {
	Type             EventType     `json:"type"`
	BookingID        uuid.UUID     `json:"booking_id"`
	UserID           uuid.UUID     `json:"user_id"`
	ShowID           uuid.UUID     `json:"show_id"`
	SeatIDs          []uuid.UUID   `json:"seat_ids"`
	TotalAmountCents int64         `json:"total_amount_cents"`
	Status           BookingStatus `json:"status"`
	OccurredAt       time.Time     `json:"occurred_at"`
}

func NewBookingEvent(t EventType, b *Booking, at time.Time) BookingEvent {
	return BookingEvent{
		Type:             t,
		BookingID:        b.ID,
		UserID:           b.UserID,
		ShowID:           b.ShowID,
		SeatIDs:          b.SeatIDs,
		TotalAmountCents: b.TotalAmountCents,
		Status:           b.Status,
		OccurredAt:       at.UTC(),
	}
}
