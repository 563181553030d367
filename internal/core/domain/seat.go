package domain

import (
	"github.com/google/uuid"
)

// SeatStatus is scoped to a (show, seat) pair, never to the physical seat alone.
type SeatStatus string

const (
	SeatFree      SeatStatus = "FREE"
	SeatBooked    SeatStatus = "BOOKED"
	SeatCancelled SeatStatus = "CANCELLED"
)

type Seat struct {
	ID         uuid.UUID
	ScreenID   uuid.UUID
	RowLabel   string
	SeatNumber int
}

// ShowSeat is one row of a show's seat map.
type ShowSeat struct {
	SeatID     uuid.UUID `json:"seat_id"`
	RowLabel   string    `json:"row_label"`
	SeatNumber int       `json:"seat_number"`
	IsBooked   bool      `json:"is_booked"`
}

type SeatMap struct {
	ShowID         uuid.UUID  `json:"show_id"`
	PriceCents     int64      `json:"price_cents"`
	AvailableSeats int        `json:"available_seats"`
	Seats          []ShowSeat `json:"seats"`
}
