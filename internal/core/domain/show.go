package domain

import (
	"github.com/google/uuid"
)

// Show carries the single source of truth for remaining capacity.
type Show struct {
	ID             uuid.UUID
	ScreenID       uuid.UUID
	PriceCents     int64
	TotalSeats     int
	AvailableSeats int
}

func (s *Show) HasCapacity(n int) bool {
	return s.AvailableSeats >= n
}
