package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/srgjo27/seatlock/internal/core/domain"
)

//go:generate mockery --name SeatMapCache --output ./mocks --outpkg mocks
//go:generate mockery --name EventPublisher --output ./mocks --outpkg mocks

// SeatMapCache is versioned per show. Get reports the generation it read at,
// and Set only fills that generation, so a map read before an Invalidate is
// never served after it.
type SeatMapCache interface {
	Get(ctx context.Context, showID uuid.UUID) (seatMap *domain.SeatMap, generation int64, hit bool, err error)
	Set(ctx context.Context, seatMap *domain.SeatMap, generation int64) error
	Invalidate(ctx context.Context, showID uuid.UUID) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event domain.BookingEvent) error
}
