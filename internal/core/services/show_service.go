package services

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/srgjo27/seatlock/internal/core/domain"
	"github.com/srgjo27/seatlock/internal/core/ports"
)

// ShowService serves read-only catalog lookups the booking flow depends on.
type ShowService struct {
	store ports.InventoryStore
	cache ports.SeatMapCache
}

func NewShowService(store ports.InventoryStore, cache ports.SeatMapCache) *ShowService {
	return &ShowService{store: store, cache: cache}
}

func (s *ShowService) GetShow(ctx context.Context, showID uuid.UUID) (*domain.Show, error) {
	show, err := s.store.GetShow(ctx, showID)
	if err != nil {
		return nil, storageError(err)
	}
	return show, nil
}

// SeatMap is read through the cache. A cache outage degrades to the store,
// and the refill is tagged with the generation seen before the store read.
func (s *ShowService) SeatMap(ctx context.Context, showID uuid.UUID) (*domain.SeatMap, error) {
	fill := s.cache != nil
	var generation int64

	if s.cache != nil {
		cached, gen, ok, err := s.cache.Get(ctx, showID)
		switch {
		case err != nil:
			log.Printf("shows: seat map cache read failed for %s: %v", showID, err)
			fill = false
		case ok:
			return cached, nil
		default:
			generation = gen
		}
	}

	seatMap, err := s.store.SeatMap(ctx, showID)
	if err != nil {
		return nil, storageError(err)
	}

	if fill {
		if err := s.cache.Set(ctx, seatMap, generation); err != nil {
			log.Printf("shows: seat map cache write failed for %s: %v", showID, err)
		}
	}

	return seatMap, nil
}
