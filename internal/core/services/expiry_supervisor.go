package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/seatlock/internal/core/ports"
)

const (
	DefaultSweepInterval = 10 * time.Second
	DefaultSweepBatch    = 100
)

type BookingExpirer interface {
	Expire(ctx context.Context, bookingID uuid.UUID) (bool, error)
}

type ExpiryConfig struct {
	Interval time.Duration
	Batch    int
	Now      func() time.Time
}

// ExpirySupervisor sweeps durable expiry tasks. Several instances may run
// against one store; Expire is safe to repeat.
type ExpirySupervisor struct {
	store    ports.InventoryStore
	expirer  BookingExpirer
	interval time.Duration
	batch    int
	now      func() time.Time
}

func NewExpirySupervisor(store ports.InventoryStore, expirer BookingExpirer, cfg ExpiryConfig) *ExpirySupervisor {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultSweepInterval
	}
	if cfg.Batch <= 0 {
		cfg.Batch = DefaultSweepBatch
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &ExpirySupervisor{
		store:    store,
		expirer:  expirer,
		interval: cfg.Interval,
		batch:    cfg.Batch,
		now:      cfg.Now,
	}
}

func (s *ExpirySupervisor) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log.Printf("Expiry supervisor started: sweeping every %s", s.interval)

	// Catch up on anything that fell due while the process was down.
	s.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("Expiry supervisor stopped.")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *ExpirySupervisor) sweep(ctx context.Context) {
	if _, err := s.SweepOnce(ctx); err != nil {
		log.Printf("Error sweeping expired bookings: %v", err)
	}
}

// SweepOnce drains every task due now and returns how many bookings expired.
func (s *ExpirySupervisor) SweepOnce(ctx context.Context) (int, error) {
	expired := 0
	for {
		ids, err := s.store.DueExpiries(ctx, s.now(), s.batch)
		if err != nil {
			return expired, storageError(err)
		}
		if len(ids) == 0 {
			return expired, nil
		}

		round := 0
		for _, id := range ids {
			released, err := s.expirer.Expire(ctx, id)
			if err != nil {
				log.Printf("Failed to expire booking %s: %v", id, err)
				continue
			}
			if released {
				round++
				log.Printf("Booking %s expired and seats released.", id)
			}
		}
		expired += round

		// Failed tasks stay due; leave them for the next tick instead of spinning.
		if len(ids) < s.batch || round == 0 {
			return expired, nil
		}
		if ctx.Err() != nil {
			return expired, ctx.Err()
		}
	}
}
