package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/srgjo27/seatlock/internal/core/domain"
)

const DefaultTTL = 30 * time.Second

// SeatMapCache stores rendered seat maps as JSON under seats:<showId>:v<gen>.
// Invalidate bumps the counter at seats:<showId>:gen, which orphans every
// entry written for an older generation until its TTL runs out.
type SeatMapCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewSeatMapCache(client redis.Cmdable, ttl time.Duration) *SeatMapCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &SeatMapCache{client: client, ttl: ttl}
}

func GenerationKey(showID uuid.UUID) string {
	return fmt.Sprintf("seats:%s:gen", showID.String())
}

func Key(showID uuid.UUID, generation int64) string {
	return fmt.Sprintf("seats:%s:v%d", showID.String(), generation)
}

func (c *SeatMapCache) Get(ctx context.Context, showID uuid.UUID) (*domain.SeatMap, int64, bool, error) {
	generation, err := c.client.Get(ctx, GenerationKey(showID)).Int64()
	if errors.Is(err, redis.Nil) {
		generation, err = 0, nil
	}
	if err != nil {
		return nil, 0, false, fmt.Errorf("rediscache: generation %s: %w", showID, err)
	}

	raw, err := c.client.Get(ctx, Key(showID, generation)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, generation, false, nil
	}
	if err != nil {
		return nil, 0, false, fmt.Errorf("rediscache: get %s: %w", showID, err)
	}

	var seatMap domain.SeatMap
	if err := json.Unmarshal(raw, &seatMap); err != nil {
		return nil, 0, false, fmt.Errorf("rediscache: decode %s: %w", showID, err)
	}

	return &seatMap, generation, true, nil
}

func (c *SeatMapCache) Set(ctx context.Context, seatMap *domain.SeatMap, generation int64) error {
	raw, err := json.Marshal(seatMap)
	if err != nil {
		return fmt.Errorf("rediscache: encode %s: %w", seatMap.ShowID, err)
	}

	if err := c.client.Set(ctx, Key(seatMap.ShowID, generation), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("rediscache: set %s: %w", seatMap.ShowID, err)
	}

	return nil
}

func (c *SeatMapCache) Invalidate(ctx context.Context, showID uuid.UUID) error {
	if err := c.client.Incr(ctx, GenerationKey(showID)).Err(); err != nil {
		return fmt.Errorf("rediscache: invalidate %s: %w", showID, err)
	}
	return nil
}
