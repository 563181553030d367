package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/srgjo27/seatlock/internal/platform/config"
)

// NewRedisClient connects and pings once. A failed ping is an error; the
// lock path cannot run without Redis unless LOCK_BACKEND=memory.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	log.Printf("Connecting to Redis at %s...", cfg.Addr)

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("cache: ping redis %s: %w", cfg.Addr, err)
	}

	log.Println("Redis connected successfully!")
	return client, nil
}
