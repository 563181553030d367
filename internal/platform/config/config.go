// Package config loads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	LockBackendRedis  = "redis"
	LockBackendMemory = "memory"
)

type Config struct {
	Port string

	DB    DBConfig
	Redis RedisConfig

	LockBackend   string
	LockTTL       time.Duration
	ExpiryWindow  time.Duration
	SweepInterval time.Duration
	SweepBatch    int
	SeatMapTTL    time.Duration

	RabbitMQURL string
	JWTSecret   string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Load reads path into the environment (a missing file is fine) and builds
// a Config from it. Variables already set in the process win over the file.
func Load(path string) (Config, error) {
	if err := godotenv.Load(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		log.Printf("config: %s not found, using process environment", path)
	}

	return FromEnv()
}

func FromEnv() (Config, error) {
	cfg := Config{
		Port: envStr("APP_PORT", "8080"),
		DB: DBConfig{
			Host:     envStr("DB_HOST", "localhost"),
			Port:     envStr("DB_PORT", "5432"),
			User:     envStr("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     envStr("DB_NAME", "seatlock"),
			SSLMode:  envStr("DB_SSLMODE", "disable"),
			MaxConns: envInt("DB_MAX_CONNS", 25),
		},
		Redis: RedisConfig{
			Addr:     redisAddr(),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       envInt("REDIS_DB", 0),
		},
		LockBackend:   strings.ToLower(envStr("LOCK_BACKEND", LockBackendRedis)),
		LockTTL:       envDur("LOCK_TTL", 30*time.Second),
		ExpiryWindow:  time.Duration(envInt("BOOKING_EXPIRY_MINUTES", 15)) * time.Minute,
		SweepInterval: envDur("EXPIRY_SWEEP_INTERVAL", 10*time.Second),
		SweepBatch:    envInt("EXPIRY_SWEEP_BATCH", 100),
		SeatMapTTL:    envDur("SEATMAP_CACHE_TTL", 30*time.Second),
		RabbitMQURL:   os.Getenv("RABBITMQ_URL"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	if c.LockBackend != LockBackendRedis && c.LockBackend != LockBackendMemory {
		return fmt.Errorf("config: unknown LOCK_BACKEND %q", c.LockBackend)
	}
	if c.LockTTL <= 0 || c.ExpiryWindow <= 0 || c.SweepInterval <= 0 {
		return errors.New("config: LOCK_TTL, BOOKING_EXPIRY_MINUTES and EXPIRY_SWEEP_INTERVAL must be positive")
	}
	if c.SweepBatch <= 0 {
		return errors.New("config: EXPIRY_SWEEP_BATCH must be positive")
	}
	return nil
}

// DSN is the lib/pq connection URL.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

// REDIS_HOST and REDIS_PORT together take precedence over REDIS_ADDR.
func redisAddr() string {
	host := os.Getenv("REDIS_HOST")
	port := os.Getenv("REDIS_PORT")
	if host != "" && port != "" {
		return host + ":" + port
	}
	return envStr("REDIS_ADDR", "localhost:6379")
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	log.Printf("config: invalid int for %s: %q, using %d", k, v, d)
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	log.Printf("config: invalid duration for %s: %q, using %s", k, v, d)
	return d
}
