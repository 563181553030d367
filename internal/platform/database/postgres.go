package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"
	"github.com/srgjo27/seatlock/internal/platform/config"
)

//go:embed schema.sql
var schema string

const (
	maxRetries    = 10
	retryInterval = 2 * time.Second
)

func NewPostgresDB(cfg config.DBConfig) (*sql.DB, error) {
	var db *sql.DB
	var err error

	for i := 1; i <= maxRetries; i++ {
		log.Printf("Connecting to database (Attempt %d/%d)...", i, maxRetries)
		db, err = sql.Open("postgres", cfg.DSN())
		if err == nil {
			err = db.Ping()
		}

		if err == nil {
			log.Println("Database connected successfully!")
			configurePool(db, cfg.MaxConns)
			return db, nil
		}

		if db != nil {
			db.Close()
		}

		log.Printf("Database not ready yet. Waiting %s...", retryInterval)
		time.Sleep(retryInterval)
	}

	return nil, fmt.Errorf("database: connect after %d attempts: %w", maxRetries, err)
}

func configurePool(db *sql.DB, maxConns int) {
	if maxConns <= 0 {
		maxConns = 25
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns)
	db.SetConnMaxLifetime(5 * time.Minute)
}

// Migrate applies the embedded schema. Every statement is idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("database: apply schema: %w", err)
	}
	return nil
}
