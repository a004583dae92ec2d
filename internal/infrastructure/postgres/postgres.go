package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Config struct {
	URL string
}

func NewClient(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	pool, err := pgxpool.New(ctx, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return pool, nil
}

// EnsureSchema creates the tickets table if it does not exist, so a fresh
// DATABASE_URL works without a manual migration step. There is no unique
// constraint on the duplicate-key columns; deduplication is check-then-
// insert in the writer.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	const sql = `
		CREATE TABLE IF NOT EXISTS tickets (
			id                     BIGSERIAL PRIMARY KEY,
			departure_at           TEXT NOT NULL,
			return_at              TEXT NOT NULL,
			price                  INTEGER NOT NULL,
			trip_duration          INTEGER NOT NULL,
			link                   TEXT NOT NULL DEFAULT '',
			origin                 TEXT NOT NULL,
			destination            TEXT NOT NULL,
			outbound_airline       TEXT NOT NULL,
			outbound_flight_number TEXT NOT NULL,
			return_airline         TEXT NOT NULL,
			return_flight_number   TEXT NOT NULL,
			created_at             TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`

	if _, err := pool.Exec(ctx, sql); err != nil {
		return fmt.Errorf("ensure tickets schema: %w", err)
	}

	return nil
}
