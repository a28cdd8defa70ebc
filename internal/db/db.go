// Package db provides PostgreSQL persistence for claims, import sessions,
// and opportunities.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// EnsureSchema creates the tables if they do not exist. The schema is small
// enough that idempotent DDL beats a migration tool for a single-user app.
func (db *DB) EnsureSchema(ctx context.Context) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS claims (
			id UUID PRIMARY KEY,
			type TEXT NOT NULL,
			text TEXT NOT NULL,
			normalized_text TEXT NOT NULL,
			confidence DOUBLE PRECISION NOT NULL,
			verification_status TEXT NOT NULL,
			experience_id UUID REFERENCES claims(id) ON DELETE CASCADE,
			role TEXT NOT NULL DEFAULT '',
			company TEXT NOT NULL DEFAULT '',
			start_date TEXT NOT NULL DEFAULT '',
			end_date TEXT NOT NULL DEFAULT '',
			responsibilities TEXT[] NOT NULL DEFAULT '{}',
			metric TEXT NOT NULL DEFAULT '',
			is_numeric BOOLEAN NOT NULL DEFAULT FALSE,
			position BIGSERIAL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS claims_type_idx ON claims (type)`,
		`CREATE INDEX IF NOT EXISTS claims_experience_idx ON claims (experience_id)`,
		`CREATE TABLE IF NOT EXISTS import_sessions (
			id UUID PRIMARY KEY,
			state TEXT NOT NULL,
			draft JSONB NOT NULL,
			diagnostics JSONB NOT NULL,
			low_quality BOOLEAN NOT NULL,
			prefill JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS opportunities (
			id UUID PRIMARY KEY,
			company TEXT NOT NULL,
			role_title TEXT NOT NULL,
			posting_url TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
	}
	for _, stmt := range ddl {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}
