// Package storage persists everything the scanner produces: raw core
// records, insider blobs, shortlist entries, cached candidates and finished
// valuations. One Repository over one pgx pool; JSON-heavy payloads live in
// jsonb columns next to the handful of columns queries actually filter on.
package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository handles data persistence for the scanner.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository instance.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Pool returns the underlying database pool.
func (r *Repository) Pool() *pgxpool.Pool {
	return r.db
}

// Migrate creates the schema and tables when missing. Idempotent.
func (r *Repository) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE SCHEMA IF NOT EXISTS netnet`,
		`CREATE TABLE IF NOT EXISTS netnet.core_records (
			ticker     TEXT PRIMARY KEY,
			payload    JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS netnet.insider_records (
			ticker     TEXT PRIMARY KEY,
			payload    JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS netnet.shortlist (
			ticker     TEXT PRIMARY KEY,
			last_price DOUBLE PRECISION NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS netnet.candidates (
			ticker        TEXT PRIMARY KEY,
			statement_sig TEXT NOT NULL,
			payload       JSONB NOT NULL,
			cached_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS netnet.valuations (
			ticker           TEXT PRIMARY KEY,
			margin_of_safety DOUBLE PRECISION,
			is_outdated      BOOLEAN NOT NULL DEFAULT FALSE,
			payload          JSONB NOT NULL,
			updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}

	for _, stmt := range stmts {
		if _, err := r.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
