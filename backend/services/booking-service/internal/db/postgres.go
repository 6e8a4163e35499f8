package db

import (
	"context"
	"database/sql"

	libdb "evcharge/backend/libs/db"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS kv_entries (
		key        TEXT PRIMARY KEY,
		value      BYTEA NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS stations (
		id         BIGINT PRIMARY KEY,
		name       TEXT NOT NULL,
		address    TEXT NOT NULL,
		longitude  DOUBLE PRECISION NOT NULL,
		latitude   DOUBLE PRECISION NOT NULL,
		chargers   JSONB NOT NULL DEFAULT '[]',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// NewPostgres connects to Postgres using shared library helper.
func NewPostgres(dsn string) (*sql.DB, error) {
	return libdb.NewPostgresDB(dsn)
}

// Migrate creates the booking service tables if they do not exist.
func Migrate(ctx context.Context, sqlDB *sql.DB) error {
	return libdb.ApplySchema(ctx, sqlDB, schema...)
}
