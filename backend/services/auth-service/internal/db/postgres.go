package db

import (
	"context"
	"database/sql"

	libdb "evcharge/backend/libs/db"
)

const usersTable = `CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	name          TEXT NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// NewPostgres connects to Postgres using shared library helper.
func NewPostgres(dsn string) (*sql.DB, error) {
	return libdb.NewPostgresDB(dsn)
}

// Migrate creates the users table if it does not exist.
func Migrate(ctx context.Context, sqlDB *sql.DB) error {
	return libdb.ApplySchema(ctx, sqlDB, usersTable)
}
