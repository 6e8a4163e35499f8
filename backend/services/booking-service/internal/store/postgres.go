package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PostgresStore keeps values in the kv_entries table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore returns store backed by db. The table is created by the service schema.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Get returns stored value.
func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	const query = `SELECT value FROM kv_entries WHERE key = $1`
	var val []byte
	if err := s.db.QueryRowContext(ctx, query, key).Scan(&val); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("store: postgres get: %w", err)
	}
	return val, nil
}

// Set upserts value.
func (s *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	const query = `
		INSERT INTO kv_entries (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = NOW()
	`
	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("store: postgres set: %w", err)
	}
	return nil
}

// SetNX inserts value if key is absent.
func (s *PostgresStore) SetNX(ctx context.Context, key string, value []byte) (bool, error) {
	const query = `
		INSERT INTO kv_entries (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO NOTHING
	`
	result, err := s.db.ExecContext(ctx, query, key, value)
	if err != nil {
		return false, fmt.Errorf("store: postgres setnx: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// Remove deletes key.
func (s *PostgresStore) Remove(ctx context.Context, key string) error {
	const query = `DELETE FROM kv_entries WHERE key = $1`
	if _, err := s.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("store: postgres delete: %w", err)
	}
	return nil
}
