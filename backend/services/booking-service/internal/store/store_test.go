package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	libdb "evcharge/backend/libs/db"
)

func runContract(t *testing.T, s KeyValueStore) {
	ctx := context.Background()

	t.Run("GetMissing", func(t *testing.T) {
		_, err := s.Get(ctx, "missing")
		assert.True(t, errors.Is(err, ErrKeyNotFound))
	})

	t.Run("SetAndGet", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "bookings:user-1", []byte(`[{"id":"b1"}]`)))
		got, err := s.Get(ctx, "bookings:user-1")
		require.NoError(t, err)
		assert.JSONEq(t, `[{"id":"b1"}]`, string(got))

		require.NoError(t, s.Set(ctx, "bookings:user-1", []byte(`[]`)))
		got, err = s.Get(ctx, "bookings:user-1")
		require.NoError(t, err)
		assert.Equal(t, "[]", string(got))
	})

	t.Run("SetNX", func(t *testing.T) {
		ok, err := s.SetNX(ctx, "slot:1:2024-06-15:09:00", []byte("b1"))
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = s.SetNX(ctx, "slot:1:2024-06-15:09:00", []byte("b2"))
		require.NoError(t, err)
		assert.False(t, ok)

		got, err := s.Get(ctx, "slot:1:2024-06-15:09:00")
		require.NoError(t, err)
		assert.Equal(t, "b1", string(got))
	})

	t.Run("Remove", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "tmp", []byte("x")))
		require.NoError(t, s.Remove(ctx, "tmp"))
		_, err := s.Get(ctx, "tmp")
		assert.True(t, errors.Is(err, ErrKeyNotFound))

		require.NoError(t, s.Remove(ctx, "never-existed"))
	})
}

func TestMemoryStore(t *testing.T) {
	runContract(t, NewMemoryStore())
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	val := []byte("abc")
	require.NoError(t, s.Set(ctx, "k", val))
	val[0] = 'z'

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	s := NewRedisStore(client, "evcharge")
	runContract(t, s)

	assert.True(t, mr.Exists("evcharge:bookings:user-1"))
}

func TestRedisStoreKeysDoNotExpire(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	s := NewRedisStore(client, "")
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "bookings:u1", []byte("[]")))
	ok, err := s.SetNX(ctx, "slot:1:2024-06-15:09:00", []byte("b1"))
	require.NoError(t, err)
	require.True(t, ok)

	assert.Zero(t, mr.TTL("bookings:u1"))
	assert.Zero(t, mr.TTL("slot:1:2024-06-15:09:00"))

	mr.FastForward(30 * 24 * time.Hour)
	_, err = s.Get(ctx, "slot:1:2024-06-15:09:00")
	assert.NoError(t, err)
}

func TestRedisStoreNilClient(t *testing.T) {
	s := NewRedisStore(nil, "")
	_, err := s.Get(context.Background(), "k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis client is nil")
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("BOOKING_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("BOOKING_TEST_POSTGRES_DSN not set")
	}
	sqlDB, err := libdb.NewPostgresDB(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	ctx := context.Background()
	require.NoError(t, libdb.ApplySchema(ctx, sqlDB,
		`CREATE TABLE IF NOT EXISTS kv_entries (key TEXT PRIMARY KEY, value BYTEA NOT NULL, updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW())`,
		`DELETE FROM kv_entries`,
	))
	t.Cleanup(func() { cleanup(sqlDB) })

	runContract(t, NewPostgresStore(sqlDB))
}

func cleanup(db *sql.DB) {
	_, _ = db.Exec(`DELETE FROM kv_entries`)
}
