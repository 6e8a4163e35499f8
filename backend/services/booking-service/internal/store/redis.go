package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps ledger values in redis under a key prefix.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore returns redis-backed store. Keys never expire: slot claims must live as long
// as the bookings listed against them.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(key string) string {
	if s.prefix == "" {
		return key
	}
	return fmt.Sprintf("%s:%s", s.prefix, key)
}

// Get returns stored value.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	if s.client == nil {
		return nil, errors.New("store: redis client is nil")
	}
	val, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: redis get: %w", err)
	}
	return val, nil
}

// Set stores value.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if s.client == nil {
		return errors.New("store: redis client is nil")
	}
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("store: redis set: %w", err)
	}
	return nil
}

// SetNX stores value if key is absent.
func (s *RedisStore) SetNX(ctx context.Context, key string, value []byte) (bool, error) {
	if s.client == nil {
		return false, errors.New("store: redis client is nil")
	}
	ok, err := s.client.SetNX(ctx, s.key(key), value, 0).Result()
	if err != nil {
		return false, fmt.Errorf("store: redis setnx: %w", err)
	}
	return ok, nil
}

// Remove deletes key.
func (s *RedisStore) Remove(ctx context.Context, key string) error {
	if s.client == nil {
		return errors.New("store: redis client is nil")
	}
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("store: redis del: %w", err)
	}
	return nil
}
