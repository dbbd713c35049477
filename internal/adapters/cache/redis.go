package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"loandesk/internal/config"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a redis-backed Store implementation. Values are stored as
// JSON strings; namespace eviction walks the keyspace with SCAN.
type RedisStore struct {
	db *redis.Client
}

// NewRedisStore connects to redis and verifies the connection
func NewRedisStore(ctx context.Context, cfg config.RedisConfig) (*RedisStore, error) {
	const op = "cache.NewRedisStore"

	db := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &RedisStore{db: db}, nil
}

// Get looks up a key and unmarshals the cached value into result
func (s *RedisStore) Get(key string, result any) (bool, error) {
	const op = "cache.RedisStore.Get"

	val, err := s.db.Get(context.Background(), key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if err := json.Unmarshal([]byte(val), result); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// Set stores a value under key with the given TTL
func (s *RedisStore) Set(key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.db.Set(context.Background(), key, data, ttl).Err()
}

// Invalidate removes a single key
func (s *RedisStore) Invalidate(key string) error {
	return s.db.Del(context.Background(), key).Err()
}

// InvalidateNamespace removes every key in the namespace
func (s *RedisStore) InvalidateNamespace(ns string) error {
	const op = "cache.RedisStore.InvalidateNamespace"

	ctx := context.Background()
	iter := s.db.Scan(ctx, 0, ns+":*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.db.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close closes the underlying client
func (s *RedisStore) Close() error {
	return s.db.Close()
}
