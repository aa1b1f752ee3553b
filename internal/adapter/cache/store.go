package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"

	lru "github.com/couchcryptid/facility-dashboard/internal/cache"
	"github.com/couchcryptid/facility-dashboard/internal/domain"
)

// Store holds datasets under a string key with an expiry.
type Store interface {
	Get(ctx context.Context, key string) (domain.Dataset, bool, error)
	Set(ctx context.Context, key string, ds domain.Dataset) error
	Name() string
}

// MemoryStore keeps datasets in a process-local LRU.
type MemoryStore struct {
	lru *lru.LRU[domain.Dataset]
}

// NewMemoryStore creates an LRU holding up to size datasets for ttl each.
func NewMemoryStore(size int, ttl time.Duration, clock clockwork.Clock) *MemoryStore {
	return &MemoryStore{lru: lru.NewLRU[domain.Dataset](size, ttl, clock)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (domain.Dataset, bool, error) {
	ds, ok := s.lru.Get(key)
	return ds, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, ds domain.Dataset) error {
	s.lru.Put(key, ds)
	return nil
}

func (s *MemoryStore) Name() string { return "memory" }

// RedisStore keeps datasets as JSON strings in Redis with SET ... EX.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// OpenRedis parses a redis:// URL and creates a client.
func OpenRedis(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (domain.Dataset, bool, error) {
	b, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Dataset{}, false, nil
	}
	if err != nil {
		return domain.Dataset{}, false, fmt.Errorf("redis get: %w", err)
	}
	var ds domain.Dataset
	if err := json.Unmarshal(b, &ds); err != nil {
		return domain.Dataset{}, false, fmt.Errorf("decode cached dataset: %w", err)
	}
	return ds, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, ds domain.Dataset) error {
	b, err := json.Marshal(ds)
	if err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	if err := s.client.Set(ctx, key, b, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Name() string { return "redis" }
