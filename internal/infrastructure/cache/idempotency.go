package cache

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdempotencyStore remembers request keys so that a retried mutation is
// detected instead of applied twice. SetIfAbsent returns true only for the
// first caller of a key within the TTL window.
type IdempotencyStore interface {
	SetIfAbsent(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// RedisIdempotencyStore backs the store with redis SET NX
type RedisIdempotencyStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisIdempotencyStore creates a redis-backed idempotency store
func NewRedisIdempotencyStore(client *redis.Client) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{
		client:    client,
		keyPrefix: "idempotency:",
	}
}

// SetIfAbsent claims the key, returning false when it was already claimed
func (s *RedisIdempotencyStore) SetIfAbsent(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, s.keyPrefix+key, "1", ttl).Result()
}

// InMemoryIdempotencyStore is the single-process fallback when redis is not
// configured. Expired keys are pruned lazily on access.
type InMemoryIdempotencyStore struct {
	mu   sync.Mutex
	keys map[string]time.Time
}

// NewInMemoryIdempotencyStore creates an in-memory idempotency store
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	return &InMemoryIdempotencyStore{
		keys: make(map[string]time.Time),
	}
}

// SetIfAbsent claims the key, returning false when it was already claimed
func (s *InMemoryIdempotencyStore) SetIfAbsent(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for k, expiry := range s.keys {
		if now.After(expiry) {
			delete(s.keys, k)
		}
	}

	if _, exists := s.keys[key]; exists {
		return false, nil
	}
	s.keys[key] = now.Add(ttl)
	return true, nil
}
