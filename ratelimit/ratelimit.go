// Package ratelimit throttles inbound commands per key (the transport
// adapter keys it by the client's remote address). The room
// engine's own timer/serialisation discipline protects a room from
// concurrent mutation, but it cannot stop one flooding connection
// from starving other members' turns in the room's inbox; that is
// the transport adapter's concern, enforced here before a command
// ever reaches the room.
//
// Counters live in Redis, grounded on AbeHiroto-watermelon-server's
// bribe/database/redisSessionID.go use of go-redis with a TTL'd key,
// so the housekeeper has real stale counters to sweep instead of a
// bookkeeping no-op. When no Redis address is configured an
// in-process store of identical shape is used instead, so the
// server still runs standalone.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store tracks a token-bucket-like counter per key with a fixed
// window. Allow reports whether the caller may proceed and increments
// the counter as a side effect.
type Store interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	// Evict drops counters whose window has elapsed. Redis expires
	// keys on its own; the in-process store needs this called
	// periodically by the housekeeper.
	Evict(ctx context.Context, olderThan time.Time)
}

// RedisStore implements Store with INCR + EXPIRE, the pattern
// AbeHiroto's redisSessionID.go uses for its own TTL'd session keys.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: "ratelimit:"}
}

func (s *RedisStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	fullKey := s.prefix + key
	count, err := s.client.Incr(ctx, fullKey).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		s.client.Expire(ctx, fullKey, window)
	}
	return count <= int64(limit), nil
}

func (s *RedisStore) Evict(ctx context.Context, olderThan time.Time) {
	// Redis expires its own keys via the TTL set in Allow; nothing to
	// do here, but the method exists so the housekeeper can treat
	// both Store implementations uniformly.
}

// InProcessStore is the standalone fallback: one counter per key, in
// a plain map guarded by a mutex. It requires the housekeeper to call
// Evict on a schedule, since nothing expires keys on its own.
type InProcessStore struct {
	mu      sync.Mutex
	buckets map[string]*bucket
}

type bucket struct {
	count     int
	windowEnd time.Time
}

func NewInProcessStore() *InProcessStore {
	return &InProcessStore{buckets: make(map[string]*bucket)}
}

func (s *InProcessStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	b, ok := s.buckets[key]
	if !ok || now.After(b.windowEnd) {
		b = &bucket{count: 0, windowEnd: now.Add(window)}
		s.buckets[key] = b
	}
	b.count++
	return b.count <= limit, nil
}

func (s *InProcessStore) Evict(ctx context.Context, olderThan time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, b := range s.buckets {
		if b.windowEnd.Before(olderThan) {
			delete(s.buckets, key)
		}
	}
}
