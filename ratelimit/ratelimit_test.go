package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInProcessStore_AllowsUpToLimit(t *testing.T) {
	t.Parallel()
	s := NewInProcessStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := s.Allow(ctx, "player-1", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok, "request %d should be allowed", i)
	}

	ok, err := s.Allow(ctx, "player-1", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInProcessStore_WindowResets(t *testing.T) {
	t.Parallel()
	s := NewInProcessStore()
	ctx := context.Background()

	ok, _ := s.Allow(ctx, "player-1", 1, -time.Second) // already-expired window
	assert.True(t, ok)

	ok, _ = s.Allow(ctx, "player-1", 1, time.Minute)
	assert.True(t, ok, "new window should have reset the counter")
}

func TestInProcessStore_EvictDropsExpiredBuckets(t *testing.T) {
	t.Parallel()
	s := NewInProcessStore()
	ctx := context.Background()

	_, _ = s.Allow(ctx, "player-1", 5, time.Millisecond)
	time.Sleep(2 * time.Millisecond)

	s.Evict(ctx, time.Now())

	s.mu.Lock()
	_, exists := s.buckets["player-1"]
	s.mu.Unlock()
	assert.False(t, exists)
}
