package ratelimit

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryStore_CountsWithinWindow(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	first, err := s.Increment(ctx, "k", time.Minute)
	assert.NoError(t, err)
	assert.Equal(t, 1, first.Count)

	second, err := s.Increment(ctx, "k", time.Minute)
	assert.NoError(t, err)
	assert.Equal(t, 2, second.Count)
	assert.Equal(t, first.ResetAt, second.ResetAt)
}

func TestMemoryStore_IndependentKeys(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.Increment(ctx, "a", time.Minute)
	assert.NoError(t, err)

	win, err := s.Increment(ctx, "b", time.Minute)
	assert.NoError(t, err)
	assert.Equal(t, 1, win.Count)
}

func TestMemoryStore_WindowResets(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	s := NewMemoryStore()
	s.now = func() time.Time { return now }

	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		win, err := s.Increment(ctx, "k", time.Minute)
		assert.NoError(t, err)
		assert.Equal(t, i, win.Count)
	}

	// One tick past the boundary starts a fresh window with a fresh budget.
	now = now.Add(time.Minute + time.Second)

	win, err := s.Increment(ctx, "k", time.Minute)
	assert.NoError(t, err)
	assert.Equal(t, 1, win.Count)
	assert.Equal(t, now.Add(time.Minute), win.ResetAt)
}

func TestMemoryStore_SweepEvictsExpiredEntries(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	s := NewMemoryStore()
	s.now = func() time.Time { return now }
	s.sweepThreshold = 5

	ctx := context.Background()

	for i := 0; i < 6; i++ {
		_, err := s.Increment(ctx, fmt.Sprintf("stale-%d", i), time.Minute)
		assert.NoError(t, err)
	}

	now = now.Add(2 * time.Minute)

	_, err := s.Increment(ctx, "fresh", time.Minute)
	assert.NoError(t, err)

	s.mu.Lock()
	defer s.mu.Unlock()
	assert.Len(t, s.entries, 1)
	assert.Contains(t, s.entries, "fresh")
}
