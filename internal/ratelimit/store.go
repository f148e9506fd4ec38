package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Window is the state of one fixed counting window.
type Window struct {
	Count   int
	ResetAt time.Time
}

// CounterStore increments the fixed-window counter for a key. The in-memory
// implementation is the default; a shared-cache implementation can replace it
// for multi-instance deployments without touching the middleware.
type CounterStore interface {
	Increment(ctx context.Context, key string, window time.Duration) (Window, error)
}

const defaultSweepThreshold = 10000

type memoryEntry struct {
	count   int
	resetAt time.Time
}

// MemoryStore keeps counters in a process-local map. Budgets are therefore
// enforced per instance, not across a fleet.
type MemoryStore struct {
	mu             sync.Mutex
	entries        map[string]*memoryEntry
	sweepThreshold int
	now            func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries:        make(map[string]*memoryEntry),
		sweepThreshold: defaultSweepThreshold,
		now:            time.Now,
	}
}

func (s *MemoryStore) Increment(_ context.Context, key string, window time.Duration) (Window, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || now.After(e.resetAt) {
		e = &memoryEntry{count: 1, resetAt: now.Add(window)}
		s.entries[key] = e
	} else {
		e.count++
	}

	if len(s.entries) > s.sweepThreshold {
		for k, v := range s.entries {
			if now.After(v.resetAt) {
				delete(s.entries, k)
			}
		}
	}

	return Window{Count: e.count, ResetAt: e.resetAt}, nil
}
