package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/Mollylil16/developpement-farm-sub012/internal/auth/domain"
)

// LoginAttempt is one audit event for the login path.
type LoginAttempt struct {
	Identifier string
	IPAddress  string
	Successful bool
	At         time.Time
}

// AttemptRecorder writes login attempts off the request path. A full queue
// drops the event and bumps a counter instead of blocking or failing the
// request; audit logging is best-effort by contract.
type AttemptRecorder struct {
	store   domain.AttemptStore
	logger  *zap.Logger
	queue   chan LoginAttempt
	dropped atomic.Uint64
	wg      sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

func NewAttemptRecorder(store domain.AttemptStore, logger *zap.Logger) *AttemptRecorder {
	r := &AttemptRecorder{
		store:  store,
		logger: logger,
		queue:  make(chan LoginAttempt, 256),
	}

	r.wg.Add(1)
	go r.run()

	return r
}

// Record enqueues the attempt without blocking. Attempts recorded after
// Close are counted as dropped.
func (r *AttemptRecorder) Record(attempt LoginAttempt) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		r.dropped.Add(1)
		return
	}

	select {
	case r.queue <- attempt:
	default:
		r.dropped.Add(1)
	}
}

// Dropped reports how many attempts were discarded because the queue was full.
func (r *AttemptRecorder) Dropped() uint64 {
	return r.dropped.Load()
}

// Close drains the queue and stops the worker. Close is idempotent.
func (r *AttemptRecorder) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.queue)
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *AttemptRecorder) run() {
	defer r.wg.Done()

	for attempt := range r.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := r.store.RecordLoginAttempt(ctx, attempt.Identifier, attempt.IPAddress, attempt.Successful); err != nil {
			r.dropped.Add(1)
			r.logger.Warn("failed to record login attempt", zap.Error(err))
		}
		cancel()
	}
}
