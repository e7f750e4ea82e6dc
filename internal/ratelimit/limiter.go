// Package ratelimit bounds how many orders a single client may submit within
// a rolling window, keyed by client IP.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

const (
	DefaultWindow          = 10 * time.Minute
	DefaultMaxPerWindow    = 5
	DefaultCleanupInterval = 5 * time.Minute
)

// Decision is the outcome of one quota check.
type Decision struct {
	Allowed   bool
	Remaining int
	ResetIn   time.Duration
}

// Limiter consumes one unit of quota for key and reports the outcome.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

type entry struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter counts requests per key in process memory. The bound is
// per-instance only: each replica has its own map, so with N replicas a
// client can get up to N*max through. Use the Redis-backed limiter when the
// bound must be exact across instances.
type MemoryLimiter struct {
	mu          sync.Mutex
	entries     map[string]*entry
	window      time.Duration
	max         int
	cleanupEach time.Duration
	lastCleanup time.Time

	now func() time.Time // swapped out in tests
}

func NewMemoryLimiter(window time.Duration, max int, cleanupEach time.Duration) *MemoryLimiter {
	if window <= 0 {
		window = DefaultWindow
	}
	if max <= 0 {
		max = DefaultMaxPerWindow
	}
	if cleanupEach <= 0 {
		cleanupEach = DefaultCleanupInterval
	}
	return &MemoryLimiter{
		entries:     make(map[string]*entry),
		window:      window,
		max:         max,
		cleanupEach: cleanupEach,
		now:         time.Now,
	}
}

// Allow consumes one unit of quota for key. The ctx parameter is unused; it
// exists so the Redis-backed limiter can satisfy the same interface.
func (l *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.cleanup(now)

	e, ok := l.entries[key]
	if !ok || !e.resetAt.After(now) {
		l.entries[key] = &entry{count: 1, resetAt: now.Add(l.window)}
		return Decision{Allowed: true, Remaining: l.max - 1, ResetIn: l.window}, nil
	}

	if e.count >= l.max {
		return Decision{Allowed: false, Remaining: 0, ResetIn: e.resetAt.Sub(now)}, nil
	}

	e.count++
	return Decision{Allowed: true, Remaining: l.max - e.count, ResetIn: e.resetAt.Sub(now)}, nil
}

// cleanup drops expired entries, at most once per cleanupEach. Piggybacking
// on Allow keeps memory bounded without a background goroutine. Caller holds
// the lock.
func (l *MemoryLimiter) cleanup(now time.Time) {
	if now.Sub(l.lastCleanup) <= l.cleanupEach {
		return
	}
	for key, e := range l.entries {
		if !e.resetAt.After(now) {
			delete(l.entries, key)
		}
	}
	l.lastCleanup = now
}
