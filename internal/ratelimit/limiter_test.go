package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(c *fakeClock) *MemoryLimiter {
	l := NewMemoryLimiter(10*time.Minute, 5, 5*time.Minute)
	l.now = c.Now
	return l
}

func TestAllowUpToMaxThenDeny(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	l := newTestLimiter(clock)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		d, err := l.Allow(ctx, "203.0.113.7")
		require.NoError(t, err)
		assert.True(t, d.Allowed, "call %d should be allowed", i+1)
		assert.Equal(t, 4-i, d.Remaining)
	}

	d, err := l.Allow(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
	assert.Greater(t, d.ResetIn, time.Duration(0))
}

func TestWindowExpiryResetsCount(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	l := newTestLimiter(clock)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		_, err := l.Allow(ctx, "203.0.113.7")
		require.NoError(t, err)
	}

	clock.Advance(10*time.Minute + time.Second)

	d, err := l.Allow(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 4, d.Remaining, "fresh window starts with count 1")
	assert.Equal(t, 10*time.Minute, d.ResetIn)
}

func TestKeysAreIndependent(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	l := newTestLimiter(clock)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := l.Allow(ctx, "203.0.113.7")
		require.NoError(t, err)
	}

	d, err := l.Allow(ctx, "198.51.100.1")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 4, d.Remaining)
}

func TestResetInShrinksWithinWindow(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	l := newTestLimiter(clock)
	ctx := context.Background()

	_, err := l.Allow(ctx, "203.0.113.7")
	require.NoError(t, err)

	clock.Advance(3 * time.Minute)

	d, err := l.Allow(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 7*time.Minute, d.ResetIn)
}

func TestCleanupDropsExpiredEntries(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	l := newTestLimiter(clock)
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c"} {
		_, err := l.Allow(ctx, key)
		require.NoError(t, err)
	}
	require.Len(t, l.entries, 3)

	// Past every window and past the cleanup interval; the next call sweeps.
	clock.Advance(11 * time.Minute)

	_, err := l.Allow(ctx, "d")
	require.NoError(t, err)
	assert.Len(t, l.entries, 1)
	assert.Contains(t, l.entries, "d")
}

func TestCleanupRunsAtMostOncePerInterval(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	l := newTestLimiter(clock)
	ctx := context.Background()

	_, err := l.Allow(ctx, "a")
	require.NoError(t, err)

	// "a" is expired but the last sweep was under the interval ago, so it
	// survives this call (lazily reset instead when touched).
	clock.Advance(4 * time.Minute)
	l.entries["a"].resetAt = clock.Now().Add(-time.Second)

	_, err = l.Allow(ctx, "b")
	require.NoError(t, err)
	assert.Contains(t, l.entries, "a")
}
