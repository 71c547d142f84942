package middleware

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterCleanupDropsIdleKeys(t *testing.T) {
	now := time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, 1)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("user:idle"))
	now = now.Add(5 * time.Minute)
	assert.True(t, rl.Allow("user:busy"))
	assert.Equal(t, 2, rl.Len())

	now = now.Add(6 * time.Minute)
	assert.Equal(t, 1, rl.Cleanup(10*time.Minute))
	assert.Equal(t, 1, rl.Len())

	// the busy bucket survived with its state
	assert.False(t, rl.Allow("user:busy"))

	now = now.Add(time.Hour)
	assert.Equal(t, 1, rl.Cleanup(10*time.Minute))
	assert.Zero(t, rl.Len())
}

func TestRateLimiterStartCleanup(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	rl.Allow("user:gone")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rl.StartCleanup(ctx, 5*time.Millisecond, 0)

	assert.Eventually(t, func() bool { return rl.Len() == 0 }, time.Second, 5*time.Millisecond)

	var disabled *RateLimiter
	disabled.StartCleanup(ctx, time.Millisecond, time.Minute)
}
