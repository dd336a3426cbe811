package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenBucket_Exhaustion(t *testing.T) {
	bucket := NewTokenBucket(3, 1)

	for i := 0; i < 3; i++ {
		assert.True(t, bucket.Allow(), "request %d should pass", i)
	}
	assert.False(t, bucket.Allow(), "bucket should be empty")
}

func TestTokenBucket_AllowN(t *testing.T) {
	bucket := NewTokenBucket(5, 1)

	assert.True(t, bucket.AllowN(5))
	assert.False(t, bucket.AllowN(1))
}

func TestTokenBucket_Refill(t *testing.T) {
	bucket := NewTokenBucket(2, 10)
	assert.True(t, bucket.AllowN(2))
	assert.False(t, bucket.Allow())

	// Backdate the last refill instead of sleeping.
	bucket.mu.Lock()
	bucket.lastRefill = bucket.lastRefill.Add(-time.Second)
	bucket.mu.Unlock()

	assert.True(t, bucket.AllowN(2))
}

func TestTokenBucket_RefillCapsAtCapacity(t *testing.T) {
	bucket := NewTokenBucket(3, 100)

	bucket.mu.Lock()
	bucket.lastRefill = bucket.lastRefill.Add(-10 * time.Second)
	bucket.mu.Unlock()

	assert.True(t, bucket.AllowN(3))
	assert.False(t, bucket.Allow())
}

func TestRateLimiter_KeysAreIsolated(t *testing.T) {
	rl := NewRateLimiter(1, 1)

	assert.True(t, rl.Allow("user:1"))
	assert.False(t, rl.Allow("user:1"))

	// Another key starts with a full bucket.
	assert.True(t, rl.Allow("user:2"))
}

func TestRateLimiter_Reset(t *testing.T) {
	rl := NewRateLimiter(1, 1)

	assert.True(t, rl.Allow("user:1"))
	assert.False(t, rl.Allow("user:1"))

	rl.Reset("user:1")
	assert.True(t, rl.Allow("user:1"))
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl := NewRateLimiter(2, 1)
	rl.Allow("stale")

	rl.mu.Lock()
	bucket := rl.buckets["stale"]
	rl.mu.Unlock()

	// A full, long-idle bucket is dropped; a drained one is kept.
	bucket.mu.Lock()
	bucket.tokens = bucket.capacity
	bucket.lastRefill = bucket.lastRefill.Add(-2 * rl.cleanupInterval)
	bucket.mu.Unlock()

	rl.Allow("active")
	rl.cleanup()

	rl.mu.Lock()
	_, staleExists := rl.buckets["stale"]
	_, activeExists := rl.buckets["active"]
	rl.mu.Unlock()

	assert.False(t, staleExists)
	assert.True(t, activeExists)
}
