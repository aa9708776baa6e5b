package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chirper-app/gatekit/pkg/otp"
)

func TestTokenBucketBurst(t *testing.T) {
	bucket := NewTokenBucket(3, 1.0)

	assert.True(t, bucket.Allow())
	assert.True(t, bucket.Allow())
	assert.True(t, bucket.Allow())
	assert.False(t, bucket.Allow())
}

func TestTokenBucketRefill(t *testing.T) {
	bucket := NewTokenBucket(1, 10.0)
	now := time.Now()

	require.True(t, bucket.allowAt(now))
	require.False(t, bucket.allowAt(now))

	// One token refills after 100ms at 10/s.
	assert.True(t, bucket.allowAt(now.Add(150*time.Millisecond)))
}

func TestTokenBucketReset(t *testing.T) {
	bucket := NewTokenBucket(1, 0.001)
	require.True(t, bucket.Allow())
	require.False(t, bucket.Allow())

	bucket.Reset()
	assert.True(t, bucket.Allow())
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	current := time.Now()
	limiter := NewRateLimiter(1, 0.001, 0).WithNow(func() time.Time { return current })

	require.True(t, limiter.Allow("alice@example.com"))
	assert.False(t, limiter.Allow("alice@example.com"))
	assert.True(t, limiter.Allow("bob@example.com"))
}

func TestRateLimiterRefillOverTime(t *testing.T) {
	current := time.Now()
	limiter := NewRateLimiter(2, 1.0/60.0, 0).WithNow(func() time.Time { return current })

	require.True(t, limiter.Allow("dev@example.com"))
	require.True(t, limiter.Allow("dev@example.com"))
	require.False(t, limiter.Allow("dev@example.com"))

	current = current.Add(time.Minute)
	assert.True(t, limiter.Allow("dev@example.com"))
}

func TestIssueThrottle(t *testing.T) {
	throttle := NewIssueThrottle(2, 1.0/60.0, 0)
	ctx := context.Background()

	assert.NoError(t, throttle.Allow(ctx, "dev@example.com"))
	assert.NoError(t, throttle.Allow(ctx, "dev@example.com"))

	err := throttle.Allow(ctx, "dev@example.com")
	assert.ErrorIs(t, err, otp.ErrRateLimited)

	// Another identity is unaffected.
	assert.NoError(t, throttle.Allow(ctx, "other@example.com"))
}
