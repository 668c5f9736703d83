package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateBackoffReturnsMillisecondScale(t *testing.T) {
	config := Config{MaxRetries: 3, InitialBackoffMs: 100, MaxBackoffMs: 30000}

	for attempt := 0; attempt < 4; attempt++ {
		d := CalculateBackoff(attempt, config)
		base := time.Duration(100<<attempt) * time.Millisecond
		assert.GreaterOrEqual(t, d, base, "attempt %d below base delay", attempt)
		// Jitter adds at most 25%.
		assert.LessOrEqual(t, d, base+base/4+time.Millisecond, "attempt %d above jitter cap", attempt)
	}
}

func TestCalculateBackoffCapsAtMax(t *testing.T) {
	config := Config{MaxRetries: 10, InitialBackoffMs: 100, MaxBackoffMs: 500}

	d := CalculateBackoff(8, config)
	assert.LessOrEqual(t, d, 625*time.Millisecond)
	assert.GreaterOrEqual(t, d, 500*time.Millisecond)
}

func TestCalculateRateLimitBackoffHonorsRetryAfter(t *testing.T) {
	config := DefaultConfig()
	retryAfter := "2"

	d := CalculateRateLimitBackoff(0, config, &retryAfter)
	assert.GreaterOrEqual(t, d, 2*time.Second)
	assert.Less(t, d, 4*time.Second)
}

func TestSleepTakesDuration(t *testing.T) {
	config := Config{MaxRetries: 1, InitialBackoffMs: 1, MaxBackoffMs: 2}

	start := time.Now()
	Sleep(CalculateBackoff(0, config))
	require.GreaterOrEqual(t, time.Since(start), time.Millisecond)
}

func TestIsRetryableStatus(t *testing.T) {
	assert.True(t, IsRetryableStatus(429))
	assert.True(t, IsRetryableStatus(500))
	assert.True(t, IsRetryableStatus(503))
	assert.False(t, IsRetryableStatus(200))
	assert.False(t, IsRetryableStatus(404))
}
