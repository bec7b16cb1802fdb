package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/sreeramsuresh/steelcore/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTokenBucketRejectsInvalidArguments(t *testing.T) {
	var bucket *TokenBucket

	_, err := bucket.Allow(context.Background(), "k", 1, 1)
	assert.Error(t, err, "nil bucket must refuse instead of admitting")

	_, err = NewTokenBucket(nil).Allow(context.Background(), "k", 1, 1)
	assert.Error(t, err)
}

func TestDefaultBucketTTLCoversDrainTime(t *testing.T) {
	// burst 5 at 1/s drains in 5s; the key must outlive a full drain
	assert.Equal(t, 10*time.Second, defaultBucketTTL(1, 5))
	assert.Equal(t, time.Second, defaultBucketTTL(0, 5))
	assert.GreaterOrEqual(t, defaultBucketTTL(10, 1), time.Second)
}

func TestCastHelpers(t *testing.T) {
	assert.Equal(t, int64(1), castToInt(int64(1)))
	assert.Equal(t, int64(0), castToInt("junk"))
	assert.Equal(t, 2.5, castToFloat("2.5"))
	assert.Equal(t, 3.0, castToFloat(int64(3)))
	assert.Equal(t, 0.0, castToFloat("junk"))
}

func TestVerifyLimiterDisabledWithoutRedis(t *testing.T) {
	cfg := config.Config{
		RateLimit: config.RateLimitConfig{Enabled: true, VerifyRate: 1, VerifyBurst: 5},
	}
	limiter, err := NewVerifyLimiter(cfg, nil, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, limiter)

	// nil limiter is fully permissive
	assert.False(t, limiter.Enabled())
	res, allowed := limiter.Allow(context.Background(), "203.0.113.9")
	assert.True(t, allowed)
	assert.True(t, res.Allowed)

	token, ok, err := limiter.TryLockDraft(context.Background(), "INV-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, token)
	assert.NoError(t, limiter.ReleaseDraft(context.Background(), "INV-1", token))
}

func TestVerifyLimiterDisabledByConfig(t *testing.T) {
	cfg := config.Config{
		RateLimit: config.RateLimitConfig{Enabled: false, VerifyRate: 1, VerifyBurst: 5},
	}
	limiter, err := NewVerifyLimiter(cfg, nil, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, limiter)
}
