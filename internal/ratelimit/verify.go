package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/sreeramsuresh/steelcore/internal/config"
	"go.uber.org/zap"
)

const (
	keyVerifyClient = "trn:verify:client:%s"
	keyDraftLock    = "draft:lock:%s"

	draftLockTTL = 10 * time.Second
)

// VerifyLimiter bounds calls to the external TRN verification gateway per
// client. Verification hits a government registry, so it carries a much
// tighter budget than the local validators.
type VerifyLimiter struct {
	enabled bool

	bucket *TokenBucket
	locker *Locker
	log    *zap.Logger

	rate  float64
	burst int
}

// NewVerifyLimiter builds a limiter from config. A nil redis client
// disables limiting entirely.
func NewVerifyLimiter(cfg config.Config, client *redis.Client, log *zap.Logger) (*VerifyLimiter, error) {
	limitCfg := cfg.RateLimit
	if !limitCfg.Enabled || client == nil {
		return nil, nil
	}
	if limitCfg.VerifyRate <= 0 || limitCfg.VerifyBurst <= 0 {
		return nil, errors.New("verify rate limit must be positive")
	}

	return &VerifyLimiter{
		enabled: true,
		bucket:  NewTokenBucket(client),
		locker:  NewLocker(client),
		log:     log,
		rate:    limitCfg.VerifyRate,
		burst:   limitCfg.VerifyBurst,
	}, nil
}

func (l *VerifyLimiter) Enabled() bool {
	return l != nil && l.enabled
}

// Allow admits or rejects one verification attempt for the client. Redis
// failures fail open: a broken limiter must not block validation work.
func (l *VerifyLimiter) Allow(ctx context.Context, clientKey string) (Result, bool) {
	if !l.Enabled() {
		return Result{Allowed: true}, true
	}
	key := fmt.Sprintf(keyVerifyClient, strings.TrimSpace(clientKey))
	res, err := l.bucket.Allow(ctx, key, l.rate, l.burst)
	if err != nil {
		if l.log != nil {
			l.log.Warn("verify rate limiter unavailable", zap.Error(err))
		}
		return Result{Allowed: true}, true
	}
	return res, res.Allowed
}

// TryLockDraft takes a short cross-instance lock on a draft owner key so
// concurrent replicas do not interleave snapshot writes.
func (l *VerifyLimiter) TryLockDraft(ctx context.Context, ownerKey string) (string, bool, error) {
	if !l.Enabled() {
		return "", true, nil
	}
	return l.locker.TryLock(ctx, fmt.Sprintf(keyDraftLock, strings.TrimSpace(ownerKey)), draftLockTTL)
}

// ReleaseDraft releases a lock taken by TryLockDraft.
func (l *VerifyLimiter) ReleaseDraft(ctx context.Context, ownerKey, token string) error {
	if !l.Enabled() {
		return nil
	}
	return l.locker.Release(ctx, fmt.Sprintf(keyDraftLock, strings.TrimSpace(ownerKey)), token)
}
