// Package ratelimit implements the sliding-bucket attempt counter backed by
// the shared expiring key-value store.
package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/litblc/account-service/internal/domain"
	"go.uber.org/zap"
)

// Defaults matching the service's abuse throttles.
const (
	IPLimit  = 5
	IPWindow = 3600 * time.Second

	StrikeLimit  = 5
	StrikeWindow = 600 * time.Second
)

// Limiter counts attempts per key inside a TTL-bound bucket. The bucket is
// created on first attempt with the window as TTL and vanishes when the
// window passes; the count only grows while the bucket lives.
type Limiter struct {
	store domain.KeyValueStore
	log   *zap.Logger
}

func New(store domain.KeyValueStore, log *zap.Logger) *Limiter {
	return &Limiter{store: store, log: log}
}

// Admit records one attempt for key and reports whether it is within limit.
// The increment-and-compare is a single atomic operation against the store,
// so two concurrent callers at count = limit-1 cannot both be admitted.
func (l *Limiter) Admit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	count, err := l.store.IncrWithTTL(ctx, key, window)
	if err != nil {
		return false, err
	}

	if count > int64(limit) {
		l.log.Warn("rate limit exceeded",
			zap.String("key", key),
			zap.Int64("count", count))
		return false, nil
	}

	return true, nil
}

// Strikes returns the current strike count for key, zero when no bucket lives.
func (l *Limiter) Strikes(ctx context.Context, key string) (int64, error) {
	value, err := l.store.Get(ctx, key)
	if err == domain.ErrKeyNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	count, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt strike counter %q: %w", key, err)
	}
	return count, nil
}

// AddStrike records one strike for key. The window TTL is attached when the
// strike creates the bucket; there is no explicit reset, the bucket simply
// expires.
func (l *Limiter) AddStrike(ctx context.Context, key string, window time.Duration) error {
	_, err := l.store.IncrWithTTL(ctx, key, window)
	return err
}

// IPKey builds the bucket key for an IP-scoped action.
func IPKey(action, ip string) string {
	return "ip:" + action + ":times:" + ip
}

// LoginFailKey builds the bucket key for the account-scoped failure counter.
func LoginFailKey(account string) string {
	return "login:times:" + account
}
