// Package verification issues and validates the one-time codes sent by
// email or SMS during registration and password reset.
package verification

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"

	"github.com/litblc/account-service/internal/domain"
	"go.uber.org/zap"
)

// Store keeps at most one live code per (purpose, account) pair in the
// shared expiring key-value store.
type Store struct {
	store domain.KeyValueStore
	log   *zap.Logger
}

func NewStore(store domain.KeyValueStore, log *zap.Logger) *Store {
	return &Store{store: store, log: log}
}

func key(purpose domain.Purpose, account string) string {
	return "user:" + string(purpose) + ":account:" + account
}

// Issue returns a fresh code for the pair, or *domain.CodePendingError with
// the remaining TTL when a live code already exists. The pending check runs
// before generation, so a live code is never silently replaced. The code is
// NOT persisted here — call Commit once delivery succeeded.
func (s *Store) Issue(ctx context.Context, purpose domain.Purpose, account string) (string, error) {
	k := key(purpose, account)

	exists, err := s.store.Exists(ctx, k)
	if err != nil {
		return "", err
	}
	if exists {
		ttl, err := s.store.TTL(ctx, k)
		if err != nil {
			return "", err
		}
		return "", &domain.CodePendingError{RetryAfter: ttl}
	}

	return generateCode()
}

// Commit persists a delivered code with the standard TTL. The write is
// create-if-absent: when two deliveries for the same pair race past the
// pending check, the first commit wins and the loser gets the pending
// error, so a live code is never replaced.
func (s *Store) Commit(ctx context.Context, purpose domain.Purpose, account, code string) error {
	k := key(purpose, account)

	set, err := s.store.SetNX(ctx, k, code, domain.CodeTTL)
	if err != nil {
		return err
	}
	if !set {
		ttl, err := s.store.TTL(ctx, k)
		if err != nil {
			return err
		}
		s.log.Warn("concurrent code commit lost the race",
			zap.String("purpose", string(purpose)))
		return &domain.CodePendingError{RetryAfter: ttl}
	}

	return nil
}

// Verify compares candidate against the live code for the pair.
// A mismatch leaves the stored code and its TTL untouched so the user can
// retry typing within the same window; an absent key means missing or
// expired, the two are not distinguished.
func (s *Store) Verify(ctx context.Context, purpose domain.Purpose, account, candidate string) error {
	stored, err := s.store.Get(ctx, key(purpose, account))
	if err == domain.ErrKeyNotFound {
		return domain.ErrCodeMissingOrExpired
	}
	if err != nil {
		return err
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) != 1 {
		return domain.ErrCodeMismatch
	}

	return nil
}

// generateCode produces a fixed-length numeric code from a CSPRNG.
func generateCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < domain.CodeLength; i++ {
		max.Mul(max, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%0*d", domain.CodeLength, n), nil
}
