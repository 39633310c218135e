package verification

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/litblc/account-service/internal/domain"
	redisstore "github.com/litblc/account-service/internal/infrastructure/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	srv := miniredis.RunT(t)
	client, err := redisstore.NewClient(context.Background(), srv.Addr(), "", 0, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return NewStore(client, zap.NewNop()), srv
}

func TestIssue(t *testing.T) {
	ctx := context.Background()

	t.Run("generates a six digit numeric code", func(t *testing.T) {
		store, _ := newTestStore(t)

		code, err := store.Issue(ctx, domain.PurposeRegister, "a@b.com")
		require.NoError(t, err)
		assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), code)
	})

	t.Run("does not persist until committed", func(t *testing.T) {
		store, _ := newTestStore(t)

		_, err := store.Issue(ctx, domain.PurposeRegister, "a@b.com")
		require.NoError(t, err)

		err = store.Verify(ctx, domain.PurposeRegister, "a@b.com", "000000")
		assert.ErrorIs(t, err, domain.ErrCodeMissingOrExpired)
	})

	t.Run("second issue within the TTL reports pending and keeps the code", func(t *testing.T) {
		store, _ := newTestStore(t)

		code, err := store.Issue(ctx, domain.PurposeRegister, "a@b.com")
		require.NoError(t, err)
		require.NoError(t, store.Commit(ctx, domain.PurposeRegister, "a@b.com", code))

		_, err = store.Issue(ctx, domain.PurposeRegister, "a@b.com")
		var pending *domain.CodePendingError
		require.ErrorAs(t, err, &pending)
		assert.Greater(t, pending.RetryAfter, time.Duration(0))

		// the stored code was not replaced
		assert.NoError(t, store.Verify(ctx, domain.PurposeRegister, "a@b.com", code))
	})

	t.Run("purposes do not collide", func(t *testing.T) {
		store, _ := newTestStore(t)

		code, err := store.Issue(ctx, domain.PurposeRegister, "a@b.com")
		require.NoError(t, err)
		require.NoError(t, store.Commit(ctx, domain.PurposeRegister, "a@b.com", code))

		_, err = store.Issue(ctx, domain.PurposePasswordReset, "a@b.com")
		assert.NoError(t, err)
	})
}

func TestCommit(t *testing.T) {
	ctx := context.Background()

	t.Run("interleaved sends cannot replace a live code", func(t *testing.T) {
		store, _ := newTestStore(t)

		// both requests pass the pending check before either commits
		first, err := store.Issue(ctx, domain.PurposeRegister, "a@b.com")
		require.NoError(t, err)
		second, err := store.Issue(ctx, domain.PurposeRegister, "a@b.com")
		require.NoError(t, err)

		require.NoError(t, store.Commit(ctx, domain.PurposeRegister, "a@b.com", first))

		err = store.Commit(ctx, domain.PurposeRegister, "a@b.com", second)
		var pending *domain.CodePendingError
		require.ErrorAs(t, err, &pending)
		assert.Greater(t, pending.RetryAfter, time.Duration(0))

		// the first committed code is still the live one
		assert.NoError(t, store.Verify(ctx, domain.PurposeRegister, "a@b.com", first))
		assert.ErrorIs(t, store.Verify(ctx, domain.PurposeRegister, "a@b.com", second), domain.ErrCodeMismatch)
	})

	t.Run("commit after expiry creates a fresh code", func(t *testing.T) {
		store, srv := newTestStore(t)

		require.NoError(t, store.Commit(ctx, domain.PurposeRegister, "a@b.com", "123456"))
		srv.FastForward(domain.CodeTTL + time.Second)

		require.NoError(t, store.Commit(ctx, domain.PurposeRegister, "a@b.com", "654321"))
		assert.NoError(t, store.Verify(ctx, domain.PurposeRegister, "a@b.com", "654321"))
	})
}

func TestVerify(t *testing.T) {
	ctx := context.Background()

	t.Run("correct code within the TTL is valid", func(t *testing.T) {
		store, _ := newTestStore(t)

		require.NoError(t, store.Commit(ctx, domain.PurposeRegister, "a@b.com", "123456"))
		assert.NoError(t, store.Verify(ctx, domain.PurposeRegister, "a@b.com", "123456"))
	})

	t.Run("mismatch leaves the code and its TTL untouched", func(t *testing.T) {
		store, srv := newTestStore(t)

		require.NoError(t, store.Commit(ctx, domain.PurposeRegister, "a@b.com", "123456"))
		ttlBefore := srv.TTL("user:register:account:a@b.com")

		err := store.Verify(ctx, domain.PurposeRegister, "a@b.com", "654321")
		assert.ErrorIs(t, err, domain.ErrCodeMismatch)
		assert.Equal(t, ttlBefore, srv.TTL("user:register:account:a@b.com"))

		// retry with the right code still works
		assert.NoError(t, store.Verify(ctx, domain.PurposeRegister, "a@b.com", "123456"))
	})

	t.Run("expired code reports missing regardless of correctness", func(t *testing.T) {
		store, srv := newTestStore(t)

		require.NoError(t, store.Commit(ctx, domain.PurposeRegister, "a@b.com", "123456"))
		srv.FastForward(domain.CodeTTL + time.Second)

		err := store.Verify(ctx, domain.PurposeRegister, "a@b.com", "123456")
		assert.ErrorIs(t, err, domain.ErrCodeMissingOrExpired)
	})

	t.Run("never-issued code reports missing", func(t *testing.T) {
		store, _ := newTestStore(t)

		err := store.Verify(ctx, domain.PurposePasswordReset, "a@b.com", "123456")
		assert.ErrorIs(t, err, domain.ErrCodeMissingOrExpired)
	})
}
