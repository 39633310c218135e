package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redisstore "github.com/litblc/account-service/internal/infrastructure/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestLimiter(t *testing.T) (*Limiter, *miniredis.Miniredis) {
	t.Helper()

	srv := miniredis.RunT(t)
	client, err := redisstore.NewClient(context.Background(), srv.Addr(), "", 0, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return New(client, zap.NewNop()), srv
}

func TestAdmit(t *testing.T) {
	ctx := context.Background()

	t.Run("admits the first limit calls and rejects the next", func(t *testing.T) {
		limiter, _ := newTestLimiter(t)
		key := IPKey("login", "203.0.113.5")

		for i := 0; i < 5; i++ {
			allowed, err := limiter.Admit(ctx, key, 5, time.Hour)
			require.NoError(t, err)
			assert.True(t, allowed, "call %d should be admitted", i+1)
		}

		allowed, err := limiter.Admit(ctx, key, 5, time.Hour)
		require.NoError(t, err)
		assert.False(t, allowed, "sixth call must be rejected")
	})

	t.Run("bucket resets after the window passes", func(t *testing.T) {
		limiter, srv := newTestLimiter(t)
		key := IPKey("register", "203.0.113.5")

		for i := 0; i < 6; i++ {
			_, err := limiter.Admit(ctx, key, 5, time.Hour)
			require.NoError(t, err)
		}

		srv.FastForward(time.Hour + time.Second)

		allowed, err := limiter.Admit(ctx, key, 5, time.Hour)
		require.NoError(t, err)
		assert.True(t, allowed, "a fresh window must admit again")
	})

	t.Run("buckets are independent per key", func(t *testing.T) {
		limiter, _ := newTestLimiter(t)

		for i := 0; i < 6; i++ {
			_, err := limiter.Admit(ctx, IPKey("login", "203.0.113.5"), 5, time.Hour)
			require.NoError(t, err)
		}

		allowed, err := limiter.Admit(ctx, IPKey("login", "198.51.100.7"), 5, time.Hour)
		require.NoError(t, err)
		assert.True(t, allowed)

		allowed, err = limiter.Admit(ctx, IPKey("register", "203.0.113.5"), 5, time.Hour)
		require.NoError(t, err)
		assert.True(t, allowed)
	})
}

func TestStrikes(t *testing.T) {
	ctx := context.Background()

	t.Run("zero strikes without a bucket", func(t *testing.T) {
		limiter, _ := newTestLimiter(t)

		strikes, err := limiter.Strikes(ctx, LoginFailKey("a@b.com"))
		require.NoError(t, err)
		assert.Equal(t, int64(0), strikes)
	})

	t.Run("strikes accumulate and expire with the window", func(t *testing.T) {
		limiter, srv := newTestLimiter(t)
		key := LoginFailKey("a@b.com")

		for i := 0; i < 3; i++ {
			require.NoError(t, limiter.AddStrike(ctx, key, StrikeWindow))
		}

		strikes, err := limiter.Strikes(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, int64(3), strikes)

		srv.FastForward(StrikeWindow + time.Second)

		strikes, err = limiter.Strikes(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, int64(0), strikes)
	})
}
