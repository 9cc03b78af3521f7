package services

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitService_MemoryStore(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryCounterStoreWithClock(func() time.Time { return now })
	svc := NewRateLimitService(store, 3, time.Hour)
	ctx := context.Background()

	t.Run("allows up to limit then rejects", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			allowed, _, err := svc.Allow(ctx, "203.0.113.7")
			require.NoError(t, err)
			assert.True(t, allowed, "request %d should be allowed", i+1)
		}

		allowed, retryAfter, err := svc.Allow(ctx, "203.0.113.7")
		require.NoError(t, err)
		assert.False(t, allowed)
		assert.Equal(t, time.Hour, retryAfter)
	})

	t.Run("keys are independent", func(t *testing.T) {
		allowed, _, err := svc.Allow(ctx, "198.51.100.9")
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("window expiry resets the quota", func(t *testing.T) {
		now = now.Add(time.Hour + time.Minute)

		allowed, _, err := svc.Allow(ctx, "203.0.113.7")
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("retry hint shrinks within the window", func(t *testing.T) {
		now = now.Add(30 * time.Minute)
		for i := 0; i < 2; i++ {
			_, _, err := svc.Allow(ctx, "203.0.113.7")
			require.NoError(t, err)
		}

		allowed, retryAfter, err := svc.Allow(ctx, "203.0.113.7")
		require.NoError(t, err)
		assert.False(t, allowed)
		assert.Equal(t, 30*time.Minute, retryAfter)
	})
}

func TestRateLimitService_RedisStore(t *testing.T) {
	ctx := context.Background()

	t.Run("allows under limit", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.ExpectTxPipeline()
		mock.ExpectIncr("rate_limit:203.0.113.7").SetVal(2)
		mock.ExpectExpireNX("rate_limit:203.0.113.7", time.Hour).SetVal(false)
		mock.ExpectTTL("rate_limit:203.0.113.7").SetVal(42 * time.Minute)
		mock.ExpectTxPipelineExec()

		svc := NewRateLimitService(NewRedisCounterStore(client), 3, time.Hour)
		allowed, _, err := svc.Allow(ctx, "203.0.113.7")
		require.NoError(t, err)
		assert.True(t, allowed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects over limit with TTL hint", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.ExpectTxPipeline()
		mock.ExpectIncr("rate_limit:203.0.113.7").SetVal(4)
		mock.ExpectExpireNX("rate_limit:203.0.113.7", time.Hour).SetVal(false)
		mock.ExpectTTL("rate_limit:203.0.113.7").SetVal(42 * time.Minute)
		mock.ExpectTxPipelineExec()

		svc := NewRateLimitService(NewRedisCounterStore(client), 3, time.Hour)
		allowed, retryAfter, err := svc.Allow(ctx, "203.0.113.7")
		require.NoError(t, err)
		assert.False(t, allowed)
		assert.Equal(t, 42*time.Minute, retryAfter)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("fails open on store error", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.ExpectTxPipeline()
		mock.ExpectIncr("rate_limit:203.0.113.7").SetErr(assert.AnError)

		svc := NewRateLimitService(NewRedisCounterStore(client), 3, time.Hour)
		allowed, _, err := svc.Allow(ctx, "203.0.113.7")
		assert.Error(t, err)
		assert.True(t, allowed)
	})
}
