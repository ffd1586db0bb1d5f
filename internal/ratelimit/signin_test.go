package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newLimiterTest(t *testing.T, max int) (*SigninLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})
	return NewSigninLimiter(rdb, Config{MaxFailures: max, Cooldown: time.Minute}), mr
}

func TestSigninLimiterBlocksAfterMaxFailures(t *testing.T) {
	l, _ := newLimiterTest(t, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, l.Check(ctx, "a@example.com", "198.51.100.1"))
		require.NoError(t, l.RecordFailure(ctx, "a@example.com", "198.51.100.1"))
	}
	require.ErrorIs(t, l.Check(ctx, "A@Example.com ", ""), ErrRateLimited)
	// same IP, other account: the IP window is exhausted too
	require.ErrorIs(t, l.Check(ctx, "b@example.com", "198.51.100.1"), ErrRateLimited)
	require.NoError(t, l.Check(ctx, "b@example.com", "198.51.100.2"))
}

func TestSigninLimiterWindowExpires(t *testing.T) {
	l, mr := newLimiterTest(t, 1)
	ctx := context.Background()

	require.NoError(t, l.RecordFailure(ctx, "a@example.com", ""))
	require.ErrorIs(t, l.Check(ctx, "a@example.com", ""), ErrRateLimited)

	mr.FastForward(2 * time.Minute)
	require.NoError(t, l.Check(ctx, "a@example.com", ""))
}

func TestSigninLimiterResetClearsEmailOnly(t *testing.T) {
	l, _ := newLimiterTest(t, 2)
	ctx := context.Background()

	require.NoError(t, l.RecordFailure(ctx, "a@example.com", "203.0.113.7"))
	require.NoError(t, l.RecordFailure(ctx, "a@example.com", "203.0.113.7"))
	require.NoError(t, l.Reset(ctx, "a@example.com"))

	require.NoError(t, l.Check(ctx, "a@example.com", ""))
	require.ErrorIs(t, l.Check(ctx, "a@example.com", "203.0.113.7"), ErrRateLimited)
}

func TestNilLimiterAllows(t *testing.T) {
	var l *SigninLimiter
	ctx := context.Background()
	require.NoError(t, l.Check(ctx, "a@example.com", "x"))
	require.NoError(t, l.RecordFailure(ctx, "a@example.com", "x"))
	require.NoError(t, l.Reset(ctx, "a@example.com"))
}

func TestRedisDownIsReported(t *testing.T) {
	l, mr := newLimiterTest(t, 2)
	mr.Close()
	require.ErrorIs(t, l.Check(context.Background(), "a@example.com", ""), ErrRedisUnavailable)
}
