package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgehanKilicarslan/prayog/backend-go/internal/identity"
	"github.com/EgehanKilicarslan/prayog/backend-go/internal/middleware"
	"github.com/EgehanKilicarslan/prayog/backend-go/internal/rpc"
	"github.com/EgehanKilicarslan/prayog/backend-go/internal/testutil"
)

func setupMiniRedis(t *testing.T) (*miniredis.Miniredis, middleware.RateLimiter) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	limiter := middleware.NewRedisRateLimiter(client, testutil.DiscardLogger())
	t.Cleanup(func() { limiter.Close() })

	return mr, limiter
}

func authedContext() *rpc.Context {
	return rpcContext(http.Header{}).WithIdentity(&identity.Identity{UserID: "user_1"})
}

func TestRedisRateLimiter_CountsPerDay(t *testing.T) {
	mr, limiter := setupMiniRedis(t)
	ctx := context.Background()

	allowed, used, err := limiter.CheckDailyLimit(ctx, "project.createProject", "user_1", 2)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Zero(t, used)

	require.NoError(t, limiter.IncrementDailyCount(ctx, "project.createProject", "user_1"))
	require.NoError(t, limiter.IncrementDailyCount(ctx, "project.createProject", "user_1"))

	allowed, used, err = limiter.CheckDailyLimit(ctx, "project.createProject", "user_1", 2)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, int64(2), used)

	// Another user has their own counter
	allowed, _, err = limiter.CheckDailyLimit(ctx, "project.createProject", "user_2", 2)
	require.NoError(t, err)
	assert.True(t, allowed)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.True(t, mr.TTL(keys[0]) > 0, "counter must expire at the next UTC midnight")
}

func TestDailyLimit(t *testing.T) {
	_, limiter := setupMiniRedis(t)
	mw := middleware.DailyLimit(limiter, 2, testutil.DiscardLogger())

	calls := 0
	next := func(ctx *rpc.Context) (any, error) {
		calls++
		return "created", nil
	}

	for i := 0; i < 2; i++ {
		result, err := mw(authedContext(), next)
		require.NoError(t, err)
		assert.Equal(t, "created", result)
	}

	_, err := mw(authedContext(), next)
	require.Error(t, err)
	assert.Equal(t, rpc.CodeTooManyRequests, rpc.AsError(err).Code)
	assert.ErrorIs(t, err, middleware.ErrRateLimited)
	assert.Equal(t, 2, calls)
}

func TestDailyLimit_FailedCallsAreNotCounted(t *testing.T) {
	_, limiter := setupMiniRedis(t)
	mw := middleware.DailyLimit(limiter, 1, testutil.DiscardLogger())
	boom := errors.New("storage down")

	_, err := mw(authedContext(), func(ctx *rpc.Context) (any, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)

	result, err := mw(authedContext(), func(ctx *rpc.Context) (any, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", result)
}

func TestDailyLimit_RedisDownLetsCallsThrough(t *testing.T) {
	mr, limiter := setupMiniRedis(t)
	mr.Close()

	mw := middleware.DailyLimit(limiter, 1, testutil.DiscardLogger())
	for i := 0; i < 3; i++ {
		result, err := mw(authedContext(), func(ctx *rpc.Context) (any, error) { return "ok", nil })
		require.NoError(t, err)
		assert.Equal(t, "ok", result)
	}
}

func TestDailyLimit_ZeroMeansUnlimited(t *testing.T) {
	mw := middleware.DailyLimit(middleware.NewNoOpRateLimiter(testutil.DiscardLogger()), 0, testutil.DiscardLogger())
	for i := 0; i < 5; i++ {
		_, err := mw(authedContext(), func(ctx *rpc.Context) (any, error) { return nil, nil })
		require.NoError(t, err)
	}
}
