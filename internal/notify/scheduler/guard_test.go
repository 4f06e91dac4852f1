// internal/notify/scheduler/guard_test.go
package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Nasrulloh23256/NesabaLearn/internal/common/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGuardFixture(t *testing.T, ttl time.Duration) (*miniredis.Miniredis, *SweepGuard) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, NewSweepGuard(rdb, ttl, logger.NewNoOpLogger())
}

func TestSweepGuard_AcquireRelease(t *testing.T) {
	mr, guard := newGuardFixture(t, time.Minute)
	ctx := context.Background()

	ok, err := guard.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, mr.Exists(lockKey))

	guard.Release(ctx)
	assert.False(t, mr.Exists(lockKey))

	// A fresh cycle can take the lease again.
	ok, err = guard.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSweepGuard_SecondAcquireBlocked(t *testing.T) {
	mr, guard := newGuardFixture(t, time.Minute)
	ctx := context.Background()

	ok, err := guard.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	other := NewSweepGuard(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute, logger.NewNoOpLogger())
	ok, err = other.Acquire(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSweepGuard_LeaseExpiresOnItsOwn(t *testing.T) {
	mr, guard := newGuardFixture(t, time.Minute)
	ctx := context.Background()

	ok, err := guard.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	// Simulate a sweep dying mid-run: nobody releases, the TTL clears it.
	mr.FastForward(2 * time.Minute)

	other := NewSweepGuard(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute, logger.NewNoOpLogger())
	ok, err = other.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSweepGuard_ReleaseOnlyOwnLease(t *testing.T) {
	mr, guard := newGuardFixture(t, time.Minute)
	ctx := context.Background()

	ok, err := guard.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	// TTL fires and a successor takes the lease before the stale sweep
	// reaches its deferred Release.
	mr.FastForward(2 * time.Minute)
	successor := NewSweepGuard(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute, logger.NewNoOpLogger())
	ok, err = successor.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	guard.Release(ctx)
	assert.True(t, mr.Exists(lockKey), "stale release must not delete the successor's lease")
}

func TestSweepGuard_AcquireRedisError(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	mock.Regexp().ExpectSetNX(lockKey, `.*`, time.Minute).SetErr(errors.New("connection refused"))

	guard := NewSweepGuard(rdb, time.Minute, logger.NewNoOpLogger())
	ok, err := guard.Acquire(context.Background())
	assert.Error(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSweepGuard_ReleaseWithoutAcquireIsNoOp(t *testing.T) {
	mr, guard := newGuardFixture(t, time.Minute)

	guard.Release(context.Background())
	assert.False(t, mr.Exists(lockKey))
}
