package slotlock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocker(t *testing.T) (*Locker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewLocker(client, 2*time.Second), mr
}

func TestAcquire_ExclusivePerSlot(t *testing.T) {
	ctx := context.Background()
	locker, mr := newLocker(t)

	lease, err := locker.Acquire(ctx, "1", "2025-10-30", "10:00")
	require.NoError(t, err)
	assert.Equal(t, "slotlock:1:2025-10-30:10:00", lease.Key())
	assert.True(t, mr.Exists(lease.Key()))

	_, err = locker.Acquire(ctx, "1", "2025-10-30", "10:00")
	assert.ErrorIs(t, err, ErrLockHeld)

	// Другой слот не заблокирован
	other, err := locker.Acquire(ctx, "1", "2025-10-30", "11:00")
	require.NoError(t, err)
	require.NoError(t, other.Release(ctx))
}

func TestRelease_FreesSlot(t *testing.T) {
	ctx := context.Background()
	locker, mr := newLocker(t)

	lease, err := locker.Acquire(ctx, "1", "2025-10-30", "10:00")
	require.NoError(t, err)
	require.NoError(t, lease.Release(ctx))
	assert.False(t, mr.Exists(lease.Key()))

	_, err = locker.Acquire(ctx, "1", "2025-10-30", "10:00")
	assert.NoError(t, err)
}

func TestAcquire_ExpiresAfterTTL(t *testing.T) {
	ctx := context.Background()
	locker, mr := newLocker(t)

	_, err := locker.Acquire(ctx, "1", "2025-10-30", "10:00")
	require.NoError(t, err)

	mr.FastForward(3 * time.Second)

	_, err = locker.Acquire(ctx, "1", "2025-10-30", "10:00")
	assert.NoError(t, err)
}

func TestRelease_DoesNotDeleteForeignLock(t *testing.T) {
	ctx := context.Background()
	locker, mr := newLocker(t)

	stale, err := locker.Acquire(ctx, "1", "2025-10-30", "10:00")
	require.NoError(t, err)

	mr.FastForward(3 * time.Second)
	fresh, err := locker.Acquire(ctx, "1", "2025-10-30", "10:00")
	require.NoError(t, err)

	require.NoError(t, stale.Release(ctx))
	assert.True(t, mr.Exists(fresh.Key()))
}

func TestAcquire_RedisDown(t *testing.T) {
	locker, mr := newLocker(t)
	mr.Close()

	_, err := locker.Acquire(context.Background(), "1", "2025-10-30", "10:00")

	assert.ErrorIs(t, err, ErrRedis)
}
