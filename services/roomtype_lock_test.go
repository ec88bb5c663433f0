package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisLocker(t *testing.T, timeout time.Duration) (*miniredis.Miniredis, *RedisLocker) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	locker := NewRedisLocker(client, timeout)
	locker.RetryDelay = 5 * time.Millisecond
	return mr, locker
}

func TestSortedUnique(t *testing.T) {
	assert.Equal(t, []uint{1, 3, 7}, sortedUnique([]uint{7, 3, 7, 1, 3}))
	assert.Empty(t, sortedUnique(nil))
}

func TestLocalLocker_TimesOutWhileHeld(t *testing.T) {
	locker := NewLocalLocker(30 * time.Millisecond)
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, 2, 1)
	require.NoError(t, err)

	_, err = locker.Lock(ctx, 1)
	assert.ErrorIs(t, err, ErrLockTimeout)

	// disjoint keys are independent
	unlock3, err := locker.Lock(ctx, 3)
	require.NoError(t, err)
	unlock3()

	unlock()
	again, err := locker.Lock(ctx, 1, 2)
	require.NoError(t, err)
	again()
}

func TestLocalLocker_PartialAcquireReleases(t *testing.T) {
	locker := NewLocalLocker(30 * time.Millisecond)
	ctx := context.Background()
	unlock2, err := locker.Lock(ctx, 2)
	require.NoError(t, err)

	// 1 is taken then released when 2 cannot be acquired
	_, err = locker.Lock(ctx, 1, 2)
	require.ErrorIs(t, err, ErrLockTimeout)

	unlock1, err := locker.Lock(ctx, 1)
	require.NoError(t, err)
	unlock1()
	unlock2()
}

func TestRedisLocker_LockAndRelease(t *testing.T) {
	mr, locker := setupRedisLocker(t, 50*time.Millisecond)
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, 5, 4)
	require.NoError(t, err)
	assert.True(t, mr.Exists("hotel:lock:room-type:4"))
	assert.True(t, mr.Exists("hotel:lock:room-type:5"))
	ttl := mr.TTL("hotel:lock:room-type:4")
	assert.True(t, ttl > 0 && ttl <= 30*time.Second)

	_, err = locker.Lock(ctx, 5)
	assert.ErrorIs(t, err, ErrLockTimeout)

	unlock()
	assert.False(t, mr.Exists("hotel:lock:room-type:4"))
	assert.False(t, mr.Exists("hotel:lock:room-type:5"))
}

func TestRedisLocker_UnlockKeepsForeignLease(t *testing.T) {
	mr, locker := setupRedisLocker(t, 50*time.Millisecond)
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, 9)
	require.NoError(t, err)
	// lease expired and was taken by another instance
	require.NoError(t, mr.Set("hotel:lock:room-type:9", "someone-else"))

	unlock()

	got, err := mr.Get("hotel:lock:room-type:9")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}

func TestRedisLocker_WaitsForRelease(t *testing.T) {
	_, locker := setupRedisLocker(t, time.Second)
	ctx := context.Background()
	unlock, err := locker.Lock(ctx, 1)
	require.NoError(t, err)

	go func() {
		time.Sleep(30 * time.Millisecond)
		unlock()
	}()

	second, err := locker.Lock(ctx, 1)
	require.NoError(t, err)
	second()
}
