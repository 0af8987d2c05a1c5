package lock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLockerExcludesSecondHolder(t *testing.T) {
	locker := NewMemoryLocker()
	ctx := context.Background()

	acquired, err := locker.TryLock(ctx, "sync", time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)

	acquired, err = locker.TryLock(ctx, "sync", time.Minute)
	require.NoError(t, err)
	assert.False(t, acquired)
}

func TestMemoryLockerUnlockFreesKey(t *testing.T) {
	locker := NewMemoryLocker()
	ctx := context.Background()

	_, err := locker.TryLock(ctx, "sync", time.Minute)
	require.NoError(t, err)
	require.NoError(t, locker.Unlock(ctx, "sync"))

	acquired, err := locker.TryLock(ctx, "sync", time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestMemoryLockerKeysAreIndependent(t *testing.T) {
	locker := NewMemoryLocker()
	ctx := context.Background()

	_, err := locker.TryLock(ctx, "a", time.Minute)
	require.NoError(t, err)

	acquired, err := locker.TryLock(ctx, "b", time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestMemoryLockerExpiredLockIsReacquirable(t *testing.T) {
	locker := NewMemoryLocker()
	ctx := context.Background()

	acquired, err := locker.TryLock(ctx, "sync", 10*time.Millisecond)
	require.NoError(t, err)
	require.True(t, acquired)

	time.Sleep(20 * time.Millisecond)

	acquired, err = locker.TryLock(ctx, "sync", time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)
}
