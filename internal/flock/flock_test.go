//go:build unix

package flock_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gmerrors "github.com/mrz1836/gitmate/internal/errors"
	"github.com/mrz1836/gitmate/internal/flock"
)

func openLockFile(t *testing.T, path string) *os.File {
	t.Helper()
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600) // #nosec G304 -- test code using safe temp dir
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestExclusive(t *testing.T) {
	t.Parallel()

	t.Run("second descriptor is refused until unlock", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "repo.lock")
		f1 := openLockFile(t, path)
		f2 := openLockFile(t, path)

		require.NoError(t, flock.Exclusive(f1.Fd()))
		require.Error(t, flock.Exclusive(f2.Fd()))

		require.NoError(t, flock.Unlock(f1.Fd()))
		require.NoError(t, flock.Exclusive(f2.Fd()))
		require.NoError(t, flock.Unlock(f2.Fd()))
	})
}

func TestAcquire(t *testing.T) {
	t.Parallel()

	t.Run("creates missing directories", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "nested", "dir", "repo.lock")

		lock, err := flock.Acquire(context.Background(), path, time.Second)
		require.NoError(t, err)
		assert.FileExists(t, path)
		require.NoError(t, lock.Release())
	})

	t.Run("times out while held", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "repo.lock")
		held, err := flock.Acquire(context.Background(), path, time.Second)
		require.NoError(t, err)
		defer func() { _ = held.Release() }()

		start := time.Now()
		_, err = flock.Acquire(context.Background(), path, 120*time.Millisecond)

		require.ErrorIs(t, err, gmerrors.ErrLockTimeout)
		assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
	})

	t.Run("succeeds once released", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "repo.lock")
		held, err := flock.Acquire(context.Background(), path, time.Second)
		require.NoError(t, err)

		go func() {
			time.Sleep(100 * time.Millisecond)
			_ = held.Release()
		}()

		lock, err := flock.Acquire(context.Background(), path, 5*time.Second)
		require.NoError(t, err)
		require.NoError(t, lock.Release())
	})

	t.Run("honors context cancellation", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "repo.lock")
		held, err := flock.Acquire(context.Background(), path, time.Second)
		require.NoError(t, err)
		defer func() { _ = held.Release() }()

		ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
		defer cancel()

		_, err = flock.Acquire(ctx, path, 10*time.Second)
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("release is idempotent", func(t *testing.T) {
		t.Parallel()
		lock, err := flock.Acquire(context.Background(), filepath.Join(t.TempDir(), "x.lock"), time.Second)
		require.NoError(t, err)
		require.NoError(t, lock.Release())
		require.NoError(t, lock.Release())

		var nilLock *flock.Lock
		assert.NoError(t, nilLock.Release())
	})
}
