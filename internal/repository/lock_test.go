package repository

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gmerrors "github.com/mrz1836/gitmate/internal/errors"
)

func TestLockManager_SerializesSamePath(t *testing.T) {
	m := NewLockManager(5*time.Second, WithLockDir(t.TempDir()))
	repo := t.TempDir()

	var active, maxActive int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := m.Acquire(context.Background(), repo)
			if !assert.NoError(t, err) {
				return
			}
			n := atomic.AddInt32(&active, 1)
			for {
				cur := atomic.LoadInt32(&maxActive)
				if n <= cur || atomic.CompareAndSwapInt32(&maxActive, cur, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&active, -1)
			release()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxActive)
}

func TestLockManager_DifferentPathsIndependent(t *testing.T) {
	m := NewLockManager(time.Second, WithLockDir(t.TempDir()))

	r1, err := m.Acquire(context.Background(), t.TempDir())
	require.NoError(t, err)
	defer r1()

	r2, err := m.Acquire(context.Background(), t.TempDir())
	require.NoError(t, err)
	r2()
}

func TestLockManager_TimeoutInProcess(t *testing.T) {
	m := NewLockManager(60*time.Millisecond, WithoutFileLock())
	repo := t.TempDir()

	release, err := m.Acquire(context.Background(), repo)
	require.NoError(t, err)
	defer release()

	_, err = m.Acquire(context.Background(), repo)
	require.ErrorIs(t, err, gmerrors.ErrLockTimeout)
}

func TestLockManager_TimeoutAcrossManagers(t *testing.T) {
	// Two managers share nothing in memory, like two processes; only the lock file
	// stands between them.
	dir := t.TempDir()
	repo := t.TempDir()
	m1 := NewLockManager(time.Second, WithLockDir(dir))
	m2 := NewLockManager(80*time.Millisecond, WithLockDir(dir))

	release, err := m1.Acquire(context.Background(), repo)
	require.NoError(t, err)

	_, err = m2.Acquire(context.Background(), repo)
	require.ErrorIs(t, err, gmerrors.ErrLockTimeout)

	release()
	r2, err := m2.Acquire(context.Background(), repo)
	require.NoError(t, err)
	r2()
}

func TestLockManager_CanceledWhileWaiting(t *testing.T) {
	m := NewLockManager(5*time.Second, WithoutFileLock())
	repo := t.TempDir()

	release, err := m.Acquire(context.Background(), repo)
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err = m.Acquire(ctx, repo)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLockManager_LockFilePath(t *testing.T) {
	m := NewLockManager(time.Second, WithLockDir("/locks"))

	a := m.LockFilePath("/home/u/project")
	b := m.LockFilePath("/home/u/other")

	assert.NotEqual(t, a, b)
	assert.Equal(t, a, m.LockFilePath("/home/u/project"))
	assert.Equal(t, "/locks", filepath.Dir(a))
	base := filepath.Base(a)
	assert.True(t, strings.HasPrefix(base, "gitmate-"))
	assert.Len(t, strings.TrimSuffix(strings.TrimPrefix(base, "gitmate-"), ".lock"), 16)
}

func TestLockManager_DefaultTimeout(t *testing.T) {
	m := NewLockManager(0)
	assert.Equal(t, 10*time.Second, m.timeout)
}
