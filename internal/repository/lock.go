package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/gitmate/internal/constants"
	gmerrors "github.com/mrz1836/gitmate/internal/errors"
	"github.com/mrz1836/gitmate/internal/flock"
)

// lockHashLen is the number of hex characters of the path hash used in lock file names.
const lockHashLen = 16

// LockManager serializes operations per repository. Inside one process a
// one-slot channel per absolute path queues callers; across processes an
// exclusive file lock guards the same path.
type LockManager struct {
	timeout  time.Duration
	dir      string
	fileLock bool
	logger   zerolog.Logger

	mu    sync.Mutex
	slots map[string]chan struct{}
}

// LockOption configures a LockManager.
type LockOption func(*LockManager)

// WithLockDir sets the directory holding cross-process lock files.
func WithLockDir(dir string) LockOption {
	return func(m *LockManager) {
		m.dir = dir
	}
}

// WithoutFileLock disables the cross-process lock, keeping only in-process queuing.
func WithoutFileLock() LockOption {
	return func(m *LockManager) {
		m.fileLock = false
	}
}

// WithLockLogger sets the logger for lock contention messages.
func WithLockLogger(logger zerolog.Logger) LockOption {
	return func(m *LockManager) {
		m.logger = logger
	}
}

// NewLockManager creates a LockManager that waits at most timeout for a lock.
func NewLockManager(timeout time.Duration, opts ...LockOption) *LockManager {
	if timeout <= 0 {
		timeout = constants.DefaultLockTimeout
	}
	m := &LockManager{
		timeout:  timeout,
		dir:      os.TempDir(),
		fileLock: true,
		logger:   zerolog.Nop(),
		slots:    make(map[string]chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Acquire locks repoPath and returns the function that releases it. Waiting past
// the timeout returns an error wrapping ErrLockTimeout.
func (m *LockManager) Acquire(ctx context.Context, repoPath string) (func(), error) {
	key, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve repository path: %w", err)
	}
	key = filepath.Clean(key)

	slot := m.slot(key)
	timer := time.NewTimer(m.timeout)
	defer timer.Stop()

	select {
	case slot <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		m.logger.Warn().Str("repository", key).Dur("timeout", m.timeout).Msg("repository busy")
		return nil, fmt.Errorf("repository %s is busy: %w", key, gmerrors.ErrLockTimeout)
	}

	if !m.fileLock {
		return func() { <-slot }, nil
	}

	fl, err := flock.Acquire(ctx, m.LockFilePath(key), m.timeout)
	if err != nil {
		<-slot
		m.logger.Warn().Err(err).Str("repository", key).Msg("repository locked by another process")
		return nil, err
	}

	return func() {
		if releaseErr := fl.Release(); releaseErr != nil {
			m.logger.Warn().Err(releaseErr).Str("repository", key).Msg("failed to release lock file")
		}
		<-slot
	}, nil
}

// LockFilePath returns the cross-process lock file for an absolute repository path.
func (m *LockManager) LockFilePath(absPath string) string {
	sum := sha256.Sum256([]byte(absPath))
	name := constants.LockFilePrefix + hex.EncodeToString(sum[:])[:lockHashLen] + ".lock"
	return filepath.Join(m.dir, name)
}

func (m *LockManager) slot(key string) chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch, ok := m.slots[key]
	if !ok {
		ch = make(chan struct{}, 1)
		m.slots[key] = ch
	}
	return ch
}
