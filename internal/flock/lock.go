package flock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mrz1836/gitmate/internal/constants"
	gmerrors "github.com/mrz1836/gitmate/internal/errors"
)

const (
	lockDirPerm  = 0o750
	lockFilePerm = 0o600
)

// Lock is a held exclusive file lock.
type Lock struct {
	file *os.File
}

// Acquire opens (creating if needed) the file at path and polls for an exclusive
// lock until it succeeds, ctx is done, or timeout elapses. A timeout returns an
// error wrapping ErrLockTimeout. The lock file is left on disk after release.
func Acquire(ctx context.Context, path string, timeout time.Duration) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), lockDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, lockFilePerm) //#nosec G304 -- path is derived from a hash, not user input
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}

	deadline := time.Now().Add(timeout)
	for {
		select {
		case <-ctx.Done():
			_ = f.Close()
			return nil, ctx.Err()
		default:
		}

		if err := Exclusive(f.Fd()); err == nil {
			return &Lock{file: f}, nil
		}

		if !time.Now().Before(deadline) {
			_ = f.Close()
			return nil, fmt.Errorf("failed to acquire lock %s: %w", filepath.Base(path), gmerrors.ErrLockTimeout)
		}

		select {
		case <-ctx.Done():
			_ = f.Close()
			return nil, ctx.Err()
		case <-time.After(constants.LockPollInterval):
		}
	}
}

// Release unlocks and closes the lock file. It is safe to call on a nil Lock
// and more than once.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}

	unlockErr := Unlock(l.file.Fd())
	closeErr := l.file.Close()
	l.file = nil

	return errors.Join(unlockErr, closeErr)
}
