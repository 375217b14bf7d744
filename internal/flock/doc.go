// Package flock provides cross-platform file locking utilities.
//
// Exclusive and Unlock wrap the platform primitives (flock on Unix,
// LockFileEx on Windows); both are non-blocking. Acquire builds a polling,
// deadline-bounded lock on top of them, which gitmate uses to serialize
// operations on one repository across processes.
//
// Usage:
//
//	lock, err := flock.Acquire(ctx, path, 10*time.Second)
//	if err != nil {
//	    // errors.Is(err, errors.ErrLockTimeout) when another process holds it
//	}
//	defer lock.Release()
package flock
