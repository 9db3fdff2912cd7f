//go:build windows

package storage

import (
	"fmt"
	"os"
	"time"
)

// FileLock provides advisory file locking for cross-process synchronization.
// On Windows an exclusive-create lock file stands in for flock(2).
type FileLock struct {
	path string
	held bool
}

// NewFileLock creates a file lock. The lock is not acquired until Lock() is
// called. The lock file lives at path + ".lock".
func NewFileLock(path string) *FileLock {
	return &FileLock{path: path + ".lock"}
}

// Lock acquires an exclusive lock within the timeout, returning
// ErrLockTimeout on expiry.
func (l *FileLock) Lock(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		f, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0600)
		if err == nil {
			f.Close()
			l.held = true
			return nil
		}
		if !os.IsExist(err) {
			return fmt.Errorf("open lock file %s: %w", l.path, err)
		}
		time.Sleep(10 * time.Millisecond)
	}
	return ErrLockTimeout
}

// Unlock releases the lock.
func (l *FileLock) Unlock() error {
	if !l.held {
		return nil
	}
	l.held = false
	return os.Remove(l.path)
}
