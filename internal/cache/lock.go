package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrLocked is returned by TryAcquireLock when another process already
// holds the lock.
var ErrLocked = errors.New("cache: path is locked by another process")

// Lock is a held advisory exclusive lock on a single path. Release must be
// called exactly once.
type Lock struct {
	file *os.File
}

// AcquireLock blocks until it holds an exclusive advisory lock on path,
// creating parent directories and the lock file itself if needed. The
// underlying syscall (flock on POSIX, LockFileEx on Windows) is implemented
// per-platform in lock_unix.go/lock_windows.go.
func AcquireLock(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}
	if err := lockExclusive(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to acquire lock on %s: %w", path, err)
	}
	return &Lock{file: f}, nil
}

// TryAcquireLock attempts a non-blocking exclusive lock on path, returning
// ErrLocked immediately if another process already holds it. Used by
// ClearCache, which must refuse to clear an install in use rather than
// wait for it.
func TryAcquireLock(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}
	if err := tryLockExclusive(f); err != nil {
		f.Close()
		if errors.Is(err, ErrLocked) {
			return nil, ErrLocked
		}
		return nil, fmt.Errorf("failed to acquire lock on %s: %w", path, err)
	}
	return &Lock{file: f}, nil
}

// Release unlocks and closes the underlying lock file.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	err := unlockFile(l.file)
	closeErr := l.file.Close()
	l.file = nil
	if err != nil {
		return err
	}
	return closeErr
}
