//go:build !windows

package cache

import (
	"os"

	"golang.org/x/sys/unix"
)

// lockExclusive takes a blocking exclusive flock on f's descriptor, per
// spec.md §5's cross-process advisory locking requirement.
func lockExclusive(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_EX)
}

// tryLockExclusive takes a non-blocking exclusive flock, returning
// ErrLocked if another process holds it.
func tryLockExclusive(f *os.File) error {
	err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB)
	if err == unix.EWOULDBLOCK {
		return ErrLocked
	}
	return err
}

func unlockFile(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_UN)
}
