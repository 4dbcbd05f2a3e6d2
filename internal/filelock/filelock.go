// Package filelock provides advisory file locking so that separate weekgrid
// processes (a running board and a one-shot CLI command) serialize their
// writes to the same data directory.
package filelock

import (
	"fmt"
	"os"
)

const lockFileMode = 0o600

// Lock acquires an exclusive advisory lock on the file at path,
// creating it if it does not exist. Callers block until the lock is free.
// The returned function releases the lock.
func Lock(path string) (unlock func() error, err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, lockFileMode) //nolint:gosec // lock path built by the store
	if err != nil {
		return nil, err
	}

	if err := lockFile(f); err != nil {
		_ = f.Close()
		return nil, err
	}

	return func() error {
		unlockErr := unlockFile(f)
		closeErr := f.Close()
		if unlockErr != nil {
			return unlockErr
		}
		return closeErr
	}, nil
}

// With runs fn while holding the lock at path. An error releasing the lock
// is reported only when fn itself succeeded.
func With(path string, fn func() error) (err error) {
	unlock, err := Lock(path)
	if err != nil {
		return fmt.Errorf("acquiring lock: %w", err)
	}
	defer func() {
		if unlockErr := unlock(); unlockErr != nil && err == nil {
			err = fmt.Errorf("releasing lock: %w", unlockErr)
		}
	}()
	return fn()
}
