// Package state guards against concurrent grove instances. Two
// controllers tailing the same event log would double-deliver
// notifications and fight over the terminal session.
package state

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrAlreadyRunning indicates another grove instance holds the lock
var ErrAlreadyRunning = errors.New("another grove instance is already running")

// InstanceLock is an exclusive advisory lock on a well-known file.
// The lock is released on Release or when the process exits.
type InstanceLock struct {
	file *os.File
}

// Acquire takes the instance lock without blocking. Returns
// ErrAlreadyRunning if another process holds it.
func Acquire(path string) (*InstanceLock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}

	if err := tryLockFile(file); err != nil {
		file.Close()
		if errors.Is(err, errLockHeld) {
			return nil, ErrAlreadyRunning
		}
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}

	return &InstanceLock{file: file}, nil
}

// Release drops the lock. Safe to call once.
func (l *InstanceLock) Release() error {
	if l.file == nil {
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
