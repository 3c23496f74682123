// pkg/server/lock.go
package server

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrAlreadyRunning reports that another server process holds the lock file.
var ErrAlreadyRunning = errors.New("another netlab server is already running")

// InstanceLock is an exclusive advisory lock guarding a single server
// instance per lock file.
type InstanceLock struct {
	fl *flock.Flock
}

// AcquireLock takes a non-blocking exclusive lock on path, creating parent
// directories as needed.
func AcquireLock(path string) (*InstanceLock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}

	fl := flock.New(path)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	if !locked {
		return nil, WithErrorCode(fmt.Errorf("%s: %w", path, ErrAlreadyRunning), errorCodeAlreadyRunning)
	}
	return &InstanceLock{fl: fl}, nil
}

// Path returns the lock file path.
func (l *InstanceLock) Path() string {
	return l.fl.Path()
}

// Release unlocks the file. It is safe to call on a nil lock.
func (l *InstanceLock) Release() error {
	if l == nil {
		return nil
	}
	return l.fl.Unlock()
}
