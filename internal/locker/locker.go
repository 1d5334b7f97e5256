package locker

import (
	"errors"
	"fmt"

	"github.com/gofrs/flock"
)

// Guard holds an acquired advisory file lock until Release is called.
type Guard struct {
	// fl is the underlying advisory lock handle.
	fl *flock.Flock
}

// errNoLockPath is returned when an empty lock file path is provided.
var errNoLockPath = errors.New("lock file path must be provided")

// TryAcquire attempts to take an exclusive, non-blocking advisory lock on path.
// It returns (guard, true, nil) on success and (nil, false, nil) when another
// process already holds the lock. It never waits.
func TryAcquire(path string) (*Guard, bool, error) {
	if path == "" {
		return nil, false, errNoLockPath
	}

	fl := flock.New(path)

	acquired, err := fl.TryLock()
	if err != nil {
		return nil, false, fmt.Errorf("try lock %s: %w", path, err)
	}

	if !acquired {
		return nil, false, nil
	}

	return &Guard{fl: fl}, true, nil
}

// Release unlocks the file. It is safe to call on a nil guard
// so callers can defer it unconditionally.
func (g *Guard) Release() error {
	if g == nil || g.fl == nil {
		return nil
	}

	if err := g.fl.Unlock(); err != nil {
		return fmt.Errorf("unlock %s: %w", g.fl.Path(), err)
	}

	return nil
}

// Path returns the lock file location.
func (g *Guard) Path() string {
	return g.fl.Path()
}
