package host

import (
	"errors"
	"fmt"
)

var (
	// ErrInitialization is matched by every *InitError.
	ErrInitialization = errors.New("host: ui initialization failed")
	// ErrNotRunning is returned when posting work to a host whose loop is
	// not running.
	ErrNotRunning = errors.New("host: not running")
	// ErrNotRestartable is returned by Start after Stop on a backend whose
	// loop cannot be re-created.
	ErrNotRestartable = errors.New("host: backend cannot restart")
	// ErrWrongThread is raised when the store is touched off the UI loop.
	ErrWrongThread = errors.New("host: store accessed off the ui goroutine")
)

// InitError reports a backend that could not start.
type InitError struct {
	Backend string
	Err     error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("host: init %s backend: %v", e.Backend, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

func (e *InitError) Is(target error) bool { return target == ErrInitialization }
