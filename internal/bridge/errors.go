package bridge

import "errors"

var (
	// ErrNotRunning is returned when publishing to a stopped bridge.
	ErrNotRunning = errors.New("bridge: not running")
	// ErrAlreadyRunning is returned by Start on a running bridge.
	ErrAlreadyRunning = errors.New("bridge: already running")
	// ErrUnknownKind is returned for kinds outside added/updated/deleted.
	ErrUnknownKind = errors.New("bridge: unknown event kind")
	// ErrRegistryClosed is returned by Set after Close.
	ErrRegistryClosed = errors.New("bridge: registry closed")
)
