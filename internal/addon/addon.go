// Package addon is the surface a host application embeds: a greeting, a
// way to open the todo window, and per-kind change callbacks.
package addon

import (
	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/todogui/internal/bridge"
	"github.com/Makepad-fr/todogui/internal/host"
	"github.com/Makepad-fr/todogui/internal/model"
	"github.com/Makepad-fr/todogui/internal/ui"
)

// ErrUnknownKind is returned by On for event names it does not know.
var ErrUnknownKind = bridge.ErrUnknownKind

// Addon binds one host to the embedding application.
type Addon struct {
	host *host.Host
}

// New wraps backend in a host. opts are passed through to host.New.
func New(backend ui.Backend, logger *log.Logger, opts ...host.Option) *Addon {
	if logger == nil {
		logger = log.Default()
	}
	opts = append([]host.Option{host.WithLogger(logger)}, opts...)
	return &Addon{host: host.New(backend, opts...)}
}

// HelloWorld echoes input behind a fixed greeting.
func (a *Addon) HelloWorld(input string) string {
	return "Hello from Go! You said: " + input
}

// StartGUI opens the window on its own goroutine and returns once it is
// up. A backend that cannot start is logged by the host and reported as a
// host.ErrInitialization; the caller keeps running either way.
func (a *Addon) StartGUI() error { return a.host.Start() }

// On registers handler for kind ("added", "updated", "deleted", or the
// todoAdded style names). A later registration replaces the earlier one;
// a nil handler removes it.
func (a *Addon) On(kind string, handler func(payload string)) error {
	k, ok := model.ParseKind(kind)
	if !ok {
		return ErrUnknownKind
	}
	return a.host.Registry().Set(k, handler)
}

// Wait blocks until the window closes.
func (a *Addon) Wait() { a.host.Wait() }

// Close stops the window and releases the callbacks. The addon cannot be
// used afterwards.
func (a *Addon) Close() {
	a.host.Stop()
	a.host.Registry().Close()
}

// Host exposes the underlying host for programmatic edits.
func (a *Addon) Host() *host.Host { return a.host }
