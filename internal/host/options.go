package host

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Delivery selects where host handlers run.
type Delivery int

const (
	// DeliverOnWorker runs handlers on the bridge's own goroutine.
	DeliverOnWorker Delivery = iota
	// DeliverOnLoop posts handlers back onto the UI loop. A slow handler
	// then holds up the UI; pick this only when handlers must share the
	// UI goroutine.
	DeliverOnLoop
)

func (d Delivery) String() string {
	if d == DeliverOnLoop {
		return "loop"
	}
	return "worker"
}

// ParseDelivery maps "worker" or "loop" to a Delivery.
func ParseDelivery(s string) (Delivery, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "worker":
		return DeliverOnWorker, nil
	case "loop":
		return DeliverOnLoop, nil
	}
	return 0, fmt.Errorf("unknown delivery mode %q (want worker or loop)", s)
}

// Option configures a Host.
type Option func(*Host)

// WithTitle sets the window title.
func WithTitle(title string) Option {
	return func(h *Host) {
		if title != "" {
			h.title = title
		}
	}
}

// WithLogger sets the logger shared with the bridge.
func WithLogger(l *log.Logger) Option {
	return func(h *Host) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithDelivery picks the handler execution context.
func WithDelivery(d Delivery) Option {
	return func(h *Host) { h.delivery = d }
}

// WithValidation turns on JSON Schema checks for outgoing payloads.
func WithValidation(on bool) Option {
	return func(h *Host) { h.validate = on }
}

// WithClock overrides the clock used for a new dialog's default date.
func WithClock(now func() time.Time) Option {
	return func(h *Host) {
		if now != nil {
			h.now = now
		}
	}
}

// WithStopTimeout bounds how long shutdown waits for an in-flight handler.
func WithStopTimeout(d time.Duration) Option {
	return func(h *Host) {
		if d > 0 {
			h.stopTimeout = d
		}
	}
}
