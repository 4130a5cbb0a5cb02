package bridge

import (
	"sync"

	"github.com/Makepad-fr/todogui/internal/model"
)

// Handler receives one serialized notification.
type Handler func(payload string)

// Registry maps each kind to at most one handler. Last Set wins.
type Registry struct {
	mu       sync.RWMutex
	handlers map[model.Kind]Handler
	closed   bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[model.Kind]Handler, len(model.Kinds))}
}

// Set replaces the handler for k. A nil handler clears the slot.
func (r *Registry) Set(k model.Kind, h Handler) error {
	if !k.Valid() {
		return ErrUnknownKind
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRegistryClosed
	}
	if h == nil {
		delete(r.handlers, k)
		return nil
	}
	r.handlers[k] = h
	return nil
}

// Lookup returns the current handler for k. Always misses once closed.
func (r *Registry) Lookup(k model.Kind) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return nil, false
	}
	h, ok := r.handlers[k]
	return h, ok
}

// Close drops all handlers; later Sets fail with ErrRegistryClosed.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.handlers = nil
}
