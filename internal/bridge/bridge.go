package bridge

import (
	"context"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/todogui/internal/logging"
	"github.com/Makepad-fr/todogui/internal/model"
	"github.com/Makepad-fr/todogui/internal/wire"
)

// Notification is one serialized change waiting for delivery.
type Notification struct {
	Kind    model.Kind
	Payload string
	Seq     uint64

	gen uint64
}

// Bridge is an ordered, non-blocking mailbox from the UI goroutine to host
// handlers.
type Bridge struct {
	reg      *Registry
	exec     Executor
	logger   *log.Logger
	validate bool

	mu      sync.Mutex // guards queue, running, seq, quit
	queue   []Notification
	running bool
	seq     uint64
	quit    chan struct{}
	wake    chan struct{}
	stopped atomic.Bool
	gen     atomic.Uint64
	wg      sync.WaitGroup

	published     atomic.Uint64
	delivered     atomic.Uint64
	dropped       atomic.Uint64
	panicked      atomic.Uint64
	marshalFailed atomic.Uint64
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithExecutor selects where handlers run. Defaults to WorkerExecutor.
func WithExecutor(e Executor) Option {
	return func(b *Bridge) {
		if e != nil {
			b.exec = e
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *log.Logger) Option {
	return func(b *Bridge) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithValidation checks each payload against its JSON Schema before it is
// queued. Invalid payloads count as marshal failures.
func WithValidation(on bool) Option {
	return func(b *Bridge) { b.validate = on }
}

// New creates a stopped bridge delivering through reg.
func New(reg *Registry, opts ...Option) *Bridge {
	b := &Bridge{
		reg:    reg,
		exec:   WorkerExecutor{},
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SetExecutor swaps the executor. Only call while the bridge is stopped.
func (b *Bridge) SetExecutor(e Executor) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if e != nil {
		b.exec = e
	}
}

// Start launches the delivery goroutine.
func (b *Bridge) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.running {
		return ErrAlreadyRunning
	}
	b.running = true
	b.stopped.Store(false)
	b.gen.Add(1)
	b.queue = nil
	b.quit = make(chan struct{})
	b.wake = make(chan struct{}, 1)

	b.wg.Add(1)
	go b.deliverLoop(b.exec, b.quit, b.wake)
	return nil
}

// Running reports whether Publish currently accepts notifications.
func (b *Bridge) Running() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.running
}

// Publish serializes it for kind k on the calling goroutine and queues it.
// It never waits for a handler.
func (b *Bridge) Publish(k model.Kind, it model.TodoItem) error {
	payload, err := wire.Encode(k, it)
	if err == nil && b.validate {
		err = wire.Validate(k, payload)
	}
	if err != nil {
		b.marshalFailed.Add(1)
		b.logger.Warn("dropping notification", "kind", k, "id", it.ID, "err", err)
		return err
	}

	b.mu.Lock()
	if !b.running {
		b.mu.Unlock()
		b.dropped.Add(1)
		return ErrNotRunning
	}
	b.seq++
	b.queue = append(b.queue, Notification{Kind: k, Payload: string(payload), Seq: b.seq, gen: b.gen.Load()})
	wake := b.wake
	b.mu.Unlock()

	b.published.Add(1)
	select {
	case wake <- struct{}{}:
	default:
	}
	return nil
}

// Stop rejects new notifications, drops the ones still queued, and waits
// (bounded by ctx) for the one in flight to finish.
func (b *Bridge) Stop(ctx context.Context) error {
	b.mu.Lock()
	if !b.running {
		b.mu.Unlock()
		return ErrNotRunning
	}
	b.running = false
	b.stopped.Store(true)
	if n := len(b.queue); n > 0 {
		b.dropped.Add(uint64(n))
		b.logger.Debug("dropping queued notifications", "count", n)
	}
	b.queue = nil
	close(b.quit)
	b.mu.Unlock()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Bridge) deliverLoop(exec Executor, quit <-chan struct{}, wake <-chan struct{}) {
	defer b.wg.Done()
	for {
		select {
		case <-quit:
			return
		case <-wake:
		}
		for {
			n, ok := b.next()
			if !ok {
				break
			}
			b.deliver(exec, n)
		}
	}
}

// next pops the oldest queued notification. Once stopped nothing is popped.
func (b *Bridge) next() (Notification, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.running || len(b.queue) == 0 {
		return Notification{}, false
	}
	n := b.queue[0]
	b.queue[0] = Notification{}
	b.queue = b.queue[1:]
	if len(b.queue) == 0 {
		b.queue = nil
	}
	return n, true
}

func (b *Bridge) deliver(exec Executor, n Notification) {
	err := exec.Execute(func() { b.invoke(n) })
	if err != nil {
		b.dropped.Add(1)
		b.logger.Debug("delivery context gone", "kind", n.Kind, "seq", n.Seq, "err", err)
	}
}

// invoke runs on the executor's context. The handler is looked up here, not
// at enqueue time, so a handler replaced or a registry closed in between is
// honored. Work left over from an earlier Start/Stop cycle is discarded.
func (b *Bridge) invoke(n Notification) {
	if b.stopped.Load() || n.gen != b.gen.Load() {
		b.dropped.Add(1)
		return
	}
	h, ok := b.reg.Lookup(n.Kind)
	if !ok {
		b.dropped.Add(1)
		b.logger.Debug("no handler registered", "kind", n.Kind, "seq", n.Seq)
		return
	}
	defer func() {
		if r := recover(); r != nil {
			b.panicked.Add(1)
			b.dropped.Add(1)
			b.logger.Warn("handler panicked", "kind", n.Kind, "seq", n.Seq, "panic", r, "stack", string(debug.Stack()))
		}
	}()
	h(n.Payload)
	b.delivered.Add(1)
}

// Stats is a snapshot of bridge counters.
type Stats struct {
	Published     uint64
	Delivered     uint64
	Dropped       uint64
	Panicked      uint64
	MarshalFailed uint64
	Queued        int
}

// Stats returns the current counters.
func (b *Bridge) Stats() Stats {
	b.mu.Lock()
	queued := len(b.queue)
	b.mu.Unlock()
	return Stats{
		Published:     b.published.Load(),
		Delivered:     b.delivered.Load(),
		Dropped:       b.dropped.Load(),
		Panicked:      b.panicked.Load(),
		MarshalFailed: b.marshalFailed.Load(),
		Queued:        queued,
	}
}
