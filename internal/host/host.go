// Package host runs the todo UI on a dedicated goroutine and routes every
// store change through the event bridge.
//
// Each Host owns one store, one callback registry and one bridge. The store
// is only ever touched on the UI goroutine; other goroutines reach it by
// posting work through Do, Sync, Add, Edit and Delete.
package host

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/todogui/internal/bridge"
	"github.com/Makepad-fr/todogui/internal/logging"
	"github.com/Makepad-fr/todogui/internal/model"
	"github.com/Makepad-fr/todogui/internal/store"
	"github.com/Makepad-fr/todogui/internal/ui"
)

// State is the host lifecycle: NotStarted, then Running, then Stopped.
type State int32

const (
	NotStarted State = iota
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not-started"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

// Host owns the UI goroutine and everything confined to it.
type Host struct {
	backend     ui.Backend
	title       string
	logger      *log.Logger
	delivery    Delivery
	validate    bool
	now         func() time.Time
	stopTimeout time.Duration

	store  *store.Store
	reg    *bridge.Registry
	bridge *bridge.Bridge

	mu     sync.Mutex // guards state and done
	state  State
	done   chan struct{}
	loopID atomic.Uint64
	live   atomic.Bool // notifications may be issued
}

// New builds a host around backend. Nothing runs until Start.
func New(backend ui.Backend, opts ...Option) *Host {
	h := &Host{
		backend:     backend,
		title:       "Todo List",
		logger:      logging.Discard(),
		now:         time.Now,
		stopTimeout: 5 * time.Second,
		reg:         bridge.NewRegistry(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.store = store.New(store.WithGuard(h.checkAffinity))
	h.bridge = bridge.New(h.reg,
		bridge.WithLogger(h.logger),
		bridge.WithValidation(h.validate),
	)
	return h
}

// Registry is where host handlers are registered.
func (h *Host) Registry() *bridge.Registry { return h.reg }

// Stats returns the bridge counters.
func (h *Host) Stats() bridge.Stats { return h.bridge.Stats() }

// State returns the current lifecycle state.
func (h *Host) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Start initializes the backend and spawns the UI goroutine. It is a no-op
// while running. A backend that cannot start yields an *InitError and no
// goroutine is left behind.
func (h *Host) Start() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch h.state {
	case Running:
		h.logger.Debug("ui already running", "backend", h.backend.Name())
		return nil
	case Stopped:
		if !h.backend.Restartable() {
			return ErrNotRestartable
		}
		// The previous goroutine may still be draining the bridge.
		if h.done != nil {
			<-h.done
		}
	}

	if err := h.backend.Init(); err != nil {
		ierr := &InitError{Backend: h.backend.Name(), Err: err}
		h.logger.Error("failed to initialize ui", "backend", h.backend.Name(), "err", err)
		return ierr
	}

	if h.delivery == DeliverOnLoop {
		h.bridge.SetExecutor(bridge.LoopExecutor{Post: h.backend.Post})
	} else {
		h.bridge.SetExecutor(bridge.WorkerExecutor{})
	}
	if err := h.bridge.Start(); err != nil && !errors.Is(err, bridge.ErrAlreadyRunning) {
		h.backend.Quit()
		return fmt.Errorf("start bridge: %w", err)
	}

	ready := make(chan error, 1)
	done := make(chan struct{})
	go h.run(ready, done)

	if err := <-ready; err != nil {
		<-done
		h.backend.Quit()
		h.stopBridge()
		ierr := &InitError{Backend: h.backend.Name(), Err: err}
		h.logger.Error("failed to create window", "backend", h.backend.Name(), "err", err)
		return ierr
	}

	h.state = Running
	h.done = done
	h.logger.Info("ui started", "backend", h.backend.Name(), "delivery", h.delivery)
	return nil
}

// run is the UI goroutine.
func (h *Host) run(ready chan<- error, done chan<- struct{}) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(done)

	h.loopID.Store(goid())
	defer h.loopID.Store(0)

	if err := h.backend.CreateWindow(h.title, h); err != nil {
		ready <- err
		return
	}
	for _, it := range h.store.Items() {
		h.backend.AddListRow(it.Label())
	}
	h.live.Store(true)
	ready <- nil

	err := h.backend.RunLoop()
	h.live.Store(false)
	h.mu.Lock()
	h.state = Stopped
	h.mu.Unlock()
	if err != nil {
		h.logger.Error("ui loop exited", "backend", h.backend.Name(), "err", err)
	}

	h.stopBridge()
	h.logger.Info("ui stopped", "backend", h.backend.Name())
}

// Stop ends the loop and waits for the UI goroutine to exit. Notifications
// still queued are dropped; one already being handled finishes. Safe from
// any goroutine and idempotent; called on the UI goroutine it does not wait.
func (h *Host) Stop() {
	h.mu.Lock()
	if h.state != Running {
		h.mu.Unlock()
		return
	}
	done := h.done
	h.mu.Unlock()

	h.live.Store(false)
	h.backend.Quit()
	if h.onLoop() {
		return
	}
	<-done
}

// Wait blocks until the UI goroutine exits, e.g. after the user closes the
// window. Returns immediately when never started.
func (h *Host) Wait() {
	h.mu.Lock()
	done := h.done
	h.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (h *Host) stopBridge() {
	ctx, cancel := context.WithTimeout(context.Background(), h.stopTimeout)
	defer cancel()
	if err := h.bridge.Stop(ctx); err != nil && !errors.Is(err, bridge.ErrNotRunning) {
		h.logger.Warn("bridge did not drain in time", "err", err)
	}
}

func (h *Host) onLoop() bool {
	id := h.loopID.Load()
	return id != 0 && id == goid()
}

func (h *Host) checkAffinity() error {
	if !h.onLoop() {
		return ErrWrongThread
	}
	return nil
}

// post queues fn on the UI loop with panic containment.
func (h *Host) post(what string, fn func()) error {
	if h.State() != Running {
		return ErrNotRunning
	}
	err := h.backend.Post(func() { h.contain(what, fn) })
	if errors.Is(err, ui.ErrLoopClosed) {
		return ErrNotRunning
	}
	return err
}

// contain keeps a failure inside a UI handler from unwinding the loop.
func (h *Host) contain(what string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("recovered in ui handler", "handler", what, "panic", r, "stack", string(debug.Stack()))
		}
	}()
	fn()
}

// Do runs fn with the store on the UI loop without waiting. Mutations made
// directly on the store bypass rows and notifications; use Add/Edit/Delete
// for user-visible changes.
func (h *Host) Do(fn func(*store.Store)) error {
	return h.post("do", func() { fn(h.store) })
}

// Sync runs fn with the store on the UI loop and waits for it. Called on
// the UI loop it runs inline.
func (h *Host) Sync(fn func(*store.Store)) error {
	if h.onLoop() {
		h.contain("sync", func() { fn(h.store) })
		return nil
	}
	done := make(chan struct{})
	if err := h.post("sync", func() {
		defer close(done)
		fn(h.store)
	}); err != nil {
		return err
	}
	h.mu.Lock()
	loopDone := h.done
	h.mu.Unlock()
	select {
	case <-done:
		return nil
	case <-loopDone:
		return ErrNotRunning
	}
}

// Add queues an add on the UI loop.
func (h *Host) Add(text string, date int64) error {
	return h.post("add", func() { h.add(text, date) })
}

// Edit queues an edit on the UI loop.
func (h *Host) Edit(ref model.Ref, text string, date int64) error {
	return h.post("edit", func() { h.edit(ref, text, date) })
}

// Delete queues a delete on the UI loop.
func (h *Host) Delete(ref model.Ref) error {
	return h.post("delete", func() { h.delete(ref) })
}

func (h *Host) add(text string, date int64) {
	it, ok := h.store.Add(text, date)
	if !ok {
		h.logger.Debug("add rejected: empty text")
		return
	}
	h.backend.AddListRow(it.Label())
	h.notify(model.Added, it)
}

func (h *Host) edit(ref model.Ref, text string, date int64) {
	it, idx, ok := h.store.Edit(ref, text, date)
	if !ok {
		h.logger.Debug("edit ignored", "ref", ref)
		return
	}
	h.backend.UpdateListRow(idx, it.Label())
	h.notify(model.Updated, it)
}

func (h *Host) delete(ref model.Ref) {
	it, idx, ok := h.store.Delete(ref)
	if !ok {
		h.logger.Debug("delete ignored", "ref", ref)
		return
	}
	h.backend.RemoveListRow(idx)
	h.notify(model.Deleted, it)
}

func (h *Host) notify(k model.Kind, it model.TodoItem) {
	if !h.live.Load() {
		h.logger.Debug("not issuing notification while stopping", "kind", k, "id", it.ID)
		return
	}
	if err := h.bridge.Publish(k, it); err != nil {
		h.logger.Debug("notification not queued", "kind", k, "id", it.ID, "err", err)
	}
}

// RequestAdd opens an empty dialog defaulting to today.
func (h *Host) RequestAdd() {
	h.contain("request-add", func() {
		h.backend.ShowDialog(ui.Dialog{
			Title:       "Add Todo",
			Date:        model.DayMillis(h.now()),
			RequireText: true,
			Submit:      func(text string, date int64) { h.contain("add", func() { h.add(text, date) }) },
		})
	})
}

// RequestEdit opens a dialog prefilled from the item at index. The edit is
// applied by ID so a list that changed meanwhile still hits the same item.
func (h *Host) RequestEdit(index int) {
	h.contain("request-edit", func() {
		it, ok := h.store.Get(model.ByIndex(index))
		if !ok {
			return
		}
		ref := model.ByID(it.ID)
		h.backend.ShowDialog(ui.Dialog{
			Title:  "Edit Todo",
			Text:   it.Text,
			Date:   it.Date,
			Submit: func(text string, date int64) { h.contain("edit", func() { h.edit(ref, text, date) }) },
		})
	})
}

// RequestDelete removes the item at index.
func (h *Host) RequestDelete(index int) {
	h.contain("request-delete", func() { h.delete(model.ByIndex(index)) })
}

// RequestQuit handles the user closing the window.
func (h *Host) RequestQuit() {
	h.live.Store(false)
	h.backend.Quit()
}

var _ ui.Input = (*Host)(nil)
