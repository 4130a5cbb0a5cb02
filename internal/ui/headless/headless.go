// Package headless is a Backend with no display. Its loop is a plain
// goroutine draining posted funcs; user input is simulated through the
// exported input methods. It backs tests and display-less embedding.
package headless

import (
	"sync"

	"github.com/Makepad-fr/todogui/internal/ui"
)

// Backend implements ui.Backend without rendering anything.
type Backend struct {
	initErr error

	mu     sync.Mutex // guards queue, open, quit, wake
	queue  []func()
	open   bool
	quit   chan struct{}
	wake   chan struct{}
	closed bool // quit already closed for this run

	// Loop-owned.
	title  string
	input  ui.Input
	rows   []string
	dialog *ui.Dialog
}

// Option configures a Backend.
type Option func(*Backend)

// WithInitError makes Init fail, simulating a missing toolkit.
func WithInitError(err error) Option {
	return func(b *Backend) { b.initErr = err }
}

// New returns a headless backend.
func New(opts ...Option) *Backend {
	b := &Backend{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Backend) Name() string      { return "headless" }
func (b *Backend) Restartable() bool { return true }

func (b *Backend) Init() error {
	if b.initErr != nil {
		return b.initErr
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.queue = nil
	b.quit = make(chan struct{})
	b.wake = make(chan struct{}, 1)
	b.closed = false
	b.open = true
	return nil
}

func (b *Backend) CreateWindow(title string, in ui.Input) error {
	b.title = title
	b.input = in
	b.rows = nil
	b.dialog = nil
	return nil
}

func (b *Backend) AddListRow(label string) { b.rows = append(b.rows, label) }

func (b *Backend) UpdateListRow(index int, label string) {
	if index >= 0 && index < len(b.rows) {
		b.rows[index] = label
	}
}

func (b *Backend) RemoveListRow(index int) {
	if index >= 0 && index < len(b.rows) {
		b.rows = append(b.rows[:index], b.rows[index+1:]...)
	}
}

func (b *Backend) ShowDialog(d ui.Dialog) {
	b.dialog = &d
}

func (b *Backend) RunLoop() error {
	b.mu.Lock()
	quit, wake := b.quit, b.wake
	b.mu.Unlock()
	if quit == nil {
		return ui.ErrLoopClosed
	}

	for {
		select {
		case <-quit:
			b.mu.Lock()
			b.open = false
			b.queue = nil
			b.mu.Unlock()
			return nil
		case <-wake:
		}
		for {
			b.mu.Lock()
			if !b.open || len(b.queue) == 0 {
				b.mu.Unlock()
				break
			}
			fn := b.queue[0]
			b.queue = b.queue[1:]
			b.mu.Unlock()
			fn()
		}
	}
}

func (b *Backend) Post(fn func()) error {
	b.mu.Lock()
	if !b.open || b.closed {
		b.mu.Unlock()
		return ui.ErrLoopClosed
	}
	b.queue = append(b.queue, fn)
	wake := b.wake
	b.mu.Unlock()

	select {
	case wake <- struct{}{}:
	default:
	}
	return nil
}

func (b *Backend) Quit() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.quit == nil || b.closed {
		return
	}
	b.closed = true
	close(b.quit)
}

// call runs fn on the loop and waits for it.
func (b *Backend) call(fn func()) error {
	done := make(chan struct{})
	if err := b.Post(func() {
		defer close(done)
		fn()
	}); err != nil {
		return err
	}
	b.mu.Lock()
	quit := b.quit
	b.mu.Unlock()
	select {
	case <-done:
		return nil
	case <-quit:
		return ui.ErrLoopClosed
	}
}

// Add simulates the user pressing the add control.
func (b *Backend) Add() error {
	return b.Post(func() { b.input.RequestAdd() })
}

// Edit simulates choosing edit on row index.
func (b *Backend) Edit(index int) error {
	return b.Post(func() { b.input.RequestEdit(index) })
}

// Delete simulates choosing delete on row index.
func (b *Backend) Delete(index int) error {
	return b.Post(func() { b.input.RequestDelete(index) })
}

// Close simulates the user closing the window.
func (b *Backend) Close() error {
	return b.Post(func() { b.input.RequestQuit() })
}

// Submit confirms the open dialog with text and date. It reports whether a
// dialog was open.
func (b *Backend) Submit(text string, date int64) (bool, error) {
	var open bool
	err := b.call(func() {
		if b.dialog == nil {
			return
		}
		d := *b.dialog
		b.dialog = nil
		open = true
		if d.Submit != nil {
			d.Submit(text, date)
		}
	})
	return open, err
}

// Cancel dismisses the open dialog.
func (b *Backend) Cancel() error {
	return b.call(func() { b.dialog = nil })
}

// Rows returns the labels currently shown, in order.
func (b *Backend) Rows() ([]string, error) {
	var out []string
	err := b.call(func() {
		out = append([]string(nil), b.rows...)
	})
	return out, err
}

// Dialog returns the open dialog, if any.
func (b *Backend) Dialog() (ui.Dialog, bool, error) {
	var d ui.Dialog
	var open bool
	err := b.call(func() {
		if b.dialog != nil {
			d, open = *b.dialog, true
		}
	})
	return d, open, err
}

// Title returns the window title set by CreateWindow.
func (b *Backend) Title() (string, error) {
	var t string
	err := b.call(func() { t = b.title })
	return t, err
}

var _ ui.Backend = (*Backend)(nil)
