// Package teaui is the terminal backend built on Bubble Tea.
package teaui

import (
	"fmt"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/Makepad-fr/todogui/internal/ui"
)

// Backend runs the todo window as a Bubble Tea program.
//
// Bubble Tea's Send blocks until the event loop receives, which would
// deadlock when called from inside Update. Post therefore appends to a
// mailbox and a pump goroutine wakes the loop with a single drain message;
// the loop runs everything queued, in order, on its own goroutine.
type Backend struct {
	theme    ui.Theme
	progOpts []tea.ProgramOption
	ttyCheck func() bool

	mu       sync.Mutex // guards queue, open, quitting, wake, prog
	queue    []func()
	open     bool
	quitting bool
	wake     chan struct{}
	prog     *tea.Program

	m *window // loop-owned
}

// Option configures a Backend.
type Option func(*Backend)

// WithTheme picks the palette used for rendering.
func WithTheme(t ui.Theme) Option {
	return func(b *Backend) { b.theme = t }
}

// WithProgramOptions passes extra options to tea.NewProgram.
func WithProgramOptions(opts ...tea.ProgramOption) Option {
	return func(b *Backend) { b.progOpts = append(b.progOpts, opts...) }
}

// WithTTYCheck replaces the terminal detection used by Init.
func WithTTYCheck(fn func() bool) Option {
	return func(b *Backend) {
		if fn != nil {
			b.ttyCheck = fn
		}
	}
}

// New returns a Bubble Tea backend.
func New(opts ...Option) *Backend {
	b := &Backend{
		theme:    ui.Current(),
		ttyCheck: stdioIsTerminal,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func stdioIsTerminal() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
}

func (b *Backend) Name() string      { return "tea" }
func (b *Backend) Restartable() bool { return true }

func (b *Backend) Init() error {
	if !b.ttyCheck() {
		return fmt.Errorf("%w: stdin/stdout is not a terminal", ui.ErrUnavailable)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.queue = nil
	b.quitting = false
	b.wake = make(chan struct{}, 1)
	b.open = true
	return nil
}

func (b *Backend) CreateWindow(title string, in ui.Input) error {
	b.m = newWindow(b, title, in, b.theme)
	opts := append([]tea.ProgramOption{tea.WithAltScreen()}, b.progOpts...)
	p := tea.NewProgram(b.m, opts...)

	b.mu.Lock()
	b.prog = p
	b.mu.Unlock()
	return nil
}

func (b *Backend) AddListRow(label string)               { b.m.addRow(label) }
func (b *Backend) UpdateListRow(index int, label string) { b.m.updateRow(index, label) }
func (b *Backend) RemoveListRow(index int)               { b.m.removeRow(index) }
func (b *Backend) ShowDialog(d ui.Dialog)                { b.m.showDialog(d) }

func (b *Backend) RunLoop() error {
	b.mu.Lock()
	p, wake := b.prog, b.wake
	b.mu.Unlock()
	if p == nil {
		return ui.ErrLoopClosed
	}

	stop := make(chan struct{})
	go pump(p, wake, stop)
	// Anything queued before the program started still needs a wake-up.
	b.signal()

	_, err := p.Run()
	close(stop)

	b.mu.Lock()
	b.open = false
	b.queue = nil
	b.prog = nil
	b.mu.Unlock()

	if err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}

// pump turns mailbox wake-ups into drain messages for the program.
func pump(p *tea.Program, wake <-chan struct{}, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case <-wake:
			p.Send(drainMsg{})
		}
	}
}

func (b *Backend) Post(fn func()) error {
	b.mu.Lock()
	if !b.open {
		b.mu.Unlock()
		return ui.ErrLoopClosed
	}
	b.queue = append(b.queue, fn)
	b.mu.Unlock()
	b.signal()
	return nil
}

func (b *Backend) Quit() {
	b.mu.Lock()
	if !b.open || b.quitting {
		b.mu.Unlock()
		return
	}
	b.quitting = true
	b.mu.Unlock()
	b.signal()
}

func (b *Backend) signal() {
	b.mu.Lock()
	wake := b.wake
	b.mu.Unlock()
	if wake == nil {
		return
	}
	select {
	case wake <- struct{}{}:
	default:
	}
}

// drain runs on the loop. It reports whether the program should exit.
func (b *Backend) drain() bool {
	for {
		b.mu.Lock()
		if len(b.queue) == 0 {
			quitting := b.quitting
			b.mu.Unlock()
			return quitting
		}
		fn := b.queue[0]
		b.queue[0] = nil
		b.queue = b.queue[1:]
		b.mu.Unlock()
		fn()
	}
}

var _ ui.Backend = (*Backend)(nil)
