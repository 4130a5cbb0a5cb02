// Package tcellui is the terminal backend drawn cell by cell with tcell.
package tcellui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/Makepad-fr/todogui/internal/model"
	"github.com/Makepad-fr/todogui/internal/ui"
)

// wakeEvent nudges PollEvent so the loop drains its mailbox.
type wakeEvent struct{}

// Backend implements ui.Backend on a tcell screen.
//
// Posted funcs go to a mailbox; the loop drains it after every event it
// polls. A wake-up interrupt is posted for each Post, and if tcell's event
// queue is full the funcs simply run after the next event instead.
type Backend struct {
	theme     ui.Theme
	newScreen func() (tcell.Screen, error)

	mu       sync.Mutex // guards queue, open, quitting, screen
	queue    []func()
	open     bool
	quitting bool
	screen   tcell.Screen

	// Loop-owned.
	title  string
	input  ui.Input
	rows   []string
	sel    int
	dialog *dialogState
}

type dialogState struct {
	d     ui.Dialog
	text  []rune
	date  []rune
	field int
	err   string
}

// Option configures a Backend.
type Option func(*Backend)

// WithTheme sets the glyphs used for bullets and borders.
func WithTheme(t ui.Theme) Option {
	return func(b *Backend) { b.theme = t }
}

// WithScreen overrides screen creation (tests pass a simulation screen).
func WithScreen(fn func() (tcell.Screen, error)) Option {
	return func(b *Backend) {
		if fn != nil {
			b.newScreen = fn
		}
	}
}

// New returns a tcell backend.
func New(opts ...Option) *Backend {
	b := &Backend{
		theme:     ui.Current(),
		newScreen: tcell.NewScreen,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Backend) Name() string      { return "tcell" }
func (b *Backend) Restartable() bool { return true }

func (b *Backend) Init() error {
	s, err := b.newScreen()
	if err != nil {
		return fmt.Errorf("%w: %v", ui.ErrUnavailable, err)
	}
	if err := s.Init(); err != nil {
		return fmt.Errorf("%w: %v", ui.ErrUnavailable, err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.screen = s
	b.queue = nil
	b.quitting = false
	b.open = true
	return nil
}

func (b *Backend) CreateWindow(title string, in ui.Input) error {
	b.title = title
	b.input = in
	b.rows = nil
	b.sel = 0
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
	if index < 0 || index >= len(b.rows) {
		return
	}
	b.rows = append(b.rows[:index], b.rows[index+1:]...)
	if b.sel >= len(b.rows) && b.sel > 0 {
		b.sel = len(b.rows) - 1
	}
}

func (b *Backend) ShowDialog(d ui.Dialog) {
	b.dialog = &dialogState{
		d:    d,
		text: []rune(d.Text),
		date: []rune(model.FormatDay(d.Date)),
	}
}

func (b *Backend) RunLoop() error {
	b.mu.Lock()
	s := b.screen
	b.mu.Unlock()
	if s == nil {
		return ui.ErrLoopClosed
	}
	defer func() {
		b.mu.Lock()
		b.open = false
		b.queue = nil
		b.screen = nil
		b.mu.Unlock()
		s.Fini()
	}()

	b.draw(s)
	for {
		if b.drain() {
			return nil
		}
		b.draw(s)

		ev := s.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return nil
		case *tcell.EventResize:
			s.Sync()
		case *tcell.EventKey:
			b.handleKey(ev)
		}
	}
}

// drain runs posted funcs in order and reports whether to exit.
func (b *Backend) drain() bool {
	for {
		b.mu.Lock()
		if len(b.queue) == 0 {
			q := b.quitting
			b.mu.Unlock()
			return q
		}
		fn := b.queue[0]
		b.queue[0] = nil
		b.queue = b.queue[1:]
		b.mu.Unlock()
		fn()
	}
}

func (b *Backend) Post(fn func()) error {
	b.mu.Lock()
	if !b.open {
		b.mu.Unlock()
		return ui.ErrLoopClosed
	}
	b.queue = append(b.queue, fn)
	s := b.screen
	b.mu.Unlock()
	_ = s.PostEvent(tcell.NewEventInterrupt(wakeEvent{})) // full queue: drained after next event
	return nil
}

func (b *Backend) Quit() {
	b.mu.Lock()
	if !b.open || b.quitting {
		b.mu.Unlock()
		return
	}
	b.quitting = true
	s := b.screen
	b.mu.Unlock()
	_ = s.PostEvent(tcell.NewEventInterrupt(wakeEvent{}))
}

func (b *Backend) handleKey(ev *tcell.EventKey) {
	if b.dialog != nil {
		b.dialogKey(ev)
		return
	}
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		b.input.RequestQuit()
		return
	case tcell.KeyUp:
		b.move(-1)
		return
	case tcell.KeyDown:
		b.move(1)
		return
	case tcell.KeyEnter:
		if len(b.rows) > 0 {
			b.input.RequestEdit(b.sel)
		}
		return
	case tcell.KeyDelete:
		if len(b.rows) > 0 {
			b.input.RequestDelete(b.sel)
		}
		return
	case tcell.KeyRune:
	default:
		return
	}
	switch ev.Rune() {
	case 'q':
		b.input.RequestQuit()
	case 'a':
		b.input.RequestAdd()
	case 'e':
		if len(b.rows) > 0 {
			b.input.RequestEdit(b.sel)
		}
	case 'd', 'x':
		if len(b.rows) > 0 {
			b.input.RequestDelete(b.sel)
		}
	case 'k':
		b.move(-1)
	case 'j':
		b.move(1)
	}
}

func (b *Backend) move(delta int) {
	b.sel += delta
	if b.sel >= len(b.rows) {
		b.sel = len(b.rows) - 1
	}
	if b.sel < 0 {
		b.sel = 0
	}
}

func (b *Backend) dialogKey(ev *tcell.EventKey) {
	ds := b.dialog
	field := &ds.text
	if ds.field == 1 {
		field = &ds.date
	}
	switch ev.Key() {
	case tcell.KeyEscape:
		b.dialog = nil
	case tcell.KeyTab, tcell.KeyBacktab:
		ds.field = 1 - ds.field
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if n := len(*field); n > 0 {
			*field = (*field)[:n-1]
		}
	case tcell.KeyEnter:
		text := strings.TrimSpace(string(ds.text))
		if text == "" && ds.d.RequireText {
			ds.err = "Text cannot be empty"
			return
		}
		date, err := model.ParseDay(strings.TrimSpace(string(ds.date)))
		if err != nil {
			ds.err = "Date must be " + model.DateLayout
			return
		}
		b.dialog = nil
		if ds.d.Submit != nil {
			ds.d.Submit(text, date)
		}
	case tcell.KeyRune:
		*field = append(*field, ev.Rune())
	}
}

var (
	styleBase     = tcell.StyleDefault
	styleTitle    = tcell.StyleDefault.Bold(true)
	styleMuted    = tcell.StyleDefault.Dim(true)
	styleSelected = tcell.StyleDefault.Reverse(true).Bold(true)
	styleError    = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
)

func (b *Backend) draw(s tcell.Screen) {
	s.Clear()
	w, h := s.Size()
	t := b.theme

	puts(s, 1, 0, styleTitle, fmt.Sprintf("%s (%d)", b.title, len(b.rows)))

	listBottom := h - 2
	if b.dialog != nil {
		listBottom = h - 7
	}
	for i, label := range b.rows {
		y := 2 + i
		if y >= listBottom {
			break
		}
		style := styleBase
		prefix := "  "
		if i == b.sel {
			style = styleSelected
			prefix = "> "
		}
		puts(s, 1, y, style, prefix+t.Bullet+" "+label)
	}

	if b.dialog != nil {
		b.drawDialog(s, w, h-7)
	}
	puts(s, 1, h-1, styleMuted, "a add • e edit • d delete • ↑/↓ move • q quit")
	s.Show()
}

func (b *Backend) drawDialog(s tcell.Screen, w, top int) {
	t := b.theme
	ds := b.dialog
	inner := w - 4
	if inner < 10 {
		inner = 10
	}
	puts(s, 1, top, styleBase, t.CornerTL+strings.Repeat(t.H, inner)+t.CornerTR)
	head := ds.d.Title
	lines := []struct {
		text  string
		style tcell.Style
	}{
		{head, styleTitle},
		{fieldLabel("text", ds.text, ds.field == 0), styleBase},
		{fieldLabel("date", ds.date, ds.field == 1), styleBase},
		{ds.err, styleError},
	}
	for i, ln := range lines {
		y := top + 1 + i
		puts(s, 1, y, styleBase, t.V)
		puts(s, 3, y, ln.style, ln.text)
		puts(s, inner+2, y, styleBase, t.V)
	}
	puts(s, 1, top+5, styleBase, t.CornerBL+strings.Repeat(t.H, inner)+t.CornerBR)
}

func fieldLabel(name string, value []rune, focused bool) string {
	cursor := ""
	if focused {
		cursor = "_"
	}
	return name + "> " + string(value) + cursor
}

// puts writes str starting at (x, y), honoring wide runes.
func puts(s tcell.Screen, x, y int, style tcell.Style, str string) {
	for _, r := range str {
		s.SetContent(x, y, r, nil, style)
		if rw := runewidth.RuneWidth(r); rw > 1 {
			x += rw
		} else {
			x++
		}
	}
}

var _ ui.Backend = (*Backend)(nil)
