package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/todogui/internal/addon"
	"github.com/Makepad-fr/todogui/internal/bridge"
	"github.com/Makepad-fr/todogui/internal/config"
	"github.com/Makepad-fr/todogui/internal/host"
	"github.com/Makepad-fr/todogui/internal/logging"
	"github.com/Makepad-fr/todogui/internal/model"
	"github.com/Makepad-fr/todogui/internal/ui"
	"github.com/Makepad-fr/todogui/internal/ui/headless"
	"github.com/Makepad-fr/todogui/internal/ui/tcellui"
	"github.com/Makepad-fr/todogui/internal/ui/teaui"
	"github.com/Makepad-fr/todogui/internal/wire"
)

// Options carry root flags.
type Options struct {
	ConfigPath string // TOML file; missing means defaults
	Backend    string // overrides the config's backend
	Theme      string // overrides the config's theme

	// Console receives status output. Zero value means ui.Std.
	Console ui.Console
}

func (o Options) console() ui.Console {
	if o.Console.Out == nil || o.Console.Err == nil {
		return ui.Std
	}
	return o.Console
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	con := opt.console()
	if len(args) == 0 {
		PrintHelp(con.Out)
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(con.Out)
		return 0

	case "hello":
		if len(a) == 0 {
			con.Fail("usage: todo hello <text...>")
			return 2
		}
		fmt.Fprintln(con.Out, addon.New(headless.New(), logging.Discard()).HelloWorld(strings.Join(a, " ")))
		return 0

	case "gui":
		if len(a) != 0 {
			con.Fail("usage: todo gui")
			return 2
		}
		return doGUI(opt, con)
	}

	con.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(con.Err)
	PrintHelp(con.Err)
	return 2
}

func PrintHelp(w io.Writer) {
	fmt.Fprintf(w, `todo - a todo list window that reports every change

Usage:
  todo [flags] <subcommand> [args]

Flags:
  -config <file>     TOML settings (default: none)
  -backend <name>    tea, tcell or headless
  -theme <name>      classic, neon or mono

Subcommands:
  hello <text...>    Print a greeting
  gui                Open the todo window and print each change

Keys (tea, tcell):
  a add   e/enter edit   d delete   q quit

Examples:
  todo hello world
  todo -backend tcell gui
  todo -config todogui.toml gui
`)
}

// -------------- subcommand impls ----------------

func doGUI(opt Options, con ui.Console) int {
	cfg, err := config.Load(opt.ConfigPath)
	if err != nil {
		con.Fail(err.Error())
		return 1
	}
	if err := cfg.Override(opt.Backend, opt.Theme); err != nil {
		con.Fail(err.Error())
		return 2
	}
	ui.SetTheme(cfg.Theme)

	delivery, err := host.ParseDelivery(cfg.Delivery)
	if err != nil {
		con.Fail(err.Error())
		return 2
	}

	// A terminal window owns the screen until it closes; hold console and
	// log output until then.
	view, release := holdConsole(con, cfg.Backend != config.BackendHeadless)
	defer release()
	logger := logging.FromConfig(cfg.Log.Level, cfg.Log.Format, view.Err)

	backend := newBackend(cfg.Backend)
	a := addon.New(backend, logger,
		host.WithTitle(cfg.Title),
		host.WithDelivery(delivery),
		host.WithValidation(cfg.ValidatePayloads),
	)
	defer a.Close()

	seen := make(chan struct{}, 64)
	for _, k := range model.Kinds {
		k := k
		if err := a.On(k.String(), func(payload string) {
			view.OK(describe(k, payload, logger))
			select {
			case seen <- struct{}{}:
			default:
			}
		}); err != nil {
			view.Fail(err.Error())
			return 1
		}
	}

	if err := a.StartGUI(); err != nil {
		view.Fail(err.Error())
		return 1
	}

	if hb, ok := backend.(*headless.Backend); ok {
		err = script(hb, seen)
	} else {
		a.Wait()
	}
	a.Close()
	release()
	if err != nil {
		con.Fail(err.Error())
		return 1
	}
	con.Panel(statsLines(a.Host().Stats()))
	return 0
}

func statsLines(st bridge.Stats) []string {
	t := ui.Current()
	return []string{
		t.Accent.Render("Notifications"),
		fmt.Sprintf("published %d", st.Published),
		fmt.Sprintf("delivered %d", st.Delivered),
		fmt.Sprintf("dropped %d", st.Dropped),
	}
}

func newBackend(name string) ui.Backend {
	switch name {
	case config.BackendTcell:
		return tcellui.New(tcellui.WithTheme(ui.Current()))
	case config.BackendHeadless:
		return headless.New()
	default:
		return teaui.New(teaui.WithTheme(ui.Current()))
	}
}

// describe renders one notification for the console.
func describe(k model.Kind, payload string, logger *log.Logger) string {
	n, err := wire.Decode(k, []byte(payload))
	if err != nil {
		logger.Warn("undecodable notification", "kind", k, "payload", payload, "err", err)
		return fmt.Sprintf("%s %s", k, payload)
	}
	if k == model.Deleted {
		return fmt.Sprintf("%-7s %s", k, n.ID)
	}
	return fmt.Sprintf("%-7s %s %q %s", k, n.ID, n.Text, model.FormatDay(n.Date))
}

var errScript = errors.New("headless script")

// script drives the headless window through one add, edit and delete and
// waits for the three notifications.
func script(b *headless.Backend, seen <-chan struct{}) error {
	steps := []struct {
		name string
		open func() error
		text string
	}{
		{"add", b.Add, "Buy milk"},
		{"edit", func() error { return b.Edit(0) }, "Buy oat milk"},
	}
	date := model.DayMillis(time.Now())
	for _, s := range steps {
		if err := s.open(); err != nil {
			return fmt.Errorf("%w: %s: %v", errScript, s.name, err)
		}
		if ok, err := b.Submit(s.text, date); err != nil || !ok {
			return fmt.Errorf("%w: %s: submit failed (%v)", errScript, s.name, err)
		}
	}
	if err := b.Delete(0); err != nil {
		return fmt.Errorf("%w: delete: %v", errScript, err)
	}
	for i := 0; i < 3; i++ {
		select {
		case <-seen:
		case <-time.After(5 * time.Second):
			return fmt.Errorf("%w: got %d of 3 notifications", errScript, i)
		}
	}
	return nil
}
