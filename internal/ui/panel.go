package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Panel frames lines in a box drawn with the theme's border glyphs.
func Panel(t Theme, lines []string) string {
	maxw := 0
	for _, ln := range lines {
		if w := lipgloss.Width(ln); w > maxw {
			maxw = w
		}
	}
	var b strings.Builder
	b.WriteString(t.CornerTL + strings.Repeat(t.H, maxw+2) + t.CornerTR + "\n")
	for _, ln := range lines {
		pad := maxw - lipgloss.Width(ln)
		b.WriteString(t.V + " " + ln + strings.Repeat(" ", pad) + " " + t.V + "\n")
	}
	b.WriteString(t.CornerBL + strings.Repeat(t.H, maxw+2) + t.CornerBR)
	return b.String()
}

// Console writes status lines using the current theme.
type Console struct {
	Out, Err io.Writer
}

// Std is the console bound to stdout/stderr.
var Std = Console{Out: os.Stdout, Err: os.Stderr}

func (c Console) OK(msg string) {
	t := Current()
	fmt.Fprintln(c.Out, t.Success.Render(t.SymOK+" "+msg))
}

func (c Console) Fail(msg string) {
	t := Current()
	fmt.Fprintln(c.Err, t.Error.Render(t.SymFail+" "+msg))
}

func (c Console) Panel(lines []string) {
	fmt.Fprintln(c.Out, Panel(Current(), lines))
}
