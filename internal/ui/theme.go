package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles palette + symbols + box borders.
type Theme struct {
	Name string

	Title, Muted, Accent, Success, Error, Selected lipgloss.Style

	Bullet, SymOK, SymFail                 string
	CornerTL, CornerTR, CornerBL, CornerBR string
	H, V                                   string
}

var current = ThemeNamed("classic")

// ThemeNamed returns the named theme; unknown names fall back to classic.
func ThemeNamed(name string) Theme {
	switch strings.ToLower(name) {
	case "neon":
		return Theme{
			Name:     "neon",
			Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
			Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
			Accent:   lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
			Success:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
			Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
			Selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
			Bullet:   "◼", SymOK: "✔", SymFail: "✖",
			CornerTL: "╭", CornerTR: "╮", CornerBL: "╰", CornerBR: "╯",
			H: "─", V: "│",
		}
	case "mono":
		plain := lipgloss.NewStyle()
		return Theme{
			Name:  "mono",
			Title: plain, Muted: plain, Accent: plain, Success: plain, Error: plain,
			Selected: lipgloss.NewStyle().Reverse(true),
			Bullet:   "-", SymOK: "ok", SymFail: "error:",
			CornerTL: "+", CornerTR: "+", CornerBL: "+", CornerBR: "+",
			H: "-", V: "|",
		}
	default:
		return Theme{
			Name:     "classic",
			Title:    lipgloss.NewStyle().Bold(true),
			Muted:    lipgloss.NewStyle().Faint(true),
			Accent:   lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
			Success:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
			Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
			Selected: lipgloss.NewStyle().Bold(true).Reverse(true),
			Bullet:   "•", SymOK: "✔", SymFail: "✖",
			CornerTL: "┌", CornerTR: "┐", CornerBL: "└", CornerBR: "┘",
			H: "─", V: "│",
		}
	}
}

// SetTheme switches the process-wide console theme.
func SetTheme(name string) { current = ThemeNamed(name) }

// Current returns the active theme.
func Current() Theme { return current }
