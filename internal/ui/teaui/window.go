package teaui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/todogui/internal/model"
	"github.com/Makepad-fr/todogui/internal/ui"
)

// drainMsg tells the loop to run everything posted to the mailbox.
type drainMsg struct{}

// row adapts a label to bubbles/list.Item.
type row struct{ label string }

func (r row) Title() string       { return r.label }
func (r row) Description() string { return "" }
func (r row) FilterValue() string { return r.label }

// rowDelegate renders one row per line.
type rowDelegate struct{ theme ui.Theme }

func (d rowDelegate) Height() int                               { return 1 }
func (d rowDelegate) Spacing() int                              { return 0 }
func (d rowDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d rowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	r, _ := item.(row)
	prefix := "  "
	line := d.theme.Muted.Render(d.theme.Bullet) + " " + r.label
	if index == m.Index() {
		prefix = d.theme.Selected.Render("> ")
	}
	fmt.Fprint(w, prefix+line)
}

const (
	fieldText = iota
	fieldDate
)

type window struct {
	b     *Backend
	in    ui.Input
	theme ui.Theme
	title string

	list          list.Model
	width, height int
	pending       []tea.Cmd

	// Open dialog, nil when browsing.
	dialog    *ui.Dialog
	textIn    textinput.Model
	dateIn    textinput.Model
	field     int
	dialogErr string
}

var (
	addKey    = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	editKey   = key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit"))
	deleteKey = key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "delete"))
	quitKey   = key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit"))
)

func newWindow(b *Backend, title string, in ui.Input, theme ui.Theme) *window {
	l := list.New(nil, rowDelegate{theme: theme}, 0, 0)
	l.Title = title
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	// Row positions must match store positions, so no filtered views.
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	l.Styles.Title = theme.Title
	l.Styles.HelpStyle = theme.Muted
	l.Styles.PaginationStyle = theme.Muted
	l.SetStatusBarItemName("todo", "todos")
	extra := func() []key.Binding { return []key.Binding{addKey, editKey, deleteKey, quitKey} }
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	textIn := textinput.New()
	textIn.Prompt = "> "
	textIn.Placeholder = "Enter todo item..."
	textIn.CharLimit = 200

	dateIn := textinput.New()
	dateIn.Prompt = "date> "
	dateIn.Placeholder = model.DateLayout
	dateIn.CharLimit = len(model.DateLayout)

	return &window{
		b:      b,
		in:     in,
		theme:  theme,
		title:  title,
		list:   l,
		textIn: textIn,
		dateIn: dateIn,
		width:  80,
		height: 24,
	}
}

func (m *window) addRow(label string) {
	m.queue(m.list.InsertItem(len(m.list.Items()), row{label}))
}

func (m *window) updateRow(index int, label string) {
	if index >= 0 && index < len(m.list.Items()) {
		m.queue(m.list.SetItem(index, row{label}))
	}
}

func (m *window) removeRow(index int) {
	if index >= 0 && index < len(m.list.Items()) {
		m.list.RemoveItem(index)
	}
}

func (m *window) showDialog(d ui.Dialog) {
	m.dialog = &d
	m.dialogErr = ""
	m.field = fieldText
	m.textIn.SetValue(d.Text)
	m.textIn.CursorEnd()
	m.dateIn.SetValue(model.FormatDay(d.Date))
	m.dateIn.Blur()
	m.queue(m.textIn.Focus())
}

func (m *window) closeDialog() {
	m.dialog = nil
	m.dialogErr = ""
	m.textIn.SetValue("")
	m.textIn.Blur()
	m.dateIn.Blur()
}

func (m *window) queue(cmd tea.Cmd) {
	if cmd != nil {
		m.pending = append(m.pending, cmd)
	}
}

// flush returns the commands collected while handling a message.
func (m *window) flush(extra tea.Cmd) tea.Cmd {
	m.queue(extra)
	cmds := m.pending
	m.pending = nil
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func (m *window) Init() tea.Cmd { return nil }

func (m *window) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case drainMsg:
		if m.b.drain() {
			return m, tea.Quit
		}
		return m, m.flush(nil)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, m.flush(nil)
	case tea.KeyMsg:
		if m.dialog != nil {
			return m, m.flush(m.updateDialog(msg))
		}
		switch {
		case key.Matches(msg, quitKey):
			m.in.RequestQuit()
			return m, m.flush(nil)
		case key.Matches(msg, addKey):
			m.in.RequestAdd()
			return m, m.flush(nil)
		case key.Matches(msg, editKey):
			if len(m.list.Items()) > 0 {
				m.in.RequestEdit(m.list.Index())
			}
			return m, m.flush(nil)
		case key.Matches(msg, deleteKey):
			if len(m.list.Items()) > 0 {
				m.in.RequestDelete(m.list.Index())
			}
			return m, m.flush(nil)
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, m.flush(cmd)
}

func (m *window) updateDialog(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.closeDialog()
		return nil
	case "tab", "shift+tab":
		if m.field == fieldText {
			m.field = fieldDate
			m.textIn.Blur()
			return m.dateIn.Focus()
		}
		m.field = fieldText
		m.dateIn.Blur()
		return m.textIn.Focus()
	case "enter":
		text := strings.TrimSpace(m.textIn.Value())
		if text == "" && m.dialog.RequireText {
			m.dialogErr = "Text cannot be empty"
			return nil
		}
		date, err := model.ParseDay(strings.TrimSpace(m.dateIn.Value()))
		if err != nil {
			m.dialogErr = "Date must be " + model.DateLayout
			return nil
		}
		d := *m.dialog
		m.closeDialog()
		if d.Submit != nil {
			d.Submit(text, date)
		}
		return nil
	}

	var cmd tea.Cmd
	if m.field == fieldText {
		m.textIn, cmd = m.textIn.Update(msg)
	} else {
		m.dateIn, cmd = m.dateIn.Update(msg)
	}
	return cmd
}

func (m *window) View() string {
	listHeight := m.height - 4
	if m.dialog != nil {
		listHeight = m.height - 9
	}
	if listHeight < 3 {
		listHeight = 3
	}
	m.list.SetSize(m.width-4, listHeight)

	content := m.list.View()
	if m.dialog != nil {
		box := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
		head := m.theme.Title.Render(m.dialog.Title)
		if m.dialogErr != "" {
			head += " · " + m.theme.Error.Render(m.dialogErr)
		}
		hint := m.theme.Muted.Render("tab switch field • enter save • esc cancel")
		content += "\n" + box.Render(head+"\n"+m.textIn.View()+"\n"+m.dateIn.View()+"\n"+hint)
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1).
		Render(content)
}
