package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/drawgraph/pkg/editor"
	errs "github.com/matzehuels/drawgraph/pkg/errors"
)

// TUI styles
var (
	tuiPromptStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	tuiErrorStyle  = lipgloss.NewStyle().Foreground(colorRed)
	tuiDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
)

// editCommand creates the edit command for interactive script editing.
func (c *CLI) editCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit [document.json]",
		Short: "Edit a document interactively",
		Long: `Edit a document interactively.

Type script operations at the prompt and press enter to run them. The shape
table updates after every operation. ctrl+z and ctrl+y undo and redo, ctrl+s
saves and esc quits. The document is created when it does not exist.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := c.openDocument(args[0], true)
			if err != nil {
				return err
			}
			m := NewEditModel(cmd.Context(), ed, args[0], c)
			final, err := tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return err
			}
			if fm, ok := final.(EditModel); ok && fm.Dirty {
				printWarning("Unsaved changes to %s were discarded", args[0])
			}
			return nil
		},
	}
}

// =============================================================================
// EditModel - Interactive editing session
// =============================================================================

// EditModel is the bubbletea model for an interactive editing session.
type EditModel struct {
	ctx    context.Context
	ed     *editor.Editor
	interp *Interpreter
	path   string
	save   func() error

	Input   []rune
	Cursor  int
	Offset  int
	Height  int
	Message string
	Failed  bool
	Dirty   bool
}

// NewEditModel creates an edit model over ed. Saving writes to path.
func NewEditModel(ctx context.Context, ed *editor.Editor, path string, c *CLI) EditModel {
	return EditModel{
		ctx:    ctx,
		ed:     ed,
		interp: NewInterpreter(ed, c.Logger),
		path:   path,
		save:   func() error { return writeDocument(path, ed.Snapshot()) },
		Height: 12,
	}
}

func (m EditModel) Init() tea.Cmd {
	return nil
}

func (m EditModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyRunes:
			m.Input = append(m.Input, msg.Runes...)
		case tea.KeySpace:
			m.Input = append(m.Input, ' ')
		default:
			if cmd := m.key(msg.String()); cmd != nil {
				return m, cmd
			}
		}
		m.scroll()
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-10, 3)
		m.scroll()
	}
	return m, nil
}

// key handles control keys.
func (m *EditModel) key(k string) tea.Cmd {
	switch k {
	case "ctrl+c", "esc":
		return tea.Quit
	case "enter":
		m.run(string(m.Input))
		m.Input = m.Input[:0]
	case "backspace":
		if len(m.Input) > 0 {
			m.Input = m.Input[:len(m.Input)-1]
		}
	case "ctrl+z":
		m.run("undo")
	case "ctrl+y":
		m.run("redo")
	case "ctrl+s":
		if err := m.save(); err != nil {
			m.report(errs.UserMessage(err), true)
		} else {
			m.Dirty = false
			m.report("saved "+m.path, false)
		}
	case "up":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down":
		if m.Cursor < m.ed.Document().Len()-1 {
			m.Cursor++
		}
	}
	return nil
}

// run executes one script line and records the outcome.
func (m *EditModel) run(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	if err := m.interp.Exec(m.ctx, line); err != nil {
		m.report(errs.UserMessage(err), true)
		return
	}
	m.Dirty = true
	m.report("ok: "+line, false)
	m.Cursor = min(m.Cursor, max(m.ed.Document().Len()-1, 0))
}

func (m *EditModel) report(msg string, failed bool) {
	m.Message, m.Failed = msg, failed
}

// scroll keeps the cursor row inside the visible window.
func (m *EditModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m EditModel) View() string {
	var b strings.Builder

	title := "Editing " + m.path
	if m.Dirty {
		title += " *"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(tuiDimStyle.Render("⏎ run  ↑/↓ select  ctrl+z undo  ctrl+y redo  ctrl+s save  esc quit"))
	b.WriteString("\n\n")

	shapes := m.ed.Document().Shapes()
	if len(shapes) == 0 {
		b.WriteString(tuiDimStyle.Render("  (empty document)"))
	} else {
		end := min(m.Offset+m.Height, len(shapes))
		b.WriteString(shapeTable(shapeRows(shapes[m.Offset:end]), m.Cursor-m.Offset).Render())
		b.WriteString("\n")
		b.WriteString(tuiDimStyle.Render(fmt.Sprintf("  [%d/%d]  history: %s", m.Cursor+1, len(shapes), m.ed.History().State())))
	}
	b.WriteString("\n\n")

	b.WriteString(tuiPromptStyle.Render("> "))
	b.WriteString(string(m.Input))
	b.WriteString(tuiDimStyle.Render("█"))
	b.WriteString("\n")
	if m.Message != "" {
		if m.Failed {
			b.WriteString(tuiErrorStyle.Render(m.Message))
		} else {
			b.WriteString(StyleSuccess.Render(m.Message))
		}
		b.WriteString("\n")
	}

	return b.String()
}
