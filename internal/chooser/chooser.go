// Package chooser implements the interactive task picker behind --choose.
package chooser

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dkoosis/taskr/internal/task"
	"github.com/dkoosis/taskr/internal/ui"
)

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "down")),
		Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run")),
		Quit:   key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "cancel")),
	}
}

// Model is the bubbletea model for the picker.
type Model struct {
	input   textinput.Model
	tasks   []task.Task
	matches []int // indexes into tasks
	cursor  int
	choice  string
	done    bool
	keys    keyMap
	theme   ui.Theme
}

// New returns a picker over tasks with an empty filter.
func New(tasks []task.Task, theme ui.Theme) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "type to filter"
	ti.Focus()

	m := Model{
		input: ti,
		tasks: tasks,
		keys:  defaultKeyMap(),
		theme: theme,
	}
	m.refilter()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.done = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Select):
			if len(m.matches) == 0 {
				return m, nil
			}
			m.choice = m.tasks[m.matches[m.cursor]].Name
			m.done = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.matches)-1 {
				m.cursor++
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.refilter()
	}
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if len(m.matches) == 0 {
		b.WriteString(m.theme.Description.Render("  no matching tasks") + "\n")
	}
	for i, idx := range m.matches {
		t := m.tasks[idx]
		marker := "  "
		name := t.Name
		if i == m.cursor {
			marker = "▸ "
			name = m.theme.TaskName.Render(name)
		}
		line := marker + name
		if t.Description != "" {
			line += "  " + m.theme.Description.Render(t.Description)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString(m.theme.Description.Render(helpLine(m.keys)))
	return b.String()
}

// Choice returns the selected task name, if any.
func (m Model) Choice() (string, bool) {
	return m.choice, m.choice != ""
}

// Matches returns the names currently shown, in order.
func (m Model) Matches() []string {
	names := make([]string, len(m.matches))
	for i, idx := range m.matches {
		names[i] = m.tasks[idx].Name
	}
	return names
}

// refilter keeps tasks whose name or description contains the filter text,
// case-insensitively, and clamps the cursor.
func (m *Model) refilter() {
	q := strings.ToLower(strings.TrimSpace(m.input.Value()))
	matches := make([]int, 0, len(m.tasks))
	for i, t := range m.tasks {
		if q == "" ||
			strings.Contains(strings.ToLower(t.Name), q) ||
			strings.Contains(strings.ToLower(t.Description), q) {
			matches = append(matches, i)
		}
	}
	m.matches = matches
	if m.cursor >= len(m.matches) {
		m.cursor = max(len(m.matches)-1, 0)
	}
}

func helpLine(k keyMap) string {
	parts := make([]string, 0, 4)
	for _, b := range []key.Binding{k.Up, k.Down, k.Select, k.Quit} {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

// Run shows the picker on out and returns the chosen task name. ok is false
// when the user cancelled.
func Run(ctx context.Context, tasks []task.Task, theme ui.Theme, in io.Reader, out io.Writer) (name string, ok bool, err error) {
	program := tea.NewProgram(New(tasks, theme),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	finalModel, err := program.Run()
	if err != nil {
		return "", false, fmt.Errorf("task picker: %w", err)
	}
	name, ok = finalModel.(Model).Choice()
	return name, ok, nil
}
