// Package repl implements an interactive prompt that evaluates one boolean
// expression per line.
package repl

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lemonberrylabs/boolcalc/pkg/diag"
	"github.com/lemonberrylabs/boolcalc/pkg/expr"
)

// visibleEntries caps how much of the transcript View renders.
const visibleEntries = 50

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			MarginBottom(1)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	trueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981"))

	falseStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Italic(true)
)

// Entry is one evaluated line.
type Entry struct {
	Input  string
	Output string
	Failed bool
}

// Model is the bubbletea model of the REPL.
type Model struct {
	input    textinput.Model
	entries  []Entry
	styled   bool
	quitting bool
}

// New creates a focused REPL. When styled is false, diagnostics and results
// are rendered without color.
func New(styled bool) Model {
	ti := textinput.New()
	ti.Placeholder = "(FALSE OR TRUE) AND NOT FALSE"
	ti.Prompt = "> "
	ti.CharLimit = 0
	ti.Width = 60
	ti.Focus()

	return Model{input: ti, styled: styled}
}

// Entries returns the transcript so far.
func (m Model) Entries() []Entry {
	return m.entries
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyCtrlD:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyCtrlL:
			m.entries = nil
			return m, nil
		case tea.KeyEnter:
			line := m.input.Value()
			if strings.TrimSpace(line) != "" {
				m.entries = append(m.entries, Evaluate(line, m.styled))
			}
			m.input.Reset()
			return m, nil
		}
	case tea.WindowSizeMsg:
		if msg.Width > 4 {
			m.input.Width = msg.Width - 4
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(m.style(titleStyle, "boolcalc"))
	sb.WriteString("\n")

	start := 0
	if len(m.entries) > visibleEntries {
		start = len(m.entries) - visibleEntries
	}
	for _, e := range m.entries[start:] {
		sb.WriteString(m.style(promptStyle, "> "))
		sb.WriteString(e.Input)
		sb.WriteString("\n")
		sb.WriteString(e.Output)
		sb.WriteString("\n")
	}

	sb.WriteString(m.input.View())
	sb.WriteString("\n")
	sb.WriteString(m.style(helpStyle, "enter: evaluate  ctrl+l: clear  esc: quit"))
	return sb.String()
}

func (m Model) style(s lipgloss.Style, text string) string {
	if !m.styled {
		return text
	}
	return s.Render(text)
}

// Evaluate runs one line and formats the outcome for the transcript.
func Evaluate(line string, styled bool) Entry {
	got, err := expr.IsTruthy(line)
	if err != nil {
		// the caret line is indented the same way as the echoed input
		return Entry{Input: line, Output: diag.Render(line, err, styled), Failed: true}
	}

	out := strconv.FormatBool(got)
	if styled {
		if got {
			out = trueStyle.Render(out)
		} else {
			out = falseStyle.Render(out)
		}
	}
	return Entry{Input: line, Output: out}
}
