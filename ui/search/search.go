// Package search implements the find overlay: a query field and the lines of
// job output that match it.
package search

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var matchStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("11"))

// Model is the find overlay.
type Model struct {
	input    textinput.Model
	selected int // index into the last Matches result, -1 for none
}

// New returns a hidden, unfocused overlay.
func New() *Model {
	ti := textinput.New()
	ti.Prompt = "find: "
	ti.Placeholder = "search output"
	return &Model{input: ti, selected: -1}
}

// Focus shows the overlay and gives it keyboard focus.
func (m *Model) Focus() tea.Cmd { return m.input.Focus() }

// Blur removes keyboard focus.
func (m *Model) Blur() { m.input.Blur() }

// IsFocused reports whether the overlay has keyboard focus.
func (m *Model) IsFocused() bool { return m.input.Focused() }

// Query returns the search text.
func (m *Model) Query() string { return m.input.Value() }

// SetQuery replaces the search text.
func (m *Model) SetQuery(q string) {
	m.input.SetValue(q)
	m.input.CursorEnd()
	m.selected = -1
}

// Select marks the i'th match as the current selection.
func (m *Model) Select(i int) { m.selected = i }

// Selection returns the current selection, or -1.
func (m *Model) Selection() int { return m.selected }

// ClearSelection drops the selection and the query, and closes the overlay.
func (m *Model) ClearSelection() {
	m.selected = -1
	m.input.Reset()
	m.input.Blur()
}

// Matches returns the indexes of lines containing the query, ignoring case.
func (m *Model) Matches(lines []string) []int {
	q := strings.ToLower(m.Query())
	if q == "" {
		return nil
	}
	var out []int
	for i, l := range lines {
		if strings.Contains(strings.ToLower(l), q) {
			out = append(out, i)
		}
	}
	return out
}

// Highlight renders line with occurrences of the query marked.
func (m *Model) Highlight(line string) string {
	q := m.Query()
	if q == "" {
		return line
	}
	lower, lq := strings.ToLower(line), strings.ToLower(q)
	var b strings.Builder
	for {
		i := strings.Index(lower, lq)
		if i < 0 {
			b.WriteString(line)
			return b.String()
		}
		b.WriteString(line[:i])
		b.WriteString(matchStyle.Render(line[i : i+len(q)]))
		line, lower = line[i+len(q):], lower[i+len(q):]
	}
}

// Update passes a message to the query field while the overlay is focused.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	if !m.IsFocused() {
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.selected = -1
	return cmd
}

// View renders the query field while focused.
func (m *Model) View() string {
	if !m.IsFocused() {
		return ""
	}
	return m.input.View()
}
