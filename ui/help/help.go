// Package help renders the key bindings of a rule table.
package help

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

var _ help.KeyMap = Model{}

// shortCount is how many bindings the one-line help shows.
const shortCount = 5

// Model renders bindings with bubbles/help.
type Model struct {
	inner    help.Model
	bindings []key.Binding
	Show     bool
}

// New returns help for bindings, typically keymap.Table.Bindings.
func New(bindings []key.Binding) Model {
	h := help.New()
	return Model{inner: h, bindings: bindings}
}

// SetWidth sets the rendered width.
func (m *Model) SetWidth(w int) { m.inner.Width = w }

// Toggle switches between short and full help.
func (m *Model) Toggle() { m.inner.ShowAll = !m.inner.ShowAll }

// View renders the help, or nothing when hidden.
func (m Model) View() string {
	if !m.Show {
		return ""
	}
	return m.inner.View(m)
}

// ShortHelp returns the first few bindings.
func (m Model) ShortHelp() []key.Binding {
	if len(m.bindings) <= shortCount {
		return m.bindings
	}
	return m.bindings[:shortCount]
}

// FullHelp returns all bindings in columns of four.
func (m Model) FullHelp() [][]key.Binding {
	var cols [][]key.Binding
	for i := 0; i < len(m.bindings); i += 4 {
		cols = append(cols, m.bindings[i:min(i+4, len(m.bindings))])
	}
	return cols
}
