// Package tabs tracks the window's tabs and the panes inside them.
package tabs

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"
)

var (
	activeStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("4")).Padding(0, 1)
	inactiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1)
)

// Pane is one terminal pane. ID is chosen by the host.
type Pane struct {
	ID    string
	Title string
}

// Tab holds one or more panes, one of which is focused.
type Tab struct {
	Panes   []Pane
	focused int
}

// Focused returns the focused pane.
func (t *Tab) Focused() Pane { return t.Panes[t.focused] }

// Manager is the tab and pane manager. It is not safe for concurrent use
// except for Revision.
type Manager struct {
	tabs     []*Tab
	focused  int
	revision atomic.Uint64
	// OnEmpty is called when the last pane closes.
	OnEmpty func()
}

// NewManager returns a manager with one tab holding pane.
func NewManager(pane Pane) *Manager {
	m := &Manager{}
	m.AddTab(pane)
	return m
}

// AddTab opens a tab holding pane and focuses it.
func (m *Manager) AddTab(pane Pane) {
	m.tabs = append(m.tabs, &Tab{Panes: []Pane{pane}})
	m.focused = len(m.tabs) - 1
}

// Split adds pane to the focused tab and focuses it.
func (m *Manager) Split(pane Pane) {
	t := m.current()
	if t == nil {
		m.AddTab(pane)
		return
	}
	t.Panes = append(t.Panes, pane)
	t.focused = len(t.Panes) - 1
}

// Len returns the number of tabs.
func (m *Manager) Len() int { return len(m.tabs) }

// Tabs returns the tabs in order.
func (m *Manager) Tabs() []*Tab { return m.tabs }

// FocusedIndex returns the 1-based index of the focused tab, or 0 when there
// are no tabs.
func (m *Manager) FocusedIndex() int {
	if len(m.tabs) == 0 {
		return 0
	}
	return m.focused + 1
}

// FocusedPane returns the focused pane of the focused tab.
func (m *Manager) FocusedPane() (Pane, bool) {
	t := m.current()
	if t == nil {
		return Pane{}, false
	}
	return t.Focused(), true
}

// FocusTab focuses the tab at a 1-based index. Out of range indexes are
// ignored.
func (m *Manager) FocusTab(index int) {
	if index < 1 || index > len(m.tabs) {
		return
	}
	m.focused = index - 1
}

// CloseFocusedPane closes the focused pane, and its tab when it was the
// last pane there.
func (m *Manager) CloseFocusedPane() {
	t := m.current()
	if t == nil {
		return
	}
	t.Panes = append(t.Panes[:t.focused], t.Panes[t.focused+1:]...)
	if t.focused >= len(t.Panes) {
		t.focused = len(t.Panes) - 1
	}
	if len(t.Panes) > 0 {
		return
	}
	m.tabs = append(m.tabs[:m.focused], m.tabs[m.focused+1:]...)
	if m.focused >= len(m.tabs) {
		m.focused = max(0, len(m.tabs)-1)
	}
	if len(m.tabs) == 0 && m.OnEmpty != nil {
		m.OnEmpty()
	}
}

// ForceUpdate requests a redraw by advancing the revision.
func (m *Manager) ForceUpdate() { m.revision.Add(1) }

// Revision returns a counter that changes whenever ForceUpdate is called.
func (m *Manager) Revision() uint64 { return m.revision.Load() }

func (m *Manager) current() *Tab {
	if len(m.tabs) == 0 {
		return nil
	}
	return m.tabs[m.focused]
}

// View renders the tab bar.
func (m *Manager) View() string {
	parts := make([]string, len(m.tabs))
	for i, t := range m.tabs {
		label := fmt.Sprintf("%d %s", i+1, t.Focused().Title)
		if len(t.Panes) > 1 {
			label += fmt.Sprintf(" [%d]", len(t.Panes))
		}
		style := inactiveStyle
		if i == m.focused {
			style = activeStyle
		}
		parts[i] = style.Render(strings.TrimSpace(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}
