// Package viewport shows job transcripts in a scrollable window. The window
// follows new output until the user scrolls away from the bottom.
package viewport

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
)

// Model wraps a bubbles viewport.
type Model struct {
	vp     viewport.Model
	follow bool
}

// New returns a viewport of the given size that follows output.
func New(width, height int) *Model {
	return &Model{vp: viewport.New(width, height), follow: true}
}

// SetSize resizes the window.
func (m *Model) SetSize(width, height int) {
	m.vp.Width, m.vp.Height = width, max(0, height)
	m.settle()
}

// SetLines replaces the content.
func (m *Model) SetLines(lines []string) {
	m.vp.SetContent(strings.Join(lines, "\n"))
	m.settle()
}

// Size returns the window's width and height.
func (m *Model) Size() (int, int) { return m.vp.Width, m.vp.Height }

// PageUp scrolls up one window and stops following.
func (m *Model) PageUp() {
	m.vp.ViewUp()
	m.follow = m.vp.AtBottom()
}

// PageDown scrolls down one window; reaching the bottom resumes following.
func (m *Model) PageDown() {
	m.vp.ViewDown()
	m.follow = m.vp.AtBottom()
}

// Following reports whether the window tracks the newest output.
func (m *Model) Following() bool { return m.follow }

// Offset returns the index of the first visible line.
func (m *Model) Offset() int { return m.vp.YOffset }

func (m *Model) settle() {
	if m.follow {
		m.vp.GotoBottom()
	}
}

func (m *Model) View() string {
	if m.vp.Height == 0 || m.vp.TotalLineCount() == 0 {
		return ""
	}
	return m.vp.View()
}
