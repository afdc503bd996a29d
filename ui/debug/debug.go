// Package debug holds the developer debug state and the view that shows
// recent dispatch decisions.
package debug

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tmc/shellroute/dispatch"
)

// State is the developer debug state. It is owned by the host; the
// dispatcher never reads it.
type State struct {
	Enabled bool
}

// Toggle flips Enabled and returns the new value.
func (s *State) Toggle() bool {
	s.Enabled = !s.Enabled
	return s.Enabled
}

// View shows the most recent dispatch decisions, log lines and counters.
type View struct {
	state       *State
	decisions   []string
	logs        []string
	counter     int
	maxEvents   int
	maxLogs     int
	stats       dispatch.Stats
	width       int
	columnWidth int
}

// NewView returns a view that renders while state is enabled.
func NewView(state *State) *View {
	return &View{
		state:       state,
		maxEvents:   6,
		maxLogs:     10,
		width:       80,
		columnWidth: 36,
	}
}

// Enabled reports whether the view is rendering.
func (v *View) Enabled() bool { return v.state != nil && v.state.Enabled }

// Observe records a dispatch decision. It can be installed directly with
// dispatch.WithObserver.
func (v *View) Observe(d dispatch.Decision) {
	v.counter++
	v.decisions = appendCapped(v.decisions, fmt.Sprintf("%04d %s", v.counter, d), v.maxEvents)
}

// SetStats records the latest dispatch counters.
func (v *View) SetStats(s dispatch.Stats) { v.stats = s }

// Log adds a log line.
func (v *View) Log(format string, args ...any) {
	line := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	v.logs = appendCapped(v.logs, line, v.maxLogs)
}

// Decisions returns the recorded decisions, oldest first.
func (v *View) Decisions() []string { return append([]string(nil), v.decisions...) }

// SetWidth sets the rendered width.
func (v *View) SetWidth(width int) {
	if width <= 0 {
		return
	}
	v.width = width
	v.columnWidth = max(20, width/2-4)
}

func appendCapped(s []string, item string, n int) []string {
	s = append(s, item)
	if len(s) > n {
		s = s[len(s)-n:]
	}
	return s
}

func (v *View) truncate(line string) string {
	if v.columnWidth > 3 && lipgloss.Width(line) > v.columnWidth {
		rs := []rune(line)
		if len(rs) > v.columnWidth-3 {
			return string(rs[:v.columnWidth-3]) + "..."
		}
	}
	return line
}

// View renders the panel, or nothing when disabled or too narrow.
func (v *View) View() string {
	if !v.Enabled() || v.width < 40 {
		return ""
	}
	box := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Width(v.columnWidth).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("238")).
		Padding(0, 1)

	s := v.stats
	lines := []string{
		"Dispatch:",
		fmt.Sprintf("events %d  consumed %d  pass %d", s.Events, s.Consumed, s.PassThrough),
		fmt.Sprintf("fired %d  skipped %d  unknown %d", s.Fired, s.Skipped, s.Unknown),
	}
	lines = append(lines, v.decisions...)
	left := box.Render(strings.Join(lines, "\n"))
	if len(v.logs) == 0 {
		return left
	}
	logs := make([]string, len(v.logs))
	for i, l := range v.logs {
		logs[i] = v.truncate(l)
	}
	right := box.Render("Logs:\n" + strings.Join(logs, "\n"))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
}
