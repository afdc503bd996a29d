// Package statusbar renders the one-line status bar at the bottom of the
// window.
package statusbar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	barStyle       = lipgloss.NewStyle().Reverse(true)
	textStyle      = lipgloss.NewStyle().Inherit(barStyle)
	separatorStyle = textStyle.Foreground(lipgloss.Color("240"))
	modeStyle      = textStyle.Bold(true)
	runningStyle   = textStyle.Foreground(lipgloss.Color("11"))
)

// Data is what the status bar shows.
type Data struct {
	// Mode names who owns keyboard input, e.g. "prompt", "job" or "search".
	Mode string
	// Job describes the focused job, e.g. "sleep 5: in-progress".
	Job     string
	Running bool
	Tab     int
	Tabs    int
	Debug   bool
	Message string
}

// Render renders data at width.
func Render(width int, d Data) string {
	if width <= 0 {
		return ""
	}
	sep := separatorStyle.Render(" │ ")

	left := []string{modeStyle.Render(fmt.Sprintf(" %s ", d.Mode))}
	if d.Job != "" {
		style := textStyle
		if d.Running {
			style = runningStyle
		}
		left = append(left, style.Render(" "+d.Job+" "))
	}
	if d.Message != "" {
		left = append(left, textStyle.Render(" "+d.Message+" "))
	}

	var right []string
	if d.Debug {
		right = append(right, "debug")
	}
	if d.Tabs > 0 {
		right = append(right, fmt.Sprintf("tab %d/%d", d.Tab, d.Tabs))
	}

	l := strings.Join(left, sep)
	r := " " + strings.Join(right, " · ") + " "
	pad := max(0, width-lipgloss.Width(l)-lipgloss.Width(r))
	return barStyle.Width(width).Render(l + strings.Repeat(" ", pad) + r)
}
