package help

import (
	"strings"
	"testing"

	"github.com/tmc/shellroute/input"
	"github.com/tmc/shellroute/ui/keymap"
)

func TestHelpFromTable(t *testing.T) {
	bindings := keymap.Default(input.Darwin).Bindings()
	m := New(bindings)
	if m.View() != "" {
		t.Error("hidden help rendered")
	}
	m.Show = true
	m.SetWidth(200)
	if got := len(m.ShortHelp()); got != shortCount {
		t.Errorf("ShortHelp has %d bindings, want %d", got, shortCount)
	}
	n := 0
	for _, col := range m.FullHelp() {
		if len(col) > 4 {
			t.Errorf("column of %d bindings", len(col))
		}
		n += len(col)
	}
	if n != len(bindings) {
		t.Errorf("FullHelp has %d bindings, want %d", n, len(bindings))
	}
	if v := m.View(); !strings.Contains(v, "run command") {
		t.Errorf("short help missing run command: %q", v)
	}
	m.Toggle()
	if v := m.View(); !strings.Contains(v, "cmd+t") {
		t.Errorf("full help missing cmd+t: %q", v)
	}
}
