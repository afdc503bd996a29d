package prompt

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tmc/shellroute/dispatch"
	"github.com/tmc/shellroute/input"
	"github.com/tmc/shellroute/ui/completion"
	"github.com/tmc/shellroute/ui/history"
)

var _ dispatch.Prompt = (*Model)(nil)

func typeKeys(m *Model, chords ...string) {
	for _, c := range chords {
		m.SetPreviousKeyCode(input.MustParse(c))
	}
}

func TestLiteralInput(t *testing.T) {
	m := New()
	typeKeys(m, "l", "s", "space", "-", "l", "left", "left", "backspace", "end", "a")
	if got, want := m.Value(), "ls-la"; got != want {
		t.Errorf("Value = %q, want %q", got, want)
	}
	if got := m.LastKey().String(); got != "a" {
		t.Errorf("LastKey = %q, want a", got)
	}

	// Modified keys and keys arriving while unfocused are only recorded.
	typeKeys(m, "ctrl+x", "alt+b")
	m.Blur()
	typeKeys(m, "z")
	if got, want := m.Value(), "ls-la"; got != want {
		t.Errorf("Value = %q, want %q", got, want)
	}
	if got := m.LastKey().String(); got != "z" {
		t.Errorf("LastKey = %q, want z", got)
	}
}

func TestShiftedRune(t *testing.T) {
	m := New()
	m.SetPreviousKeyCode(input.KeyEvent{Code: input.Char('A'), Rune: 'A', Mod: input.ModShift})
	if got := m.Value(); got != "A" {
		t.Errorf("Value = %q, want A", got)
	}
}

func TestDeleteWord(t *testing.T) {
	tests := []struct {
		value  string
		cursor int
		want   string
	}{
		{"git commit -m", 13, "git commit "},
		{"git commit   ", 13, "git "},
		{"git commit", 3, " commit"},
		{"", 0, ""},
		{"single", 6, ""},
	}
	for _, tt := range tests {
		m := New()
		m.SetValue(tt.value)
		m.input.SetCursor(tt.cursor)
		m.DeleteWord()
		if got := m.Value(); got != tt.want {
			t.Errorf("DeleteWord(%q@%d) = %q, want %q", tt.value, tt.cursor, got, tt.want)
		}
	}
}

func TestExecute(t *testing.T) {
	var ran []string
	m := New(WithOnExecute(func(s string) { ran = append(ran, s) }))
	m.SetValue("make test")
	m.Execute("make test")
	m.Execute("   ")
	m.Execute("ls")
	if diff := cmp.Diff([]string{"make test", "ls"}, ran); diff != "" {
		t.Errorf("executed mismatch (-want +got):\n%s", diff)
	}
	if m.Value() != "" {
		t.Errorf("Value after Execute = %q, want empty", m.Value())
	}
	if diff := cmp.Diff([]string{"make test", "ls"}, m.History().Entries()); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}
}

func TestHistoryNavigation(t *testing.T) {
	m := New(WithHistory(history.NewNavigator([]string{"echo one", "echo two"})))
	m.SetValue("dra")
	m.SetPreviousHistoryItem()
	if got := m.Value(); got != "echo two" {
		t.Errorf("after previous = %q", got)
	}
	m.SetPreviousHistoryItem()
	m.SetPreviousHistoryItem()
	if got := m.Value(); got != "echo one" {
		t.Errorf("after previous at oldest = %q", got)
	}
	m.SetNextHistoryItem()
	m.SetNextHistoryItem()
	if got := m.Value(); got != "dra" {
		t.Errorf("after returning past newest = %q, want draft", got)
	}
}

func TestAppendLastArgument(t *testing.T) {
	m := New(WithHistory(history.NewNavigator([]string{"cp a.txt /tmp/dest"})))
	m.AppendLastArgumentOfPreviousCommand()
	if got := m.Value(); got != "/tmp/dest" {
		t.Errorf("Value = %q", got)
	}
	m.SetValue("ls")
	m.AppendLastArgumentOfPreviousCommand()
	if got := m.Value(); got != "ls /tmp/dest" {
		t.Errorf("Value = %q", got)
	}

	empty := New()
	empty.AppendLastArgumentOfPreviousCommand()
	if empty.Value() != "" {
		t.Errorf("Value with no history = %q", empty.Value())
	}
}

func TestAutocomplete(t *testing.T) {
	words := completion.Words(func() []string { return []string{"status", "stash", "switch"} })
	m := New(WithCompletion(completion.New(words)))
	typeKeys(m, "g", "i", "t", "space", "s", "t")
	if !m.IsAutocompleteShown() {
		t.Fatal("suggestions not shown")
	}
	m.FocusNextSuggestion()
	m.FocusNextSuggestion()
	m.FocusPreviousSuggestion()
	m.ApplySuggestion()
	if got, want := m.Value(), "git status"; got != want {
		t.Errorf("Value = %q, want %q", got, want)
	}
	if m.IsAutocompleteShown() {
		t.Error("suggestions still shown after apply")
	}

	typeKeys(m, "space", "s", "w")
	if !m.IsAutocompleteShown() {
		t.Fatal("suggestions not shown for sw")
	}
	typeKeys(m, "esc")
	if m.IsAutocompleteShown() {
		t.Error("esc did not hide suggestions")
	}
	m.Clear()
	if m.Value() != "" || m.IsAutocompleteShown() {
		t.Error("Clear left state behind")
	}
}
