package keymap

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tmc/shellroute/action"
	"github.com/tmc/shellroute/input"
)

func TestDefaultMatch(t *testing.T) {
	tests := []struct {
		name     string
		platform input.Platform
		ev       input.Event
		want     []action.Action
	}{
		{"enter", input.Linux, input.MustParse("enter"), []action.Action{action.RunCommand}},
		{"enter with shift still runs", input.Linux, input.MustParse("shift+enter"), []action.Action{action.RunCommand}},
		{"ctrl+c binds interrupt then clear-text", input.Linux, input.MustParse("ctrl+c"),
			[]action.Action{action.Interrupt, action.ClearText}},
		{"up binds history then suggestion", input.Darwin, input.MustParse("up"),
			[]action.Action{action.HistoryPrevious, action.AutocompletePreviousSuggestion}},
		{"ctrl+n", input.Darwin, input.MustParse("ctrl+n"),
			[]action.Action{action.HistoryNext, action.AutocompleteNextSuggestion}},
		{"alt+.", input.Linux, input.MustParse("alt+."), []action.Action{action.AppendLastArgumentOfPreviousCommand}},
		{"tab", input.Linux, input.MustParse("tab"), []action.Action{action.AutocompleteInsert}},
		{"ctrl+t on linux is primary", input.Linux, input.MustParse("ctrl+t"), []action.Action{action.TabNew}},
		{"ctrl+t on darwin is not primary", input.Darwin, input.MustParse("ctrl+t"), nil},
		{"meta+t on darwin", input.Darwin, input.MustParse("meta+t"), []action.Action{action.TabNew}},
		{"unbound letter", input.Linux, input.MustParse("x"), nil},
		{"paste never matches", input.Linux, input.PasteEvent{Text: "\n"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Default(tt.platform).Match(tt.ev)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Match mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMatchDoesNotDeduplicate(t *testing.T) {
	table := NewTable(input.Linux,
		Rule{Action: action.ClearJobs, When: Key(input.Char('q'))},
		Rule{Action: action.ClearJobs, When: Key(input.Char('q'))},
		Rule{Action: action.TabNew, When: Key(input.Char('q'))},
	)
	want := []action.Action{action.ClearJobs, action.ClearJobs, action.TabNew}
	if diff := cmp.Diff(want, table.Match(input.MustParse("q"))); diff != "" {
		t.Errorf("Match mismatch (-want +got):\n%s", diff)
	}
}

func TestMatchIsPure(t *testing.T) {
	table := Default(input.Linux)
	ev := input.MustParse("ctrl+c")
	first := table.Match(ev)
	second := table.Match(ev)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Repeated Match differs (-first +second):\n%s", diff)
	}
	if ev.Primary() {
		t.Errorf("Match must not mutate the caller's event")
	}
}

func TestWithKeepsOriginal(t *testing.T) {
	base := Default(input.Linux)
	extended := base.With(Rule{Action: action.FindClose, When: Key(input.Esc)})
	if extended.Len() != base.Len()+1 {
		t.Errorf("Expected %d rules, got %d", base.Len()+1, extended.Len())
	}
	if got := base.Match(input.MustParse("esc")); got != nil {
		t.Errorf("Expected base table to stay unchanged, got %v", got)
	}
	if diff := cmp.Diff([]action.Action{action.FindClose}, extended.Match(input.MustParse("esc"))); diff != "" {
		t.Errorf("Match mismatch (-want +got):\n%s", diff)
	}
}

func TestBindingsHelp(t *testing.T) {
	bindings := Default(input.Darwin).Bindings()
	if len(bindings) != Default(input.Darwin).Len() {
		t.Fatalf("Expected one binding per default rule, got %d", len(bindings))
	}
	last := bindings[len(bindings)-1].Help()
	if last.Key != "cmd+t" || last.Desc != "new tab" {
		t.Errorf("Expected cmd+t/new tab, got %q/%q", last.Key, last.Desc)
	}
}
