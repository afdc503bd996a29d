package keymap

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/tmc/shellroute/action"
	"github.com/tmc/shellroute/input"
)

const sampleBindings = `
bindings:
  - action: tab-focus
    keys: [alt+1, alt+2, alt+3]
  - action: find-close
    keys: [esc]
    help: close search
  - action: tab-close
    when: primary && code == "w"
`

func TestLoad(t *testing.T) {
	rules, err := Load(strings.NewReader(sampleBindings))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	table := NewTable(input.Linux, rules...)

	tests := []struct {
		chord string
		want  []action.Action
	}{
		{"alt+2", []action.Action{action.TabFocus}},
		{"alt+4", nil},
		{"2", nil},
		{"esc", []action.Action{action.FindClose}},
		{"ctrl+w", []action.Action{action.TabClose}},
		{"alt+w", nil},
	}
	for _, tt := range tests {
		t.Run(tt.chord, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, table.Match(input.MustParse(tt.chord))); diff != "" {
				t.Errorf("Match mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if got := rules[1].Help.Help().Desc; got != "close search" {
		t.Errorf("Expected help 'close search', got %q", got)
	}
	if got := rules[0].Help.Help().Key; got != "alt+1/alt+2/alt+3" {
		t.Errorf("Expected joined key label, got %q", got)
	}
}

func TestLoadKeysAndWhenCombine(t *testing.T) {
	rules, err := Load(strings.NewReader(`
bindings:
  - action: tab-focus
    keys: [alt+1, alt+2]
    when: char == "2"
`))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	table := NewTable(input.Linux, rules...)
	if got := table.Match(input.MustParse("alt+1")); got != nil {
		t.Errorf("Expected alt+1 to be rejected by when, got %v", got)
	}
	if got := table.Match(input.MustParse("alt+2")); len(got) != 1 {
		t.Errorf("Expected alt+2 to match, got %v", got)
	}
}

func TestLoadWhenRuntimeErrorLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	rules, err := Load(strings.NewReader(`
bindings:
  - action: tab-focus
    when: alt && int(char) > 0
`), WithLogger(zap.New(core).Sugar()))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	table := NewTable(input.Linux, rules...)
	for i := 0; i < 2; i++ {
		if got := table.Match(input.MustParse("alt+a")); got != nil {
			t.Errorf("Expected alt+a not to match, got %v", got)
		}
	}
	if got := logs.FilterMessage("when expression failed").Len(); got != 1 {
		t.Errorf("Expected one warning for a failing when, got %d", got)
	}
	if got := table.Match(input.MustParse("alt+5")); len(got) != 1 {
		t.Errorf("Expected alt+5 to match, got %v", got)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		is   error
	}{
		{"unknown action", "bindings:\n  - action: cliRunCommand\n    keys: [enter]\n", action.ErrUnknownAction},
		{"bad chord", "bindings:\n  - action: tab-new\n    keys: [hyper+t]\n", input.ErrBadChord},
		{"no keys or when", "bindings:\n  - action: tab-new\n", nil},
		{"bad expression", "bindings:\n  - action: tab-new\n    when: ctrl &&\n", nil},
		{"non-bool expression", "bindings:\n  - action: tab-new\n    when: code\n", nil},
		{"unknown field", "bindings:\n  - action: tab-new\n    chord: ctrl+t\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.doc))
			if err == nil {
				t.Fatalf("Expected an error")
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("Expected %v, got %v", tt.is, err)
			}
		})
	}
}

func TestLoadEmpty(t *testing.T) {
	rules, err := Load(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(rules) != 0 {
		t.Errorf("Expected no rules, got %d", len(rules))
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.yaml")
	if err := os.WriteFile(path, []byte(sampleBindings), 0o600); err != nil {
		t.Fatal(err)
	}
	rules, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if len(rules) != 3 {
		t.Errorf("Expected 3 rules, got %d", len(rules))
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected ErrNotExist, got %v", err)
	}
}
