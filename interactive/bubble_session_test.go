package interactive

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap/zaptest"

	"github.com/tmc/shellroute/input"
)

// setupTestModel returns a model whose messages are dropped; tests drive
// Update directly.
func setupTestModel(t *testing.T) *bubbleModel {
	t.Helper()
	cfg := Config{
		Platform: input.Linux,
		Stdin:    strings.NewReader(""),
		Stdout:   &bytes.Buffer{},
		Logger:   zaptest.NewLogger(t).Sugar(),
	}
	cfg.setDefaults()
	return newBubbleModel(cfg, func(tea.Msg) {})
}

func typeString(m *bubbleModel, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func isQuitCmd(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	switch msg := cmd().(type) {
	case tea.QuitMsg:
		return true
	case tea.BatchMsg:
		for _, c := range msg {
			if isQuitCmd(c) {
				return true
			}
		}
	}
	return false
}

func TestBubbleTyping(t *testing.T) {
	m := setupTestModel(t)
	typeString(m, "ls -la")
	if got := m.pane.prompt.Value(); got != "ls -la" {
		t.Errorf("Expected prompt %q, got %q", "ls -la", got)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlW})
	if got := m.pane.prompt.Value(); got != "ls " {
		t.Errorf("Expected prompt %q after delete word, got %q", "ls ", got)
	}
	st := m.pane.dispatcher.Stats()
	if st.Literal != 7 || st.Fired != 1 {
		t.Errorf("Unexpected stats: %+v", st)
	}
}

func TestBubbleSearchFocus(t *testing.T) {
	m := setupTestModel(t)
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlF})
	if !m.pane.search.IsFocused() || m.pane.prompt.Focused() {
		t.Fatalf("Expected search to own focus")
	}
	if got := m.pane.mode(); got != "search" {
		t.Errorf("Expected search mode, got %q", got)
	}
	typeString(m, "err")
	if got := m.pane.search.Query(); got != "err" {
		t.Errorf("Expected query %q, got %q", "err", got)
	}
	if got := m.pane.prompt.Value(); got != "" {
		t.Errorf("Expected prompt to stay empty, got %q", got)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.pane.search.IsFocused() || !m.pane.prompt.Focused() {
		t.Errorf("Expected esc to return focus to the prompt")
	}
}

func TestBubbleCtrlDQuitsWhenEmpty(t *testing.T) {
	m := setupTestModel(t)
	typeString(m, "x")
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlD}); isQuitCmd(cmd) {
		t.Fatalf("Expected ctrl+d with text not to quit")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlD}); !isQuitCmd(cmd) {
		t.Errorf("Expected ctrl+d on an empty prompt to quit")
	}
}

func TestBubbleDebugToggle(t *testing.T) {
	m := setupTestModel(t)
	if m.pane.debugView.Enabled() {
		t.Fatalf("Expected debug view off by default")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlO})
	if !m.pane.debugView.Enabled() {
		t.Fatalf("Expected ctrl+o to enable the debug view")
	}
	typeString(m, "a")
	if got := m.pane.debugView.Decisions(); len(got) == 0 {
		t.Errorf("Expected decisions to be recorded")
	}
}

func TestBubbleDeferredMsg(t *testing.T) {
	m := setupTestModel(t)
	ran := false
	m.Update(deferredMsg{fn: func() { ran = true }})
	if !ran {
		t.Errorf("Expected deferred continuation to run")
	}
}

func TestBubbleView(t *testing.T) {
	m := setupTestModel(t)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})
	typeString(m, "pwd")
	view := m.View()
	for _, want := range []string{"pwd", "prompt", "run command"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected view to contain %q, got:\n%s", want, view)
		}
	}
	m.quitting = true
	if got := m.View(); got != "" {
		t.Errorf("Expected empty view when quitting, got %q", got)
	}
}

func TestTeaSchedulerDrain(t *testing.T) {
	var s teaScheduler
	n := 0
	s.Defer(func() { n++ })
	s.Defer(func() { n++ })
	cmds := s.drain()
	if len(cmds) != 2 || len(s.pending) != 0 {
		t.Fatalf("Expected 2 commands and an empty queue, got %d and %d", len(cmds), len(s.pending))
	}
	for _, c := range cmds {
		c().(deferredMsg).fn()
	}
	if n != 2 {
		t.Errorf("Expected both continuations to run, got %d", n)
	}
}

func TestBubbleEnterFromSearchLeavesPromptFocused(t *testing.T) {
	m := setupTestModel(t)
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlF})
	typeString(m, "x")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.pane.search.IsFocused() || !m.pane.prompt.Focused() {
		t.Fatalf("Expected enter to leave only the prompt focused")
	}
	typeString(m, "a")
	if got := m.pane.search.Query(); got != "x" {
		t.Errorf("Expected query %q to be left alone, got %q", "x", got)
	}
	if got := m.pane.prompt.Value(); got != "a" {
		t.Errorf("Expected prompt %q, got %q", "a", got)
	}
}

func TestBubbleUpdateSizesOutput(t *testing.T) {
	m := setupTestModel(t)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	w, h := m.output.Size()
	if w != 120 {
		t.Errorf("Expected output width 120, got %d", w)
	}
	if h <= 0 || h >= 40 {
		t.Errorf("Expected output height below the window height, got %d", h)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlG})
	if _, h2 := m.output.Size(); h2 >= h {
		t.Errorf("Expected full help to shrink the output from %d, got %d", h, h2)
	}
}

func TestBubbleViewLeavesStateAlone(t *testing.T) {
	m := setupTestModel(t)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	w, h := m.output.Size()
	m.width, m.height = 10, 5
	m.View()
	if gw, gh := m.output.Size(); gw != w || gh != h {
		t.Errorf("Expected View not to resize output, got %dx%d want %dx%d", gw, gh, w, h)
	}
}
