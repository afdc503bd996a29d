package debug

import (
	"strings"
	"testing"

	"github.com/tmc/shellroute/dispatch"
	"github.com/tmc/shellroute/input"
)

func TestViewFollowsState(t *testing.T) {
	state := &State{}
	v := NewView(state)
	v.Observe(dispatch.Decision{Event: input.MustParse("x"), Literal: true, Route: dispatch.RoutePrompt})
	if v.View() != "" {
		t.Error("disabled view rendered")
	}
	if !state.Toggle() {
		t.Fatal("Toggle did not enable")
	}
	out := v.View()
	if !strings.Contains(out, "literal->prompt") {
		t.Errorf("view missing decision:\n%s", out)
	}
	v.SetWidth(30)
	if v.View() != "" {
		t.Error("rendered below minimum width")
	}
}

func TestDecisionsCapped(t *testing.T) {
	v := NewView(&State{Enabled: true})
	for i := 0; i < 10; i++ {
		v.Observe(dispatch.Decision{Event: input.MustParse("a")})
	}
	got := v.Decisions()
	if len(got) != 6 {
		t.Fatalf("kept %d decisions, want 6", len(got))
	}
	if !strings.HasPrefix(got[0], "0005 ") || !strings.HasPrefix(got[5], "0010 ") {
		t.Errorf("unexpected window: %q", got)
	}
}
