// Package keymap holds the keybinding table: an ordered list of
// (action, predicate) rules and the matcher that evaluates it.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/tmc/shellroute/action"
	"github.com/tmc/shellroute/input"
)

// Predicate reports whether a normalized key event triggers a rule. It must be
// pure: the same event is passed to every rule in the table.
type Predicate func(input.KeyEvent) bool

// Rule binds an action to a predicate. Help is used only for rendering the
// bound keys; it plays no part in matching.
type Rule struct {
	Action action.Action
	When   Predicate
	Help   key.Binding
}

// Table is an immutable, ordered rule list. Declaration order decides the
// order of the actions Match returns.
type Table struct {
	platform input.Platform
	rules    []Rule
}

// NewTable returns a table that resolves the primary modifier for platform.
func NewTable(platform input.Platform, rules ...Rule) *Table {
	return &Table{
		platform: platform,
		rules:    append([]Rule(nil), rules...),
	}
}

// With returns a new table with rules appended after t's rules.
func (t *Table) With(rules ...Rule) *Table {
	all := make([]Rule, 0, len(t.rules)+len(rules))
	all = append(all, t.rules...)
	all = append(all, rules...)
	return &Table{platform: t.platform, rules: all}
}

// Platform returns the platform the table normalizes events for.
func (t *Table) Platform() input.Platform { return t.platform }

// Len returns the number of rules.
func (t *Table) Len() int { return len(t.rules) }

// Rules returns a copy of the rules in declaration order.
func (t *Table) Rules() []Rule {
	return append([]Rule(nil), t.rules...)
}

// Match returns the actions of every rule whose predicate accepts ev, in
// declaration order and without de-duplication. Paste events never match.
// A nil result means the event should be treated as literal input.
func (t *Table) Match(ev input.Event) []action.Action {
	ke, ok := ev.(input.KeyEvent)
	if !ok {
		return nil
	}
	ke = input.Normalize(ke, t.platform)

	var actions []action.Action
	for _, r := range t.rules {
		if r.When != nil && r.When(ke) {
			actions = append(actions, r.Action)
		}
	}
	return actions
}

// Bindings returns the help binding of every rule that has one, skipping
// repeats of an action already listed.
func (t *Table) Bindings() []key.Binding {
	var out []key.Binding
	seen := make(map[action.Action]bool)
	for _, r := range t.rules {
		if seen[r.Action] || len(r.Help.Keys()) == 0 {
			continue
		}
		seen[r.Action] = true
		out = append(out, r.Help)
	}
	return out
}

// Key matches a key regardless of modifiers.
func Key(code input.Code) Predicate {
	return func(e input.KeyEvent) bool { return e.Code == code }
}

// Chord matches a key pressed with at least the modifiers in mod.
func Chord(mod input.Modifier, code input.Code) Predicate {
	return func(e input.KeyEvent) bool {
		return e.Code == code && e.Mod&mod == mod
	}
}

// Any matches when one of preds matches.
func Any(preds ...Predicate) Predicate {
	return func(e input.KeyEvent) bool {
		for _, p := range preds {
			if p(e) {
				return true
			}
		}
		return false
	}
}

// All matches when every pred matches.
func All(preds ...Predicate) Predicate {
	return func(e input.KeyEvent) bool {
		for _, p := range preds {
			if !p(e) {
				return false
			}
		}
		return true
	}
}
