package keymap

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/tmc/shellroute/action"
	"github.com/tmc/shellroute/input"
)

// primaryLabel is how the primary modifier is spelled in help text.
func primaryLabel(p input.Platform) string {
	if p == input.Darwin {
		return "cmd"
	}
	return "ctrl"
}

// Default returns the enabled rule set for platform. Ctrl+C is bound twice on
// purpose: interrupt comes first so a running job is interrupted before
// clear-text would be considered.
func Default(platform input.Platform) *Table {
	var (
		ctrl    = input.ModCtrl
		alt     = input.ModAlt
		primary = input.ModPrimary
		char    = input.Char
	)
	upOrCtrlP := Any(Chord(ctrl, char('p')), Key(input.Up))
	downOrCtrlN := Any(Chord(ctrl, char('n')), Key(input.Down))
	newTab := primaryLabel(platform) + "+t"

	return NewTable(platform,
		// Command line
		Rule{action.RunCommand, Key(input.Enter),
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run command"))},
		Rule{action.Interrupt, Chord(ctrl, char('c')),
			key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "interrupt job"))},
		Rule{action.ClearJobs, Chord(ctrl, char('l')),
			key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear jobs"))},
		Rule{action.DeleteWord, Chord(ctrl, char('w')),
			key.NewBinding(key.WithKeys("ctrl+w"), key.WithHelp("ctrl+w", "delete word"))},
		Rule{action.ClearText, Chord(ctrl, char('c')),
			key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "clear prompt"))},
		Rule{action.AppendLastArgumentOfPreviousCommand, Chord(alt, char('.')),
			key.NewBinding(key.WithKeys("alt+."), key.WithHelp("alt+.", "last argument"))},
		Rule{action.HistoryPrevious, upOrCtrlP,
			key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑/ctrl+p", "previous command"))},
		Rule{action.HistoryNext, downOrCtrlN,
			key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓/ctrl+n", "next command"))},

		// Autocomplete
		Rule{action.AutocompleteInsert, Key(input.Tab),
			key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "complete"))},
		Rule{action.AutocompletePreviousSuggestion, upOrCtrlP,
			key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑/ctrl+p", "previous suggestion"))},
		Rule{action.AutocompleteNextSuggestion, downOrCtrlN,
			key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓/ctrl+n", "next suggestion"))},

		// Tabs
		Rule{action.TabNew, Chord(primary, char('t')),
			key.NewBinding(key.WithKeys(newTab), key.WithHelp(newTab, "new tab"))},
	)
}
