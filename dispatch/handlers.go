package dispatch

import (
	"strconv"

	"github.com/tmc/shellroute/action"
	"github.com/tmc/shellroute/input"
)

// call is what an effect gets to work with.
type call struct {
	ev      input.KeyEvent
	targets Targets
	sched   Scheduler
	d       *Dispatcher
}

// handler is one row of the action table. A nil guard always passes. abort
// ends the batch once the handler fires.
type handler struct {
	guard  func(RoutingContext) bool
	effect func(c call)
	abort  bool
}

func idle(ctx RoutingContext) bool { return !ctx.JobInProgress }

func historyAllowed(ctx RoutingContext) bool {
	return !ctx.JobInProgress && !ctx.AutocompleteShown
}

func searchFocused(ctx RoutingContext) bool { return ctx.SearchFocused }

func autocompleteShown(ctx RoutingContext) bool { return ctx.AutocompleteShown }

// onPrompt focuses the prompt and then runs fn on it.
func onPrompt(fn func(Prompt)) func(call) {
	return func(c call) {
		c.targets.Prompt.Focus()
		fn(c.targets.Prompt)
	}
}

var handlers = map[action.Action]handler{
	action.RunCommand: {
		guard: idle,
		effect: func(c call) {
			c.targets.Prompt.Focus()
			c.targets.Prompt.Execute(c.ev.Target)
		},
	},
	action.Interrupt: {
		guard: func(ctx RoutingContext) bool { return ctx.JobInProgress },
		effect: func(c call) {
			if err := c.targets.Job.Interrupt(); err != nil {
				c.d.log.Debugw("interrupt failed", "error", err)
			}
		},
		abort: true,
	},
	action.ClearJobs: {
		guard:  idle,
		effect: func(c call) { c.targets.Session.ClearJobs() },
	},
	action.DeleteWord: {
		guard:  idle,
		effect: onPrompt(Prompt.DeleteWord),
	},
	action.ClearText: {
		guard:  idle,
		effect: onPrompt(Prompt.Clear),
	},
	action.AppendLastArgumentOfPreviousCommand: {
		effect: onPrompt(Prompt.AppendLastArgumentOfPreviousCommand),
	},
	action.HistoryPrevious: {
		guard:  historyAllowed,
		effect: onPrompt(Prompt.SetPreviousHistoryItem),
	},
	action.HistoryNext: {
		guard:  historyAllowed,
		effect: onPrompt(Prompt.SetNextHistoryItem),
	},
	action.TabClose: {
		guard: idle,
		effect: func(c call) {
			c.targets.App.CloseFocusedPane()
			c.targets.App.ForceUpdate()
		},
	},
	action.TabFocus: {
		effect: func(c call) {
			index, err := strconv.Atoi(string(c.ev.Rune))
			if err != nil {
				c.d.log.Debugw("ignoring tab focus without a digit", "key", c.ev.String())
				return
			}
			c.targets.App.FocusTab(index)
		},
	},
	action.FindClose: {
		guard: searchFocused,
		effect: func(c call) {
			c.targets.Search.ClearSelection()
			// Refocus after the overlay's own teardown has run.
			prompt := c.targets.Prompt
			c.sched.Defer(prompt.Focus)
		},
	},
	action.AutocompleteInsert: {
		guard:  autocompleteShown,
		effect: onPrompt(Prompt.ApplySuggestion),
	},
	action.AutocompletePreviousSuggestion: {
		guard:  autocompleteShown,
		effect: onPrompt(Prompt.FocusPreviousSuggestion),
	},
	action.AutocompleteNextSuggestion: {
		guard:  autocompleteShown,
		effect: onPrompt(Prompt.FocusNextSuggestion),
	},
}

// Handles reports whether the dispatcher has a handler for a.
func Handles(a action.Action) bool {
	_, ok := handlers[a]
	return ok
}
