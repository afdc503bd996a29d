package dispatch

import (
	"fmt"

	"github.com/tmc/shellroute/job"
)

// RoutingContext is the externally owned state that gates actions. It is read
// fresh for every event and never written by the dispatcher.
type RoutingContext struct {
	JobInProgress     bool
	SearchFocused     bool
	AutocompleteShown bool
}

func (c RoutingContext) String() string {
	return fmt.Sprintf("job=%t search=%t autocomplete=%t", c.JobInProgress, c.SearchFocused, c.AutocompleteShown)
}

// Provider computes the routing context for a set of targets.
type Provider interface {
	Snapshot(t Targets) RoutingContext
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(Targets) RoutingContext

func (f ProviderFunc) Snapshot(t Targets) RoutingContext { return f(t) }

// TargetsProvider reads the routing context straight from the targets. Job
// status is re-read on every call because it changes when a process exits.
var TargetsProvider Provider = ProviderFunc(func(t Targets) RoutingContext {
	var ctx RoutingContext
	if t.Job != nil {
		ctx.JobInProgress = t.Job.Status() == job.InProgress
	}
	if t.Search != nil {
		ctx.SearchFocused = t.Search.IsFocused()
	}
	if t.Prompt != nil {
		ctx.AutocompleteShown = t.Prompt.IsAutocompleteShown()
	}
	return ctx
})
