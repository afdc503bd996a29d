// Package dispatch routes physical input events to the component that should
// act on them.
//
// A Dispatcher matches each key event against a keymap.Table, gates every
// matched action on a fresh RoutingContext and invokes the capability
// operations of the focused pane's Targets. Unbound keys fall through to the
// prompt or the running job as literal input.
package dispatch

import (
	"fmt"
	"strings"

	"github.com/tmc/shellroute/action"
	"github.com/tmc/shellroute/input"
	"github.com/tmc/shellroute/ui/keymap"
	"go.uber.org/zap"
)

// Result tells the host whether an event still needs default handling.
type Result int

const (
	// PassThrough leaves the event to the host's default handling.
	PassThrough Result = iota
	// Consumed stops propagation.
	Consumed
)

func (r Result) String() string {
	if r == Consumed {
		return "consumed"
	}
	return "pass-through"
}

// Route names the target a paste or unbound key was sent to.
type Route string

const (
	RouteNone   Route = ""
	RoutePrompt Route = "prompt"
	RouteJob    Route = "job"
	RouteSearch Route = "search"
)

// Decision records what a single dispatch did.
type Decision struct {
	Event   input.Event
	Context RoutingContext
	Matched []action.Action
	Fired   []action.Action
	Skipped []action.Action
	Unknown []action.Action
	// Failed lists actions whose handler panicked.
	Failed  []action.Action
	Literal bool
	Aborted bool
	Route   Route
	Result  Result
}

func (d Decision) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v [%v]", d.Event, d.Context)
	switch {
	case d.Literal:
		fmt.Fprintf(&b, " literal->%s", d.Route)
	case d.Route != RouteNone:
		fmt.Fprintf(&b, " paste->%s", d.Route)
	default:
		writeActions(&b, "matched", d.Matched)
		writeActions(&b, "fired", d.Fired)
		writeActions(&b, "skipped", d.Skipped)
		writeActions(&b, "unknown", d.Unknown)
		writeActions(&b, "failed", d.Failed)
	}
	if d.Aborted {
		b.WriteString(" aborted")
	}
	fmt.Fprintf(&b, " => %v", d.Result)
	return b.String()
}

func writeActions(b *strings.Builder, label string, as []action.Action) {
	if len(as) == 0 {
		return
	}
	names := make([]string, len(as))
	for i, a := range as {
		names[i] = a.String()
	}
	fmt.Fprintf(b, " %s=%s", label, strings.Join(names, ","))
}

// Dispatcher is the sole input entry point of a host. It is not safe for
// concurrent use; hosts call Handle from their event loop. Stats may be read
// from any goroutine.
type Dispatcher struct {
	table    *keymap.Table
	targets  func() Targets
	provider Provider
	sched    Scheduler
	log      *zap.SugaredLogger
	observer func(Decision)
	stats    counters
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the diagnostics logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.log = l.Named("dispatch")
		}
	}
}

// WithScheduler sets where deferred continuations run. The default is a
// Queue drained by RunDeferred.
func WithScheduler(s Scheduler) Option {
	return func(d *Dispatcher) {
		if s != nil {
			d.sched = s
		}
	}
}

// WithProvider replaces TargetsProvider.
func WithProvider(p Provider) Option {
	return func(d *Dispatcher) {
		if p != nil {
			d.provider = p
		}
	}
}

// WithObserver registers fn to receive every Decision after it is made.
func WithObserver(fn func(Decision)) Option {
	return func(d *Dispatcher) {
		d.observer = fn
	}
}

// New returns a Dispatcher matching against table. targets is called once
// per event to resolve the focused pane's collaborators.
func New(table *keymap.Table, targets func() Targets, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		table:    table,
		targets:  targets,
		provider: TargetsProvider,
		sched:    &Queue{},
		log:      zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Table returns the rule table the dispatcher matches against.
func (d *Dispatcher) Table() *keymap.Table { return d.table }

// Stats returns the dispatch counters.
func (d *Dispatcher) Stats() Stats { return d.stats.snapshot() }

// RunDeferred drains the default Queue and reports how many continuations
// ran. It does nothing when a custom Scheduler was installed.
func (d *Dispatcher) RunDeferred() int {
	if q, ok := d.sched.(*Queue); ok {
		return q.Run()
	}
	return 0
}

// Handle routes ev and reports whether the host should stop propagating it.
// It never panics.
func (d *Dispatcher) Handle(ev input.Event) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			d.stats.recover.Add(1)
			d.log.Errorw("recovered panic while handling event", "event", fmt.Sprint(ev), "panic", r)
			res = Consumed
		}
	}()
	t := d.targets()
	ctx := d.provider.Snapshot(t)
	var actions []action.Action
	if _, ok := ev.(input.KeyEvent); ok {
		actions = d.table.Match(ev)
	}
	return d.Dispatch(ev, actions, ctx, t)
}

// Dispatch routes ev given its already matched actions and a routing
// context. Paste events ignore actions.
func (d *Dispatcher) Dispatch(ev input.Event, actions []action.Action, ctx RoutingContext, t Targets) Result {
	dec := Decision{Event: ev, Context: ctx}
	switch ev := ev.(type) {
	case input.PasteEvent:
		d.paste(ev, ctx, t, &dec)
	case input.KeyEvent:
		if len(actions) == 0 {
			d.literal(ev, ctx, t, &dec)
		} else {
			d.run(ev, actions, ctx, t, &dec)
		}
	default:
		d.log.Warnw("unsupported event", "type", fmt.Sprintf("%T", ev))
	}
	d.stats.record(dec)
	d.log.Debugw("dispatched", "decision", dec.String())
	if d.observer != nil {
		d.observer(dec)
	}
	return dec.Result
}

func (d *Dispatcher) paste(ev input.PasteEvent, ctx RoutingContext, t Targets, dec *Decision) {
	switch {
	case ctx.SearchFocused:
		dec.Route = RouteSearch
	case !ctx.JobInProgress:
		dec.Route = RoutePrompt
		d.guarded("paste", func() { t.Prompt.Focus() })
	default:
		dec.Route = RouteJob
		dec.Result = Consumed
		d.guarded("paste", func() {
			if _, err := t.Job.Write([]byte(ev.Text)); err != nil {
				d.log.Debugw("paste write failed", "error", err)
			}
		})
	}
}

func (d *Dispatcher) literal(ev input.KeyEvent, ctx RoutingContext, t Targets, dec *Decision) {
	dec.Literal = true
	if !ctx.JobInProgress {
		dec.Route = RoutePrompt
		d.guarded("literal", func() { t.Prompt.SetPreviousKeyCode(ev) })
		return
	}
	dec.Route = RouteJob
	d.guarded("literal", func() {
		if _, err := t.Job.Write(ev.Bytes()); err != nil {
			d.log.Debugw("literal write failed", "error", err)
		}
	})
}

func (d *Dispatcher) run(ev input.KeyEvent, actions []action.Action, ctx RoutingContext, t Targets, dec *Decision) {
	dec.Matched = actions
	dec.Result = Consumed
	c := call{ev: ev, targets: t, sched: d.sched, d: d}
	for _, a := range actions {
		h, ok := handlers[a]
		if !ok {
			d.log.Warnw("missing handler for action", "action", a.String(), "key", ev.String())
			dec.Unknown = append(dec.Unknown, a)
			continue
		}
		if h.guard != nil && !h.guard(ctx) {
			dec.Skipped = append(dec.Skipped, a)
			continue
		}
		if !d.guarded(a.String(), func() { h.effect(c) }) {
			dec.Failed = append(dec.Failed, a)
			continue
		}
		dec.Fired = append(dec.Fired, a)
		if h.abort {
			dec.Aborted = true
			return
		}
	}
}

// guarded runs fn and reports whether it returned without panicking.
func (d *Dispatcher) guarded(name string, fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			d.stats.recover.Add(1)
			d.log.Errorw("recovered panic in handler", "handler", name, "panic", r)
			ok = false
		}
	}()
	fn()
	return true
}
