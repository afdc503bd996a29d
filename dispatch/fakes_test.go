package dispatch

import (
	"fmt"

	"github.com/tmc/shellroute/input"
	"github.com/tmc/shellroute/job"
)

// recorder collects the capability calls made by the dispatcher, in order.
type recorder struct {
	calls []string
	// panicOn makes the named call panic after it is recorded.
	panicOn string
}

func (r *recorder) add(format string, args ...any) {
	call := fmt.Sprintf(format, args...)
	r.calls = append(r.calls, call)
	if r.panicOn != "" && call == r.panicOn {
		panic("boom: " + call)
	}
}

func (r *recorder) take() []string {
	calls := r.calls
	r.calls = nil
	return calls
}

type fakeJob struct {
	r      *recorder
	status job.Status
}

func (j *fakeJob) Status() job.Status { return j.status }

func (j *fakeJob) Write(p []byte) (int, error) {
	j.r.add("job.Write(%q)", p)
	return len(p), nil
}

func (j *fakeJob) Interrupt() error {
	j.r.add("job.Interrupt()")
	return nil
}

type fakePrompt struct {
	r     *recorder
	shown bool
}

func (p *fakePrompt) Focus()                               { p.r.add("prompt.Focus()") }
func (p *fakePrompt) Execute(text string)                  { p.r.add("prompt.Execute(%q)", text) }
func (p *fakePrompt) DeleteWord()                          { p.r.add("prompt.DeleteWord()") }
func (p *fakePrompt) Clear()                               { p.r.add("prompt.Clear()") }
func (p *fakePrompt) AppendLastArgumentOfPreviousCommand() { p.r.add("prompt.AppendLastArgument()") }
func (p *fakePrompt) SetPreviousHistoryItem()              { p.r.add("prompt.SetPreviousHistoryItem()") }
func (p *fakePrompt) SetNextHistoryItem()                  { p.r.add("prompt.SetNextHistoryItem()") }
func (p *fakePrompt) IsAutocompleteShown() bool            { return p.shown }
func (p *fakePrompt) ApplySuggestion()                     { p.r.add("prompt.ApplySuggestion()") }
func (p *fakePrompt) FocusPreviousSuggestion()             { p.r.add("prompt.FocusPreviousSuggestion()") }
func (p *fakePrompt) FocusNextSuggestion()                 { p.r.add("prompt.FocusNextSuggestion()") }
func (p *fakePrompt) SetPreviousKeyCode(ev input.KeyEvent) {
	p.r.add("prompt.SetPreviousKeyCode(%v)", ev)
}

type fakeSession struct{ r *recorder }

func (s *fakeSession) ClearJobs() { s.r.add("session.ClearJobs()") }

type fakeSearch struct {
	r       *recorder
	focused bool
}

func (s *fakeSearch) IsFocused() bool { return s.focused }
func (s *fakeSearch) ClearSelection() { s.r.add("search.ClearSelection()") }

type fakeApp struct{ r *recorder }

func (a *fakeApp) CloseFocusedPane()  { a.r.add("app.CloseFocusedPane()") }
func (a *fakeApp) FocusTab(index int) { a.r.add("app.FocusTab(%d)", index) }
func (a *fakeApp) ForceUpdate()       { a.r.add("app.ForceUpdate()") }

// fixture is a pane whose routing state can be changed between events.
type fixture struct {
	rec     *recorder
	job     *fakeJob
	prompt  *fakePrompt
	session *fakeSession
	search  *fakeSearch
	app     *fakeApp
}

func newFixture(ctx RoutingContext) *fixture {
	r := &recorder{}
	f := &fixture{
		rec:     r,
		job:     &fakeJob{r: r},
		prompt:  &fakePrompt{r: r},
		session: &fakeSession{r: r},
		search:  &fakeSearch{r: r},
		app:     &fakeApp{r: r},
	}
	f.set(ctx)
	return f
}

func (f *fixture) set(ctx RoutingContext) {
	f.job.status = job.Idle
	if ctx.JobInProgress {
		f.job.status = job.InProgress
	}
	f.search.focused = ctx.SearchFocused
	f.prompt.shown = ctx.AutocompleteShown
}

func (f *fixture) targets() Targets {
	return Targets{Job: f.job, Prompt: f.prompt, Session: f.session, Search: f.search, App: f.app}
}
