package dispatch

import (
	"io"

	"github.com/tmc/shellroute/input"
	"github.com/tmc/shellroute/job"
)

// Job is the job that currently owns the pane. Write feeds its input stream.
type Job interface {
	io.Writer
	Status() job.Status
	Interrupt() error
}

// Prompt is the command-line prompt.
type Prompt interface {
	Focus()
	Execute(text string)
	DeleteWord()
	Clear()
	AppendLastArgumentOfPreviousCommand()
	SetPreviousHistoryItem()
	SetNextHistoryItem()
	IsAutocompleteShown() bool
	ApplySuggestion()
	FocusPreviousSuggestion()
	FocusNextSuggestion()
	// SetPreviousKeyCode feeds an unbound key to the prompt's literal input
	// accumulator.
	SetPreviousKeyCode(ev input.KeyEvent)
}

// Session owns the pane's job list.
type Session interface {
	ClearJobs()
}

// Search is the find overlay.
type Search interface {
	IsFocused() bool
	ClearSelection()
}

// Application is the window and tab manager.
type Application interface {
	CloseFocusedPane()
	// FocusTab focuses the tab at a 1-based index.
	FocusTab(index int)
	// ForceUpdate requests a UI refresh.
	ForceUpdate()
}

// Targets are the collaborators of the pane that owns keyboard focus.
type Targets struct {
	Job     Job
	Prompt  Prompt
	Session Session
	Search  Search
	App     Application
}

// Static returns a target source that always yields t.
func Static(t Targets) func() Targets {
	return func() Targets { return t }
}
