// Package action defines the closed vocabulary of semantic input actions.
//
// Actions are identifiers only. Any payload an action needs (the digit of a
// tab-focus chord, the text under the cursor) is re-derived from the physical
// event by whoever executes the action.
package action

import (
	"errors"
	"fmt"
)

// ErrUnknownAction is returned by Parse for names outside the vocabulary.
var ErrUnknownAction = errors.New("unknown action")

// Action is a semantic intent decoupled from the key that triggered it.
type Action int

const (
	// Invalid is the zero value and never matches a rule.
	Invalid Action = iota

	// Command line
	RunCommand
	Interrupt
	ClearJobs
	DeleteWord
	ClearText
	AppendLastArgumentOfPreviousCommand
	HistoryPrevious
	HistoryNext

	// Autocomplete
	AutocompleteInsert
	AutocompletePreviousSuggestion
	AutocompleteNextSuggestion

	// Tabs
	TabNew
	TabFocus
	TabPrevious
	TabNext
	TabClose

	// Edit and clipboard
	ClipboardCopy
	ClipboardCut
	ClipboardPaste
	EditUndo
	EditRedo
	EditSelectAll
	EditFind
	FindClose

	// Window and view
	WindowSplitHorizontally
	WindowSplitVertically
	ViewReload
	ViewToggleFullScreen

	// Application
	AppHide
	AppQuit

	// Developer
	DeveloperToggleTools
	DeveloperToggleDebugMode

	numActions
)

var names = [numActions]string{
	Invalid:                             "invalid",
	RunCommand:                          "run-command",
	Interrupt:                           "interrupt",
	ClearJobs:                           "clear-jobs",
	DeleteWord:                          "delete-word",
	ClearText:                           "clear-text",
	AppendLastArgumentOfPreviousCommand: "append-last-arg-of-previous-command",
	HistoryPrevious:                     "history-previous",
	HistoryNext:                         "history-next",
	AutocompleteInsert:                  "autocomplete-insert",
	AutocompletePreviousSuggestion:      "autocomplete-prev-suggestion",
	AutocompleteNextSuggestion:          "autocomplete-next-suggestion",
	TabNew:                              "tab-new",
	TabFocus:                            "tab-focus",
	TabPrevious:                         "tab-previous",
	TabNext:                             "tab-next",
	TabClose:                            "tab-close",
	ClipboardCopy:                       "clipboard-copy",
	ClipboardCut:                        "clipboard-cut",
	ClipboardPaste:                      "clipboard-paste",
	EditUndo:                            "edit-undo",
	EditRedo:                            "edit-redo",
	EditSelectAll:                       "edit-select-all",
	EditFind:                            "edit-find",
	FindClose:                           "find-close",
	WindowSplitHorizontally:             "window-split-horizontally",
	WindowSplitVertically:               "window-split-vertically",
	ViewReload:                          "view-reload",
	ViewToggleFullScreen:                "view-toggle-full-screen",
	AppHide:                             "app-hide",
	AppQuit:                             "app-quit",
	DeveloperToggleTools:                "developer-toggle-tools",
	DeveloperToggleDebugMode:            "developer-toggle-debug-mode",
}

var byName = func() map[string]Action {
	m := make(map[string]Action, numActions)
	for a := Invalid + 1; a < numActions; a++ {
		m[names[a]] = a
	}
	return m
}()

// String returns the kebab-case name of the action.
func (a Action) String() string {
	if a < 0 || a >= numActions {
		return fmt.Sprintf("action(%d)", int(a))
	}
	return names[a]
}

// Valid reports whether a is a member of the vocabulary.
func (a Action) Valid() bool {
	return a > Invalid && a < numActions
}

// Parse returns the action with the given kebab-case name.
func Parse(name string) (Action, error) {
	if a, ok := byName[name]; ok {
		return a, nil
	}
	return Invalid, fmt.Errorf("%w: %q", ErrUnknownAction, name)
}

// All returns every valid action in declaration order.
func All() []Action {
	out := make([]Action, 0, numActions-1)
	for a := Invalid + 1; a < numActions; a++ {
		out = append(out, a)
	}
	return out
}

// MarshalText implements encoding.TextMarshaler.
func (a Action) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAction, int(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Action) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}
