// Package input describes physical input events: key presses and clipboard
// pastes, the key and modifier vocabulary they are built from, and the
// platform rules for resolving the primary modifier.
package input

import (
	"strings"
	"unicode"
)

// Event is a physical input event. It is implemented by KeyEvent and
// PasteEvent only.
type Event interface {
	isEvent()
}

// Code identifies a physical key. Printable keys use their lower-case rune as
// the code (see Char); named keys use the negative constants below.
type Code int

// Named key codes.
const (
	Unknown Code = 0

	Enter Code = -(iota + 1)
	Tab
	Esc
	Backspace
	Delete
	Up
	Down
	Left
	Right
	Home
	End
	PageUp
	PageDown
)

var codeNames = map[Code]string{
	Enter:     "enter",
	Tab:       "tab",
	Esc:       "esc",
	Backspace: "backspace",
	Delete:    "delete",
	Up:        "up",
	Down:      "down",
	Left:      "left",
	Right:     "right",
	Home:      "home",
	End:       "end",
	PageUp:    "pgup",
	PageDown:  "pgdown",
}

// Char returns the code of the key that prints r.
func Char(r rune) Code {
	return Code(unicode.ToLower(r))
}

// Printable reports whether c is a character key.
func (c Code) Printable() bool {
	return c > 0
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	switch {
	case c == Char(' '):
		return "space"
	case c.Printable():
		return string(rune(c))
	}
	return "unknown"
}

// KeyEvent is a single key press.
type KeyEvent struct {
	Code Code
	// Rune is the character the key produced, or 0 for named keys.
	Rune rune
	// Text holds every character delivered with the press. Terminals may
	// coalesce fast typing into one event.
	Text string
	Mod  Modifier
	// Target is the literal text of the element that owned focus when the
	// key was pressed.
	Target string
}

func (KeyEvent) isEvent() {}

func (e KeyEvent) Ctrl() bool    { return e.Mod.Has(ModCtrl) }
func (e KeyEvent) Alt() bool     { return e.Mod.Has(ModAlt) }
func (e KeyEvent) Meta() bool    { return e.Mod.Has(ModMeta) }
func (e KeyEvent) Shift() bool   { return e.Mod.Has(ModShift) }
func (e KeyEvent) Primary() bool { return e.Mod.Has(ModPrimary) }

// String renders the event in chord notation, e.g. "ctrl+c".
func (e KeyEvent) String() string {
	mods := e.Mod.String()
	if mods == "" {
		return e.Code.String()
	}
	return mods + "+" + e.Code.String()
}

// Chars returns the characters the event would insert into a text field.
func (e KeyEvent) Chars() string {
	if e.Text != "" {
		return e.Text
	}
	if e.Rune != 0 {
		return string(e.Rune)
	}
	return ""
}

// PasteEvent is a clipboard paste.
type PasteEvent struct {
	Text string
}

func (PasteEvent) isEvent() {}

func (e PasteEvent) String() string {
	return "paste(" + strings.ReplaceAll(e.Text, "\n", `\n`) + ")"
}
