package input

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrBadChord is returned by Parse for malformed chord notation.
var ErrBadChord = errors.New("bad key chord")

var namedKeys = map[string]Code{
	"enter":     Enter,
	"return":    Enter,
	"tab":       Tab,
	"esc":       Esc,
	"escape":    Esc,
	"backspace": Backspace,
	"delete":    Delete,
	"del":       Delete,
	"up":        Up,
	"down":      Down,
	"left":      Left,
	"right":     Right,
	"home":      Home,
	"end":       End,
	"pgup":      PageUp,
	"pgdown":    PageDown,
	"space":     Char(' '),
	"plus":      Char('+'),
}

// Parse parses chord notation such as "ctrl+c", "alt+.", "primary+t" or
// "up" into a key event. Modifier and key names are case-insensitive.
func Parse(chord string) (KeyEvent, error) {
	chord = strings.TrimSpace(chord)
	if chord == "" {
		return KeyEvent{}, fmt.Errorf("%w: empty", ErrBadChord)
	}
	parts := strings.Split(chord, "+")
	var ev KeyEvent
	for _, p := range parts[:len(parts)-1] {
		mod, ok := modifierNames[strings.ToLower(p)]
		if !ok {
			return KeyEvent{}, fmt.Errorf("%w: unknown modifier %q in %q", ErrBadChord, p, chord)
		}
		ev.Mod = ev.Mod.With(mod)
	}

	last := parts[len(parts)-1]
	if code, ok := namedKeys[strings.ToLower(last)]; ok {
		ev.Code = code
		if code.Printable() {
			ev.Rune = rune(code)
		}
		return ev, nil
	}
	if utf8.RuneCountInString(last) != 1 {
		return KeyEvent{}, fmt.Errorf("%w: unknown key %q in %q", ErrBadChord, last, chord)
	}
	r, _ := utf8.DecodeRuneInString(last)
	ev.Code = Char(r)
	ev.Rune = r
	return ev, nil
}

// MustParse is like Parse but panics on error. It is meant for tables built
// at init time.
func MustParse(chord string) KeyEvent {
	ev, err := Parse(chord)
	if err != nil {
		panic(err)
	}
	return ev
}
