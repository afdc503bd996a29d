package input

import (
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
)

var teaNamed = map[tea.KeyType]Code{
	tea.KeyEsc:       Esc,
	tea.KeyBackspace: Backspace,
	tea.KeyDelete:    Delete,
	tea.KeyUp:        Up,
	tea.KeyDown:      Down,
	tea.KeyLeft:      Left,
	tea.KeyRight:     Right,
	tea.KeyHome:      Home,
	tea.KeyEnd:       End,
	tea.KeyPgUp:      PageUp,
	tea.KeyPgDown:    PageDown,
}

// FromTea converts a Bubble Tea key message into an Event. target is the
// text of the element that currently owns focus. The second result is false
// for messages that are not input.
func FromTea(msg tea.Msg, target string) (Event, bool) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil, false
	}
	if km.Paste {
		return PasteEvent{Text: string(km.Runes)}, true
	}

	ev := KeyEvent{Target: target}
	if km.Alt {
		ev.Mod = ev.Mod.With(ModAlt)
	}

	switch t := km.Type; {
	case t == tea.KeyEnter:
		ev.Code = Enter
	case t == tea.KeyTab:
		ev.Code = Tab
	case t == tea.KeyShiftTab:
		ev.Code = Tab
		ev.Mod = ev.Mod.With(ModShift)
	case t == tea.KeySpace:
		ev.Code, ev.Rune, ev.Text = Char(' '), ' ', " "
	case t == tea.KeyRunes:
		if len(km.Runes) == 0 {
			return nil, false
		}
		r := km.Runes[0]
		ev.Code, ev.Rune, ev.Text = Char(r), r, string(km.Runes)
		if unicode.IsUpper(r) {
			ev.Mod = ev.Mod.With(ModShift)
		}
	case t >= tea.KeyCtrlA && t <= tea.KeyCtrlZ:
		ev.Code = Char(rune('a' + int(t-tea.KeyCtrlA)))
		ev.Mod = ev.Mod.With(ModCtrl)
	default:
		code, ok := teaNamed[t]
		if !ok {
			return nil, false
		}
		ev.Code = code
	}
	return ev, true
}
