// Package prompt implements the command-line prompt: an editable line with
// history navigation and a suggestion list.
package prompt

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/tmc/shellroute/input"
	"github.com/tmc/shellroute/ui/completion"
	"github.com/tmc/shellroute/ui/history"
)

// Model is the prompt. Keys reach it only through the dispatcher: bound
// actions call the exported operations and unbound keys arrive through
// SetPreviousKeyCode.
type Model struct {
	input     textinput.Model
	history   *history.Navigator
	complete  *completion.Model
	onExecute func(string)
	lastKey   input.KeyEvent
	log       *zap.SugaredLogger
}

// Option configures a Model.
type Option func(*Model)

// WithHistory sets the history the prompt walks and appends to.
func WithHistory(n *history.Navigator) Option {
	return func(m *Model) { m.history = n }
}

// WithCompletion sets the suggestion list.
func WithCompletion(c *completion.Model) Option {
	return func(m *Model) { m.complete = c }
}

// WithOnExecute sets the function that runs a submitted command line.
func WithOnExecute(fn func(string)) Option {
	return func(m *Model) { m.onExecute = fn }
}

// WithPrompt sets the prompt string.
func WithPrompt(p string) Option {
	return func(m *Model) { m.input.Prompt = p }
}

// WithLogger sets the logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(m *Model) { m.log = l.Named("prompt") }
}

// New returns a focused, empty prompt.
func New(opts ...Option) *Model {
	ti := textinput.New()
	ti.Prompt = "$ "
	ti.CharLimit = 0
	// Blink messages are not routed to the prompt.
	ti.Cursor.SetMode(cursor.CursorStatic)
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	m := &Model{
		input:    ti,
		history:  history.NewNavigator(nil),
		complete: completion.New(nil),
		log:      zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.input.Focus()
	return m
}

// Focus gives the prompt keyboard focus.
func (m *Model) Focus() { m.input.Focus() }

// Blur removes keyboard focus.
func (m *Model) Blur() { m.input.Blur() }

// Focused reports whether the prompt has keyboard focus.
func (m *Model) Focused() bool { return m.input.Focused() }

// Value returns the text being edited.
func (m *Model) Value() string { return m.input.Value() }

// Cursor returns the cursor position in runes.
func (m *Model) Cursor() int { return m.input.Position() }

// SetValue replaces the text and moves the cursor to its end.
func (m *Model) SetValue(s string) {
	m.input.SetValue(s)
	m.input.CursorEnd()
}

// History returns the prompt's history.
func (m *Model) History() *history.Navigator { return m.history }

// LastKey returns the most recent unbound key the prompt was given.
func (m *Model) LastKey() input.KeyEvent { return m.lastKey }

// Execute records text in history, clears the prompt and hands text to the
// execute callback.
func (m *Model) Execute(text string) {
	m.history.Add(text)
	m.SetValue("")
	m.complete.Hide()
	if strings.TrimSpace(text) == "" {
		return
	}
	m.log.Debugw("execute", "command", text)
	if m.onExecute != nil {
		m.onExecute(text)
	}
}

// DeleteWord deletes the word before the cursor along with any spaces
// between it and the cursor.
func (m *Model) DeleteWord() {
	rs := []rune(m.Value())
	end := m.Cursor()
	start := end
	for start > 0 && unicode.IsSpace(rs[start-1]) {
		start--
	}
	for start > 0 && !unicode.IsSpace(rs[start-1]) {
		start--
	}
	m.splice(start, end, "")
}

// Clear empties the prompt.
func (m *Model) Clear() {
	m.SetValue("")
	m.history.Reset()
	m.complete.Hide()
}

// AppendLastArgumentOfPreviousCommand inserts the last argument of the
// newest history entry at the cursor.
func (m *Model) AppendLastArgumentOfPreviousCommand() {
	last, ok := m.history.Last()
	if !ok {
		return
	}
	arg := history.LastArgument(last)
	if arg == "" {
		return
	}
	rs := []rune(m.Value())
	pos := m.Cursor()
	if pos > 0 && !unicode.IsSpace(rs[pos-1]) {
		arg = " " + arg
	}
	m.splice(pos, pos, arg)
}

// SetPreviousHistoryItem replaces the text with the next older history entry.
func (m *Model) SetPreviousHistoryItem() {
	if s, ok := m.history.Previous(m.Value()); ok {
		m.SetValue(s)
	}
}

// SetNextHistoryItem replaces the text with the next newer history entry.
func (m *Model) SetNextHistoryItem() {
	if s, ok := m.history.Next(); ok {
		m.SetValue(s)
	}
}

// IsAutocompleteShown reports whether the suggestion list is visible.
func (m *Model) IsAutocompleteShown() bool { return m.complete.Shown() }

// ApplySuggestion replaces the word before the cursor with the highlighted
// suggestion.
func (m *Model) ApplySuggestion() {
	s, ok := m.complete.Selected()
	if !ok {
		return
	}
	start, end := m.wordBounds()
	m.splice(start, end, s)
	m.complete.Hide()
}

// FocusPreviousSuggestion highlights the previous suggestion.
func (m *Model) FocusPreviousSuggestion() { m.complete.Prev() }

// FocusNextSuggestion highlights the next suggestion.
func (m *Model) FocusNextSuggestion() { m.complete.Next() }

// SetPreviousKeyCode records an unbound key and, when the prompt has focus,
// applies it as line editing input.
func (m *Model) SetPreviousKeyCode(ev input.KeyEvent) {
	m.lastKey = ev
	if !m.Focused() {
		return
	}
	if ev.Ctrl() || ev.Alt() || ev.Meta() {
		return
	}
	rs := []rune(m.Value())
	pos := m.Cursor()
	switch ev.Code {
	case input.Backspace:
		if pos > 0 {
			m.splice(pos-1, pos, "")
		}
	case input.Delete:
		if pos < len(rs) {
			m.splice(pos, pos+1, "")
		}
	case input.Left:
		m.input.SetCursor(pos - 1)
	case input.Right:
		m.input.SetCursor(pos + 1)
	case input.Home:
		m.input.CursorStart()
	case input.End:
		m.input.CursorEnd()
	case input.Esc:
		m.complete.Hide()
	default:
		if s := ev.Chars(); s != "" && ev.Code.Printable() {
			m.Insert(s)
		}
	}
}

// Insert inserts s at the cursor.
func (m *Model) Insert(s string) {
	s = strings.ReplaceAll(s, "\n", " ")
	pos := m.Cursor()
	m.splice(pos, pos, s)
}

// splice replaces runes [start, end) with s, leaves the cursor after s and
// refreshes suggestions for the edited word.
func (m *Model) splice(start, end int, s string) {
	rs := []rune(m.Value())
	out := make([]rune, 0, len(rs)-end+start+len(s))
	out = append(out, rs[:start]...)
	out = append(out, []rune(s)...)
	out = append(out, rs[end:]...)
	m.input.SetValue(string(out))
	m.input.SetCursor(start + len([]rune(s)))
	m.history.Reset()
	m.suggest()
}

func (m *Model) suggest() {
	start, end := m.wordBounds()
	word := string([]rune(m.Value())[start:end])
	if word == "" {
		m.complete.Hide()
		return
	}
	m.complete.Show(word)
}

// wordBounds returns the rune range of the word ending at the cursor.
func (m *Model) wordBounds() (int, int) {
	rs := []rune(m.Value())
	end := m.Cursor()
	start := end
	for start > 0 && !unicode.IsSpace(rs[start-1]) {
		start--
	}
	return start, end
}

// SetWidth sets the rendered width.
func (m *Model) SetWidth(w int) {
	m.input.Width = max(0, w-len(m.input.Prompt)-1)
	m.complete.SetWidth(w)
}

// View renders the prompt line followed by any suggestions.
func (m *Model) View() string {
	v := m.input.View()
	if s := m.complete.View(); s != "" {
		v += "\n" + s
	}
	return v
}
