// Package completion holds the prompt's suggestion list: candidates ranked
// against the word being typed, a cursor, and a bubbles/list view.
package completion

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
)

// Source returns candidate completions for the word being typed.
type Source func(word string) []string

// Words returns a Source over a fixed or changing word list. Duplicates are
// removed.
func Words(words func() []string) Source {
	return func(string) []string {
		seen := make(map[string]bool)
		var out []string
		for _, w := range words() {
			if w != "" && !seen[w] {
				seen[w] = true
				out = append(out, w)
			}
		}
		return out
	}
}

// Model is the suggestion list. The zero value has no source and never shows.
type Model struct {
	source Source
	word   string
	items  []string
	cursor int
	shown  bool
	max    int

	list list.Model
}

// New returns a model drawing candidates from source.
func New(source Source) *Model {
	l := list.New(nil, newDelegate(), 0, 0)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(true)
	l.SetFilteringEnabled(false)
	return &Model{source: source, max: 8, list: l}
}

// Show ranks candidates for word and shows the list if any remain.
func (m *Model) Show(word string) bool {
	m.word = word
	m.cursor = 0
	m.items = nil
	if m.source != nil && word != "" {
		m.items = Rank(word, m.source(word))
	}
	m.shown = len(m.items) > 0
	m.sync()
	return m.shown
}

// Hide hides the list.
func (m *Model) Hide() {
	m.shown = false
	m.items = nil
	m.cursor = 0
	m.sync()
}

// Shown reports whether suggestions are visible.
func (m *Model) Shown() bool { return m != nil && m.shown }

// Word is the text the list was ranked against.
func (m *Model) Word() string { return m.word }

// Items returns the ranked suggestions.
func (m *Model) Items() []string { return append([]string(nil), m.items...) }

// Next moves the cursor forward, wrapping to the first suggestion.
func (m *Model) Next() {
	if len(m.items) == 0 {
		return
	}
	m.cursor = (m.cursor + 1) % len(m.items)
	m.list.Select(m.cursor)
}

// Prev moves the cursor backward, wrapping to the last suggestion.
func (m *Model) Prev() {
	if len(m.items) == 0 {
		return
	}
	m.cursor = (m.cursor - 1 + len(m.items)) % len(m.items)
	m.list.Select(m.cursor)
}

// Selected returns the highlighted suggestion.
func (m *Model) Selected() (string, bool) {
	if !m.shown || len(m.items) == 0 {
		return "", false
	}
	return m.items[m.cursor], true
}

// SetWidth sets the rendered width of the list.
func (m *Model) SetWidth(w int) {
	m.list.SetWidth(min(60, w))
}

func (m *Model) sync() {
	items := make([]list.Item, len(m.items))
	for i, s := range m.items {
		items[i] = item(s)
	}
	m.list.SetItems(items)
	m.list.SetHeight(min(m.max, len(items)) + 1)
	m.list.Select(m.cursor)
}

// View renders the list, or nothing when hidden.
func (m *Model) View() string {
	if !m.Shown() {
		return ""
	}
	return m.list.View()
}

// Rank orders candidates by how well they complete word: prefix matches
// first, then by edit distance, then alphabetically. Candidates that neither
// contain word nor come within a small edit distance of it are dropped, as
// is word itself.
func Rank(word string, candidates []string) []string {
	type scored struct {
		s      string
		prefix bool
		dist   int
	}
	limit := max(2, len(word)/3)
	var out []scored
	for _, c := range candidates {
		if c == word {
			continue
		}
		prefix := strings.HasPrefix(c, word)
		// Compare against the candidate's head so long completions of a short
		// word are not penalized for their length.
		head := c
		if len(head) > len(word) {
			head = head[:len(word)]
		}
		dist := levenshtein.ComputeDistance(word, head)
		if !prefix && !strings.Contains(c, word) && dist > limit {
			continue
		}
		out = append(out, scored{c, prefix, dist})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.prefix != b.prefix {
			return a.prefix
		}
		if a.dist != b.dist {
			return a.dist < b.dist
		}
		return a.s < b.s
	})
	ranked := make([]string, len(out))
	for i, s := range out {
		ranked[i] = s.s
	}
	return ranked
}

type item string

func (i item) FilterValue() string { return string(i) }
func (i item) Title() string       { return string(i) }
func (i item) Description() string { return "" }

func newDelegate() list.DefaultDelegate {
	d := list.NewDefaultDelegate()
	d.Styles.SelectedTitle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("212")).
		Background(lipgloss.Color("236")).
		PaddingLeft(1)
	d.Styles.NormalTitle = lipgloss.NewStyle().PaddingLeft(1)
	d.ShowDescription = false
	d.SetHeight(1)
	d.SetSpacing(0)
	return d
}
