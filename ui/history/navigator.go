package history

import "strings"

// Navigator walks a history list the way a shell prompt does: Previous moves
// toward older entries, Next toward newer ones, and stepping past the newest
// entry restores the text that was being edited.
type Navigator struct {
	entries []string
	pos     int // len(entries) means "not browsing"
	draft   string
}

// NewNavigator returns a navigator over entries, oldest first.
func NewNavigator(entries []string) *Navigator {
	n := &Navigator{entries: append([]string(nil), entries...)}
	n.Reset()
	return n
}

// Add appends an entry unless it is blank or repeats the newest one, then
// resets the cursor.
func (n *Navigator) Add(entry string) {
	if strings.TrimSpace(entry) != "" {
		if last, ok := n.Last(); !ok || last != entry {
			n.entries = append(n.entries, entry)
		}
	}
	n.Reset()
}

// Previous returns the next older entry. current is remembered as the draft
// when browsing starts. It reports false when there is nothing older.
func (n *Navigator) Previous(current string) (string, bool) {
	if len(n.entries) == 0 {
		return "", false
	}
	if n.pos == len(n.entries) {
		n.draft = current
	}
	if n.pos == 0 {
		return n.entries[0], false
	}
	n.pos--
	return n.entries[n.pos], true
}

// Next returns the next newer entry, or the saved draft after the newest.
// It reports false when not browsing.
func (n *Navigator) Next() (string, bool) {
	if n.pos >= len(n.entries) {
		return "", false
	}
	n.pos++
	if n.pos == len(n.entries) {
		return n.draft, true
	}
	return n.entries[n.pos], true
}

// Reset stops browsing.
func (n *Navigator) Reset() {
	n.pos = len(n.entries)
	n.draft = ""
}

// Browsing reports whether the cursor is on a history entry.
func (n *Navigator) Browsing() bool { return n.pos < len(n.entries) }

// Last returns the newest entry.
func (n *Navigator) Last() (string, bool) {
	if len(n.entries) == 0 {
		return "", false
	}
	return n.entries[len(n.entries)-1], true
}

// Entries returns a copy of the history, oldest first.
func (n *Navigator) Entries() []string {
	return append([]string(nil), n.entries...)
}

// LastArgument returns the final whitespace-separated token of line.
func LastArgument(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}
