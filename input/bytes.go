package input

var namedBytes = map[Code]string{
	// Jobs read from a pipe rather than a terminal, so Enter is a newline.
	Enter:     "\n",
	Tab:       "\t",
	Esc:       "\x1b",
	Backspace: "\x7f",
	Delete:    "\x1b[3~",
	Up:        "\x1b[A",
	Down:      "\x1b[B",
	Right:     "\x1b[C",
	Left:      "\x1b[D",
	Home:      "\x1b[H",
	End:       "\x1b[F",
	PageUp:    "\x1b[5~",
	PageDown:  "\x1b[6~",
}

// Bytes returns the byte sequence a terminal would send for the event.
func (e KeyEvent) Bytes() []byte {
	if s, ok := namedBytes[e.Code]; ok {
		return []byte(s)
	}
	if !e.Code.Printable() {
		return nil
	}
	if e.Ctrl() {
		r := rune(e.Code)
		if r >= 'a' && r <= 'z' {
			return []byte{byte(r-'a') + 1}
		}
	}
	s := e.Chars()
	if s == "" {
		s = string(rune(e.Code))
	}
	if e.Alt() {
		s = "\x1b" + s
	}
	return []byte(s)
}
