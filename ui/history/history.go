// Package history stores command history in the libedit/readline file format
// and provides a cursor for walking it from the prompt.
package history

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// cookie is the first line of a libedit history file.
const cookie = "_HiStOrY_V2_"

// ErrFormat is returned by Read when the input is not a libedit history file.
var ErrFormat = errors.New("history: not a libedit history file")

// Load reads the entries stored at path. A missing file is an empty history.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open history %q: %w", path, err)
	}
	defer f.Close()
	entries, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}

// Read decodes entries in libedit format. Empty input is an empty history.
func Read(r io.Reader) ([]string, error) {
	br := bufio.NewReader(r)
	first, err := br.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read history header: %w", err)
	}
	if first == "" {
		return nil, nil
	}
	if first != cookie+"\n" {
		return nil, ErrFormat
	}

	var entries []string
	sc := bufio.NewScanner(br)
	for sc.Scan() {
		entries = append(entries, string(unescape(sc.Bytes())))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	return entries, nil
}

// unescape decodes libedit's \NNN octal escapes.
func unescape(line []byte) []byte {
	out := make([]byte, 0, len(line))
	for i := 0; i < len(line); i++ {
		if line[i] == '\\' && i+3 < len(line) && isOctal(line[i+1:i+4]) {
			out = append(out, (line[i+1]-'0')<<6|(line[i+2]-'0')<<3|(line[i+3]-'0'))
			i += 3
			continue
		}
		out = append(out, line[i])
	}
	return out
}

func isOctal(b []byte) bool {
	for _, c := range b {
		if c < '0' || c > '7' {
			return false
		}
	}
	return true
}

// Save writes entries to path, creating its directory if needed.
func Save(path string, entries []string) error {
	if path == "" {
		return errors.New("history: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("open history %q: %w", path, err)
	}
	if err := Write(f, entries); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write encodes entries in libedit format. Spaces, backslashes and bytes
// outside printable ASCII are written as octal escapes.
func Write(w io.Writer, entries []string) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(cookie + "\n")
	var buf bytes.Buffer
	for _, e := range entries {
		buf.Reset()
		for _, b := range []byte(e) {
			if b == '\\' || b <= ' ' || b > '~' {
				fmt.Fprintf(&buf, "\\%03o", b)
				continue
			}
			buf.WriteByte(b)
		}
		buf.WriteByte('\n')
		bw.Write(buf.Bytes())
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}
