// Package interactive hosts a shell pane in the terminal. Both hosts install
// dispatch.Dispatcher.Handle as their only input entry point.
package interactive

import (
	"context"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/tmc/shellroute/input"
	"github.com/tmc/shellroute/ui/keymap"
)

// Config defines parameters for creating an interactive session.
type Config struct {
	Prompt      string
	Shell       string
	Dir         string
	HistoryFile string // empty disables history persistence
	Platform    input.Platform
	// Rules are appended to the default keymap.
	Rules   []keymap.Rule
	DebugUI bool
	// LineMode forces the readline host even on a terminal.
	LineMode bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *zap.SugaredLogger
}

func (c *Config) setDefaults() {
	if c.Prompt == "" {
		c.Prompt = "$ "
	}
	if c.Stdin == nil {
		c.Stdin = os.Stdin
	}
	if c.Stdout == nil {
		c.Stdout = os.Stdout
	}
	if c.Stderr == nil {
		c.Stderr = os.Stderr
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop().Sugar()
	}
}

// Session is a running host.
type Session interface {
	Run(ctx context.Context) error
	Quit()
}

// NewSession returns the Bubble Tea host when stdin is a terminal and the
// readline host otherwise or when cfg.LineMode is set.
func NewSession(cfg Config) (Session, error) {
	cfg.setDefaults()
	if !cfg.LineMode && isTerminal(cfg.Stdin) {
		return NewBubbleSession(cfg)
	}
	return NewReadlineSession(cfg)
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
