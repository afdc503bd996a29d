package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/chzyer/readline"
	"github.com/tmc/spinner"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/tmc/shellroute/dispatch"
	"github.com/tmc/shellroute/input"
	"github.com/tmc/shellroute/job"
	"github.com/tmc/shellroute/ui/completion"
)

// ReadlineSession is the line-oriented host. It turns each line, interrupt
// and end of input into an event for the dispatcher: a line typed while idle
// is Enter on the prompt, a line typed while a job runs is pasted to its
// stdin.
type ReadlineSession struct {
	config Config
	log    *zap.SugaredLogger
	pane   *pane
	queue  *dispatch.Queue
	// interactive is false when input is piped; each command then runs to
	// completion before the next line is read.
	interactive bool

	mu       sync.Mutex // guards reader and stopSpin
	reader   *readline.Instance
	stopSpin func()
}

var _ Session = (*ReadlineSession)(nil)

// NewReadlineSession creates a readline host.
func NewReadlineSession(cfg Config) (*ReadlineSession, error) {
	cfg.setDefaults()
	s := &ReadlineSession{
		config:      cfg,
		log:         cfg.Logger.Named("readline"),
		queue:       &dispatch.Queue{},
		interactive: isTerminal(cfg.Stdin),
	}
	s.pane = newPane(cfg, s.queue, paneHooks{
		output: s.output,
		start:  s.started,
		exit:   s.exited,
	})

	nav := s.pane.prompt.History()
	rlConfig := &readline.Config{
		Prompt:                 cfg.Prompt,
		InterruptPrompt:        "^C",
		EOFPrompt:              "exit",
		HistoryLimit:           10000,
		HistorySearchFold:      true,
		AutoComplete:           &rankedCompleter{words: func() []string { return commandWords(nav) }},
		DisableAutoSaveHistory: true,
		Stdin:                  io.NopCloser(cfg.Stdin),
		Stdout:                 cfg.Stdout,
		Stderr:                 cfg.Stderr,
		FuncIsTerminal:         func() bool { return s.interactive },
	}
	reader, err := readline.NewEx(rlConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize readline: %w", err)
	}
	for _, e := range nav.Entries() {
		reader.SaveHistory(e)
	}
	s.reader = reader
	s.log.Debugw("readline session initialized", "interactive", s.interactive)
	return s, nil
}

// Quit closes the readline instance, which unblocks Run.
func (s *ReadlineSession) Quit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reader != nil {
		s.reader.Close()
	}
}

// Run reads lines until end of input or ctx is done.
func (s *ReadlineSession) Run(ctx context.Context) error {
	s.pane.ctx = ctx
	defer func() {
		s.pane.interruptAll()
		s.pane.saveHistory()
		s.spin(false)
		s.Quit()
	}()

	contextDone := make(chan struct{})
	defer close(contextDone)
	go func() {
		select {
		case <-ctx.Done():
			s.log.Debugw("context done, closing readline", "error", ctx.Err())
			s.Quit()
		case <-contextDone:
		}
	}()

	for {
		line, err := s.reader.Readline()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			s.handle(input.KeyEvent{Code: input.Char('c'), Mod: input.ModCtrl, Target: line})
			continue
		case errors.Is(err, io.EOF):
			if !s.pane.running() {
				return nil
			}
			j := s.pane.jobs.Focused()
			if err := j.CloseInput(); err != nil {
				s.log.Debugw("close input", "error", err)
			}
			return waitDone(ctx, j)
		case err != nil:
			return err
		}

		if s.pane.running() {
			s.handle(input.PasteEvent{Text: line + "\n"})
			continue
		}
		s.handle(input.KeyEvent{Code: input.Enter, Target: line})
		if strings.TrimSpace(line) != "" {
			s.reader.SaveHistory(line)
		}
		if !s.interactive && s.pane.running() {
			if err := waitDone(ctx, s.pane.jobs.Focused()); err != nil {
				return err
			}
		}
	}
}

// handle dispatches ev and runs whatever it deferred.
func (s *ReadlineSession) handle(ev input.Event) {
	res := s.pane.dispatcher.Handle(ev)
	s.queue.Run()
	s.log.Debugw("handled", "event", fmt.Sprint(ev), "result", res.String())
}

func (s *ReadlineSession) output(_ string, p []byte) {
	s.spin(false)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reader == nil {
		return
	}
	s.reader.Clean()
	s.config.Stdout.Write(p)
	s.reader.Refresh()
}

func (s *ReadlineSession) started(j *job.Job) {
	s.mu.Lock()
	if s.reader != nil {
		s.reader.SetPrompt("")
	}
	s.mu.Unlock()
	s.spin(true)
}

func (s *ReadlineSession) exited(j *job.Job) {
	s.spin(false)
	s.mu.Lock()
	defer s.mu.Unlock()
	if st := j.Status(); st != job.Succeeded {
		fmt.Fprintf(s.config.Stderr, "[%s %s]\n", st, j.Command)
	}
	if s.reader != nil {
		s.reader.SetPrompt(s.config.Prompt)
		s.reader.Refresh()
	}
}

// spin starts or stops the activity spinner. It only runs on a terminal.
func (s *ReadlineSession) spin(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopSpin != nil {
		s.stopSpin()
		s.stopSpin = nil
	}
	if on && s.interactive && isWriterTerminal(s.config.Stderr) {
		s.stopSpin = startSpinner(s.config.Stderr)
	}
}

func startSpinner(out io.Writer) func() {
	sp := spinner.New(
		spinner.WithFrames(spinner.Dots8),
		spinner.WithWriter(out),
		spinner.WithIntervalFunc(
			spinner.SpeedupInterval(90*time.Millisecond, 40*time.Millisecond, time.Second*5),
		),
		spinner.WithColorFunc(spinner.GreyPulse(15*time.Millisecond)),
	)
	sp.Start()
	return sp.Stop
}

func isWriterTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// rankedCompleter completes the word before the cursor from past command
// words. readline only inserts suffixes, so only prefix matches are offered.
type rankedCompleter struct {
	words func() []string
}

func (c *rankedCompleter) Do(line []rune, pos int) ([][]rune, int) {
	start := pos
	for start > 0 && line[start-1] != ' ' {
		start--
	}
	word := string(line[start:pos])
	if word == "" {
		return nil, 0
	}
	var out [][]rune
	for _, cand := range completion.Rank(word, c.words()) {
		if strings.HasPrefix(cand, word) {
			out = append(out, []rune(strings.TrimPrefix(cand, word)+" "))
		}
	}
	return out, len([]rune(word))
}

var _ readline.AutoCompleter = (*rankedCompleter)(nil)

// waitDone waits for j to finish. The job's own exit error is reported by the
// exit hook, not returned.
func waitDone(ctx context.Context, j *job.Job) error {
	select {
	case <-j.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
