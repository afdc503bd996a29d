package interactive

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/tmc/shellroute/dispatch"
	"github.com/tmc/shellroute/job"
	"github.com/tmc/shellroute/ui/completion"
	"github.com/tmc/shellroute/ui/debug"
	"github.com/tmc/shellroute/ui/history"
	"github.com/tmc/shellroute/ui/keymap"
	"github.com/tmc/shellroute/ui/prompt"
	"github.com/tmc/shellroute/ui/search"
	"github.com/tmc/shellroute/ui/tabs"
)

// pane wires one shell pane's collaborators to a dispatcher. Hosts own the
// event loop; the pane owns the state.
type pane struct {
	cfg Config
	log *zap.SugaredLogger
	ctx context.Context

	jobs       *job.Session
	prompt     *prompt.Model
	search     *search.Model
	tabs       *tabs.Manager
	debug      *debug.State
	debugView  *debug.View
	dispatcher *dispatch.Dispatcher
}

// paneHooks lets a host observe job activity, which arrives on job
// goroutines.
type paneHooks struct {
	output func(id string, p []byte)
	start  func(*job.Job)
	exit   func(*job.Job)
	empty  func()
}

func newPane(cfg Config, sched dispatch.Scheduler, hooks paneHooks) *pane {
	log := cfg.Logger
	entries, err := loadHistory(cfg.HistoryFile)
	if err != nil {
		// A corrupt history file should not keep the shell from starting.
		log.Warnw("ignoring history file", "path", cfg.HistoryFile, "error", err)
	}
	nav := history.NewNavigator(entries)

	jobOpts := []job.Option{job.WithLogger(log)}
	if cfg.Shell != "" {
		jobOpts = append(jobOpts, job.WithShell(cfg.Shell))
	}
	if cfg.Dir != "" {
		jobOpts = append(jobOpts, job.WithDir(cfg.Dir))
	}
	if hooks.output != nil {
		jobOpts = append(jobOpts, job.WithOutput(hooks.output))
	}
	if hooks.exit != nil {
		jobOpts = append(jobOpts, job.WithExit(hooks.exit))
	}

	p := &pane{
		cfg:    cfg,
		log:    log,
		ctx:    context.Background(),
		jobs:   job.NewSession(jobOpts...),
		search: search.New(),
		tabs:   tabs.NewManager(tabs.Pane{ID: "1", Title: shellName(cfg.Shell)}),
		debug:  &debug.State{Enabled: cfg.DebugUI},
	}
	p.tabs.OnEmpty = hooks.empty
	p.debugView = debug.NewView(p.debug)
	p.prompt = prompt.New(
		prompt.WithPrompt(cfg.Prompt),
		prompt.WithHistory(nav),
		prompt.WithCompletion(completion.New(completion.Words(func() []string { return commandWords(nav) }))),
		prompt.WithLogger(log),
		prompt.WithOnExecute(func(command string) {
			j, err := p.jobs.Start(p.ctx, command)
			if err != nil {
				log.Errorw("start job", "command", command, "error", err)
				p.debugView.Log("start %q: %v", command, err)
				return
			}
			if hooks.start != nil {
				hooks.start(j)
			}
		}),
	)

	table := keymap.Default(cfg.Platform).With(cfg.Rules...)
	p.dispatcher = dispatch.New(table, p.targets,
		dispatch.WithLogger(log),
		dispatch.WithScheduler(sched),
		dispatch.WithObserver(func(d dispatch.Decision) {
			p.debugView.Observe(d)
		}),
	)
	return p
}

func (p *pane) targets() dispatch.Targets {
	return dispatch.Targets{
		Job:     p.jobs.Focused(),
		Prompt:  p.prompt,
		Session: p.jobs,
		Search:  p.search,
		App:     p.tabs,
	}
}

// running reports whether the focused job is in progress.
func (p *pane) running() bool {
	return p.jobs.Focused().Status() == job.InProgress
}

// mode names who currently owns keyboard input.
func (p *pane) mode() string {
	switch {
	case p.search.IsFocused():
		return "search"
	case p.running():
		return "job"
	}
	return "prompt"
}

func (p *pane) jobSummary() string {
	j := p.jobs.Focused()
	if j.Command == "" {
		return ""
	}
	return fmt.Sprintf("%s: %s", j.Command, j.Status())
}

// settleFocus leaves a single focused input. An action that focuses the
// prompt takes input away from search.
func (p *pane) settleFocus() {
	if p.prompt.Focused() && p.search.IsFocused() {
		p.search.Blur()
	}
}

func (p *pane) saveHistory() {
	if p.cfg.HistoryFile == "" {
		return
	}
	if err := history.Save(p.cfg.HistoryFile, p.prompt.History().Entries()); err != nil {
		p.log.Warnw("save history", "path", p.cfg.HistoryFile, "error", err)
	}
}

// interruptAll interrupts every running job.
func (p *pane) interruptAll() {
	for _, j := range p.jobs.Jobs() {
		if j.Status() == job.InProgress {
			j.Interrupt()
		}
	}
}

func shellName(shell string) string {
	if shell == "" {
		return "sh"
	}
	return filepath.Base(shell)
}

func loadHistory(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	return history.Load(path)
}

// commandWords returns the words of past commands, newest first, for
// completion.
func commandWords(nav *history.Navigator) []string {
	entries := nav.Entries()
	var words []string
	for i := len(entries) - 1; i >= 0; i-- {
		words = append(words, strings.Fields(entries[i])...)
	}
	return words
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
