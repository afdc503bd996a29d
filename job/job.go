// Package job runs shell commands on behalf of the prompt and tracks their
// status. A Job's status changes asynchronously when its process exits.
package job

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotRunning is returned when writing to or interrupting a job that is not
// in progress.
var ErrNotRunning = errors.New("job is not running")

const (
	waitDelay = 2 * time.Second
	killDelay = 3 * time.Second
)

// Status is the lifecycle state of a job.
type Status int

const (
	Idle Status = iota
	InProgress
	Succeeded
	Failed
	Interrupted
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case InProgress:
		return "in progress"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case Interrupted:
		return "interrupted"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Finished reports whether the job has run and exited.
func (s Status) Finished() bool {
	return s == Succeeded || s == Failed || s == Interrupted
}

// Job is a single shell command.
type Job struct {
	ID      string
	Command string

	cfg config

	mu          sync.Mutex
	status      Status
	cmd         *exec.Cmd
	stdin       io.WriteCloser
	output      bytes.Buffer
	err         error
	interrupted bool
	done        chan struct{}
}

// New returns an idle job for command. Call Start to run it.
func New(command string, opts ...Option) *Job {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return &Job{
		ID:      uuid.NewString(),
		Command: command,
		cfg:     cfg,
		done:    make(chan struct{}),
	}
}

// Start runs the command through the configured shell.
func (j *Job) Start(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.status != Idle {
		return fmt.Errorf("job %s already started", j.ID)
	}

	cmd := exec.CommandContext(ctx, j.cfg.shell, "-c", j.Command)
	cmd.Dir = j.cfg.dir
	if len(j.cfg.env) > 0 {
		cmd.Env = append(os.Environ(), j.cfg.env...)
	}
	setProcessGroup(cmd)
	cmd.Cancel = func() error { return killGroup(cmd.Process) }
	out := writerFunc(j.appendOutput)
	cmd.Stdout = out
	cmd.Stderr = out
	// Orphaned grandchildren may hold the output pipe open after the shell
	// exits.
	cmd.WaitDelay = waitDelay
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		j.status = Failed
		j.err = err
		close(j.done)
		return fmt.Errorf("start %q: %w", j.Command, err)
	}

	j.cmd = cmd
	j.stdin = stdin
	j.status = InProgress
	j.cfg.log.Debugw("job started", "id", j.ID, "command", j.Command, "pid", cmd.Process.Pid)
	go j.wait()
	return nil
}

func (j *Job) wait() {
	err := j.cmd.Wait()

	j.mu.Lock()
	j.err = err
	switch {
	case j.interrupted:
		j.status = Interrupted
	case err != nil:
		j.status = Failed
	default:
		j.status = Succeeded
	}
	status := j.status
	j.mu.Unlock()

	j.cfg.log.Debugw("job finished", "id", j.ID, "status", status, "error", err)
	if j.cfg.onExit != nil {
		j.cfg.onExit(j)
	}
	close(j.done)
}

func (j *Job) appendOutput(p []byte) (int, error) {
	j.mu.Lock()
	j.output.Write(p)
	j.mu.Unlock()
	if j.cfg.onOutput != nil {
		j.cfg.onOutput(j.ID, append([]byte(nil), p...))
	}
	return len(p), nil
}

// Status returns the current status. It is safe to call while the process
// is exiting.
func (j *Job) Status() Status {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status
}

// Write sends p to the job's standard input.
func (j *Job) Write(p []byte) (int, error) {
	j.mu.Lock()
	stdin, status := j.stdin, j.status
	j.mu.Unlock()
	if status != InProgress {
		return 0, ErrNotRunning
	}
	return stdin.Write(p)
}

// CloseInput closes the job's standard input.
func (j *Job) CloseInput() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.stdin == nil {
		return ErrNotRunning
	}
	return j.stdin.Close()
}

// Interrupt sends an interrupt to the job's process group. A job still
// running after the kill delay, or one that cannot be interrupted, is killed.
func (j *Job) Interrupt() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.status != InProgress {
		return ErrNotRunning
	}
	j.interrupted = true
	p := j.cmd.Process
	if err := interruptGroup(p); err != nil {
		j.cfg.log.Debugw("interrupt failed, killing", "id", j.ID, "error", err)
		return killGroup(p)
	}
	go func() {
		select {
		case <-j.done:
		case <-time.After(j.cfg.killDelay):
			j.cfg.log.Debugw("job ignored interrupt, killing", "id", j.ID, "delay", j.cfg.killDelay)
			killGroup(p)
		}
	}()
	return nil
}

// Done is closed once the job has exited.
func (j *Job) Done() <-chan struct{} { return j.done }

// Wait blocks until the job exits or ctx is done.
func (j *Job) Wait(ctx context.Context) error {
	select {
	case <-j.done:
		return j.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err returns the process error, if any, once the job has exited.
func (j *Job) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.err
}

// Output returns everything the job has written so far.
func (j *Job) Output() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.output.String()
}

type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }

// Option configures jobs.
type Option func(*config)

type config struct {
	shell     string
	dir       string
	env       []string
	onOutput  func(id string, p []byte)
	onExit    func(*Job)
	killDelay time.Duration
	log       *zap.SugaredLogger
}

func defaultConfig() config {
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}
	return config{shell: shell, killDelay: killDelay, log: zap.NewNop().Sugar()}
}

// WithShell sets the shell used to run commands.
func WithShell(path string) Option {
	return func(c *config) {
		if path != "" {
			c.shell = path
		}
	}
}

// WithDir sets the working directory.
func WithDir(dir string) Option { return func(c *config) { c.dir = dir } }

// WithEnv appends KEY=VALUE pairs to the inherited environment.
func WithEnv(env ...string) Option { return func(c *config) { c.env = append(c.env, env...) } }

// WithOutput registers a callback for output chunks. It runs on the copying
// goroutine, not the caller's.
func WithOutput(fn func(id string, p []byte)) Option {
	return func(c *config) { c.onOutput = fn }
}

// WithExit registers a callback that runs after the job exits and before
// Done is closed.
func WithExit(fn func(*Job)) Option { return func(c *config) { c.onExit = fn } }

// WithKillDelay sets how long an interrupted job may keep running before it
// is killed.
func WithKillDelay(d time.Duration) Option { return func(c *config) { c.killDelay = d } }

// WithLogger sets the logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(c *config) {
		if log != nil {
			c.log = log.Named("job")
		}
	}
}
