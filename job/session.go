package job

import (
	"context"
	"sync"
)

// Session is the ordered list of jobs run from one prompt. The most recent job
// has focus; before anything runs an idle placeholder does.
type Session struct {
	opts []Option

	mu   sync.Mutex
	jobs []*Job
	idle *Job
}

// NewSession returns an empty session whose jobs are created with opts.
func NewSession(opts ...Option) *Session {
	return &Session{opts: opts, idle: New("", opts...)}
}

// Start creates and starts a job for command.
func (s *Session) Start(ctx context.Context, command string) (*Job, error) {
	j := New(command, s.opts...)
	s.mu.Lock()
	s.jobs = append(s.jobs, j)
	s.mu.Unlock()
	if err := j.Start(ctx); err != nil {
		return j, err
	}
	return j, nil
}

// Jobs returns a snapshot of the jobs in start order.
func (s *Session) Jobs() []*Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Job(nil), s.jobs...)
}

// Focused returns the job that currently owns input.
func (s *Session) Focused() *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.jobs) == 0 {
		return s.idle
	}
	return s.jobs[len(s.jobs)-1]
}

// ClearJobs removes every job that is no longer running.
func (s *Session) ClearJobs() {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.jobs[:0]
	for _, j := range s.jobs {
		if j.Status() == InProgress {
			kept = append(kept, j)
		}
	}
	for i := len(kept); i < len(s.jobs); i++ {
		s.jobs[i] = nil
	}
	s.jobs = kept
}
