package interactive

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tmc/shellroute/dispatch"
	"github.com/tmc/shellroute/input"
	"github.com/tmc/shellroute/job"
	"github.com/tmc/shellroute/ui/help"
	"github.com/tmc/shellroute/ui/statusbar"
	"github.com/tmc/shellroute/ui/viewport"
)

// Helper function to create a command that sends a message
func msgCmd(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

var _ Session = (*BubbleSession)(nil)

type (
	// deferredMsg carries a dispatcher continuation to the next Update.
	deferredMsg  struct{ fn func() }
	jobOutputMsg struct{ id string }
	jobExitMsg   struct {
		id     string
		status job.Status
	}
)

// teaScheduler collects continuations deferred during an Update and turns
// them into commands, so they run on a later turn of the event loop.
type teaScheduler struct {
	pending []func()
}

func (s *teaScheduler) Defer(fn func()) { s.pending = append(s.pending, fn) }

func (s *teaScheduler) drain() []tea.Cmd {
	cmds := make([]tea.Cmd, len(s.pending))
	for i, fn := range s.pending {
		cmds[i] = msgCmd(deferredMsg{fn: fn})
	}
	s.pending = nil
	return cmds
}

// BubbleSession is the full-screen Bubble Tea host.
type BubbleSession struct {
	config  Config
	model   *bubbleModel
	program *tea.Program
}

// NewBubbleSession creates a new Bubble Tea based session.
func NewBubbleSession(cfg Config) (*BubbleSession, error) {
	cfg.setDefaults()
	s := &BubbleSession{config: cfg}
	s.model = newBubbleModel(cfg, s.send)
	return s, nil
}

func (s *BubbleSession) send(msg tea.Msg) {
	if s.program != nil {
		s.program.Send(msg)
	}
}

// Run starts the Bubble Tea application loop.
func (s *BubbleSession) Run(ctx context.Context) error {
	s.model.pane.ctx = ctx
	defer s.model.pane.saveHistory()
	defer s.model.pane.interruptAll()

	s.program = tea.NewProgram(s.model,
		tea.WithAltScreen(),
		tea.WithInput(s.config.Stdin),
		tea.WithOutput(s.config.Stdout),
	)

	progDone := make(chan error, 1)
	go func() { _, runErr := s.program.Run(); progDone <- runErr }()

	select {
	case <-ctx.Done():
		s.program.Quit()
		<-progDone
		return ctx.Err()
	case err := <-progDone:
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
}

// Quit signals the Bubble Tea program to quit.
func (s *BubbleSession) Quit() {
	if s.program != nil {
		s.program.Quit()
	}
}

// eventHandlers maps non-key messages to their handlers.
type eventHandlers struct {
	onWindowSize func(*bubbleModel, tea.WindowSizeMsg) tea.Cmd
	onJobOutput  func(*bubbleModel, jobOutputMsg) tea.Cmd
	onJobExit    func(*bubbleModel, jobExitMsg) tea.Cmd
	onDeferred   func(*bubbleModel, deferredMsg) tea.Cmd
}

type bubbleModel struct {
	pane     *pane
	sched    *teaScheduler
	spinner  spinner.Model
	help     help.Model
	output   *viewport.Model
	handlers eventHandlers

	width, height int
	quitting      bool
}

func newBubbleModel(cfg Config, send func(tea.Msg)) *bubbleModel {
	sched := &teaScheduler{}
	m := &bubbleModel{
		sched:    sched,
		handlers: createEventHandlers(),
		output:   viewport.New(80, 20),
		width:    80,
		height:   24,
	}
	m.pane = newPane(cfg, sched, paneHooks{
		output: func(id string, _ []byte) { send(jobOutputMsg{id: id}) },
		exit:   func(j *job.Job) { send(jobExitMsg{id: j.ID, status: j.Status()}) },
		empty:  func() { m.quitting = true },
	})
	m.spinner = spinner.New(spinner.WithSpinner(spinner.Dot))
	m.spinner.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	m.help = help.New(m.pane.dispatcher.Table().Bindings())
	m.help.Show = true
	return m
}

func (m *bubbleModel) Init() tea.Cmd { return nil }

func (m *bubbleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	m.pane.settleFocus()
	m.refreshOutput()
	return m, cmd
}

func (m *bubbleModel) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		return m.handlers.onWindowSize(m, msg)
	case deferredMsg:
		return m.handlers.onDeferred(m, msg)
	case jobOutputMsg:
		return m.handlers.onJobOutput(m, msg)
	case jobExitMsg:
		return m.handlers.onJobExit(m, msg)
	case spinner.TickMsg:
		if !m.pane.running() {
			return nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd
	}
	return nil
}

// refreshOutput fits the transcript window above the footer and loads the
// current job output into it.
func (m *bubbleModel) refreshOutput() {
	if m.width > 0 {
		m.output.SetSize(m.width, m.height-lipgloss.Height(m.footer())-1)
	}
	m.output.SetLines(renderJobs(m))
}

// handleKey hands the key to the dispatcher and, if it passes through, to
// whichever element has focus.
func (m *bubbleModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	ev, ok := input.FromTea(msg, m.pane.prompt.Value())
	if !ok {
		return nil
	}
	wasRunning := m.pane.running()
	res := m.pane.dispatcher.Handle(ev)
	cmds := m.sched.drain()
	if res == dispatch.PassThrough {
		cmds = append(cmds, m.passThrough(msg, ev))
	}
	if !wasRunning && m.pane.running() {
		cmds = append(cmds, m.spinner.Tick)
	}
	m.pane.debugView.SetStats(m.pane.dispatcher.Stats())
	if m.quitting {
		cmds = append(cmds, tea.Quit)
	}
	return tea.Batch(cmds...)
}

// passThrough applies the default behavior of an event the dispatcher left
// alone. Literal prompt input has already been applied by the dispatcher.
func (m *bubbleModel) passThrough(msg tea.KeyMsg, ev input.Event) tea.Cmd {
	p := m.pane
	if p.search.IsFocused() {
		if ke, ok := ev.(input.KeyEvent); ok && ke.Code == input.Esc {
			p.search.ClearSelection()
			p.prompt.Focus()
			return nil
		}
		return p.search.Update(msg)
	}
	switch ev := ev.(type) {
	case input.PasteEvent:
		if p.prompt.Focused() {
			p.prompt.Insert(ev.Text)
		}
	case input.KeyEvent:
		return m.hostKey(ev)
	}
	return nil
}

// hostKey handles the chords the host gives meaning to when nothing in the
// keymap claims them.
func (m *bubbleModel) hostKey(ev input.KeyEvent) tea.Cmd {
	p := m.pane
	switch ev.Code {
	case input.PageUp:
		m.output.PageUp()
		return nil
	case input.PageDown:
		m.output.PageDown()
		return nil
	}
	if !ev.Ctrl() {
		return nil
	}
	switch ev.Code {
	case input.Char('d'):
		if p.running() {
			p.jobs.Focused().CloseInput()
			return nil
		}
		if p.prompt.Value() == "" {
			m.quitting = true
			return tea.Quit
		}
	case input.Char('f'):
		p.prompt.Blur()
		return p.search.Focus()
	case input.Char('g'):
		m.help.Toggle()
	case input.Char('o'):
		p.debugView.Log("debug ui %t", p.debug.Toggle())
	}
	return nil
}

func createEventHandlers() eventHandlers {
	return eventHandlers{
		onWindowSize: handleWindowSize,
		onJobOutput:  handleJobOutput,
		onJobExit:    handleJobExit,
		onDeferred:   handleDeferred,
	}
}

func handleWindowSize(m *bubbleModel, msg tea.WindowSizeMsg) tea.Cmd {
	m.width, m.height = msg.Width, msg.Height
	m.pane.prompt.SetWidth(msg.Width)
	m.pane.debugView.SetWidth(msg.Width)
	m.help.SetWidth(msg.Width)
	return nil
}

// handleJobOutput only triggers a redraw; output is read from the job.
func handleJobOutput(m *bubbleModel, msg jobOutputMsg) tea.Cmd { return nil }

func handleJobExit(m *bubbleModel, msg jobExitMsg) tea.Cmd {
	m.pane.debugView.Log("job %s %s", shortID(msg.id), msg.status)
	if !m.pane.search.IsFocused() {
		m.pane.prompt.Focus()
	}
	return nil
}

func handleDeferred(m *bubbleModel, msg deferredMsg) tea.Cmd {
	msg.fn()
	return nil
}

var (
	commandStyle = lipgloss.NewStyle().Bold(true)
	exitStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// renderJobs renders the command and output of every job.
func renderJobs(m *bubbleModel) []string {
	var lines []string
	for _, j := range m.pane.jobs.Jobs() {
		header := commandStyle.Render(m.pane.cfg.Prompt + j.Command)
		switch st := j.Status(); {
		case st == job.Failed || st == job.Interrupted:
			header += " " + failStyle.Render(fmt.Sprintf("[%s]", st))
		case st.Finished():
			header += " " + exitStyle.Render(fmt.Sprintf("[%s]", st))
		}
		lines = append(lines, header)
		out := strings.TrimRight(j.Output(), "\n")
		if out == "" {
			continue
		}
		for _, l := range strings.Split(out, "\n") {
			lines = append(lines, m.pane.search.Highlight(l))
		}
	}
	return lines
}

func (m *bubbleModel) footer() string {
	p := m.pane
	var footer []string
	if p.running() {
		footer = append(footer, m.spinner.View()+" "+p.jobs.Focused().Command)
	} else {
		footer = append(footer, p.prompt.View())
	}
	if v := p.search.View(); v != "" {
		footer = append(footer, v)
	}
	if v := m.help.View(); v != "" {
		footer = append(footer, v)
	}
	if v := p.debugView.View(); v != "" {
		footer = append(footer, v)
	}
	footer = append(footer, statusbar.Render(m.width, statusbar.Data{
		Mode:    p.mode(),
		Job:     p.jobSummary(),
		Running: p.running(),
		Tab:     p.tabs.FocusedIndex(),
		Tabs:    p.tabs.Len(),
		Debug:   p.debug.Enabled,
	}))
	return strings.Join(footer, "\n")
}

func (m *bubbleModel) View() string {
	if m.quitting {
		return ""
	}
	var view strings.Builder
	view.WriteString(m.pane.tabs.View())
	view.WriteString("\n")
	if body := m.output.View(); body != "" {
		view.WriteString(body)
		view.WriteString("\n")
	}
	view.WriteString(m.footer())
	return view.String()
}
