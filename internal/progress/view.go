package progress

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// View renders reporter records to the terminal. Interactive sessions
// get an animated bubbles progress bar; everything else gets plain log
// lines.
type View interface {
	// Attach subscribes the view to a reporter.
	Attach(r *Reporter)
	// Close stops rendering and detaches from the reporter.
	Close()
}

// NewView creates a View for os.Stdout, choosing interactive or
// headless rendering from the TTY state of stdout.
func NewView() View {
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return newInteractiveView()
	}
	return newHeadlessView(os.Stdout)
}

// --- headlessView ---

// headlessView prints one log line per record change.
type headlessView struct {
	mu          sync.Mutex
	writer      io.Writer
	unsubscribe func()
	last        string
}

// NewHeadlessView creates a headless view writing to w.
func NewHeadlessView(w io.Writer) View {
	return newHeadlessView(w)
}

func newHeadlessView(w io.Writer) *headlessView {
	return &headlessView{writer: w}
}

func (v *headlessView) Attach(r *Reporter) {
	v.unsubscribe = r.Subscribe(v.render)
}

func (v *headlessView) render(rec Record) {
	v.mu.Lock()
	defer v.mu.Unlock()

	line := rec.Status
	if rec.Info != "" {
		line = rec.Status + ": " + rec.Info
	}
	if rec.Progress >= 0 {
		line = fmt.Sprintf("[%3.0f%%] %s", rec.Progress*100, line)
	}
	if line == v.last || line == "" {
		return
	}
	v.last = line
	_, _ = fmt.Fprintln(v.writer, line)
}

func (v *headlessView) Close() {
	if v.unsubscribe != nil {
		v.unsubscribe()
	}
}

// --- interactiveView ---

// recordMsg carries a record snapshot into the tea program.
type recordMsg Record

// viewStopMsg stops the program.
type viewStopMsg struct{}

// viewModel is the bubbletea Model rendering the active operation.
type viewModel struct {
	bar     progress.Model
	spin    spinner.Model
	record  Record
	started bool
	done    bool
}

func newViewModel() viewModel {
	bar := progress.New(
		progress.WithGradient("#0F766E", "#2DD4BF"),
		progress.WithWidth(40),
	)
	s := spinner.New(spinner.WithSpinner(spinner.Dot))
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#2DD4BF"))
	return viewModel{bar: bar, spin: s}
}

func (m viewModel) Init() tea.Cmd {
	return m.spin.Tick
}

func (m viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case recordMsg:
		m.record = Record(msg)
		m.started = true
		return m, nil
	case viewStopMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case progress.FrameMsg:
		pm, cmd := m.bar.Update(msg)
		m.bar = pm.(progress.Model)
		return m, cmd
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m viewModel) View() string {
	if m.done || !m.started {
		return ""
	}
	line := m.record.Status
	if m.record.Info != "" {
		line += " · " + m.record.Info
	}
	if m.record.Progress >= 0 {
		return m.bar.ViewAs(m.record.Progress) + " " + line + "\n"
	}
	return m.spin.View() + " " + line + "\n"
}

// interactiveView renders records with an animated progress bar.
type interactiveView struct {
	program     *tea.Program
	unsubscribe func()
	once        sync.Once
}

func newInteractiveView() *interactiveView {
	p := tea.NewProgram(newViewModel())
	v := &interactiveView{program: p}

	go func() {
		_, _ = p.Run()
	}()

	return v
}

func (v *interactiveView) Attach(r *Reporter) {
	v.unsubscribe = r.Subscribe(func(rec Record) {
		v.program.Send(recordMsg(rec))
	})
}

func (v *interactiveView) Close() {
	v.once.Do(func() {
		if v.unsubscribe != nil {
			v.unsubscribe()
		}
		v.program.Send(viewStopMsg{})
		v.program.Wait()
	})
}
