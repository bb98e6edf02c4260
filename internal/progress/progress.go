// Package progress shows a terminal spinner while a generation task runs.
package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/qgen/internal/orchestrator"
	"github.com/abhisek/qgen/internal/ui/theme"
)

type doneMsg struct {
	result orchestrator.Result
}

// Model is the spinner shown while a task runs.
type Model struct {
	task    *orchestrator.Task
	label   string
	spinner spinner.Model
	started time.Time
	now     time.Time

	result   orchestrator.Result
	finished bool
	canceled bool
}

// New creates a Model that waits on task.
func New(task *orchestrator.Task, label string) Model {
	return Model{
		task:    task,
		label:   label,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(theme.Spinner)),
		started: task.Started,
		now:     task.Started,
	}
}

func waitFor(task *orchestrator.Task) tea.Cmd {
	return func() tea.Msg {
		<-task.Done()
		r, _ := task.Result()
		return doneMsg{result: r}
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitFor(m.task))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.finished || m.canceled {
			return m, nil
		}
		m.now = msg.Time
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case doneMsg:
		m.result = msg.result
		m.finished = true
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.canceled = true
			m.task.Cancel()
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) View() tea.View {
	return tea.NewView(m.render())
}

func (m Model) render() string {
	switch {
	case m.canceled:
		return theme.Failed.Render("✗ ") + theme.Body.Render("Canceled.") + "\n"
	case m.finished && m.result.Succeeded():
		return theme.OK.Render("✓ ") + theme.Body.Render("Questions generated successfully!") + "\n"
	case m.finished:
		return theme.Failed.Render("✗ ") + theme.Body.Render("Error generating questions: "+m.result.Err) + "\n"
	}
	elapsed := m.now.Sub(m.started).Truncate(time.Second)
	return m.spinner.View() + " " +
		theme.Body.Render(m.label) + " " +
		theme.Hint.Render(fmt.Sprintf("(%s, ctrl+c to cancel)", elapsed)) + "\n"
}

// Canceled reports whether the user interrupted the wait.
func (m Model) Canceled() bool { return m.canceled }

// Result returns the task's result once finished.
func (m Model) Result() (orchestrator.Result, bool) {
	return m.result, m.finished
}

// Run shows the spinner on out until task finishes and returns its result.
// When out is not a terminal it waits silently. A user interrupt cancels
// the task and still returns its (failed) result.
func Run(ctx context.Context, task *orchestrator.Task, label string, out io.Writer) (orchestrator.Result, error) {
	if !isTerminal(out) {
		return task.Wait(ctx)
	}

	p := tea.NewProgram(New(task, label), tea.WithContext(ctx), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		task.Cancel()
		return task.Wait(context.WithoutCancel(ctx))
	}

	if m, ok := final.(Model); ok {
		if r, done := m.Result(); done {
			return r, nil
		}
	}
	return task.Wait(context.WithoutCancel(ctx))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
