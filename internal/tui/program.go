// Package tui renders analysis progress and the resulting entry table in a
// bubbletea terminal UI.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"ns3-trace-analyzer/internal/pipeline"
	"ns3-trace-analyzer/internal/trace"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// progressMsg carries a pipeline progress notification.
type progressMsg struct{ pipeline.Snapshot }

// resultMsg carries the finished run.
type resultMsg struct {
	entries []trace.Entry
	result  *pipeline.Result
	err     error
}

// Program runs the UI in the background and feeds it pipeline events.
type Program struct {
	program teaProgram
	done    chan struct{}
	err     error
}

// Start launches the UI for the file at title.
func Start(title string, opts ...tea.ProgramOption) *Program {
	if len(opts) == 0 {
		opts = []tea.ProgramOption{tea.WithAltScreen()}
	}
	p := tea.NewProgram(newModel(title), opts...)
	prog := &Program{program: p, done: make(chan struct{})}
	go func() {
		_, prog.err = p.Run()
		close(prog.done)
	}()
	return prog
}

// ProgressSink forwards progress notifications to the UI.
func (p *Program) ProgressSink() pipeline.ProgressFunc {
	return func(s pipeline.Snapshot) {
		p.program.Send(progressMsg{s})
	}
}

// Finish hands the parsed entries to the UI. err is shown in the status line.
func (p *Program) Finish(entries []trace.Entry, res *pipeline.Result, err error) {
	p.program.Send(resultMsg{entries: entries, result: res, err: err})
}

// Done is closed once the user quits.
func (p *Program) Done() <-chan struct{} { return p.done }

// Wait blocks until the user quits and returns the program error.
func (p *Program) Wait() error {
	<-p.done
	return p.err
}
