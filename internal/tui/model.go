package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"ns3-trace-analyzer/internal/export"
	"ns3-trace-analyzer/internal/filter"
	"ns3-trace-analyzer/internal/pipeline"
	"ns3-trace-analyzer/internal/trace"
)

const (
	maxRows       = 5000
	chromeHeight  = 8
	minTableLines = 3
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// columnWidths follows export.Header.
var columnWidths = []int{10, 10, 16, 5, 15, 15, 6, 28, 20, 28, 24, 24, 24}

type model struct {
	title     string
	bar       progress.Model
	snap      pipeline.Snapshot
	table     table.Model
	input     textinput.Model
	prompting bool
	entries   []trace.Entry
	shown     int
	filters   filter.Set
	result    *pipeline.Result
	finished  bool
	status    string
	statusErr bool
	width     int
	height    int
}

func newModel(title string) model {
	cols := make([]table.Column, len(export.Header))
	for i, h := range export.Header {
		cols[i] = table.Column{Title: h, Width: columnWidths[i]}
	}
	ti := textinput.New()
	ti.Prompt = "filter> "
	ti.Placeholder = "Node=N2 or Event Type=All"
	return model{
		title:   title,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		table:   table.New(table.WithColumns(cols), table.WithFocused(true), table.WithHeight(10)),
		input:   ti,
		filters: filter.Set{},
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.bar.Width = max(msg.Width-40, 10)
		m.table.SetWidth(msg.Width)
		m.table.SetHeight(max(msg.Height-chromeHeight, minTableLines))
	case progressMsg:
		m.snap = msg.Snapshot
	case resultMsg:
		m.finished = true
		m.entries = msg.entries
		m.result = msg.result
		if msg.err != nil {
			m.setStatus(msg.err.Error(), true)
		}
		m.refresh()
	case tea.KeyMsg:
		if m.prompting {
			return m.updatePrompt(msg)
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "/":
			m.prompting = true
			m.input.SetValue("")
			return m, m.input.Focus()
		case "c":
			m.filters = filter.Set{}
			m.setStatus("filters cleared", false)
			m.refresh()
			return m, nil
		}
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.prompting = false
		m.input.Blur()
		col, value, err := filter.ParseExpr(m.input.Value())
		if err != nil {
			m.setStatus(err.Error(), true)
			return m, nil
		}
		m.filters.Put(col, value)
		m.setStatus("", false)
		m.refresh()
	case tea.KeyEsc:
		m.prompting = false
		m.input.Blur()
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

// refresh rebuilds the table rows from entries and the active filters.
func (m *model) refresh() {
	matched := m.filters.Apply(m.entries)
	m.shown = len(matched)
	if len(matched) > maxRows {
		matched = matched[:maxRows]
	}
	rows := make([]table.Row, len(matched))
	for i, e := range matched {
		cells := export.Row(e)
		for j, c := range cells {
			cells[j] = truncate.StringWithTail(c, uint(columnWidths[j]), "…")
		}
		rows[i] = cells
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("ns-3 trace analyzer") + " " + dimStyle.Render(m.title) + "\n\n")
	b.WriteString(m.renderProgress() + "\n\n")
	if !m.finished {
		b.WriteString(dimStyle.Render("parsing... press q to abort"))
		return b.String()
	}
	b.WriteString(m.table.View() + "\n")
	b.WriteString(m.renderStatus() + "\n")
	if m.prompting {
		b.WriteString(m.input.View())
	} else {
		b.WriteString(dimStyle.Render("/ filter • c clear filters • ↑/↓ scroll • q quit"))
	}
	return b.String()
}

func (m model) renderProgress() string {
	return fmt.Sprintf("%s %5.1f%%  elapsed %s  remaining %s",
		m.bar.ViewAs(m.snap.Percent/100),
		m.snap.Percent,
		FormatDuration(m.snap.Elapsed),
		FormatDuration(m.snap.Remaining),
	)
}

func (m model) renderStatus() string {
	line := fmt.Sprintf("%d/%d entries", m.shown, len(m.entries))
	if m.shown > maxRows {
		line += fmt.Sprintf(" (first %d shown)", maxRows)
	}
	if m.result != nil && m.result.Skipped > 0 {
		line += fmt.Sprintf(" • %d skipped", m.result.Skipped)
	}
	if len(m.filters) > 0 {
		line += " • " + okStyle.Render(m.filters.String())
	}
	if m.status != "" {
		style := dimStyle
		if m.statusErr {
			style = errStyle
		}
		line += " • " + style.Render(m.status)
	}
	return line
}

// FormatDuration renders d as HH:MM:SS, rounding to whole seconds.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	s := int64(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, s/60%60, s%60)
}
