// Package ui renders live terminal progress for batch commands.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/frmsvrt/Halide/internal/pipeline"
)

type progressModel struct {
	title   string
	events  <-chan pipeline.Event
	spinner spinner.Model
	prog    progress.Model
	items   []fileItem
	index   map[string]int
	width   int
	done    bool
}

type fileItem struct {
	path   string
	status string
	stage  pipeline.Stage
	err    error
}

type eventMsg pipeline.Event
type doneMsg struct{}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	workingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	idleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
)

// NewProgressModel returns a Bubble Tea model that follows pipeline events
// for files until events is closed.
func NewProgressModel(title string, files []string, events <-chan pipeline.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = workingStyle

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]fileItem, len(files))
	index := make(map[string]int, len(files))
	for i, file := range files {
		items[i] = fileItem{path: file, status: string(pipeline.StatusQueued)}
		index[file] = i
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		items:   items,
		index:   index,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(pipeline.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = max(10, msg.Width-4)
		}
	case progress.FrameMsg:
		pm, cmd := m.prog.Update(msg)
		m.prog = pm.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	header := fmt.Sprintf("%s (%d/%d)", m.title, m.finished(), len(m.items))
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	nameWidth := max(20, m.width-12-4)
	for _, item := range m.items {
		status := styleStatus(item.status).Render(fmt.Sprintf("%10s", item.status))
		fmt.Fprintf(&b, "  %s %s", status, truncate(item.path, nameWidth))
		if item.err != nil {
			b.WriteString("\n" + strings.Repeat(" ", 13) + errorStyle.Render(truncate(item.err.Error(), nameWidth)))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev pipeline.Event) tea.Cmd {
	idx, ok := m.index[ev.File]
	if !ok {
		return nil
	}
	item := &m.items[idx]
	item.stage = ev.Stage
	item.status = statusLabel(ev.Stage, ev.Status)
	if ev.Status == pipeline.StatusError {
		item.err = ev.Err
	}
	return m.prog.SetPercent(m.fraction())
}

// fraction credits a file with the stages it has started; finished files
// count in full.
func (m *progressModel) fraction() float64 {
	total := 0.0
	for _, item := range m.items {
		total += itemProgress(item)
	}
	return total / float64(len(m.items))
}

func (m *progressModel) finished() int {
	n := 0
	for _, item := range m.items {
		if itemProgress(item) == 1 {
			n++
		}
	}
	return n
}

func itemProgress(item fileItem) float64 {
	switch {
	case item.status == string(pipeline.StatusError):
		return 1
	case item.status == string(pipeline.StatusDone) && item.stage == pipeline.StageAnalyze:
		return 1
	}
	for i, st := range pipeline.Stages {
		if st == item.stage {
			return float64(i) / float64(len(pipeline.Stages))
		}
	}
	return 0
}

func statusLabel(stage pipeline.Stage, status pipeline.Status) string {
	switch status {
	case pipeline.StatusWorking:
		return stageLabel(stage)
	case pipeline.StatusDone:
		if stage == pipeline.StageAnalyze {
			return "done"
		}
		return stageLabel(stage)
	default:
		return string(status)
	}
}

func stageLabel(stage pipeline.Stage) string {
	switch stage {
	case pipeline.StageRead:
		return "reading"
	case pipeline.StageDecode:
		return "decoding"
	case pipeline.StageAnalyze:
		return "analyzing"
	default:
		return ""
	}
}

func styleStatus(status string) lipgloss.Style {
	switch status {
	case "done":
		return doneStyle
	case "error":
		return errorStyle
	case "reading", "decoding", "analyzing":
		return workingStyle
	default:
		return idleStyle
	}
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
