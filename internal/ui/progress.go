// Package ui renders the progress of `eojs new` as a Bubble Tea program.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"eojs/internal/scaffold"
)

type progressModel struct {
	title   string
	events  <-chan scaffold.Event
	spinner spinner.Model
	prog    progress.Model
	items   []stepItem
	index   map[string]int
	width   int
	done    bool
	failed  bool
}

type stepItem struct {
	label   string
	status  scaffold.Status
	elapsed time.Duration
	err     error
}

type eventMsg scaffold.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model fed by events. Items are shown
// in the order given; unknown items are appended when their first event
// arrives. The program quits when events is closed.
func NewProgressModel(title string, items []string, events <-chan scaffold.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		index:   make(map[string]int, len(items)),
		width:   80,
	}
	for _, it := range items {
		m.add(it)
	}
	return m
}

func (m *progressModel) add(label string) int {
	if idx, ok := m.index[label]; ok {
		return idx
	}
	m.items = append(m.items, stepItem{label: label, status: scaffold.StatusQueued})
	m.index[label] = len(m.items) - 1
	return len(m.items) - 1
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(scaffold.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m, nil
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
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		progressModel, cmd := m.prog.Update(msg)
		m.prog = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	switch {
	case m.done && m.failed:
		header = fmt.Sprintf("failed: %s", header)
	case m.done:
		header = fmt.Sprintf("done: %s", header)
	default:
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	nameWidth := max(m.width-20, 20)
	for _, item := range m.items {
		statusStyled := styleStatus(item.status).Render(fmt.Sprintf("%8s", item.status))
		line := fmt.Sprintf("  %s %s", statusStyled, truncate(item.label, nameWidth))
		if item.elapsed > 0 {
			line += lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(" " + item.elapsed.Round(time.Millisecond).String())
		}
		b.WriteString(line)
		b.WriteString("\n")
		if item.err != nil {
			first, _, _ := strings.Cut(item.err.Error(), "\n")
			b.WriteString("           ")
			b.WriteString(styleStatus(scaffold.StatusError).Render(truncate(first, nameWidth)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if m.done && !m.failed {
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

func (m *progressModel) applyEvent(ev scaffold.Event) tea.Cmd {
	if ev.Item == "" {
		return nil
	}
	idx := m.add(ev.Item)
	item := &m.items[idx]
	item.status = ev.Status
	if ev.Elapsed > 0 {
		item.elapsed = ev.Elapsed
	}
	if ev.Err != nil {
		item.err = ev.Err
		m.failed = true
	}
	return m.prog.SetPercent(m.percent())
}

func (m *progressModel) percent() float64 {
	if len(m.items) == 0 {
		return 0
	}
	total := 0.0
	for _, item := range m.items {
		total += statusWeight(item.status)
	}
	return total / float64(len(m.items))
}

func statusWeight(status scaffold.Status) float64 {
	switch status {
	case scaffold.StatusDone, scaffold.StatusError, scaffold.StatusSkipped:
		return 1.0
	case scaffold.StatusWorking:
		return 0.5
	default:
		return 0.0
	}
}

func styleStatus(status scaffold.Status) lipgloss.Style {
	switch status {
	case scaffold.StatusDone:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case scaffold.StatusError:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case scaffold.StatusWorking:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	case scaffold.StatusSkipped:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
