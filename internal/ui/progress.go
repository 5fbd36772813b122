package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// recentRows is how many finished units the view keeps on screen.
const recentRows = 8

type progressModel struct {
	title   string
	total   int
	events  <-chan Event
	spinner spinner.Model
	prog    progress.Model
	counts  [StatusError + 1]int
	active  map[string]struct{}
	recent  []Event
	width   int
	done    bool
}

type eventMsg Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders batch progress.
// The model quits when events is closed.
func NewProgressModel(title string, total int, events <-chan Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	return &progressModel{
		title:   title,
		total:   total,
		events:  events,
		spinner: sp,
		prog:    prog,
		active:  make(map[string]struct{}),
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
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
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := fmt.Sprintf("%s %d/%d", m.title, m.finished(), m.total)
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n")
	b.WriteString(m.countsLine())
	b.WriteString("\n\n")

	nameWidth := max(m.width-16, 20)
	for _, ev := range m.recent {
		status := styleStatus(ev.Status).Render(fmt.Sprintf("%10s", ev.Status))
		line := fmt.Sprintf("  %s %s", status, truncate(ev.Unit, nameWidth))
		if ev.Note != "" {
			line += " " + lipgloss.NewStyle().Faint(true).Render(truncate(ev.Note, nameWidth/2))
		}
		b.WriteString(line)
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

func (m *progressModel) countsLine() string {
	parts := make([]string, 0, 5)
	for _, s := range []Status{StatusDone, StatusCached, StatusPartial, StatusError} {
		if n := m.counts[s]; n > 0 {
			parts = append(parts, styleStatus(s).Render(fmt.Sprintf("%s %d", s, n)))
		}
	}
	if n := len(m.active); n > 0 {
		parts = append(parts, fmt.Sprintf("working %d", n))
	}
	return "  " + strings.Join(parts, "  ")
}

func (m *progressModel) finished() int {
	return m.counts[StatusDone] + m.counts[StatusCached] + m.counts[StatusPartial] + m.counts[StatusError]
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

func (m *progressModel) applyEvent(ev Event) tea.Cmd {
	if ev.Status == StatusWorking {
		m.active[ev.Unit] = struct{}{}
		return nil
	}
	if !ev.Status.Finished() {
		return nil
	}
	delete(m.active, ev.Unit)
	m.counts[ev.Status]++
	m.recent = append(m.recent, ev)
	if len(m.recent) > recentRows {
		m.recent = m.recent[len(m.recent)-recentRows:]
	}
	if m.total <= 0 {
		return nil
	}
	return m.prog.SetPercent(float64(m.finished()) / float64(m.total))
}

func styleStatus(status Status) lipgloss.Style {
	switch status {
	case StatusDone, StatusCached:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case StatusPartial:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	case StatusError:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case StatusWorking:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
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
