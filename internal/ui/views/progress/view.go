package progress

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	progressdto "readplan/internal/modules/progress/dto"
	"readplan/internal/ui/theme"
)

type StatusPort interface {
	Status(ctx context.Context) (progressdto.StatusOutput, error)
}

type StatusLoadedMsg struct {
	Status progressdto.StatusOutput
	Err    error
}

const barWidth = 40

// Model summarises where the reader stands against the schedule.
type Model struct {
	port   StatusPort
	status progressdto.StatusOutput
	err    error
	loaded bool
	width  int
	height int
}

func New(port StatusPort) Model {
	return Model{port: port}
}

func (m Model) Init() tea.Cmd {
	return m.Reload()
}

func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		status, err := m.port.Status(context.Background())
		return StatusLoadedMsg{Status: status, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatusLoadedMsg:
		m.loaded = true
		m.status = msg.Status
		m.err = msg.Err
	}
	return m, nil
}

func (m Model) View() string {
	if !m.loaded {
		return theme.Muted.Render("Loading progress…")
	}
	if m.err != nil {
		return theme.Hot.Render("status: ") + m.err.Error()
	}
	s := m.status
	p := s.Pacing

	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Reading progress") + "\n\n")
	sb.WriteString(renderBar(s.Percent) + fmt.Sprintf("  %.1f%%\n\n", s.Percent))
	sb.WriteString(theme.Muted.Render("read:      ") + fmt.Sprintf("%d / %d\n", s.VersesRead, s.TotalVerses))
	if s.NextRef != "" {
		sb.WriteString(theme.Muted.Render("next:      ") + fmt.Sprintf("%s (idx:%d)\n", s.NextRef, s.LastOrder))
	} else {
		sb.WriteString(theme.Muted.Render("next:      ") + "plan complete\n")
	}
	sb.WriteString(theme.Muted.Render("started:   ") + s.StartDate.Format("2006-01-02") + "\n")
	sb.WriteString(theme.Muted.Render("day:       ") + fmt.Sprintf("%d of %d\n", p.DaysElapsed, s.TargetDays))
	sb.WriteString(theme.Muted.Render("expected:  ") + fmt.Sprintf("%d\n", p.Expected))
	sb.WriteString(theme.Muted.Render("pace:      ") + fmt.Sprintf("%d/day\n", p.Pace))
	if p.Catchup > 0 {
		sb.WriteString(theme.Behind.Render(fmt.Sprintf("behind by %d, read %d today", p.Catchup, p.RecommendedToday)) + "\n")
	} else {
		sb.WriteString(theme.Done.Render("on schedule") + "\n")
	}
	return theme.Pane.Width(max(m.width-4, 20)).Render(sb.String())
}

func renderBar(percent float64) string {
	filled := int(percent / 100 * barWidth)
	filled = min(max(filled, 0), barWidth)
	return theme.Done.Render(strings.Repeat("█", filled)) +
		theme.Muted.Render(strings.Repeat("░", barWidth-filled))
}
