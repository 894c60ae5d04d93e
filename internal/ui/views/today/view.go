package today

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	progressdto "readplan/internal/modules/progress/dto"
	"readplan/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type TodayPort interface {
	Today(ctx context.Context) (progressdto.TargetOutput, error)
	Finalize(ctx context.Context, checklist string) (progressdto.FinalizeOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Target progressdto.TargetOutput
	Err    error
}

type FinalizedMsg struct {
	Out progressdto.FinalizeOutput
	Err error
}

// ─── model ───────────────────────────────────────────────────────────────────

const uncheckedBox = "- [ ] "

var wikilink = regexp.MustCompile(`\[\[[^\]|]*\|([^\]]*)\]\]`)

// Model shows today's checklist. Checkbox state lives only in memory until
// Finalize hands the checked text to the reconciler.
type Model struct {
	port     TodayPort
	lines    []string
	entries  []int
	checked  map[int]bool
	cursor   int
	target   progressdto.TargetOutput
	viewport viewport.Model
	spinner  spinner.Model
	loading  bool
	err      error
	width    int
	height   int
}

func New(port TodayPort) Model {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().Foreground(theme.Text)
	// Scrolling follows the cursor; the checklist owns the keys.
	vp.KeyMap = viewport.KeyMap{}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port:     port,
		checked:  map[int]bool{},
		viewport: vp,
		spinner:  sp,
		loading:  true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-2, 1)
		m.refresh()

	case LoadedMsg:
		m.loading = false
		m.err = msg.Err
		if msg.Err == nil {
			m.setLines(msg.Target)
		}
		m.refresh()

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading today's reading…")
	}
	if m.err != nil {
		return theme.Hot.Render("today: ") + m.err.Error()
	}
	footer := theme.Muted.Render(fmt.Sprintf("%d of %d checked", m.CheckedCount(), len(m.entries)))
	return m.viewport.View() + "\n" + footer
}

// ─── actions ─────────────────────────────────────────────────────────────────

func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		target, err := m.port.Today(context.Background())
		return LoadedMsg{Target: target, Err: err}
	}
}

// Finalize submits the checklist with the current checkbox state.
func (m Model) Finalize() tea.Cmd {
	checklist := m.Checklist()
	return func() tea.Msg {
		out, err := m.port.Finalize(context.Background(), checklist)
		return FinalizedMsg{Out: out, Err: err}
	}
}

func (m *Model) MoveUp() {
	if m.cursor > 0 {
		m.cursor--
		m.refresh()
	}
}

func (m *Model) MoveDown() {
	if m.cursor < len(m.entries)-1 {
		m.cursor++
		m.refresh()
	}
}

func (m *Model) Toggle() {
	if len(m.entries) == 0 {
		return
	}
	line := m.entries[m.cursor]
	m.checked[line] = !m.checked[line]
	m.refresh()
}

// ToggleAll checks every entry, or clears them all when all are checked.
func (m *Model) ToggleAll() {
	all := m.CheckedCount() < len(m.entries)
	for _, line := range m.entries {
		m.checked[line] = all
	}
	m.refresh()
}

func (m Model) CheckedCount() int {
	n := 0
	for _, line := range m.entries {
		if m.checked[line] {
			n++
		}
	}
	return n
}

// Checklist renders the rendered target lines with checked boxes filled in.
func (m Model) Checklist() string {
	out := make([]string, len(m.lines))
	for i, line := range m.lines {
		if m.checked[i] {
			line = "- [x] " + strings.TrimPrefix(line, uncheckedBox)
		}
		out[i] = line
	}
	return strings.Join(out, "\n")
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) setLines(target progressdto.TargetOutput) {
	m.target = target
	m.lines = target.Lines
	m.entries = nil
	m.checked = map[int]bool{}
	for i, line := range m.lines {
		if strings.HasPrefix(line, uncheckedBox) {
			m.entries = append(m.entries, i)
		}
	}
	m.cursor = min(m.cursor, max(len(m.entries)-1, 0))
}

func (m *Model) refresh() {
	var sb strings.Builder
	for i, line := range m.lines {
		sb.WriteString(m.renderLine(i, line))
		sb.WriteString("\n")
	}
	m.viewport.SetContent(sb.String())
	if len(m.entries) == 0 || m.viewport.Height == 0 {
		return
	}
	line := m.entries[m.cursor]
	switch {
	case line < m.viewport.YOffset:
		m.viewport.SetYOffset(line)
	case line >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(line - m.viewport.Height + 1)
	}
}

func (m Model) renderLine(i int, line string) string {
	display := wikilink.ReplaceAllString(line, "$1")
	switch {
	case strings.HasPrefix(line, "## "):
		return theme.Title.Render(strings.TrimPrefix(display, "## "))
	case strings.HasPrefix(line, "### "):
		return theme.Hot.Render(strings.TrimPrefix(display, "### "))
	case strings.HasPrefix(line, ">"):
		return theme.Muted.Render(display)
	case strings.HasPrefix(line, uncheckedBox):
		text := strings.TrimPrefix(display, uncheckedBox)
		box := "[ ] "
		style := theme.Pending
		if m.checked[i] {
			box = "[x] "
			style = theme.Done
		}
		pointer := "  "
		if len(m.entries) > 0 && m.entries[m.cursor] == i {
			pointer = theme.Hot.Render("› ")
		}
		return pointer + style.Render(box+text)
	default:
		return display
	}
}
