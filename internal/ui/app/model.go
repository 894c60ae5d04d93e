package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	progressdto "readplan/internal/modules/progress/dto"
	apperrors "readplan/internal/platform/errors"
	"readplan/internal/ui/components"
	"readplan/internal/ui/theme"
	progressview "readplan/internal/ui/views/progress"
	todayview "readplan/internal/ui/views/today"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type progressPort interface {
	Today(ctx context.Context) (progressdto.TargetOutput, error)
	Finalize(ctx context.Context, checklist string) (progressdto.FinalizeOutput, error)
	Status(ctx context.Context) (progressdto.StatusOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabToday tabID = iota
	tabProgress
	tabCount
)

var tabLabels = [tabCount]string{"Today", "Progress"}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab      key.Binding
	Up       key.Binding
	Down     key.Binding
	Toggle   key.Binding
	All      key.Binding
	Finalize key.Binding
	Reload   key.Binding
	Help     key.Binding
	Palette  key.Binding
	Quit     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:      key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "switch tab")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:   key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "check")),
		All:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "check all")),
		Finalize: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "finalize")),
		Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette:  key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "command")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Finalize, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle, k.All},
		{k.Finalize, k.Reload, k.Tab},
		{k.Help, k.Palette, k.Quit},
	}
}

var paletteCommands = []components.PaletteCommand{
	{Name: "finalize", Help: "record checked items"},
	{Name: "reload", Help: "re-render today's list"},
	{Name: "check-all", Help: "toggle every item"},
	{Name: "status", Help: "show progress"},
	{Name: "today", Help: "show today's list"},
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model: tab routing, help overlay and the
// command palette. Reading state comes from the progress port only.
type Model struct {
	vaultPath string
	progress  progressPort

	todayView    todayview.Model
	progressView progressview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	width     int
	height    int
}

func NewModel(vaultPath string, progress progressPort) Model {
	return Model{
		vaultPath:    vaultPath,
		progress:     progress,
		todayView:    todayview.New(progress),
		progressView: progressview.New(progress),
		activeTab:    tabToday,
		keys:         defaultKeys(),
		help:         help.New(),
		palette:      components.NewPalette(paletteCommands...),
		status:       "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.todayView.Init(), m.progressView.Init())
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 72))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case todayview.FinalizedMsg:
		m.status = finalizeStatus(msg)
		if msg.Err == nil {
			cmds = append(cmds, m.todayView.Reload(), m.progressView.Reload())
		}
		return m, tea.Batch(cmds...)

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if key.Matches(msg, m.keys.Help) || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.showHelp = true
			return m, nil
		case key.Matches(msg, m.keys.Palette):
			return m, m.palette.Open()
		case key.Matches(msg, m.keys.Reload):
			m.status = "reloading"
			return m, tea.Batch(m.todayView.Reload(), m.progressView.Reload())
		}
		if m.activeTab == tabToday {
			switch {
			case key.Matches(msg, m.keys.Up):
				m.todayView.MoveUp()
			case key.Matches(msg, m.keys.Down):
				m.todayView.MoveDown()
			case key.Matches(msg, m.keys.Toggle):
				m.todayView.Toggle()
			case key.Matches(msg, m.keys.All):
				m.todayView.ToggleAll()
			case key.Matches(msg, m.keys.Finalize):
				m.status = "finalizing"
				return m, m.todayView.Finalize()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.todayView, cmd = m.todayView.Update(msg)
	cmds = append(cmds, cmd)
	m.progressView, cmd = m.progressView.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := max(m.height-lipgloss.Height(tabBar)-lipgloss.Height(statusBar), 1)

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.palette.View())
	case m.activeTab == tabProgress:
		content = m.progressView.View()
	default:
		content = m.todayView.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + tabLabels[i] + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + tabLabels[i] + " ")
		}
	}
	bar := "readplan  " + strings.Join(parts, theme.Muted.Render(" │ "))
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	right := m.help.ShortHelpView(m.keys.ShortHelp())
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	switch strings.TrimSpace(input) {
	case "":
		return m, nil
	case "finalize":
		m.status = "finalizing"
		return m, m.todayView.Finalize()
	case "reload":
		m.status = "reloading"
		return m, tea.Batch(m.todayView.Reload(), m.progressView.Reload())
	case "check-all":
		m.todayView.ToggleAll()
		m.activeTab = tabToday
	case "status":
		m.activeTab = tabProgress
	case "today":
		m.activeTab = tabToday
	default:
		m.status = "unknown command: " + input
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: max(m.height-3, 1)}
	m.todayView, _ = m.todayView.Update(sz)
	m.progressView, _ = m.progressView.Update(sz)
}

func finalizeStatus(msg todayview.FinalizedMsg) string {
	switch {
	case errors.Is(msg.Err, apperrors.ErrNothingToFinalize):
		return "nothing checked"
	case msg.Err != nil:
		return "finalize failed: " + msg.Err.Error()
	}
	out := msg.Out
	if out.StartRef == out.EndRef {
		return fmt.Sprintf("recorded %s, %d read", out.StartRef, out.UniqueRead)
	}
	return fmt.Sprintf("recorded %s – %s (%d), %d read", out.StartRef, out.EndRef, out.Completed, out.UniqueRead)
}
