package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"readplan/internal/ui/theme"
)

// PaletteSubmitMsg carries the confirmed command.
type PaletteSubmitMsg struct{ Input string }

type PaletteCancelMsg struct{}

var (
	paletteStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Peach).
			Background(theme.Mantle).
			Foreground(theme.Text).
			Padding(0, 1)

	hintStyle = lipgloss.NewStyle().Foreground(theme.Subtext0)
)

// PaletteCommand is one entry the palette offers.
type PaletteCommand struct {
	Name string
	Help string
}

// Palette is a command prompt overlay. Tab completes the first command
// matching the typed prefix.
type Palette struct {
	input    textinput.Model
	commands []PaletteCommand
	visible  bool
	width    int
}

func NewPalette(commands ...PaletteCommand) Palette {
	ti := textinput.New()
	ti.Placeholder = "command"
	ti.CharLimit = 64
	return Palette{input: ti, commands: commands}
}

func (p Palette) Visible() bool { return p.visible }

func (p *Palette) Open() tea.Cmd {
	p.visible = true
	p.input.SetValue("")
	return p.input.Focus()
}

func (p *Palette) SetWidth(w int) { p.width = w }

func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			p.close()
			return p, func() tea.Msg { return PaletteCancelMsg{} }
		case "enter":
			val := strings.TrimSpace(p.input.Value())
			p.close()
			return p, func() tea.Msg { return PaletteSubmitMsg{Input: val} }
		case "tab":
			if matches := p.Matches(); len(matches) > 0 {
				p.input.SetValue(matches[0].Name)
				p.input.CursorEnd()
			}
			return p, nil
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

// Matches lists the commands whose name starts with the typed text.
func (p Palette) Matches() []PaletteCommand {
	prefix := strings.ToLower(strings.TrimSpace(p.input.Value()))
	var out []PaletteCommand
	for _, c := range p.commands {
		if strings.HasPrefix(c.Name, prefix) {
			out = append(out, c)
		}
	}
	return out
}

func (p Palette) View() string {
	if !p.visible {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Command") + "\n")
	sb.WriteString(": " + p.input.View() + "\n")
	if matches := p.Matches(); len(matches) > 0 {
		sb.WriteString("\n")
		for _, c := range matches {
			sb.WriteString(hintStyle.Render("  "+c.Name+"  "+c.Help) + "\n")
		}
	}
	return paletteStyle.Width(max(p.width, 40) - 2).Render(sb.String())
}

func (p *Palette) close() {
	p.visible = false
	p.input.Blur()
}
