package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/dpend/internal/config"
	"github.com/san-kum/dpend/internal/dynamo"
	"github.com/san-kum/dpend/internal/integrators"
)

// picker lists the presets and hands the chosen one to a live Model.
type picker struct {
	names   []string
	cursor  int
	live    *Model
	err     error
	newStep func() dynamo.Stepper
}

func NewPicker() tea.Model {
	return picker{
		names:   config.ListPresets(),
		newStep: func() dynamo.Stepper { return integrators.NewRK4() },
	}
}

func (p picker) Init() tea.Cmd { return nil }

func (p picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if p.live != nil {
		next, cmd := p.live.Update(msg)
		live := next.(Model)
		p.live = &live
		return p, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return p, tea.Quit
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.names)-1 {
			p.cursor++
		}
	case "enter", " ":
		return p.start()
	}
	return p, nil
}

func (p picker) start() (tea.Model, tea.Cmd) {
	cfg := config.GetPreset(p.names[p.cursor])
	s, err := cfg.NewSimulator(p.newStep())
	if err != nil {
		p.err = err
		return p, nil
	}
	live := NewModel(s, cfg.Initial.Conditions(), cfg.LoopConfig())
	p.live = &live
	return p, live.Init()
}

func (p picker) View() string {
	if p.live != nil {
		return p.live.View()
	}

	var b strings.Builder
	b.WriteString("\n\n    " + headerStyle.Render("DPEND") + "\n    " + dimStyle.Render("double pendulum presets") + "\n    " + dimStyle.Render("─────────────────────────") + "\n\n")
	for i, name := range p.names {
		desc := config.Presets[name].Description
		if i == p.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", cursorStyle.Render("▸"), itemStyle.Render(fmt.Sprintf("%-12s", name)), descStyle.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", dimStyle.Render(fmt.Sprintf("%-12s", name)), dimStyle.Render(desc)))
		}
	}
	if p.err != nil {
		b.WriteString("\n    " + errorStyle.Render(p.err.Error()) + "\n")
	}
	b.WriteString("\n    " + cursorStyle.Render("j/k") + dimStyle.Render(" navigate  ") + cursorStyle.Render("enter") + dimStyle.Render(" start  ") + cursorStyle.Render("q") + dimStyle.Render(" quit") + "\n")
	return b.String()
}

func RunInteractive() error {
	_, err := tea.NewProgram(NewPicker(), tea.WithAltScreen()).Run()
	return err
}
