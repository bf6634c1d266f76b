package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/dpend/internal/input"
	"github.com/san-kum/dpend/internal/sim"
)

const (
	width           = 60
	height          = 24
	historyCapacity = 240
)

type TickMsg time.Time

// Model is the live terminal view. Every frame it advances the simulator
// by StepsPerFrame ticks and redraws the chain. Menu keys open an inline
// prompt whose input is submitted to the simulator's command queue.
type Model struct {
	sim      *sim.Simulator
	initial  sim.InitialConditions
	loop     sim.LoopConfig
	scene    *Scene
	frame    sim.Frame
	energy   []float64
	running  bool
	diverged int

	prompt  *input.Prompt
	buffer  string
	message string
	isError bool

	showAbout bool
	recorder  *Recorder
	gifPath   string
}

func NewModel(s *sim.Simulator, initial sim.InitialConditions, loop sim.LoopConfig) Model {
	m := Model{
		sim:      s,
		initial:  initial,
		loop:     loop,
		scene:    NewScene(NewCanvas(width, height)),
		frame:    s.Frame(),
		energy:   make([]float64, 0, historyCapacity),
		running:  true,
		diverged: -1,
		gifPath:  "dpend.gif",
	}
	m.scene.Draw(m.frame.Arm1.Angle, m.frame.Arm2.Angle, s.Params())
	return m
}

// WithGIFPath sets where recordings are written.
func (m Model) WithGIFPath(path string) Model {
	m.gifPath = path
	return m
}

func (m Model) Simulator() *sim.Simulator { return m.sim }

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.loop.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.prompt != nil {
			return m.promptKey(msg)
		}
		return m.menuKey(msg)
	case TickMsg:
		if m.running {
			m.step()
		}
		if m.recorder != nil {
			m.recorder.Capture(m.scene.Canvas())
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) menuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q", "Q", "ctrl+c":
		return m, tea.Quit
	case " ":
		m.running = !m.running
	case "a", "A":
		m.showAbout = !m.showAbout
	case "r", "R":
		m.notify(m.sim.Submit(m.initial), "restart queued")
		m.scene.ResetTrail()
		m.energy = m.energy[:0]
		m.diverged = -1
	case "v":
		m.toggleRecording()
	default:
		if len(msg.Runes) == 1 {
			if p, ok := input.Lookup(msg.Runes[0]); ok {
				m.prompt = &p
				m.buffer = ""
				m.message = ""
			}
		}
	}
	return m, nil
}

func (m Model) promptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.prompt, m.buffer = nil, ""
	case tea.KeyEnter:
		cmd, err := m.prompt.Parse(m.buffer)
		if err == nil {
			err = m.sim.Submit(cmd)
		}
		m.notify(err, "applied at next tick")
		m.prompt, m.buffer = nil, ""
	case tea.KeyBackspace:
		if r := []rune(m.buffer); len(r) > 0 {
			m.buffer = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.buffer += " "
	case tea.KeyRunes:
		m.buffer += string(msg.Runes)
	}
	return m, nil
}

func (m *Model) notify(err error, ok string) {
	if err != nil {
		m.message, m.isError = err.Error(), true
		return
	}
	m.message, m.isError = ok, false
}

func (m *Model) toggleRecording() {
	if m.recorder == nil {
		m.recorder = NewRecorder()
		m.notify(nil, "recording")
		return
	}
	err := m.recorder.Save(m.gifPath)
	m.recorder = nil
	m.notify(err, "saved "+m.gifPath)
}

// step advances the simulation. Non-finite frames are counted but never
// drawn or charted; the last finite picture stays on screen.
func (m *Model) step() {
	for i := 0; i < m.loop.StepsPerFrame; i++ {
		m.sim.Tick()
	}
	f := m.sim.Frame()
	m.frame = f
	if !f.IsFinite() {
		if m.diverged < 0 {
			m.diverged = f.Tick
		}
		return
	}
	if !m.scene.Draw(f.Arm1.Angle, f.Arm2.Angle, m.sim.Params()) {
		return
	}
	m.diverged = -1
	m.energy = append(m.energy, f.Energy)
	if len(m.energy) > historyCapacity {
		m.energy = m.energy[1:]
	}
}

func (m Model) View() string {
	canvasView := canvasStyle.Render(m.scene.Canvas().String())

	var s strings.Builder
	s.WriteString(headerStyle.Render("DOUBLE PENDULUM") + "\n")
	s.WriteString(m.status() + "\n\n")

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	f, p := m.frame, m.sim.Params()
	row := func(label, format string, args ...any) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(fmt.Sprintf(format, args...)) + "\n")
	}
	row("Time", "%.2fs", f.Time)
	row("Angle 1", "%.1f°", sim.Degrees(f.Arm1.Angle))
	row("Angle 2", "%.1f°", sim.Degrees(f.Arm2.Angle))
	row("Speed 1", "%.3f", f.Arm1.AngularSpeed)
	row("Speed 2", "%.3f", f.Arm2.AngularSpeed)
	row("Energy", "%.4f", f.Energy)
	s.WriteString("\n")
	row("Masses", "%g, %g", p.M1, p.M2)
	row("Lengths", "%g, %g", p.L1, p.L2)
	row("Gravity", "%g", p.Gravity)
	row("Step", "%g × %d", m.sim.Clock().StepSize, m.loop.StepsPerFrame)

	if m.prompt != nil {
		s.WriteString("\n" + promptStyle.Render(m.prompt.Title) + "\n")
		s.WriteString(promptStyle.Render("> ") + m.buffer + "_\n")
		s.WriteString(helpStyle.Render("e.g. "+m.prompt.Example+"   enter:apply esc:cancel") + "\n")
	} else if m.message != "" {
		style := valueStyle
		if m.isError {
			style = errorStyle
		}
		s.WriteString("\n" + style.Render(m.message) + "\n")
	}

	s.WriteString(helpStyle.Render("─────────────────────\nI:Initial L:Lengths M:Masses G:Gravity\nA:About SP:Pause R:Restart V:Record Q:Quit"))

	body := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showAbout {
		return aboutStyle.Render(input.About) + "\n" + body
	}
	return body
}

func (m Model) status() string {
	switch {
	case m.diverged >= 0:
		return statusWarn.Render(fmt.Sprintf("NON-FINITE since tick %d", m.diverged))
	case !m.running:
		return statusPaused.Render("PAUSED")
	case m.recorder != nil:
		return statusWarn.Render(fmt.Sprintf("RECORDING (%d)", m.recorder.Len()))
	}
	return statusRunning.Render("RUNNING")
}

// Run starts the live view on the alternate screen.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
