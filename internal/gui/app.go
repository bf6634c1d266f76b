package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/dpend/internal/input"
	"github.com/san-kum/dpend/internal/sim"
)

const (
	screenWidth  = 1200
	screenHeight = 900
	maxTrail     = 400
)

// App is the desktop front end. Edits typed into a prompt go through
// Simulator.Submit, so they land between ticks.
type App struct {
	sim     *sim.Simulator
	initial sim.InitialConditions
	loop    sim.LoopConfig

	Paused    bool
	ShowAbout bool
	Message   string

	prompt *editor
	trail  []rl.Vector2
}

// editor holds the line being typed for one prompt.
type editor struct {
	prompt input.Prompt
	buf    []rune
}

func (e *editor) insert(r rune) {
	if r < ' ' || r > '~' {
		return
	}
	e.buf = append(e.buf, r)
}

func (e *editor) backspace() {
	if len(e.buf) > 0 {
		e.buf = e.buf[:len(e.buf)-1]
	}
}

func (e *editor) text() string { return string(e.buf) }

// NewApp wraps s without opening a window. initial is what R restarts from.
func NewApp(s *sim.Simulator, initial sim.InitialConditions, loop sim.LoopConfig) *App {
	return &App{sim: s, initial: initial, loop: loop}
}

// Prompting reports whether a prompt is open, and its title.
func (a *App) Prompting() (string, bool) {
	if a.prompt == nil {
		return "", false
	}
	return a.prompt.prompt.Title, true
}

// HandleChar routes one typed character. It returns false when the app
// should close.
func (a *App) HandleChar(r rune) bool {
	if a.prompt != nil {
		a.prompt.insert(r)
		return true
	}
	switch r {
	case 'q', 'Q':
		return false
	case ' ':
		a.Paused = !a.Paused
	case 'a', 'A':
		a.ShowAbout = !a.ShowAbout
	case 'r', 'R':
		a.restart()
	default:
		if p, ok := input.Lookup(r); ok {
			a.prompt = &editor{prompt: p}
			a.Message = ""
		}
	}
	return true
}

func (a *App) restart() {
	if err := a.sim.Submit(a.initial); err != nil {
		a.Message = err.Error()
		return
	}
	a.trail = a.trail[:0]
	a.Message = "restarted"
}

// Enter parses and submits the open prompt.
func (a *App) Enter() {
	if a.prompt == nil {
		return
	}
	p := a.prompt
	a.prompt = nil

	cmd, err := p.prompt.Parse(p.text())
	if err == nil {
		err = a.sim.Submit(cmd)
	}
	if err != nil {
		a.Message = err.Error()
		return
	}
	if ic, ok := cmd.(sim.InitialConditions); ok {
		a.initial = ic
		a.trail = a.trail[:0]
	}
	a.Message = fmt.Sprintf("queued: %s", p.text())
}

func (a *App) Backspace() {
	if a.prompt != nil {
		a.prompt.backspace()
	}
}

func (a *App) Cancel() { a.prompt = nil }

// Step advances one display frame unless paused. An open prompt does not
// hold the simulation.
func (a *App) Step() {
	if a.Paused {
		return
	}
	for i := 0; i < a.loop.StepsPerFrame; i++ {
		a.sim.Tick()
	}
}

func (a *App) update() bool {
	if rl.IsKeyPressed(rl.KeyEnter) {
		a.Enter()
	}
	if rl.IsKeyPressed(rl.KeyBackspace) {
		a.Backspace()
	}
	if rl.IsKeyPressed(rl.KeyEscape) {
		a.Cancel()
	}
	for r := rl.GetCharPressed(); r > 0; r = rl.GetCharPressed() {
		if !a.HandleChar(rune(r)) {
			return false
		}
	}
	a.Step()
	return true
}

// Run opens the window and blocks until it is closed or Q is pressed.
func Run(a *App) {
	rl.InitWindow(screenWidth, screenHeight, "dpend")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(a.loop.FPS))
	rl.SetExitKey(0)

	for !rl.WindowShouldClose() {
		if !a.update() {
			return
		}
		a.draw()
	}
}
