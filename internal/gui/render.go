package gui

import (
	"fmt"
	"math"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/dpend/internal/dynamo"
	"github.com/san-kum/dpend/internal/input"
	"github.com/san-kum/dpend/internal/physics"
)

const (
	pixelsPerMeter = 250
	bobRadius      = 15
	armThickness   = 3
)

var (
	colBg    = rl.DarkBlue
	colArm   = rl.Yellow
	colBob   = rl.White
	colTrail = rl.NewColor(255, 255, 255, 60)
	colText  = rl.RayWhite
	colWarn  = rl.Orange
)

// pixelScale keeps a chain of the given reach inside a w by h window with the
// pivot a third of the way down.
func pixelScale(reach float64, w, h int) float64 {
	room := math.Min(float64(w)/2, float64(h)*2/3) - bobRadius*2
	if reach*pixelsPerMeter <= room {
		return pixelsPerMeter
	}
	return room / reach
}

// toScreen maps a point in meters, y up, to window pixels, y down.
func toScreen(pt physics.Point, pivot rl.Vector2, scale float64) rl.Vector2 {
	return rl.NewVector2(pivot.X+float32(pt.X*scale), pivot.Y-float32(pt.Y*scale))
}

func (a *App) draw() {
	rl.BeginDrawing()
	defer rl.EndDrawing()
	rl.ClearBackground(colBg)

	f := a.sim.Frame()
	p := a.sim.Params()
	w, h := rl.GetScreenWidth(), rl.GetScreenHeight()
	pivot := rl.NewVector2(float32(w)/2, float32(h)/3)

	if bob1, bob2, ok := physics.Positions(f.Arm1.Angle, f.Arm2.Angle, p); ok {
		scale := pixelScale(physics.Reach(p), w, h)
		s1, s2 := toScreen(bob1, pivot, scale), toScreen(bob2, pivot, scale)

		a.trail = append(a.trail, s2)
		if len(a.trail) > maxTrail {
			a.trail = a.trail[1:]
		}
		for i := 1; i < len(a.trail); i++ {
			rl.DrawLineV(a.trail[i-1], a.trail[i], colTrail)
		}

		rl.DrawLineEx(pivot, s1, armThickness, colArm)
		rl.DrawLineEx(s1, s2, armThickness, colArm)
		rl.DrawCircleV(pivot, 4, colArm)
		rl.DrawCircleV(s1, bobRadius, colBob)
		rl.DrawCircleV(s2, bobRadius, colBob)
	} else {
		rl.DrawText("state is no longer finite, press R to restart", 20, int32(h/2), 20, colWarn)
	}

	a.drawHUD(f.Time, f.Energy, p)
}

func (a *App) drawHUD(elapsed, energy float64, p dynamo.Params) {
	rl.DrawText("I initial  L lengths  M masses  G gravity  A about  R restart  SPACE pause  Q quit", 20, 20, 18, colText)
	rl.DrawText(hudLine(elapsed, energy, p, a.Paused), 20, 46, 18, colText)

	y := int32(rl.GetScreenHeight() - 60)
	if title, ok := a.Prompting(); ok {
		rl.DrawText(title, 20, y-26, 18, colText)
		rl.DrawText("> "+a.prompt.text()+"_", 20, y, 22, colArm)
	} else if a.Message != "" {
		rl.DrawText(a.Message, 20, y, 18, colWarn)
	}

	if a.ShowAbout {
		rl.DrawRectangle(60, 90, int32(rl.GetScreenWidth()-120), 190, rl.Fade(rl.Black, 0.7))
		for i, line := range strings.Split(input.About, "\n") {
			rl.DrawText(line, 80, int32(110+i*26), 18, colText)
		}
	}
}

func hudLine(elapsed, energy float64, p dynamo.Params, paused bool) string {
	s := fmt.Sprintf("t=%.2fs  E=%.4f  m=%g/%g  L=%g/%g  g=%g", elapsed, energy, p.M1, p.M2, p.L1, p.L2, p.Gravity)
	if paused {
		s += "  [paused]"
	}
	return s
}
