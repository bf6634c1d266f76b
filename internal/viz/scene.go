package viz

import (
	"image"
	"math"

	"github.com/san-kum/dpend/internal/dynamo"
	"github.com/san-kum/dpend/internal/physics"
)

const (
	trailLength = 200
	bobRadius   = 1
)

// Scene draws the chain on a canvas with the pivot in the middle, so a
// fully extended chain fits in every direction.
type Scene struct {
	canvas *Canvas
	trail  []physics.Point
}

func NewScene(c *Canvas) *Scene {
	return &Scene{canvas: c, trail: make([]physics.Point, 0, trailLength)}
}

func (s *Scene) Canvas() *Canvas { return s.canvas }

// project maps model coordinates, y up, to canvas dots, y down.
func (s *Scene) project(pt physics.Point, p dynamo.Params) image.Point {
	w, h := s.canvas.Dots()
	cx, cy := w/2, h/2
	scale := 0.9 * float64(min(cx, cy)) / physics.Reach(p)
	return image.Point{
		X: cx + int(math.Round(pt.X*scale)),
		Y: cy - int(math.Round(pt.Y*scale)),
	}
}

// Draw renders the arms, bobs and the lower bob's trail. It reports false
// and leaves the canvas untouched when the positions are not finite.
func (s *Scene) Draw(theta1, theta2 float64, p dynamo.Params) bool {
	bob1, bob2, ok := physics.Positions(theta1, theta2, p)
	if !ok {
		return false
	}

	s.trail = append(s.trail, bob2)
	if len(s.trail) > trailLength {
		s.trail = s.trail[1:]
	}

	s.canvas.Clear()
	for _, pt := range s.trail {
		q := s.project(pt, p)
		s.canvas.Set(q.X, q.Y)
	}

	o := s.project(physics.Point{}, p)
	b1 := s.project(bob1, p)
	b2 := s.project(bob2, p)
	s.canvas.DrawLine(o.X, o.Y, b1.X, b1.Y)
	s.canvas.DrawLine(b1.X, b1.Y, b2.X, b2.Y)
	s.canvas.FillDisc(b1.X, b1.Y, bobRadius)
	s.canvas.FillDisc(b2.X, b2.Y, bobRadius)
	return true
}

func (s *Scene) ResetTrail() {
	s.trail = s.trail[:0]
}
