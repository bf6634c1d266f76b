package physics

import (
	"math"

	"github.com/san-kum/dpend/internal/dynamo"
)

// Point is a position relative to the pivot, x to the right and y up.
type Point struct {
	X, Y float64
}

// Positions converts the two arm angles into bob positions. Angle zero hangs
// straight down. ok is false when either bob is not a finite point, in which
// case renderers should skip the frame.
func Positions(theta1, theta2 float64, p dynamo.Params) (bob1, bob2 Point, ok bool) {
	bob1 = Point{X: p.L1 * math.Sin(theta1), Y: -p.L1 * math.Cos(theta1)}
	bob2 = Point{X: bob1.X + p.L2*math.Sin(theta2), Y: bob1.Y - p.L2*math.Cos(theta2)}
	ok = finite(bob1.X) && finite(bob1.Y) && finite(bob2.X) && finite(bob2.Y)
	return
}

// Reach is the largest distance bob 2 can be from the pivot.
func Reach(p dynamo.Params) float64 {
	return p.L1 + p.L2
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
