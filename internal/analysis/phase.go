package analysis

import (
	"math"
	"strings"

	"github.com/san-kum/dpend/internal/sim"
)

type Point struct {
	X, Y float64
}

// PoincareSection records the lower arm (angle, speed) each time the upper
// arm swings through the hanging vertical in the positive direction. Angles
// are wrapped into (-pi, pi] and crossings are linearly interpolated.
func PoincareSection(frames []sim.Frame) []Point {
	points := make([]Point, 0)
	for i := 1; i < len(frames); i++ {
		prev, curr := frames[i-1], frames[i]
		if !prev.IsFinite() || !curr.IsFinite() {
			continue
		}
		a, b := Wrap(prev.Arm1.Angle), Wrap(curr.Arm1.Angle)
		if !(a < 0 && b >= 0) || b-a > math.Pi {
			continue
		}

		frac := -a / (b - a)
		if math.IsNaN(frac) || math.IsInf(frac, 0) {
			frac = 0.5
		}
		points = append(points, Point{
			X: Wrap(lerp(prev.Arm2.Angle, curr.Arm2.Angle, frac)),
			Y: lerp(prev.Arm2.AngularSpeed, curr.Arm2.AngularSpeed, frac),
		})
	}
	return points
}

// PhasePortrait pairs two quantities of every finite frame.
func PhasePortrait(frames []sim.Frame, x, y func(sim.Frame) float64) []Point {
	points := make([]Point, 0, len(frames))
	for _, f := range frames {
		if f.IsFinite() {
			points = append(points, Point{X: x(f), Y: y(f)})
		}
	}
	return points
}

// Wrap maps an angle into (-pi, pi].
func Wrap(angle float64) float64 {
	w := math.Mod(angle+math.Pi, 2*math.Pi)
	if w <= 0 {
		w += 2 * math.Pi
	}
	return w - math.Pi
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// ScatterToASCII plots points on a width x height character grid, with axes
// where zero is in range.
func ScatterToASCII(points []Point, width, height int) string {
	if len(points) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	minX, maxX = pad(minX, maxX)
	minY, maxY = pad(minY, maxY)

	col := func(x float64) int { return int((x - minX) / (maxX - minX) * float64(width-1)) }
	row := func(y float64) int { return height - 1 - int((y-minY)/(maxY-minY)*float64(height-1)) }

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}

	if minX <= 0 && maxX >= 0 {
		c := col(0)
		for r := range grid {
			grid[r][c] = '│'
		}
	}
	if minY <= 0 && maxY >= 0 {
		r := row(0)
		for c := range grid[r] {
			grid[r][c] = '─'
		}
	}
	for _, p := range points {
		r, c := row(p.Y), col(p.X)
		if r >= 0 && r < height && c >= 0 && c < width {
			grid[r][c] = '•'
		}
	}

	var sb strings.Builder
	for _, line := range grid {
		sb.WriteString(string(line))
		sb.WriteRune('\n')
	}
	return sb.String()
}

// pad widens [lo, hi] by ten percent on each side.
func pad(lo, hi float64) (float64, float64) {
	span := hi - lo
	if span == 0 {
		span = 1
	}
	return lo - span*0.1, hi + span*0.1
}
