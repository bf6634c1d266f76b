package metrics

import (
	"math"

	"github.com/san-kum/dpend/internal/sim"
)

// Stability is the fraction of frames that are finite and whose angular
// speeds stay within threshold.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) OnTick(f sim.Frame) {
	s.samples++
	if !f.IsFinite() ||
		math.Abs(f.Arm1.AngularSpeed) > s.threshold ||
		math.Abs(f.Arm2.AngularSpeed) > s.threshold {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

// NonFinite counts frames with a NaN or infinite arm state.
type NonFinite struct {
	count int
}

func NewNonFinite() *NonFinite { return &NonFinite{} }

func (n *NonFinite) Name() string { return "non_finite" }

func (n *NonFinite) OnTick(f sim.Frame) {
	if !f.IsFinite() {
		n.count++
	}
}

func (n *NonFinite) Value() float64 { return float64(n.count) }
func (n *NonFinite) Reset()         { n.count = 0 }
