package sim_test

import (
	"math"

	"github.com/san-kum/dpend/internal/dynamo"
	"github.com/san-kum/dpend/internal/integrators"
	"github.com/san-kum/dpend/internal/sim"

	. "github.com/onsi/gomega"
)

func newSim(p dynamo.Params, a1, w1, a2, w2 float64) *sim.Simulator {
	s, err := sim.New(p, integrators.NewRK4())
	Expect(err).NotTo(HaveOccurred())
	Expect(s.SetInitialConditions(a1, w1, a2, w2)).To(Succeed())
	return s
}

func deg(d float64) float64 {
	return d * math.Pi / 180.0
}

// countingMetric records how many frames it saw.
type countingMetric struct {
	ticks       int
	first, last sim.Frame
}

func (c *countingMetric) Name() string { return "ticks" }

func (c *countingMetric) OnTick(f sim.Frame) {
	if c.ticks == 0 {
		c.first = f
	}
	c.ticks++
	c.last = f
}

func (c *countingMetric) Value() float64 { return float64(c.ticks) }
func (c *countingMetric) Reset()         { c.ticks = 0 }

// poisonStepper behaves like RK4 until tick poisonAt, then returns NaN.
type poisonStepper struct {
	rk4      *integrators.RK4
	calls    int
	poisonAt int
}

func (p *poisonStepper) Step(f dynamo.Derivative, self, other dynamo.ArmState, h float64) dynamo.ArmState {
	p.calls++
	// two calls per tick
	if (p.calls+1)/2 >= p.poisonAt {
		return dynamo.ArmState{Angle: math.NaN(), AngularSpeed: math.NaN()}
	}
	return p.rk4.Step(f, self, other, h)
}
