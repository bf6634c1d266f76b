package integrators

import "github.com/san-kum/dpend/internal/dynamo"

// RK4 is the classic fourth-order Runge-Kutta stepper for one arm. The
// other arm is held at its given state for all four stages.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Step(f dynamo.Derivative, self, other dynamo.ArmState, h float64) dynamo.ArmState {
	k1 := f(self, other)
	k2 := f(self.Add(k1.Scale(h*0.5)), other)
	k3 := f(self.Add(k2.Scale(h*0.5)), other)
	k4 := f(self.Add(k3.Scale(h)), other)

	sum := k1.Add(k2.Scale(2)).Add(k3.Scale(2)).Add(k4)
	return self.Add(sum.Scale(h / 6.0))
}
