package physics

import (
	"math"

	"github.com/san-kum/dpend/internal/dynamo"
)

// Accel1 returns the time derivative of arm 1: its angular speed and its
// angular acceleration.
func Accel1(a1, a2 dynamo.ArmState, p dynamo.Params) dynamo.ArmState {
	t1, t2 := a1.Angle, a2.Angle
	w1, w2 := a1.AngularSpeed, a2.AngularSpeed
	m1, m2, g, r1, r2 := p.M1, p.M2, p.Gravity, p.L1, p.L2

	d := t1 - t2
	num := -g*(2*m1+m2)*math.Sin(t1) -
		m2*g*math.Sin(t1-2*t2) -
		2*m2*math.Sin(d)*(r2*w2*w2+r1*w1*w1*math.Cos(d))
	den := r1 * denominator(t1, t2, p)

	return dynamo.ArmState{Angle: w1, AngularSpeed: num / den}
}

// Accel2 returns the time derivative of arm 2. Arm 1 is always the first
// argument.
func Accel2(a1, a2 dynamo.ArmState, p dynamo.Params) dynamo.ArmState {
	t1, t2 := a1.Angle, a2.Angle
	w1, w2 := a1.AngularSpeed, a2.AngularSpeed
	m1, m2, g, r1, r2 := p.M1, p.M2, p.Gravity, p.L1, p.L2

	d := t1 - t2
	num := 2 * math.Sin(d) *
		(r1*w1*w1*(m1+m2) + g*(m1+m2)*math.Cos(t1) + r2*w2*w2*m2*math.Cos(d))
	den := r2 * denominator(t1, t2, p)

	return dynamo.ArmState{Angle: w2, AngularSpeed: num / den}
}

// denominator is the shared 2m1+m2-m2cos(2θ1-2θ2) factor. It vanishes only
// when m1 is zero and the arms are aligned.
func denominator(t1, t2 float64, p dynamo.Params) float64 {
	return 2*p.M1 + p.M2 - p.M2*math.Cos(2*t1-2*t2)
}

// Arm1 binds Accel1 to p in the stepper's (self, other) form.
func Arm1(p dynamo.Params) dynamo.Derivative {
	return func(self, other dynamo.ArmState) dynamo.ArmState {
		return Accel1(self, other, p)
	}
}

// Arm2 binds Accel2 to p. self is arm 2 here, so the arguments are swapped
// back before the call.
func Arm2(p dynamo.Params) dynamo.Derivative {
	return func(self, other dynamo.ArmState) dynamo.ArmState {
		return Accel2(other, self, p)
	}
}

// Energy is the total mechanical energy of the two point masses with the
// potential measured from the pivot.
func Energy(a1, a2 dynamo.ArmState, p dynamo.Params) float64 {
	t1, t2 := a1.Angle, a2.Angle
	w1, w2 := a1.AngularSpeed, a2.AngularSpeed
	m1, m2, g, r1, r2 := p.M1, p.M2, p.Gravity, p.L1, p.L2

	v1sq := r1 * r1 * w1 * w1
	v2sq := v1sq + r2*r2*w2*w2 + 2*r1*r2*w1*w2*math.Cos(t1-t2)
	ke := 0.5*m1*v1sq + 0.5*m2*v2sq

	y1 := -r1 * math.Cos(t1)
	y2 := y1 - r2*math.Cos(t2)
	pe := m1*g*y1 + m2*g*y2

	return ke + pe
}
