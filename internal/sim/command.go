package sim

import (
	"math"

	"github.com/san-kum/dpend/internal/dynamo"
)

// Command is a parameter or state update. Commands are validated when
// submitted and applied whole between ticks.
type Command interface {
	Validate() error
	apply(s *Simulator)
}

// InitialConditions resets both arms. Angles are in degrees, speeds in
// radians per time unit. Elapsed time is kept.
type InitialConditions struct {
	Angle1, Speed1 float64
	Angle2, Speed2 float64
}

func (c InitialConditions) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"theta1", c.Angle1}, {"omega1", c.Speed1}, {"theta2", c.Angle2}, {"omega2", c.Speed2},
	} {
		if err := dynamo.CheckFinite(f.name, f.v); err != nil {
			return err
		}
	}
	return nil
}

func (c InitialConditions) apply(s *Simulator) {
	s.arm1 = dynamo.ArmState{Angle: radians(c.Angle1), AngularSpeed: c.Speed1}
	s.arm2 = dynamo.ArmState{Angle: radians(c.Angle2), AngularSpeed: c.Speed2}
}

// ArmStates sets both arms directly. Angles are in radians.
type ArmStates struct {
	Arm1, Arm2 dynamo.ArmState
}

func (c ArmStates) Validate() error {
	return InitialConditions{
		Angle1: c.Arm1.Angle, Speed1: c.Arm1.AngularSpeed,
		Angle2: c.Arm2.Angle, Speed2: c.Arm2.AngularSpeed,
	}.Validate()
}

func (c ArmStates) apply(s *Simulator) { s.arm1, s.arm2 = c.Arm1, c.Arm2 }

type GravityUpdate struct {
	Value float64
}

func (c GravityUpdate) Validate() error     { return dynamo.CheckPositive("gravity", c.Value) }
func (c GravityUpdate) apply(s *Simulator) { s.params.Gravity = c.Value }

type MassUpdate struct {
	M1, M2 float64
}

func (c MassUpdate) Validate() error {
	if err := dynamo.CheckPositive("m1", c.M1); err != nil {
		return err
	}
	return dynamo.CheckPositive("m2", c.M2)
}

func (c MassUpdate) apply(s *Simulator) { s.params.M1, s.params.M2 = c.M1, c.M2 }

type LengthUpdate struct {
	L1, L2 float64
}

func (c LengthUpdate) Validate() error {
	if err := dynamo.CheckPositive("l1", c.L1); err != nil {
		return err
	}
	return dynamo.CheckPositive("l2", c.L2)
}

func (c LengthUpdate) apply(s *Simulator) { s.params.L1, s.params.L2 = c.L1, c.L2 }

// ParamsUpdate swaps the whole parameter block.
type ParamsUpdate struct {
	Params dynamo.Params
}

func (c ParamsUpdate) Validate() error     { return c.Params.Validate() }
func (c ParamsUpdate) apply(s *Simulator) { s.params = c.Params }

type StepSizeUpdate struct {
	Value float64
}

func (c StepSizeUpdate) Validate() error     { return dynamo.CheckPositive("step_size", c.Value) }
func (c StepSizeUpdate) apply(s *Simulator) { s.clock.StepSize = c.Value }

func radians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// Degrees converts an angle in radians for display.
func Degrees(rad float64) float64 {
	return rad * 180.0 / math.Pi
}
