package dynamo

import "math"

const (
	DefaultMass     = 1.0
	DefaultLength   = 1.0
	DefaultGravity  = 10.0
	DefaultStepSize = 0.002
)

// ArmState is the instantaneous state of one arm.
type ArmState struct {
	Angle        float64 // radians from the downward vertical
	AngularSpeed float64 // radians per time unit
}

func (s ArmState) Add(o ArmState) ArmState {
	return ArmState{Angle: s.Angle + o.Angle, AngularSpeed: s.AngularSpeed + o.AngularSpeed}
}

func (s ArmState) Scale(f float64) ArmState {
	return ArmState{Angle: s.Angle * f, AngularSpeed: s.AngularSpeed * f}
}

func (s ArmState) IsFinite() bool {
	return isFinite(s.Angle) && isFinite(s.AngularSpeed)
}

// Params holds the physical parameters read by every dynamics evaluation.
type Params struct {
	M1      float64 `yaml:"m1" json:"m1"`
	M2      float64 `yaml:"m2" json:"m2"`
	Gravity float64 `yaml:"gravity" json:"gravity"`
	L1      float64 `yaml:"l1" json:"l1"`
	L2      float64 `yaml:"l2" json:"l2"`
}

func DefaultParams() Params {
	return Params{
		M1: DefaultMass, M2: DefaultMass,
		Gravity: DefaultGravity,
		L1:      DefaultLength, L2: DefaultLength,
	}
}

// Validate reports the first field that is not positive and finite.
func (p Params) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"m1", p.M1}, {"m2", p.M2}, {"gravity", p.Gravity}, {"l1", p.L1}, {"l2", p.L2},
	}
	for _, f := range fields {
		if err := CheckPositive(f.name, f.v); err != nil {
			return err
		}
	}
	return nil
}

// Derivative returns d(self)/dt with the other arm held fixed.
type Derivative func(self, other ArmState) ArmState

// Stepper advances one arm by a fixed step h.
type Stepper interface {
	Step(f Derivative, self, other ArmState, h float64) ArmState
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
