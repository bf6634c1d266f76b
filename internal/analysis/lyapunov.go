package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/dpend/internal/dynamo"
	"github.com/san-kum/dpend/internal/sim"
)

// ErrDiverged is returned when a trajectory stops being finite.
var ErrDiverged = errors.New("analysis: trajectory diverged")

const defaultRenormEvery = 10

type LyapunovConfig struct {
	Params   dynamo.Params
	Initial  sim.InitialConditions
	StepSize float64
	Duration float64
	// Perturbation is the initial offset of the upper arm angle, radians.
	Perturbation float64
	// RenormEvery is the number of ticks between renormalisations.
	RenormEvery int
}

// LyapunovExponent estimates the largest Lyapunov exponent by running a
// reference and a perturbed simulator side by side. Every RenormEvery ticks
// the log growth of their separation is accumulated and the perturbed state
// is pulled back to the initial distance along the current separation.
func LyapunovExponent(cfg LyapunovConfig, newStepper func() dynamo.Stepper) (float64, error) {
	if err := cfg.validate(); err != nil {
		return 0, err
	}

	ref, err := newSimulator(cfg, newStepper())
	if err != nil {
		return 0, err
	}
	pert, err := newSimulator(cfg, newStepper())
	if err != nil {
		return 0, err
	}
	p1, p2 := pert.Arms()
	p1.Angle += cfg.Perturbation
	if err := pert.SetArms(p1, p2); err != nil {
		return 0, err
	}

	renorm := cfg.RenormEvery
	if renorm <= 0 {
		renorm = defaultRenormEvery
	}
	d0 := cfg.Perturbation
	ticks := int(math.Round(cfg.Duration / cfg.StepSize))
	if ticks < 1 {
		ticks = 1
	}

	sumLog := 0.0
	for i := 1; i <= ticks; i++ {
		ref.Tick()
		pert.Tick()
		if i%renorm != 0 && i != ticks {
			continue
		}

		r1, r2 := ref.Arms()
		q1, q2 := pert.Arms()
		sep := separation(r1, r2, q1, q2)
		if math.IsNaN(sep) || math.IsInf(sep, 0) {
			return 0, fmt.Errorf("%w at tick %d", ErrDiverged, i)
		}
		if sep == 0 {
			continue
		}

		sumLog += math.Log(sep / d0)
		scale := d0 / sep
		if err := pert.SetArms(pullBack(r1, q1, scale), pullBack(r2, q2, scale)); err != nil {
			return 0, err
		}
	}

	return sumLog / ref.Clock().Elapsed, nil
}

func (cfg LyapunovConfig) validate() error {
	if err := cfg.Params.Validate(); err != nil {
		return err
	}
	if err := cfg.Initial.Validate(); err != nil {
		return err
	}
	if err := dynamo.CheckPositive("step_size", cfg.StepSize); err != nil {
		return err
	}
	if err := dynamo.CheckPositive("duration", cfg.Duration); err != nil {
		return err
	}
	return dynamo.CheckPositive("perturbation", cfg.Perturbation)
}

func newSimulator(cfg LyapunovConfig, stepper dynamo.Stepper) (*sim.Simulator, error) {
	s, err := sim.New(cfg.Params, stepper)
	if err != nil {
		return nil, err
	}
	if err := s.SetStepSize(cfg.StepSize); err != nil {
		return nil, err
	}
	in := cfg.Initial
	if err := s.SetInitialConditions(in.Angle1, in.Speed1, in.Angle2, in.Speed2); err != nil {
		return nil, err
	}
	return s, nil
}

// separation is the Euclidean distance in (theta1, omega1, theta2, omega2).
func separation(r1, r2, q1, q2 dynamo.ArmState) float64 {
	d := [4]float64{
		q1.Angle - r1.Angle,
		q1.AngularSpeed - r1.AngularSpeed,
		q2.Angle - r2.Angle,
		q2.AngularSpeed - r2.AngularSpeed,
	}
	sum := 0.0
	for _, v := range d {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func pullBack(ref, pert dynamo.ArmState, scale float64) dynamo.ArmState {
	return ref.Add(pert.Add(ref.Scale(-1)).Scale(scale))
}
