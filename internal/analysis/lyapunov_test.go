package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/dpend/internal/dynamo"
	"github.com/san-kum/dpend/internal/integrators"
	"github.com/san-kum/dpend/internal/sim"
)

func rk4() dynamo.Stepper { return integrators.NewRK4() }

func lyapunovConfig(a1, a2 float64) LyapunovConfig {
	return LyapunovConfig{
		Params:       dynamo.Params{M1: 1, M2: 1, Gravity: 9.81, L1: 1, L2: 1},
		Initial:      sim.InitialConditions{Angle1: a1, Angle2: a2},
		StepSize:     0.002,
		Duration:     40,
		Perturbation: 1e-8,
	}
}

func TestLyapunovChaoticStart(t *testing.T) {
	lambda, err := LyapunovExponent(lyapunovConfig(90, 90), rk4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lambda < 0.3 {
		t.Errorf("expected a clearly positive exponent, got %f", lambda)
	}
}

func TestLyapunovGentleStart(t *testing.T) {
	lambda, err := LyapunovExponent(lyapunovConfig(5, 5), rk4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(lambda) > 0.2 {
		t.Errorf("expected an exponent near zero, got %f", lambda)
	}
}

func TestLyapunovRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name  string
		mod   func(*LyapunovConfig)
		field string
	}{
		{"zero step", func(c *LyapunovConfig) { c.StepSize = 0 }, "step_size"},
		{"negative duration", func(c *LyapunovConfig) { c.Duration = -1 }, "duration"},
		{"zero perturbation", func(c *LyapunovConfig) { c.Perturbation = 0 }, "perturbation"},
		{"bad mass", func(c *LyapunovConfig) { c.Params.M2 = -1 }, "m2"},
		{"bad angle", func(c *LyapunovConfig) { c.Initial.Angle1 = math.Inf(1) }, "theta1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := lyapunovConfig(90, 90)
			tt.mod(&cfg)
			_, err := LyapunovExponent(cfg, rk4)
			var cfgErr *dynamo.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigError, got %v", err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("expected field %s, got %s", tt.field, cfgErr.Field)
			}
		})
	}
}

type nanStepper struct{}

func (nanStepper) Step(dynamo.Derivative, dynamo.ArmState, dynamo.ArmState, float64) dynamo.ArmState {
	return dynamo.ArmState{Angle: math.NaN()}
}

func TestLyapunovDiverged(t *testing.T) {
	cfg := lyapunovConfig(90, 90)
	cfg.Duration = 0.1
	_, err := LyapunovExponent(cfg, func() dynamo.Stepper { return nanStepper{} })
	if !errors.Is(err, ErrDiverged) {
		t.Errorf("expected ErrDiverged, got %v", err)
	}
}

func TestPullBack(t *testing.T) {
	ref := dynamo.ArmState{Angle: 1, AngularSpeed: 2}
	pert := dynamo.ArmState{Angle: 3, AngularSpeed: -2}
	got := pullBack(ref, pert, 0.5)
	if got.Angle != 2 || got.AngularSpeed != 0 {
		t.Errorf("expected {2 0}, got %+v", got)
	}
}
