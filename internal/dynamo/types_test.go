package dynamo

import (
	"errors"
	"math"
	"testing"
)

func TestArmState_Arithmetic(t *testing.T) {
	a := ArmState{Angle: 1, AngularSpeed: 2}
	b := ArmState{Angle: 3, AngularSpeed: -4}

	sum := a.Add(b)
	if sum.Angle != 4 || sum.AngularSpeed != -2 {
		t.Errorf("Add failed: got %+v", sum)
	}

	scaled := a.Scale(0.5)
	if scaled.Angle != 0.5 || scaled.AngularSpeed != 1 {
		t.Errorf("Scale failed: got %+v", scaled)
	}
}

func TestArmState_IsFinite(t *testing.T) {
	tests := []struct {
		name  string
		state ArmState
		want  bool
	}{
		{"zero", ArmState{}, true},
		{"normal", ArmState{Angle: 1.2, AngularSpeed: -3}, true},
		{"NaN angle", ArmState{Angle: math.NaN()}, false},
		{"+Inf speed", ArmState{AngularSpeed: math.Inf(1)}, false},
		{"-Inf angle", ArmState{Angle: math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsFinite(); got != tt.want {
				t.Errorf("IsFinite() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParams_Validate(t *testing.T) {
	if err := DefaultParams().Validate(); err != nil {
		t.Fatalf("default params rejected: %v", err)
	}

	tests := []struct {
		name  string
		p     Params
		field string
	}{
		{"negative m1", Params{M1: -1, M2: 1, Gravity: 10, L1: 1, L2: 1}, "m1"},
		{"zero m2", Params{M1: 1, M2: 0, Gravity: 10, L1: 1, L2: 1}, "m2"},
		{"zero gravity", Params{M1: 1, M2: 1, Gravity: 0, L1: 1, L2: 1}, "gravity"},
		{"NaN l1", Params{M1: 1, M2: 1, Gravity: 10, L1: math.NaN(), L2: 1}, "l1"},
		{"Inf l2", Params{M1: 1, M2: 1, Gravity: 10, L1: 1, L2: math.Inf(1)}, "l2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			if !errors.Is(err, ErrConfiguration) {
				t.Fatalf("expected ErrConfiguration, got %v", err)
			}
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("expected *ConfigError, got %T", err)
			}
			if ce.Field != tt.field {
				t.Errorf("expected field %s, got %s", tt.field, ce.Field)
			}
		})
	}
}

func TestCheckFinite(t *testing.T) {
	if err := CheckFinite("theta1", -720); err != nil {
		t.Errorf("expected finite value accepted, got %v", err)
	}
	if err := CheckFinite("theta1", math.NaN()); !errors.Is(err, ErrConfiguration) {
		t.Errorf("expected ErrConfiguration for NaN, got %v", err)
	}
}
