package config

import (
	"fmt"
	"os"

	"github.com/san-kum/dpend/internal/dynamo"
	"github.com/san-kum/dpend/internal/sim"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAngle         = 90.0
	DefaultTicks         = 10000
	DefaultSampleEvery   = 10
	DefaultStepsPerFrame = 8
	DefaultFPS           = 60
)

type Config struct {
	Params        dynamo.Params `yaml:"params"`
	Initial       InitialConfig `yaml:"initial"`
	StepSize      float64       `yaml:"step_size"`
	Ticks         int           `yaml:"ticks"`
	SampleEvery   int           `yaml:"sample_every"`
	StepsPerFrame int           `yaml:"steps_per_frame"`
	FPS           int           `yaml:"fps"`
}

// InitialConfig holds starting angles in degrees and speeds in rad/s.
type InitialConfig struct {
	Theta1 float64 `yaml:"theta1" json:"theta1"`
	Omega1 float64 `yaml:"omega1" json:"omega1"`
	Theta2 float64 `yaml:"theta2" json:"theta2"`
	Omega2 float64 `yaml:"omega2" json:"omega2"`
}

func (i InitialConfig) Conditions() sim.InitialConditions {
	return sim.InitialConditions{Angle1: i.Theta1, Speed1: i.Omega1, Angle2: i.Theta2, Speed2: i.Omega2}
}

func DefaultConfig() *Config {
	return &Config{
		Params:        dynamo.DefaultParams(),
		Initial:       InitialConfig{Theta1: DefaultAngle, Theta2: DefaultAngle},
		StepSize:      dynamo.DefaultStepSize,
		Ticks:         DefaultTicks,
		SampleEvery:   DefaultSampleEvery,
		StepsPerFrame: DefaultStepsPerFrame,
		FPS:           DefaultFPS,
	}
}

// Load overlays the YAML file at path on DefaultConfig and validates the
// result.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadInto(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInto overlays the YAML file at path on base, leaving fields the file
// does not set untouched, and validates the result.
func LoadInto(path string, base *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, base); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return base.Validate()
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if err := c.Params.Validate(); err != nil {
		return err
	}
	if err := c.Initial.Conditions().Validate(); err != nil {
		return err
	}
	if err := dynamo.CheckPositive("step_size", c.StepSize); err != nil {
		return err
	}
	for _, f := range []struct {
		name  string
		v     int
		least int
	}{
		{"ticks", c.Ticks, 1},
		{"sample_every", c.SampleEvery, 0},
		{"steps_per_frame", c.StepsPerFrame, 1},
		{"fps", c.FPS, 1},
	} {
		if f.v < f.least {
			return &dynamo.ConfigError{Field: f.name, Value: float64(f.v), Reason: fmt.Sprintf("must be at least %d", f.least)}
		}
	}
	return nil
}

// NewSimulator builds a simulator set up with the parameters, step size and
// starting state of c.
func (c *Config) NewSimulator(stepper dynamo.Stepper) (*sim.Simulator, error) {
	s, err := sim.New(c.Params, stepper)
	if err != nil {
		return nil, err
	}
	if err := s.SetStepSize(c.StepSize); err != nil {
		return nil, err
	}
	in := c.Initial
	if err := s.SetInitialConditions(in.Theta1, in.Omega1, in.Theta2, in.Omega2); err != nil {
		return nil, err
	}
	return s, nil
}

func (c *Config) Member() sim.Member {
	return sim.Member{Params: c.Params, Initial: c.Initial.Conditions(), StepSize: c.StepSize}
}

func (c *Config) RunConfig() sim.RunConfig {
	return sim.RunConfig{Ticks: c.Ticks, SampleEvery: c.SampleEvery}
}

func (c *Config) LoopConfig() sim.LoopConfig {
	return sim.LoopConfig{FPS: c.FPS, StepsPerFrame: c.StepsPerFrame}
}
