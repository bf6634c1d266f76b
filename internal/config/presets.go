package config

import (
	"sort"

	"github.com/san-kum/dpend/internal/dynamo"
)

type Preset struct {
	Description string
	Config      Config
}

func preset(desc string, p dynamo.Params, t1, t2 float64) Preset {
	cfg := *DefaultConfig()
	cfg.Params = p
	cfg.Initial = InitialConfig{Theta1: t1, Theta2: t2}
	return Preset{Description: desc, Config: cfg}
}

var unit = dynamo.Params{M1: 1, M2: 1, Gravity: dynamo.DefaultGravity, L1: 1, L2: 1}

var Presets = map[string]Preset{
	"original":    preset("both arms horizontal, at rest, g=10", unit, 90, 90),
	"symmetric":   preset("both arms at 45 degrees", unit, 45, 45),
	"chaos":       preset("nearly inverted, flips within seconds", unit, 170, 175),
	"gentle":      preset("small swings, close to normal modes", unit, 10, 10),
	"heavy_lower": preset("lower bob five times heavier", dynamo.Params{M1: 1, M2: 5, Gravity: dynamo.DefaultGravity, L1: 1, L2: 1}, 90, 0),
	"long_upper":  preset("upper arm twice as long", dynamo.Params{M1: 1, M2: 1, Gravity: dynamo.DefaultGravity, L1: 1, L2: 0.5}, 120, -30),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := p.Config
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
