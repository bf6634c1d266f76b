package input

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/san-kum/dpend/internal/sim"
)

// ErrParse reports malformed user input.
var ErrParse = errors.New("input: cannot parse")

// Prompt describes one editable group of values, bound to a menu key.
type Prompt struct {
	Key     rune
	Title   string
	Example string
	Parse   func(line string) (sim.Command, error)
}

var Prompts = []Prompt{
	{
		Key:     'i',
		Title:   "initial conditions: angle1 speed1 angle2 speed2 (degrees, rad/s)",
		Example: "45 0 60 0",
		Parse:   ParseInitialConditions,
	},
	{Key: 'l', Title: "lengths: l1 l2", Example: "1 1", Parse: ParseLengths},
	{Key: 'm', Title: "masses: m1 m2", Example: "1 1", Parse: ParseMasses},
	{Key: 'g', Title: "gravity", Example: "9.81", Parse: ParseGravity},
}

// Lookup finds the prompt bound to key, ignoring case.
func Lookup(key rune) (Prompt, bool) {
	if key >= 'A' && key <= 'Z' {
		key += 'a' - 'A'
	}
	for _, p := range Prompts {
		if p.Key == key {
			return p, true
		}
	}
	return Prompt{}, false
}

const About = `Double pendulum
Both arms are integrated with a fixed-step fourth-order Runge-Kutta scheme.
Each tick advances arm 1 against the current arm 2, then arm 2 against the
arm 1 from before the tick.

Keys: I initial conditions, L lengths, M masses, G gravity, A about.`

func fields(line string, n int) ([]float64, error) {
	parts := strings.Fields(line)
	if len(parts) != n {
		return nil, fmt.Errorf("%w: expected %d numbers, got %d", ErrParse, n, len(parts))
	}
	vals := make([]float64, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrParse, p)
		}
		vals[i] = v
	}
	return vals, nil
}

func ParseInitialConditions(line string) (sim.Command, error) {
	v, err := fields(line, 4)
	if err != nil {
		return nil, err
	}
	return sim.InitialConditions{Angle1: v[0], Speed1: v[1], Angle2: v[2], Speed2: v[3]}, nil
}

func ParseGravity(line string) (sim.Command, error) {
	v, err := fields(line, 1)
	if err != nil {
		return nil, err
	}
	return sim.GravityUpdate{Value: v[0]}, nil
}

func ParseMasses(line string) (sim.Command, error) {
	v, err := fields(line, 2)
	if err != nil {
		return nil, err
	}
	return sim.MassUpdate{M1: v[0], M2: v[1]}, nil
}

func ParseLengths(line string) (sim.Command, error) {
	v, err := fields(line, 2)
	if err != nil {
		return nil, err
	}
	return sim.LengthUpdate{L1: v[0], L2: v[1]}, nil
}

// Action is one parsed console line.
type Action struct {
	Command sim.Command
	About   bool
	Quit    bool
}

// ParseLine parses a console line: a menu key followed by its values, or
// "a" for about, or "q" to quit.
func ParseLine(line string) (Action, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Action{}, fmt.Errorf("%w: empty line", ErrParse)
	}
	key, rest, _ := strings.Cut(line, " ")
	switch strings.ToLower(key) {
	case "a", "about":
		return Action{About: true}, nil
	case "q", "quit", "exit":
		return Action{Quit: true}, nil
	}
	if len([]rune(key)) != 1 {
		return Action{}, fmt.Errorf("%w: unknown command %q", ErrParse, key)
	}
	p, ok := Lookup([]rune(key)[0])
	if !ok {
		return Action{}, fmt.Errorf("%w: unknown command %q", ErrParse, key)
	}
	cmd, err := p.Parse(rest)
	if err != nil {
		return Action{}, fmt.Errorf("%s: %w", p.Title, err)
	}
	return Action{Command: cmd}, nil
}
