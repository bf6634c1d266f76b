package sim

import "github.com/san-kum/dpend/internal/dynamo"

// Clock tracks simulated time. Elapsed only ever grows.
type Clock struct {
	Elapsed  float64
	StepSize float64
}

// Frame is a consistent snapshot of the simulator after a tick.
type Frame struct {
	Tick   int
	Time   float64
	Arm1   dynamo.ArmState
	Arm2   dynamo.ArmState
	Energy float64
}

func (f Frame) IsFinite() bool {
	return f.Arm1.IsFinite() && f.Arm2.IsFinite()
}

type Observer interface {
	OnTick(f Frame)
}

type Metric interface {
	Observer
	Name() string
	Value() float64
	Reset()
}

type RunConfig struct {
	Ticks       int
	SampleEvery int
}

type Result struct {
	Frames     []Frame
	Metrics    map[string]float64
	TicksTaken int
	// DivergedAt is the first tick whose state was not finite, or -1.
	DivergedAt int
}

// LoopConfig drives a wall-clock loop: StepsPerFrame ticks every 1/FPS.
type LoopConfig struct {
	FPS           int
	StepsPerFrame int
}
