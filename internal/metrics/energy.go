package metrics

import (
	"math"

	"github.com/san-kum/dpend/internal/sim"
)

// Energy reports the mean total energy over the observed frames.
type Energy struct {
	name        string
	samples     int
	totalEnergy float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) OnTick(f sim.Frame) {
	if !f.IsFinite() {
		return
	}
	e.totalEnergy += f.Energy
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift tracks the largest absolute deviation from the energy of the
// first observed frame. The 90/90 start has zero total energy, so the drift
// is absolute rather than relative. Once a frame goes non-finite the drift
// is +Inf.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) OnTick(f sim.Frame) {
	if math.IsNaN(f.Energy) || math.IsInf(f.Energy, 0) {
		e.maxDrift = math.Inf(1)
		e.samples++
		return
	}
	if e.samples == 0 {
		e.initialEnergy = f.Energy
	}
	e.samples++
	e.maxDrift = math.Max(e.maxDrift, math.Abs(f.Energy-e.initialEnergy))
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
