package metrics

import (
	"math"

	"github.com/san-kum/dpend/internal/sim"
)

// Flips counts how often the lower arm swings over the top, that is, how
// often its angle crosses an odd multiple of pi.
type Flips struct {
	name    string
	count   int
	first   float64
	sector  float64
	started bool
}

func NewFlips() *Flips {
	return &Flips{name: "flips", first: -1}
}

func (fl *Flips) Name() string { return fl.name }

func (fl *Flips) OnTick(f sim.Frame) {
	if !f.IsFinite() {
		return
	}
	sector := math.Floor((f.Arm2.Angle + math.Pi) / (2 * math.Pi))
	if !fl.started {
		fl.sector = sector
		fl.started = true
		return
	}
	if sector != fl.sector {
		fl.count += int(math.Abs(sector - fl.sector))
		if fl.first < 0 {
			fl.first = f.Time
		}
		fl.sector = sector
	}
}

func (fl *Flips) Value() float64 { return float64(fl.count) }

// FirstFlip is the simulated time of the first flip, or -1.
func (fl *Flips) FirstFlip() float64 { return fl.first }

func (fl *Flips) Reset() {
	fl.count = 0
	fl.first = -1
	fl.started = false
}
