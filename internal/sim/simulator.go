package sim

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/san-kum/dpend/internal/dynamo"
	"github.com/san-kum/dpend/internal/physics"
)

// Simulator owns the two arm states, the parameter block and the clock.
//
// A tick holds the write lock for its whole evaluation, so setters and
// readers on other goroutines never observe a half-applied step. Commands
// passed to Submit are queued and applied at the top of the next tick.
type Simulator struct {
	mu         sync.RWMutex
	stepper    dynamo.Stepper
	params     dynamo.Params
	arm1, arm2 dynamo.ArmState
	clock      Clock
	ticks      int

	queueMu sync.Mutex
	queue   []Command

	metrics   []Metric
	observers []Observer
}

func New(p dynamo.Params, stepper dynamo.Stepper) (*Simulator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Simulator{
		stepper:   stepper,
		params:    p,
		clock:     Clock{StepSize: dynamo.DefaultStepSize},
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}, nil
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Tick advances both arms by the current step size.
func (s *Simulator) Tick() {
	s.mu.Lock()
	s.drain()
	f := s.advance(s.clock.StepSize)
	s.mu.Unlock()
	s.notify(f)
}

// TickWith advances both arms by h instead of the configured step size.
func (s *Simulator) TickWith(h float64) error {
	if err := dynamo.CheckPositive("step_size", h); err != nil {
		return err
	}
	s.mu.Lock()
	s.drain()
	f := s.advance(h)
	s.mu.Unlock()
	s.notify(f)
	return nil
}

// advance performs one staggered step. Arm 2 is integrated against the
// pre-step arm 1; feeding it the updated arm 1 gives a different trajectory.
func (s *Simulator) advance(h float64) Frame {
	old1 := s.arm1
	s.arm1 = s.stepper.Step(physics.Arm1(s.params), s.arm1, s.arm2, h)
	s.arm2 = s.stepper.Step(physics.Arm2(s.params), s.arm2, old1, h)
	s.clock.Elapsed += h
	s.ticks++
	return s.frame()
}

func (s *Simulator) frame() Frame {
	return Frame{
		Tick:   s.ticks,
		Time:   s.clock.Elapsed,
		Arm1:   s.arm1,
		Arm2:   s.arm2,
		Energy: physics.Energy(s.arm1, s.arm2, s.params),
	}
}

func (s *Simulator) notify(f Frame) {
	for _, m := range s.metrics {
		m.OnTick(f)
	}
	for _, o := range s.observers {
		o.OnTick(f)
	}
}

// Submit validates cmd and queues it for the next tick. It is safe to call
// from any goroutine.
func (s *Simulator) Submit(cmd Command) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	s.queueMu.Lock()
	s.queue = append(s.queue, cmd)
	s.queueMu.Unlock()
	return nil
}

// Pending reports how many submitted commands are waiting for a tick.
func (s *Simulator) Pending() int {
	s.queueMu.Lock()
	defer s.queueMu.Unlock()
	return len(s.queue)
}

// drain applies queued commands in submission order. Caller holds mu.
func (s *Simulator) drain() {
	s.queueMu.Lock()
	cmds := s.queue
	s.queue = nil
	s.queueMu.Unlock()

	for _, cmd := range cmds {
		cmd.apply(s)
	}
}

// apply validates and applies cmd immediately, between ticks.
func (s *Simulator) apply(cmd Command) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	cmd.apply(s)
	s.mu.Unlock()
	return nil
}

// SetInitialConditions resets both arms; angles are in degrees.
func (s *Simulator) SetInitialConditions(angle1, speed1, angle2, speed2 float64) error {
	return s.apply(InitialConditions{Angle1: angle1, Speed1: speed1, Angle2: angle2, Speed2: speed2})
}

// SetArms replaces both arm states, angles in radians.
func (s *Simulator) SetArms(arm1, arm2 dynamo.ArmState) error {
	return s.apply(ArmStates{Arm1: arm1, Arm2: arm2})
}

func (s *Simulator) SetGravity(g float64) error {
	return s.apply(GravityUpdate{Value: g})
}

func (s *Simulator) SetMasses(m1, m2 float64) error {
	return s.apply(MassUpdate{M1: m1, M2: m2})
}

func (s *Simulator) SetLengths(l1, l2 float64) error {
	return s.apply(LengthUpdate{L1: l1, L2: l2})
}

func (s *Simulator) SetParams(p dynamo.Params) error {
	return s.apply(ParamsUpdate{Params: p})
}

func (s *Simulator) SetStepSize(h float64) error {
	return s.apply(StepSizeUpdate{Value: h})
}

// ArmAngles returns the current angles in radians.
func (s *Simulator) ArmAngles() (float64, float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.arm1.Angle, s.arm2.Angle
}

func (s *Simulator) Arms() (dynamo.ArmState, dynamo.ArmState) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.arm1, s.arm2
}

func (s *Simulator) Params() dynamo.Params {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params
}

func (s *Simulator) Clock() Clock {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clock
}

func (s *Simulator) Frame() Frame {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frame()
}

// Run advances cfg.Ticks ticks and records a frame every cfg.SampleEvery
// ticks, starting with the current state. Metrics are reset and then see the
// starting frame before the first tick. Non-finite states do not stop the
// run; the first one is reported in Result.DivergedAt.
func (s *Simulator) Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	if err := validateRun(cfg); err != nil {
		return nil, err
	}
	sample := cfg.SampleEvery
	if sample <= 0 {
		sample = 1
	}

	result := &Result{
		Frames:     make([]Frame, 0, cfg.Ticks/sample+1),
		Metrics:    make(map[string]float64),
		DivergedAt: -1,
	}

	initial := s.Frame()
	for _, m := range s.metrics {
		m.Reset()
		m.OnTick(initial)
	}

	result.Frames = append(result.Frames, initial)

	for i := 1; i <= cfg.Ticks; i++ {
		select {
		case <-ctx.Done():
			s.collectMetrics(result)
			return result, ctx.Err()
		default:
		}

		s.Tick()
		result.TicksTaken++

		f := s.Frame()
		if result.DivergedAt < 0 && !f.IsFinite() {
			result.DivergedAt = f.Tick
		}
		if i%sample == 0 {
			result.Frames = append(result.Frames, f)
		}
	}

	s.collectMetrics(result)
	return result, nil
}

func (s *Simulator) collectMetrics(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func validateRun(cfg RunConfig) error {
	if cfg.Ticks <= 0 {
		return fmt.Errorf("ticks must be positive, got %d", cfg.Ticks)
	}
	if cfg.SampleEvery < 0 {
		return fmt.Errorf("sample interval must not be negative, got %d", cfg.SampleEvery)
	}
	return nil
}

// RunWithCallback ticks in real time, StepsPerFrame ticks per frame at FPS
// frames per second, until the context ends or callback returns false.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg LoopConfig, callback func(Frame) bool) error {
	if cfg.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", cfg.FPS)
	}
	if cfg.StepsPerFrame <= 0 {
		return fmt.Errorf("steps per frame must be positive, got %d", cfg.StepsPerFrame)
	}

	ticker := time.NewTicker(time.Second / time.Duration(cfg.FPS))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		for i := 0; i < cfg.StepsPerFrame; i++ {
			s.Tick()
		}

		if !callback(s.Frame()) {
			return nil
		}
	}
}
