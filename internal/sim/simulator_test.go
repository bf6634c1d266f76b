package sim_test

import (
	"context"
	"math"
	"sync"

	"github.com/san-kum/dpend/internal/dynamo"
	"github.com/san-kum/dpend/internal/integrators"
	"github.com/san-kum/dpend/internal/physics"
	"github.com/san-kum/dpend/internal/sim"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Simulator", func() {
	var s *sim.Simulator

	BeforeEach(func() {
		s = newSim(dynamo.DefaultParams(), 90, 0, 90, 0)
	})

	Describe("New", func() {
		It("rejects invalid parameters", func() {
			p := dynamo.DefaultParams()
			p.L2 = 0
			_, err := sim.New(p, integrators.NewRK4())
			Expect(err).To(MatchError(dynamo.ErrConfiguration))
		})

		It("starts at rest with the default step size", func() {
			fresh, err := sim.New(dynamo.DefaultParams(), integrators.NewRK4())
			Expect(err).NotTo(HaveOccurred())
			a1, a2 := fresh.Arms()
			Expect(a1).To(Equal(dynamo.ArmState{}))
			Expect(a2).To(Equal(dynamo.ArmState{}))
			Expect(fresh.Clock()).To(Equal(sim.Clock{StepSize: dynamo.DefaultStepSize}))
		})
	})

	Describe("SetInitialConditions", func() {
		It("converts degrees to radians", func() {
			Expect(s.SetInitialConditions(180, 1.5, -45, -2)).To(Succeed())
			a1, a2 := s.Arms()
			Expect(a1.Angle).To(BeNumerically("~", math.Pi, 1e-15))
			Expect(a1.AngularSpeed).To(Equal(1.5))
			Expect(a2.Angle).To(BeNumerically("~", -math.Pi/4, 1e-15))
			Expect(a2.AngularSpeed).To(Equal(-2.0))
		})

		It("keeps the elapsed time", func() {
			for i := 0; i < 10; i++ {
				s.Tick()
			}
			before := s.Clock().Elapsed
			Expect(s.SetInitialConditions(10, 0, 10, 0)).To(Succeed())
			Expect(s.Clock().Elapsed).To(Equal(before))
		})

		It("sets arm states in radians with SetArms", func() {
			a1 := dynamo.ArmState{Angle: 1.25, AngularSpeed: -0.5}
			a2 := dynamo.ArmState{Angle: -3, AngularSpeed: 2}
			Expect(s.SetArms(a1, a2)).To(Succeed())
			got1, got2 := s.Arms()
			Expect(got1).To(Equal(a1))
			Expect(got2).To(Equal(a2))
		})

		It("rejects non-finite input and keeps the arms", func() {
			a1, a2 := s.Arms()
			err := s.SetInitialConditions(math.NaN(), 0, 0, 0)
			Expect(err).To(MatchError(dynamo.ErrConfiguration))
			Expect(err.(*dynamo.ConfigError).Field).To(Equal("theta1"))

			b1, b2 := s.Arms()
			Expect(b1).To(Equal(a1))
			Expect(b2).To(Equal(a2))
		})
	})

	Describe("Tick", func() {
		It("advances the clock by the step size", func() {
			for i := 0; i < 10; i++ {
				s.Tick()
			}
			Expect(s.Clock().Elapsed).To(BeNumerically("~", 10*dynamo.DefaultStepSize, 1e-15))
			Expect(s.Frame().Tick).To(Equal(10))
		})

		It("uses the override step size in TickWith", func() {
			Expect(s.TickWith(0.01)).To(Succeed())
			Expect(s.Clock().Elapsed).To(Equal(0.01))
			Expect(s.Clock().StepSize).To(Equal(dynamo.DefaultStepSize))
		})

		DescribeTable("rejects a bad override without advancing",
			func(h float64) {
				a1, a2 := s.Arms()
				Expect(s.TickWith(h)).To(MatchError(dynamo.ErrConfiguration))
				b1, b2 := s.Arms()
				Expect(b1).To(Equal(a1))
				Expect(b2).To(Equal(a2))
				Expect(s.Clock().Elapsed).To(BeZero())
			},
			Entry("zero", 0.0),
			Entry("negative", -0.002),
			Entry("NaN", math.NaN()),
			Entry("infinite", math.Inf(1)),
		)

		It("leaves the hanging rest state alone", func() {
			Expect(s.SetInitialConditions(0, 0, 0, 0)).To(Succeed())
			for i := 0; i < 1000; i++ {
				s.Tick()
			}
			a1, a2 := s.Arms()
			Expect(a1).To(Equal(dynamo.ArmState{}))
			Expect(a2).To(Equal(dynamo.ArmState{}))
		})

		It("reports energy in the frame", func() {
			s.Tick()
			f := s.Frame()
			Expect(f.Energy).To(Equal(physics.Energy(f.Arm1, f.Arm2, s.Params())))
		})
	})

	Describe("staggered update order", func() {
		const ticks = 20

		var (
			p      dynamo.Params
			rk     *integrators.RK4
			h      float64
			start1 dynamo.ArmState
			start2 dynamo.ArmState
		)

		BeforeEach(func() {
			p = dynamo.DefaultParams()
			rk = integrators.NewRK4()
			h = dynamo.DefaultStepSize
			start1 = dynamo.ArmState{Angle: deg(120)}
			start2 = dynamo.ArmState{Angle: deg(-30)}
			Expect(s.SetInitialConditions(120, 0, -30, 0)).To(Succeed())
		})

		It("integrates arm 2 against the pre-step arm 1", func() {
			a1, a2 := start1, start2
			for i := 0; i < ticks; i++ {
				s.Tick()
				old1 := a1
				a1 = rk.Step(physics.Arm1(p), a1, a2, h)
				a2 = rk.Step(physics.Arm2(p), a2, old1, h)
			}
			got1, got2 := s.Arms()
			Expect(got1).To(Equal(a1))
			Expect(got2).To(Equal(a2))
		})

		It("differs from feeding arm 2 the updated arm 1", func() {
			b1, b2 := start1, start2
			for i := 0; i < ticks; i++ {
				s.Tick()
				b1 = rk.Step(physics.Arm1(p), b1, b2, h)
				b2 = rk.Step(physics.Arm2(p), b2, b1, h)
			}
			_, got2 := s.Arms()
			Expect(math.Abs(got2.AngularSpeed - b2.AngularSpeed)).To(BeNumerically(">", 1e-9))
		})
	})

	It("is deterministic", func() {
		other := newSim(dynamo.DefaultParams(), 90, 0, 90, 0)
		for i := 0; i < 5000; i++ {
			s.Tick()
			other.Tick()
		}
		Expect(s.Frame()).To(Equal(other.Frame()))
	})

	It("stays finite and bounded over 10000 ticks from 90/90", func() {
		p := dynamo.Params{M1: 1, M2: 1, Gravity: 9.81, L1: 1, L2: 1}
		long := newSim(p, 90, 0, 90, 0)
		for i := 0; i < 10000; i++ {
			long.Tick()
			f := long.Frame()
			Expect(f.IsFinite()).To(BeTrue(), "tick %d", f.Tick)
			Expect(math.Abs(f.Arm1.AngularSpeed)).To(BeNumerically("<", 100))
			Expect(math.Abs(f.Arm2.AngularSpeed)).To(BeNumerically("<", 100))
		}
		Expect(long.Clock().Elapsed).To(BeNumerically("~", 20, 1e-9))
	})

	Describe("parameter setters", func() {
		DescribeTable("reject invalid values and keep the old parameters",
			func(set func(*sim.Simulator) error, field string) {
				before := s.Params()
				err := set(s)
				Expect(err).To(MatchError(dynamo.ErrConfiguration))
				Expect(err.(*dynamo.ConfigError).Field).To(Equal(field))
				Expect(s.Params()).To(Equal(before))
			},
			Entry("negative mass", func(s *sim.Simulator) error { return s.SetMasses(-1, 1) }, "m1"),
			Entry("zero lower mass", func(s *sim.Simulator) error { return s.SetMasses(1, 0) }, "m2"),
			Entry("zero gravity", func(s *sim.Simulator) error { return s.SetGravity(0) }, "gravity"),
			Entry("infinite length", func(s *sim.Simulator) error { return s.SetLengths(math.Inf(1), 1) }, "l1"),
			Entry("NaN length", func(s *sim.Simulator) error { return s.SetLengths(1, math.NaN()) }, "l2"),
			Entry("bad block", func(s *sim.Simulator) error {
				return s.SetParams(dynamo.Params{M1: 1, M2: 1, Gravity: -9.81, L1: 1, L2: 1})
			}, "gravity"),
		)

		It("applies valid values immediately", func() {
			Expect(s.SetMasses(2, 3)).To(Succeed())
			Expect(s.SetGravity(9.81)).To(Succeed())
			Expect(s.SetLengths(0.5, 1.5)).To(Succeed())
			Expect(s.Params()).To(Equal(dynamo.Params{M1: 2, M2: 3, Gravity: 9.81, L1: 0.5, L2: 1.5}))
		})

		It("changes the step size used by Tick", func() {
			Expect(s.SetStepSize(0.01)).To(Succeed())
			s.Tick()
			Expect(s.Clock().Elapsed).To(Equal(0.01))
			Expect(s.SetStepSize(0)).To(MatchError(dynamo.ErrConfiguration))
			Expect(s.Clock().StepSize).To(Equal(0.01))
		})
	})

	Describe("Submit", func() {
		It("applies commands only at the next tick", func() {
			Expect(s.Submit(sim.GravityUpdate{Value: 3.7})).To(Succeed())
			Expect(s.Pending()).To(Equal(1))
			Expect(s.Params().Gravity).To(Equal(dynamo.DefaultGravity))

			s.Tick()
			Expect(s.Pending()).To(BeZero())
			Expect(s.Params().Gravity).To(Equal(3.7))
		})

		It("applies commands in submission order", func() {
			Expect(s.Submit(sim.MassUpdate{M1: 2, M2: 2})).To(Succeed())
			Expect(s.Submit(sim.MassUpdate{M1: 4, M2: 5})).To(Succeed())
			s.Tick()
			p := s.Params()
			Expect(p.M1).To(Equal(4.0))
			Expect(p.M2).To(Equal(5.0))
		})

		It("resets the arms before the step that follows", func() {
			Expect(s.Submit(sim.InitialConditions{})).To(Succeed())
			s.Tick()
			a1, a2 := s.Arms()
			Expect(a1).To(Equal(dynamo.ArmState{}))
			Expect(a2).To(Equal(dynamo.ArmState{}))
		})

		It("rejects invalid commands without queueing them", func() {
			Expect(s.Submit(sim.LengthUpdate{L1: 0, L2: 1})).To(MatchError(dynamo.ErrConfiguration))
			Expect(s.Submit(sim.StepSizeUpdate{Value: -1})).To(MatchError(dynamo.ErrConfiguration))
			Expect(s.Pending()).To(BeZero())
		})

		It("is safe to call while ticking", func() {
			var wg sync.WaitGroup
			for w := 0; w < 4; w++ {
				wg.Add(1)
				go func(w int) {
					defer GinkgoRecover()
					defer wg.Done()
					for i := 0; i < 100; i++ {
						Expect(s.Submit(sim.GravityUpdate{Value: float64(w + 1)})).To(Succeed())
					}
				}(w)
			}
			for i := 0; i < 200; i++ {
				s.Tick()
			}
			wg.Wait()
			s.Tick()

			Expect(s.Pending()).To(BeZero())
			Expect(s.Params().Gravity).To(BeElementOf(1.0, 2.0, 3.0, 4.0))
		})
	})

	Describe("Run", func() {
		It("samples frames including the starting state", func() {
			res, err := s.Run(context.Background(), sim.RunConfig{Ticks: 100, SampleEvery: 10})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.TicksTaken).To(Equal(100))
			Expect(res.Frames).To(HaveLen(11))
			Expect(res.Frames[0].Tick).To(BeZero())
			Expect(res.Frames[10].Tick).To(Equal(100))
			Expect(res.DivergedAt).To(Equal(-1))
		})

		It("records every tick when the sample interval is zero", func() {
			res, err := s.Run(context.Background(), sim.RunConfig{Ticks: 25})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Frames).To(HaveLen(26))
		})

		It("collects metrics", func() {
			m := &countingMetric{ticks: 99}
			s.AddMetric(m)
			res, err := s.Run(context.Background(), sim.RunConfig{Ticks: 40, SampleEvery: 40})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Metrics).To(HaveKeyWithValue("ticks", 41.0))
			Expect(m.last.Tick).To(Equal(40))
		})

		It("shows metrics the starting frame first", func() {
			m := &countingMetric{}
			s.AddMetric(m)
			start := s.Frame()
			_, err := s.Run(context.Background(), sim.RunConfig{Ticks: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(m.first).To(Equal(start))
			Expect(m.first.Tick).To(Equal(0))
		})

		It("reports the first non-finite tick", func() {
			bad, err := sim.New(dynamo.DefaultParams(), &poisonStepper{rk4: integrators.NewRK4(), poisonAt: 3})
			Expect(err).NotTo(HaveOccurred())
			Expect(bad.SetInitialConditions(90, 0, 90, 0)).To(Succeed())

			res, err := bad.Run(context.Background(), sim.RunConfig{Ticks: 10})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.DivergedAt).To(Equal(3))
			Expect(res.TicksTaken).To(Equal(10))
			Expect(res.Frames[2].IsFinite()).To(BeTrue())
			Expect(res.Frames[3].IsFinite()).To(BeFalse())
		})

		It("stops when the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			res, err := s.Run(ctx, sim.RunConfig{Ticks: 100})
			Expect(err).To(MatchError(context.Canceled))
			Expect(res.TicksTaken).To(BeZero())
		})

		DescribeTable("rejects bad run configs",
			func(cfg sim.RunConfig) {
				_, err := s.Run(context.Background(), cfg)
				Expect(err).To(HaveOccurred())
			},
			Entry("no ticks", sim.RunConfig{}),
			Entry("negative ticks", sim.RunConfig{Ticks: -5}),
			Entry("negative sample", sim.RunConfig{Ticks: 5, SampleEvery: -1}),
		)
	})

	Describe("RunWithCallback", func() {
		It("ticks StepsPerFrame times per frame until the callback stops", func() {
			frames := 0
			err := s.RunWithCallback(context.Background(), sim.LoopConfig{FPS: 200, StepsPerFrame: 5}, func(f sim.Frame) bool {
				frames++
				return frames < 3
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(frames).To(Equal(3))
			Expect(s.Frame().Tick).To(Equal(15))
		})

		It("rejects a non-positive frame rate", func() {
			err := s.RunWithCallback(context.Background(), sim.LoopConfig{FPS: 0, StepsPerFrame: 1}, func(sim.Frame) bool { return true })
			Expect(err).To(HaveOccurred())
		})
	})
})
