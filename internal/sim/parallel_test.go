package sim_test

import (
	"context"

	"github.com/san-kum/dpend/internal/dynamo"
	"github.com/san-kum/dpend/internal/integrators"
	"github.com/san-kum/dpend/internal/sim"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Ensemble", func() {
	newStepper := func() dynamo.Stepper { return integrators.NewRK4() }

	It("returns results in member order matching serial runs", func() {
		members := []sim.Member{
			{Params: dynamo.DefaultParams(), Initial: sim.InitialConditions{Angle1: 90, Angle2: 90}},
			{Params: dynamo.DefaultParams(), Initial: sim.InitialConditions{Angle1: 45, Angle2: -10}},
			{Params: dynamo.Params{M1: 2, M2: 1, Gravity: 9.81, L1: 1, L2: 0.5}, Initial: sim.InitialConditions{Angle1: 120}, StepSize: 0.001},
		}
		cfg := sim.RunConfig{Ticks: 300, SampleEvery: 100}

		results, err := sim.NewEnsemble(members, 2, newStepper).Run(context.Background(), cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(len(members)))

		for i, m := range members {
			serial := newSim(m.Params, m.Initial.Angle1, m.Initial.Speed1, m.Initial.Angle2, m.Initial.Speed2)
			if m.StepSize > 0 {
				Expect(serial.SetStepSize(m.StepSize)).To(Succeed())
			}
			want, err := serial.Run(context.Background(), cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(results[i].Frames).To(Equal(want.Frames), "member %d", i)
		}
	})

	It("gives each member its own metrics", func() {
		members := []sim.Member{
			{Params: dynamo.DefaultParams()},
			{Params: dynamo.DefaultParams()},
		}
		counters := make([]*countingMetric, len(members))
		results, err := sim.NewEnsemble(members, 0, newStepper).
			WithMetrics(func(idx int) []sim.Metric {
				counters[idx] = &countingMetric{}
				return []sim.Metric{counters[idx]}
			}).
			Run(context.Background(), sim.RunConfig{Ticks: 50})
		Expect(err).NotTo(HaveOccurred())
		for i := range members {
			Expect(counters[i].ticks).To(Equal(51))
			Expect(results[i].Metrics).To(HaveKeyWithValue("ticks", 50.0))
		}
	})

	It("fails when a member has invalid parameters", func() {
		members := []sim.Member{
			{Params: dynamo.DefaultParams()},
			{Params: dynamo.Params{M1: 1, M2: 1, Gravity: 0, L1: 1, L2: 1}},
		}
		_, err := sim.NewEnsemble(members, 1, newStepper).Run(context.Background(), sim.RunConfig{Ticks: 10})
		Expect(err).To(MatchError(dynamo.ErrConfiguration))
	})

	It("rejects a bad run config before starting", func() {
		_, err := sim.NewEnsemble(nil, 1, newStepper).Run(context.Background(), sim.RunConfig{})
		Expect(err).To(HaveOccurred())
	})
})
