package sim_test

import (
	"math"

	"github.com/san-kum/dpend/internal/dynamo"
	"github.com/san-kum/dpend/internal/sim"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Command", func() {
	DescribeTable("Validate",
		func(cmd sim.Command, field string) {
			err := cmd.Validate()
			if field == "" {
				Expect(err).NotTo(HaveOccurred())
				return
			}
			Expect(err).To(MatchError(dynamo.ErrConfiguration))
			Expect(err.(*dynamo.ConfigError).Field).To(Equal(field))
		},
		Entry("initial conditions", sim.InitialConditions{Angle1: 90, Angle2: -720, Speed2: 3}, ""),
		Entry("infinite speed", sim.InitialConditions{Speed1: math.Inf(-1)}, "omega1"),
		Entry("NaN lower angle", sim.InitialConditions{Angle2: math.NaN()}, "theta2"),
		Entry("arm states", sim.ArmStates{Arm1: dynamo.ArmState{Angle: 7, AngularSpeed: -1}}, ""),
		Entry("NaN arm speed", sim.ArmStates{Arm2: dynamo.ArmState{AngularSpeed: math.NaN()}}, "omega2"),
		Entry("gravity", sim.GravityUpdate{Value: 1.62}, ""),
		Entry("negative gravity", sim.GravityUpdate{Value: -9.81}, "gravity"),
		Entry("masses", sim.MassUpdate{M1: 0.5, M2: 3}, ""),
		Entry("zero upper mass", sim.MassUpdate{M1: 0, M2: 1}, "m1"),
		Entry("lengths", sim.LengthUpdate{L1: 1, L2: 0.25}, ""),
		Entry("negative lower length", sim.LengthUpdate{L1: 1, L2: -1}, "l2"),
		Entry("params", sim.ParamsUpdate{Params: dynamo.DefaultParams()}, ""),
		Entry("empty params", sim.ParamsUpdate{}, "m1"),
		Entry("step size", sim.StepSizeUpdate{Value: 0.001}, ""),
		Entry("zero step size", sim.StepSizeUpdate{}, "step_size"),
	)

	It("converts radians back to degrees", func() {
		Expect(sim.Degrees(math.Pi)).To(BeNumerically("~", 180, 1e-12))
		Expect(sim.Degrees(-math.Pi / 2)).To(BeNumerically("~", -90, 1e-12))
	})
})
