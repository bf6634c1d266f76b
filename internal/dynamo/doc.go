// Package dynamo provides the core value types of the double pendulum
// simulation.
//
// The package defines:
//
//   - [ArmState]: angle and angular speed of one arm
//   - [Params]: masses, gravity and link lengths shared by both arms
//   - [Derivative]: time derivative of one arm given the other arm
//   - [Stepper]: fixed-step integrator over a [Derivative]
//   - [ConfigError]: rejection of an invalid parameter
//
// # Example
//
//	p := dynamo.DefaultParams()
//	arm1 := dynamo.ArmState{Angle: math.Pi / 2}
//	arm2 := dynamo.ArmState{Angle: math.Pi / 2}
//	next := integrators.NewRK4().Step(physics.Arm1(p), arm1, arm2, 0.002)
//
// # Non-finite values
//
// Near singular configurations the accelerations may become infinite or NaN.
// Nothing in this package traps them; use [ArmState.IsFinite] where a
// consumer needs to skip such states.
package dynamo
