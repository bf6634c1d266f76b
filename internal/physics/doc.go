// Package physics provides the double pendulum equations of motion.
//
// [Accel1] and [Accel2] are the closed-form angular accelerations of the two
// point-mass arms. Both take arm 1 first and arm 2 second; [Arm1] and [Arm2]
// bind them to a [dynamo.Params] in the (self, other) form the integrator
// expects.
//
// [Energy] and [Positions] serve metrics and renderers.
//
// # Singular configurations
//
// The shared denominator 2m1+m2-m2cos(2θ1-2θ2) vanishes when m1 is zero and
// the arms are aligned, and any zero length does the same. The results then
// become infinite or NaN and are returned as is:
//
//	d := physics.Accel1(a1, a2, p)
//	if !d.IsFinite() {
//	    // skip drawing
//	}
package physics
