// Package analysis characterises double pendulum trajectories.
//
//   - [LyapunovExponent]: largest exponent from two nearby simulators
//   - [PowerSpectrum], [DominantFrequency]: spectra of a sampled quantity
//   - [PoincareSection]: lower-arm state whenever the upper arm passes
//     through the vertical
//   - [BifurcationDiagram]: section values across a parameter sweep
//
// # Chaos Detection
//
// A positive largest Lyapunov exponent indicates chaotic motion:
//
//	lambda, err := analysis.LyapunovExponent(cfg, newStepper)
//	if err == nil && lambda > 0 {
//	    // nearby starts separate exponentially
//	}
package analysis
