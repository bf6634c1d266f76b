// Package viz is the terminal front end for the double pendulum.
//
// The live view is a Bubble Tea program:
//
//   - [Model]: advances a simulator every frame and draws it
//   - [Canvas]: braille dot canvas, 2x4 dots per cell
//   - [Scene]: projects the chain onto a canvas with a trail of the lower bob
//
// # Key Bindings
//
//	I     - Initial conditions (degrees, rad/s)
//	L     - Arm lengths
//	M     - Masses
//	G     - Gravity
//	A     - About
//	Space - Pause/Resume
//	R     - Restart from the initial conditions
//	V     - Toggle GIF recording
//
// Values typed at a prompt are queued and take effect on the next tick.
package viz
