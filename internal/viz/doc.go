// Package viz draws a simulated robot in the terminal.
//
// [Canvas] is a braille dot grid and [Projection] maps field inches onto it.
// [FieldModel] is a Bubble Tea program built on both: the field's tiles, the
// path driven so far, the robot outline at its true pose, a cross at the
// pose odometry believes, and a stats panel with motor commands and a
// heading graph.
//
// # Key Bindings
//
//	W/S   - Throttle up/down (teleop)
//	A/D   - Turn left/right (teleop)
//	Space - Center the sticks
//	C     - Clear the trail
//	T     - Cycle color themes
//	?     - Toggle help
//	Q     - Quit
//
// Teleop keys go through a [KeyPad], which implements hw.Gamepad, so the
// robot is driven by the same curved split-arcade mapping as a controller.
package viz
