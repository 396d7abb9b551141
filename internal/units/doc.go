// Package units provides the Length and Angle value types used across the
// drive stack.
//
// Both types wrap a single float64 stored in a fixed internal unit:
//
//   - [Length]: pixels, where one inch is five pixels
//   - [Angle]: radians
//
// Values are built with a named constructor and read back with a named
// accessor, so the unit is always spelled out at the call site:
//
//	d := units.Inches(24)
//	fmt.Println(d.Feet()) // 2
//
//	a := units.Degrees(270).Constrain()
//	fmt.Println(a.Degrees()) // -90
//
// There is no implicit conversion to float64. [Length.Raw] and [Angle.Raw]
// expose the internal scalar for the rare caller that needs it.
package units
