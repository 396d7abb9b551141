// Package hw declares the device capabilities the drive stack depends on and
// the motor grouping built on top of them.
//
// Concrete devices live elsewhere: the simulator in internal/sim implements
// every interface here against a physics model.
package hw

import "github.com/san-kum/tankbot/internal/units"

// Actuator is a single vendor motor.
type Actuator interface {
	// SpinPercent commands velocity as a percentage of free speed.
	SpinPercent(pct float64)
	// SpinVolts commands a raw voltage, nominally within ±12.
	SpinVolts(v float64)
	// Position is the unbounded shaft angle.
	Position() units.Angle
}

// HeadingSensor is an inertial sensor reporting yaw.
type HeadingSensor interface {
	Calibrate()
	IsCalibrating() bool
	// Heading is wrapped into [0°, 360°).
	Heading() units.Angle
	// Rotation is unbounded and accumulates across turns.
	Rotation() units.Angle
	SetHeading(units.Angle)
}

// RotationSensor is a free-spinning encoder, such as a tracking wheel.
type RotationSensor interface {
	Position() units.Angle
	SetPosition(units.Angle)
}

type AxisID int

const (
	Axis1 AxisID = iota + 1
	Axis2
	Axis3
	Axis4
)

// Gamepad reports stick axes in [-100, 100].
type Gamepad interface {
	Axis(AxisID) float64
}
