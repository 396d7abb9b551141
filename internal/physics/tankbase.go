package physics

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/tankbot/internal/sim"
)

// ErrUnknownParam is returned by SetParam for a name Params does not list.
var ErrUnknownParam = errors.New("physics: unknown parameter")

// State layout of a TankBase. Positions are inches, angles radians, and
// heading follows the compass convention (0 along +Y, clockwise positive).
const (
	IdxX = iota
	IdxY
	IdxHeading
	IdxOmegaL
	IdxOmegaR
	IdxShaftL
	IdxShaftR
	IdxTracker
	tankStateDim
)

// TankBase is a two-sided skid-steer base. Each side is a motor with a
// first-order velocity lag; the control vector is [left%, right%].
//
// Shaft angles are motor-side, so one shaft revolution rolls
// π·WheelDiameter·GearRatio inches of ground.
type TankBase struct {
	WheelDiameter float64
	GearRatio     float64
	TrackWidth    float64
	MaxRPM        float64
	MotorTau      float64

	// LateralSlip is the sideways drift of the chassis as a fraction of its
	// forward speed, positive to the right.
	LateralSlip float64

	TrackerDiameter  float64
	TrackerGearRatio float64
	// TrackerOffset is how far ahead of center the tracking wheel sits.
	TrackerOffset float64
}

func NewTankBase() *TankBase {
	return &TankBase{
		WheelDiameter:    3.25,
		GearRatio:        1,
		TrackWidth:       12,
		MaxRPM:           200,
		MotorTau:         0.05,
		TrackerDiameter:  2.75,
		TrackerGearRatio: 1,
	}
}

func (b *TankBase) StateDim() int {
	return tankStateDim
}

func (b *TankBase) ControlDim() int {
	return 2
}

// rollRadius converts shaft angular speed to ground speed.
func (b *TankBase) rollRadius() float64 {
	return b.WheelDiameter / 2 * b.GearRatio
}

func (b *TankBase) maxOmega() float64 {
	return b.MaxRPM * 2 * math.Pi / 60
}

func (b *TankBase) Derivative(x sim.State, u sim.Control, t float64) sim.State {
	heading := x[IdxHeading]
	omegaL := x[IdxOmegaL]
	omegaR := x[IdxOmegaR]

	var cmdL, cmdR float64
	if len(u) >= 2 {
		cmdL = clamp(u[0], -100, 100)
		cmdR = clamp(u[1], -100, 100)
	}

	r := b.rollRadius()
	vL := omegaL * r
	vR := omegaR * r
	v := (vL + vR) / 2
	turnRate := (vL - vR) / b.TrackWidth
	lateral := b.LateralSlip * v

	sin, cos := math.Sincos(heading)

	tau := math.Max(b.MotorTau, 1e-6)
	target := b.maxOmega() / 100

	dx := make(sim.State, tankStateDim)
	dx[IdxX] = v*sin + lateral*cos
	dx[IdxY] = v*cos - lateral*sin
	dx[IdxHeading] = turnRate
	dx[IdxOmegaL] = (cmdL*target - omegaL) / tau
	dx[IdxOmegaR] = (cmdR*target - omegaR) / tau
	dx[IdxShaftL] = omegaL
	dx[IdxShaftR] = omegaR
	if tr := b.TrackerDiameter / 2 * b.TrackerGearRatio; tr > 0 {
		dx[IdxTracker] = (lateral + b.TrackerOffset*turnRate) / tr
	}
	return dx
}

// TopSpeed is the ground speed at full command, in inches per second.
func (b *TankBase) TopSpeed() float64 {
	return b.maxOmega() * b.rollRadius()
}

func (b *TankBase) Params() map[string]float64 {
	return map[string]float64{
		"wheel_diameter":   b.WheelDiameter,
		"gear_ratio":       b.GearRatio,
		"track_width":      b.TrackWidth,
		"max_rpm":          b.MaxRPM,
		"motor_tau":        b.MotorTau,
		"lateral_slip":     b.LateralSlip,
		"tracker_diameter": b.TrackerDiameter,
		"tracker_ratio":    b.TrackerGearRatio,
		"tracker_offset":   b.TrackerOffset,
	}
}

func (b *TankBase) SetParam(name string, value float64) error {
	switch name {
	case "wheel_diameter":
		b.WheelDiameter = value
	case "gear_ratio":
		b.GearRatio = value
	case "track_width":
		if value <= 0 {
			return fmt.Errorf("physics: track_width must be positive, got %v", value)
		}
		b.TrackWidth = value
	case "max_rpm":
		b.MaxRPM = value
	case "motor_tau":
		b.MotorTau = value
	case "lateral_slip":
		b.LateralSlip = value
	case "tracker_diameter":
		b.TrackerDiameter = value
	case "tracker_ratio":
		b.TrackerGearRatio = value
	case "tracker_offset":
		b.TrackerOffset = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Pose extracts the chassis pose from a TankBase state.
func (b *TankBase) Pose(x sim.State) sim.Pose {
	return sim.Pose{
		X:       x[IdxX],
		Y:       x[IdxY],
		Heading: x[IdxHeading] * 180 / math.Pi,
	}
}
