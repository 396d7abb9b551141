package units

import (
	"fmt"
	"math"
)

const fullTurn = 2 * math.Pi

// Angle is stored in radians.
type Angle struct {
	v float64
}

// AngleFromRaw builds an Angle from a value already in radians.
func AngleFromRaw(rad float64) Angle { return Angle{v: rad} }

func Degrees(deg float64) Angle { return Angle{v: deg * math.Pi / 180} }

func Radians(rad float64) Angle { return Angle{v: rad} }

func Revolutions(rev float64) Angle { return Angle{v: rev * fullTurn} }

// Raw returns the internal scalar (radians).
func (a Angle) Raw() float64 { return a.v }

func (a Angle) Degrees() float64 { return a.v * 180 / math.Pi }

func (a Angle) Radians() float64 { return a.v }

func (a Angle) Revolutions() float64 { return a.v / fullTurn }

func (a Angle) Add(o Angle) Angle { return Angle{v: a.v + o.v} }

func (a Angle) Sub(o Angle) Angle { return Angle{v: a.v - o.v} }

func (a Angle) Scale(f float64) Angle { return Angle{v: a.v * f} }

func (a Angle) Neg() Angle { return Angle{v: -a.v} }

func (a Angle) Abs() Angle { return Angle{v: math.Abs(a.v)} }

func (a Angle) IsZero() bool { return a.v == 0 }

// Sign returns -1, 0 or 1.
func (a Angle) Sign() float64 { return sign(a.v) }

// Constrain wraps the angle into (-π, π] by whole turns.
func (a Angle) Constrain() Angle {
	v := a.v
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return a
	}
	if math.Abs(v) > 64*fullTurn {
		v = math.Mod(v, fullTurn)
	}
	for v > math.Pi {
		v -= fullTurn
	}
	for v <= -math.Pi {
		v += fullTurn
	}
	return Angle{v: v}
}

func (a Angle) String() string {
	return fmt.Sprintf("%.2f°", a.Degrees())
}

// ShortestTurnPath returns the signed rotation of smallest magnitude that ends
// on the same heading as a. The result never exceeds half a turn; exactly
// half a turn comes back as -180°.
func ShortestTurnPath(a Angle) Angle {
	c := a.Constrain()
	// Constrain leaves the value in (-π, π], so only +π needs moving.
	if rev := c.Revolutions(); rev >= 0.5 {
		return Revolutions(rev - 1)
	}
	return c
}
