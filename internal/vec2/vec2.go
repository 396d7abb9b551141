// Package vec2 is a small 2D vector type for field positions.
//
// Directions follow the compass convention used by the drive code: 0 points
// along +Y, and angles grow clockwise toward +X.
package vec2

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/tankbot/internal/units"
)

// ErrZeroLength is returned when a zero vector is normalized.
var ErrZeroLength = errors.New("vec2: zero-length vector has no direction")

// Vec2 holds raw length components (pixels).
type Vec2 struct {
	X, Y float64
}

func FromCartesian(x, y units.Length) Vec2 {
	return Vec2{X: x.Raw(), Y: y.Raw()}
}

// FromPolar builds a vector of length mag pointing along dir.
func FromPolar(dir units.Angle, mag units.Length) Vec2 {
	r := mag.Raw()
	return Vec2{
		X: r * math.Sin(dir.Radians()),
		Y: r * math.Cos(dir.Radians()),
	}
}

func (v Vec2) XLength() units.Length { return units.LengthFromRaw(v.X) }

func (v Vec2) YLength() units.Length { return units.LengthFromRaw(v.Y) }

func (v Vec2) Magnitude() units.Length {
	return units.LengthFromRaw(math.Hypot(v.X, v.Y))
}

// Direction is the compass heading of v. A zero vector reports 0.
func (v Vec2) Direction() units.Angle {
	return units.Radians(math.Atan2(v.X, v.Y))
}

func (v Vec2) Normalize() (Vec2, error) {
	m := math.Hypot(v.X, v.Y)
	if m == 0 {
		return Vec2{}, ErrZeroLength
	}
	return Vec2{X: v.X / m, Y: v.Y / m}, nil
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }

func (v Vec2) Scale(f float64) Vec2 { return Vec2{X: v.X * f, Y: v.Y * f} }

// Dot returns the dot product in raw units squared.
func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

func (v Vec2) DistTo(o Vec2) units.Length { return o.Sub(v).Magnitude() }

// AngleTo is the compass heading from v toward o.
func (v Vec2) AngleTo(o Vec2) units.Angle { return o.Sub(v).Direction() }

func (v Vec2) String() string {
	return fmt.Sprintf("(%s, %s)", v.XLength(), v.YLength())
}
