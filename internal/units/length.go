package units

import (
	"fmt"
	"math"
)

const (
	pixelsPerInch  = 5.0
	inchesPerFoot  = 12.0
	inchesPerTile  = 24.0
	inchesPerMeter = 1 / 0.0254
	inchesPerCm    = inchesPerMeter / 100
	inchesPerMm    = inchesPerMeter / 1000
)

// Length is a distance stored in pixels.
type Length struct {
	v float64
}

// LengthFromRaw builds a Length from a value already in pixels.
func LengthFromRaw(px float64) Length { return Length{v: px} }

func Pixels(px float64) Length { return Length{v: px} }

func Inches(in float64) Length { return Length{v: in * pixelsPerInch} }

func Feet(ft float64) Length { return Inches(ft * inchesPerFoot) }

func Meters(m float64) Length { return Inches(m * inchesPerMeter) }

func Centimeters(cm float64) Length { return Inches(cm * inchesPerCm) }

func Millimeters(mm float64) Length { return Inches(mm * inchesPerMm) }

// Tiles uses the 24in field tile.
func Tiles(tiles float64) Length { return Inches(tiles * inchesPerTile) }

// Raw returns the internal scalar (pixels).
func (l Length) Raw() float64 { return l.v }

func (l Length) Pixels() float64 { return l.v }

func (l Length) Inches() float64 { return l.v / pixelsPerInch }

func (l Length) Feet() float64 { return l.Inches() / inchesPerFoot }

func (l Length) Meters() float64 { return l.Inches() / inchesPerMeter }

func (l Length) Centimeters() float64 { return l.Inches() / inchesPerCm }

func (l Length) Millimeters() float64 { return l.Inches() / inchesPerMm }

func (l Length) Tiles() float64 { return l.Inches() / inchesPerTile }

func (l Length) Add(o Length) Length { return Length{v: l.v + o.v} }

func (l Length) Sub(o Length) Length { return Length{v: l.v - o.v} }

func (l Length) Scale(f float64) Length { return Length{v: l.v * f} }

func (l Length) Neg() Length { return Length{v: -l.v} }

func (l Length) Abs() Length { return Length{v: math.Abs(l.v)} }

func (l Length) IsZero() bool { return l.v == 0 }

// Div returns the ratio l/o. Dividing by a zero length yields ±Inf or NaN.
func (l Length) Div(o Length) float64 { return l.v / o.v }

// Sign returns -1, 0 or 1.
func (l Length) Sign() float64 { return sign(l.v) }

func (l Length) String() string {
	return fmt.Sprintf("%.2fin", l.Inches())
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
