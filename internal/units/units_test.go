package units

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestLengthRoundTrip(t *testing.T) {
	values := []float64{0, 1, -3.5, 12, 144.25, 1e-4, 1e4}

	tests := []struct {
		name string
		ctor func(float64) Length
		get  func(Length) float64
	}{
		{"pixels", Pixels, Length.Pixels},
		{"inches", Inches, Length.Inches},
		{"feet", Feet, Length.Feet},
		{"meters", Meters, Length.Meters},
		{"centimeters", Centimeters, Length.Centimeters},
		{"millimeters", Millimeters, Length.Millimeters},
		{"tiles", Tiles, Length.Tiles},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, v := range values {
				got := tt.get(tt.ctor(v))
				if math.Abs(got-v) > eps*math.Max(1, math.Abs(v)) {
					t.Errorf("%s(%v) round trip = %v", tt.name, v, got)
				}
			}
		})
	}
}

func TestLengthConversions(t *testing.T) {
	tests := []struct {
		name     string
		got      float64
		expected float64
	}{
		{"inch in pixels", Inches(1).Raw(), 5},
		{"foot in inches", Feet(1).Inches(), 12},
		{"tile in inches", Tiles(1).Inches(), 24},
		{"meter in inches", Meters(1).Inches(), 39.37007874},
		{"inch in millimeters", Inches(1).Millimeters(), 25.4},
		{"inch in centimeters", Inches(1).Centimeters(), 2.54},
		{"two tiles in feet", Tiles(2).Feet(), 4},
	}

	for _, tt := range tests {
		if math.Abs(tt.got-tt.expected) > 1e-6 {
			t.Errorf("%s: got %v, want %v", tt.name, tt.got, tt.expected)
		}
	}
}

func TestLengthArithmetic(t *testing.T) {
	a := Inches(10)
	b := Inches(4)

	if got := a.Add(b).Inches(); math.Abs(got-14) > eps {
		t.Errorf("Add = %v", got)
	}
	if got := a.Sub(b).Inches(); math.Abs(got-6) > eps {
		t.Errorf("Sub = %v", got)
	}
	if got := a.Div(b); math.Abs(got-2.5) > eps {
		t.Errorf("Div = %v", got)
	}
	if a.Neg().Sign() != -1 || (Length{}).Sign() != 0 {
		t.Error("Sign mismatch")
	}
	if a.String() != "10.00in" {
		t.Errorf("String = %q", a.String())
	}
}

func TestAngleRoundTrip(t *testing.T) {
	values := []float64{0, 1, -1, 90, 359.5, -720, 1e3}

	tests := []struct {
		name string
		ctor func(float64) Angle
		get  func(Angle) float64
	}{
		{"degrees", Degrees, Angle.Degrees},
		{"radians", Radians, Angle.Radians},
		{"revolutions", Revolutions, Angle.Revolutions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, v := range values {
				got := tt.get(tt.ctor(v))
				if math.Abs(got-v) > eps*math.Max(1, math.Abs(v)) {
					t.Errorf("%s(%v) round trip = %v", tt.name, v, got)
				}
			}
		})
	}
}

func TestAngleConstrain(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{90, 90},
		{179, 179},
		{-179, -179},
		{270, -90},
		{-270, 90},
		{360, 0},
		{721, 1},
		{-539, -179},
		{36000 + 45, 45},
	}

	for _, tt := range tests {
		got := Degrees(tt.in).Constrain().Degrees()
		if math.Abs(got-tt.want) > 1e-6 {
			t.Errorf("Constrain(%v°) = %v°, want %v°", tt.in, got, tt.want)
		}
	}
}

func TestAngleConstrainIdempotent(t *testing.T) {
	for deg := -1080.0; deg <= 1080; deg += 7.5 {
		once := Degrees(deg).Constrain()
		twice := once.Constrain()
		if once.Raw() != twice.Raw() {
			t.Errorf("Constrain not idempotent at %v°: %v vs %v", deg, once, twice)
		}
		if once.Raw() <= -math.Pi || once.Raw() > math.Pi {
			t.Errorf("Constrain(%v°) = %v out of range", deg, once.Raw())
		}
	}
}

func TestShortestTurnPath(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{90, 90},
		{-90, -90},
		{179, 179},
		{270, -90},
		{-270, 90},
		{350, -10},
		{-350, 10},
		{720 + 30, 30},
		{180, -180},
		{-180, -180},
		{540, -180},
	}

	for _, tt := range tests {
		got := ShortestTurnPath(Degrees(tt.in)).Degrees()
		if math.Abs(got-tt.want) > 1e-6 {
			t.Errorf("ShortestTurnPath(%v°) = %v°, want %v°", tt.in, got, tt.want)
		}
	}
}

func TestShortestTurnPathProperties(t *testing.T) {
	for deg := -1440.0; deg <= 1440; deg += 3.7 {
		in := Degrees(deg)
		out := ShortestTurnPath(in)

		if math.Abs(out.Revolutions()) > 0.5+eps {
			t.Errorf("ShortestTurnPath(%v) = %v exceeds half a turn", in, out)
		}

		diff := math.Mod(in.Radians()-out.Radians(), fullTurn)
		if diff < 0 {
			diff += fullTurn
		}
		if diff > 1e-6 && fullTurn-diff > 1e-6 {
			t.Errorf("ShortestTurnPath(%v) = %v is not congruent mod 2π", in, out)
		}
	}
}
