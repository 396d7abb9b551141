package metrics

import (
	"math"

	"github.com/san-kum/tankbot/internal/sim"
)

// OdometryError is the distance between the true and tracked position at
// the last observed sample, in inches.
type OdometryError struct {
	last float64
	peak float64
}

func NewOdometryError() *OdometryError {
	return &OdometryError{}
}

func (o *OdometryError) Name() string {
	return "odometry_error_in"
}

func (o *OdometryError) Observe(s sim.Sample) {
	o.last = s.True.DistTo(s.Tracked)
	o.peak = math.Max(o.peak, o.last)
}

func (o *OdometryError) Value() float64 {
	return o.last
}

// Peak is the worst error seen so far.
func (o *OdometryError) Peak() float64 {
	return o.peak
}

func (o *OdometryError) Reset() {
	o.last = 0
	o.peak = 0
}

// HeadingError is the absolute difference between true and tracked heading
// at the last sample, in degrees, taken the short way around.
type HeadingError struct {
	last float64
}

func NewHeadingError() *HeadingError {
	return &HeadingError{}
}

func (h *HeadingError) Name() string {
	return "heading_error_deg"
}

func (h *HeadingError) Observe(s sim.Sample) {
	d := math.Mod(s.True.Heading-s.Tracked.Heading, 360)
	if d < 0 {
		d += 360
	}
	h.last = math.Min(d, 360-d)
}

func (h *HeadingError) Value() float64 {
	return h.last
}

func (h *HeadingError) Reset() {
	h.last = 0
}

// derived reports a secondary value of another metric under its own name.
// It observes nothing itself, so the source must be recorded alongside it.
type derived struct {
	name  string
	value func() float64
}

func (d derived) Name() string         { return d.name }
func (d derived) Observe(s sim.Sample) {}
func (d derived) Value() float64       { return d.value() }
func (d derived) Reset()               {}

// Standard returns the metrics recorded for every run.
func Standard() []sim.Metric {
	effort := NewControlEffort()
	odom := NewOdometryError()
	return []sim.Metric{
		effort,
		derived{"control_peak", effort.Peak},
		derived{"control_saturation", effort.Saturation},
		NewPathLength(),
		odom,
		derived{"odometry_error_peak_in", odom.Peak},
		NewHeadingError(),
	}
}
