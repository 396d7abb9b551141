package metrics

import (
	"math"

	"github.com/san-kum/tankbot/internal/sim"
)

// ControlEffort is the mean absolute motor command over both sides, in
// percent. It also keeps the peak and how often a side was saturated.
type ControlEffort struct {
	sum       float64
	peak      float64
	saturated int
	samples   int
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{}
}

func (c *ControlEffort) Name() string { return "control_effort" }

func (c *ControlEffort) Observe(s sim.Sample) {
	l, r := math.Abs(s.CmdL), math.Abs(s.CmdR)
	e := (l + r) / 2
	c.sum += e
	c.peak = math.Max(c.peak, e)
	if l >= 100 || r >= 100 {
		c.saturated++
	}
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Peak() float64 { return c.peak }

// Saturation is the fraction of samples with either side at full command.
func (c *ControlEffort) Saturation() float64 {
	if c.samples == 0 {
		return 0
	}
	return float64(c.saturated) / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	*c = ControlEffort{}
}
