package drive

import (
	"github.com/san-kum/tankbot/internal/hw"
	"github.com/san-kum/tankbot/internal/units"
)

// tracker turns tracking-wheel encoder deltas into lateral travel.
type tracker struct {
	sensor    hw.RotationSensor
	wheelSize units.Length
	gearRatio float64
	offset    units.Length

	last units.Angle
}

func newTracker(c *TrackerConfig) *tracker {
	if c == nil || c.Sensor == nil {
		return nil
	}
	return &tracker{
		sensor:    c.Sensor,
		wheelSize: c.WheelSize,
		gearRatio: c.GearRatio,
		offset:    c.Offset,
	}
}

func (t *tracker) zero() {
	t.sensor.SetPosition(units.Angle{})
	t.last = units.Angle{}
}

// travel returns the arc length rolled since the previous call.
func (t *tracker) travel() units.Length {
	cur := t.sensor.Position()
	delta := cur.Sub(t.last)
	t.last = cur
	return t.wheelSize.Scale(delta.Radians() / 2 * t.gearRatio)
}
