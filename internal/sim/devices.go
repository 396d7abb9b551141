package sim

import (
	"math"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/san-kum/tankbot/internal/units"
)

const nominalVolts = 12.0

// MotorActuator drives one control input of a plant and reports one shaft
// angle state. Voltage commands are scaled to percent of nominal.
type MotorActuator struct {
	plant    *Plant
	control  int
	position int
}

func NewMotorActuator(p *Plant, controlIdx, positionIdx int) *MotorActuator {
	return &MotorActuator{plant: p, control: controlIdx, position: positionIdx}
}

func (m *MotorActuator) SpinPercent(pct float64) {
	m.plant.SetControl(m.control, pct)
}

func (m *MotorActuator) SpinVolts(v float64) {
	m.plant.SetControl(m.control, v/nominalVolts*100)
}

func (m *MotorActuator) Position() units.Angle {
	return units.Radians(m.plant.Value(m.position))
}

// IMU reports a plant's heading state. Calibration takes CalibrationTime
// on the given clock, during which IsCalibrating is true.
type IMU struct {
	plant *Plant
	idx   int
	clk   clock.Clock

	CalibrationTime time.Duration

	mu       sync.Mutex
	offset   float64
	calStart time.Time
	calSet   bool
}

func NewIMU(p *Plant, headingIdx int, clk clock.Clock, calibration time.Duration) *IMU {
	if clk == nil {
		clk = clock.New()
	}
	return &IMU{plant: p, idx: headingIdx, clk: clk, CalibrationTime: calibration}
}

func (i *IMU) Calibrate() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.calStart = i.clk.Now()
	i.calSet = true
}

func (i *IMU) IsCalibrating() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.calSet && i.clk.Since(i.calStart) < i.CalibrationTime
}

// Heading is wrapped into [0, 2π).
func (i *IMU) Heading() units.Angle {
	i.mu.Lock()
	off := i.offset
	i.mu.Unlock()

	h := math.Mod(i.plant.Value(i.idx)+off, 2*math.Pi)
	if h < 0 {
		h += 2 * math.Pi
	}
	return units.Radians(h)
}

// Rotation is the unbounded plant heading; SetHeading does not move it.
func (i *IMU) Rotation() units.Angle {
	return units.Radians(i.plant.Value(i.idx))
}

func (i *IMU) SetHeading(a units.Angle) {
	x := i.plant.Value(i.idx)
	i.mu.Lock()
	defer i.mu.Unlock()
	i.offset = a.Radians() - x
}

// Rotation is a free encoder on a plant angle state.
type Rotation struct {
	plant *Plant
	idx   int

	mu   sync.Mutex
	zero float64
}

func NewRotation(p *Plant, idx int) *Rotation {
	return &Rotation{plant: p, idx: idx}
}

func (r *Rotation) Position() units.Angle {
	r.mu.Lock()
	zero := r.zero
	r.mu.Unlock()
	return units.Radians(r.plant.Value(r.idx) - zero)
}

func (r *Rotation) SetPosition(a units.Angle) {
	x := r.plant.Value(r.idx)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.zero = x - a.Radians()
}
