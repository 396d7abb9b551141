package hw

import (
	"sync"

	"github.com/san-kum/tankbot/internal/units"
)

const (
	maxCommand   = 100.0
	nominalVolts = 12.0
)

// MotorGroup drives one or more actuators as a unit. Commands are percentages
// and are clamped to ±100 before reaching the hardware; Get still reports
// the unclamped value that was last set.
type MotorGroup struct {
	mu        sync.Mutex
	actuators []Actuator
	speedMode bool
	cmd       float64
}

// NewMotorGroup groups actuators in voltage mode.
func NewMotorGroup(actuators ...Actuator) *MotorGroup {
	return &MotorGroup{actuators: actuators}
}

// NewMotor wraps a single actuator.
func NewMotor(a Actuator) *MotorGroup {
	return NewMotorGroup(a)
}

// WithSpeedMode selects closed-loop velocity commands instead of raw voltage.
func (g *MotorGroup) WithSpeedMode(on bool) *MotorGroup {
	g.SetSpeedMode(on)
	return g
}

func (g *MotorGroup) SetSpeedMode(on bool) {
	g.mu.Lock()
	g.speedMode = on
	g.mu.Unlock()
}

func (g *MotorGroup) SpeedMode() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.speedMode
}

func (g *MotorGroup) Set(cmd float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.cmd = cmd
	c := clamp(cmd, -maxCommand, maxCommand)
	for _, a := range g.actuators {
		if g.speedMode {
			a.SpinPercent(c)
		} else {
			a.SpinVolts(c * nominalVolts / maxCommand)
		}
	}
}

func (g *MotorGroup) Get() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cmd
}

// Position is the mean shaft angle of the group.
func (g *MotorGroup) Position() units.Angle {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.actuators) == 0 {
		return units.Angle{}
	}
	var sum float64
	for _, a := range g.actuators {
		sum += a.Position().Raw()
	}
	return units.AngleFromRaw(sum / float64(len(g.actuators)))
}

func (g *MotorGroup) Len() int { return len(g.actuators) }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
