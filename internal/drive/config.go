package drive

import (
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/san-kum/tankbot/internal/control"
	"github.com/san-kum/tankbot/internal/hw"
	"github.com/san-kum/tankbot/internal/units"
)

const (
	defaultPeriod       = 20 * time.Millisecond
	calibrationPoll     = 5 * time.Millisecond
	calibrationWarnEach = time.Second
)

var (
	defaultWheelSize        = units.Inches(3.25)
	defaultTrackerWheelSize = units.Inches(2.75)
	defaultTurnToTolerance  = units.Degrees(5)
	turnSettleZone          = units.Degrees(1)
)

// Config describes a SmartDrive. Build it from DefaultConfig with the With
// methods; each returns an updated copy.
type Config struct {
	WheelSize units.Length
	GearRatio float64

	Tracker *TrackerConfig

	DriveForPID control.PIDConfig
	TurnForPID  control.PIDConfig
	TurnToPID   control.PIDConfig

	Period          time.Duration
	TurnToTolerance units.Angle

	Logger *zap.SugaredLogger
	Clock  clock.Clock
}

// TrackerConfig describes a horizontal tracking wheel. Offset is the
// distance from the tracked point forward to the robot's center.
type TrackerConfig struct {
	Sensor    hw.RotationSensor
	WheelSize units.Length
	GearRatio float64
	Offset    units.Length
}

// DefaultConfig is tuned for the simulated base in internal/physics. Every
// controller sees its error in radians of shaft or heading rotation. The
// derivative term is prevError-error, so damping needs a negative kd.
func DefaultConfig() Config {
	return Config{
		WheelSize: defaultWheelSize,
		GearRatio: 1,
		DriveForPID: control.DefaultPIDConfig().
			WithConstants(15, 0, 0).
			WithSettleZone(0.05).
			WithSettleTimeout(150 * time.Millisecond).
			WithTimeout(4 * time.Second),
		TurnForPID: control.DefaultPIDConfig().
			WithConstants(60, 0, 0).
			WithSettleZone(turnSettleZone.Radians()).
			WithSettleTimeout(150 * time.Millisecond).
			WithTimeout(3 * time.Second),
		TurnToPID: control.DefaultPIDConfig().
			WithConstants(60, 0, 0).
			WithSettleZone(turnSettleZone.Radians()).
			WithSettleTimeout(150 * time.Millisecond).
			WithTimeout(3 * time.Second),
		Period:          defaultPeriod,
		TurnToTolerance: defaultTurnToTolerance,
	}
}

func (c Config) WithWheelSize(size units.Length) Config {
	c.WheelSize = size
	return c
}

func (c Config) WithGearRatio(ratio float64) Config {
	c.GearRatio = ratio
	return c
}

// WithHorizontalTracker adds a lateral tracking wheel. A zero wheelSize
// selects the 2.75in default.
func (c Config) WithHorizontalTracker(sensor hw.RotationSensor, wheelSize units.Length, gearRatio float64, offset units.Length) Config {
	if wheelSize.IsZero() {
		wheelSize = defaultTrackerWheelSize
	}
	c.Tracker = &TrackerConfig{
		Sensor:    sensor,
		WheelSize: wheelSize,
		GearRatio: gearRatio,
		Offset:    offset,
	}
	return c
}

func (c Config) WithDriveForPID(p control.PIDConfig) Config {
	c.DriveForPID = p
	return c
}

func (c Config) WithTurnForPID(p control.PIDConfig) Config {
	c.TurnForPID = p
	return c
}

func (c Config) WithTurnToPID(p control.PIDConfig) Config {
	c.TurnToPID = p
	return c
}

func (c Config) WithPeriod(d time.Duration) Config {
	c.Period = d
	return c
}

func (c Config) WithTurnToTolerance(a units.Angle) Config {
	c.TurnToTolerance = a
	return c
}

func (c Config) WithLogger(l *zap.SugaredLogger) Config {
	c.Logger = l
	return c
}

func (c Config) WithClock(clk clock.Clock) Config {
	c.Clock = clk
	return c
}
