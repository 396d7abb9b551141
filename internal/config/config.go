package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/tankbot/internal/control"
	"github.com/san-kum/tankbot/internal/drive"
	"github.com/san-kum/tankbot/internal/integrators"
)

const (
	DefaultTrackWidthIn  = 12.0
	DefaultTrackerWheel  = 2.75
	DefaultMaxRPM        = 200.0
	DefaultMotorTau      = 0.05
	DefaultDt            = 5 * time.Millisecond
	DefaultCalibration   = 2 * time.Second
	DefaultIntegrator    = "rk4"
	DefaultLogLevel      = "info"
	DefaultMotorsPerSide = 2
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Robot    RobotConfig `yaml:"robot"`
	PID      PIDSet      `yaml:"pid"`
	Sim      SimConfig   `yaml:"sim"`
	LogLevel string      `yaml:"log_level"`
}

type RobotConfig struct {
	WheelSizeIn        float64       `yaml:"wheel_size_in"`
	GearRatio          float64       `yaml:"gear_ratio"`
	TrackWidthIn       float64       `yaml:"track_width_in"`
	MotorsPerSide      int           `yaml:"motors_per_side"`
	SpeedMode          bool          `yaml:"speed_mode"`
	Period             time.Duration `yaml:"period"`
	TurnToToleranceDeg float64       `yaml:"turn_to_tolerance_deg"`
	Tracker            TrackerConfig `yaml:"tracker"`
}

type TrackerConfig struct {
	Enabled     bool    `yaml:"enabled"`
	WheelSizeIn float64 `yaml:"wheel_size_in"`
	GearRatio   float64 `yaml:"gear_ratio"`
	OffsetIn    float64 `yaml:"offset_in"`
}

type PIDSet struct {
	DriveFor PIDConfig `yaml:"drive_for"`
	TurnFor  PIDConfig `yaml:"turn_for"`
	TurnTo   PIDConfig `yaml:"turn_to"`
}

type PIDConfig struct {
	Kp            float64       `yaml:"kp"`
	Ki            float64       `yaml:"ki"`
	Kd            float64       `yaml:"kd"`
	FF            float64       `yaml:"ff"`
	IZone         float64       `yaml:"izone"`
	Timeout       time.Duration `yaml:"timeout"`
	SettleZone    float64       `yaml:"settle_zone"`
	SettleTimeout time.Duration `yaml:"settle_timeout"`
}

type SimConfig struct {
	Dt          time.Duration `yaml:"dt"`
	MaxRPM      float64       `yaml:"max_rpm"`
	MotorTau    float64       `yaml:"motor_tau"`
	LateralSlip float64       `yaml:"lateral_slip"`
	Calibration time.Duration `yaml:"calibration"`
	Integrator  string        `yaml:"integrator"`
}

func DefaultConfig() *Config {
	d := drive.DefaultConfig()
	return &Config{
		Robot: RobotConfig{
			WheelSizeIn:        d.WheelSize.Inches(),
			GearRatio:          d.GearRatio,
			TrackWidthIn:       DefaultTrackWidthIn,
			MotorsPerSide:      DefaultMotorsPerSide,
			Period:             d.Period,
			TurnToToleranceDeg: d.TurnToTolerance.Degrees(),
			Tracker: TrackerConfig{
				WheelSizeIn: DefaultTrackerWheel,
				GearRatio:   1,
			},
		},
		PID: PIDSet{
			DriveFor: FromControl(d.DriveForPID),
			TurnFor:  FromControl(d.TurnForPID),
			TurnTo:   FromControl(d.TurnToPID),
		},
		Sim: SimConfig{
			Dt:          DefaultDt,
			MaxRPM:      DefaultMaxRPM,
			MotorTau:    DefaultMotorTau,
			Calibration: DefaultCalibration,
			Integrator:  DefaultIntegrator,
		},
		LogLevel: DefaultLogLevel,
	}
}

// Load reads a YAML file over the defaults, so a file only needs the keys it
// changes.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs error
	check := func(ok bool, format string, args ...interface{}) {
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalid}, args...)...))
		}
	}

	r := c.Robot
	check(r.WheelSizeIn > 0, "robot.wheel_size_in must be positive, got %v", r.WheelSizeIn)
	check(r.GearRatio > 0, "robot.gear_ratio must be positive, got %v", r.GearRatio)
	check(r.TrackWidthIn > 0, "robot.track_width_in must be positive, got %v", r.TrackWidthIn)
	check(r.MotorsPerSide > 0, "robot.motors_per_side must be positive, got %d", r.MotorsPerSide)
	check(r.Period > 0, "robot.period must be positive, got %v", r.Period)
	check(r.TurnToToleranceDeg > 0, "robot.turn_to_tolerance_deg must be positive, got %v", r.TurnToToleranceDeg)
	if r.Tracker.Enabled {
		check(r.Tracker.WheelSizeIn > 0, "robot.tracker.wheel_size_in must be positive, got %v", r.Tracker.WheelSizeIn)
		check(r.Tracker.GearRatio > 0, "robot.tracker.gear_ratio must be positive, got %v", r.Tracker.GearRatio)
	}

	pids := []struct {
		name string
		pid  PIDConfig
	}{
		{"drive_for", c.PID.DriveFor},
		{"turn_for", c.PID.TurnFor},
		{"turn_to", c.PID.TurnTo},
	}
	for _, p := range pids {
		check(p.pid.IZone >= 0, "pid.%s.izone must not be negative", p.name)
		check(p.pid.SettleZone >= 0, "pid.%s.settle_zone must not be negative", p.name)
		check(p.pid.Timeout > 0 || p.pid.SettleTimeout > 0, "pid.%s needs a timeout or settle_timeout to ever finish", p.name)
	}

	s := c.Sim
	check(s.Dt > 0, "sim.dt must be positive, got %v", s.Dt)
	check(s.Dt <= r.Period, "sim.dt %v must not exceed robot.period %v", s.Dt, r.Period)
	check(s.MaxRPM > 0, "sim.max_rpm must be positive, got %v", s.MaxRPM)
	check(s.MotorTau >= 0, "sim.motor_tau must not be negative, got %v", s.MotorTau)
	check(s.Calibration >= 0, "sim.calibration must not be negative, got %v", s.Calibration)
	_, err := integrators.New(s.Integrator)
	check(err == nil, "sim.integrator %q is not one of %v", s.Integrator, integrators.Names())

	return errs
}

// FromControl converts a built-in controller config to its YAML form.
func FromControl(p control.PIDConfig) PIDConfig {
	return PIDConfig{
		Kp:            p.Kp,
		Ki:            p.Ki,
		Kd:            p.Kd,
		FF:            p.FF,
		IZone:         p.IntegralZone,
		Timeout:       p.Timeout,
		SettleZone:    p.SettleZone,
		SettleTimeout: p.SettleTimeout,
	}
}

func (p PIDConfig) Control() control.PIDConfig {
	return control.DefaultPIDConfig().
		WithConstants(p.Kp, p.Ki, p.Kd).
		WithFeedForward(p.FF).
		WithIntegralZone(p.IZone).
		WithTimeout(p.Timeout).
		WithSettleZone(p.SettleZone).
		WithSettleTimeout(p.SettleTimeout)
}

func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
