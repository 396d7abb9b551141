package config

import (
	"sort"
	"time"
)

// Presets are named variations on DefaultConfig for the simulated robot.
var Presets = map[string]func(*Config){
	"default": func(*Config) {},
	// Six-motor competition base geared 36:60 in speed mode.
	"competition": func(c *Config) {
		c.Robot.GearRatio = 0.6
		c.Robot.MotorsPerSide = 3
		c.Robot.SpeedMode = true
		c.Sim.MaxRPM = 600
	},
	// A chassis that drifts sideways, tracked with a lateral wheel.
	"slippery": func(c *Config) {
		c.Sim.LateralSlip = 0.05
		c.Robot.Tracker.Enabled = true
		c.Robot.Tracker.OffsetIn = 3
	},
	// Heavy robot with slow motors, integrated with Euler at a coarse step.
	"sluggish": func(c *Config) {
		c.Sim.MotorTau = 0.15
		c.Sim.Integrator = "euler"
		c.Sim.Dt = 10 * time.Millisecond
	},
	// Skips the heading sensor calibration wait.
	"quick": func(c *Config) {
		c.Sim.Calibration = 0
	},
}

// GetPreset returns a fresh config for the named preset, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
