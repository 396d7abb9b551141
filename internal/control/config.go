package control

import (
	"time"

	"github.com/benbjohnson/clock"
)

// PIDConfig describes a PID before it is built. The With methods return an
// updated copy, so a base config can be shared and specialized:
//
//	base := control.DefaultPIDConfig().WithSettleZone(2)
//	drive := base.WithConstants(0.8, 0, 4).Build(clk)
type PIDConfig struct {
	Kp, Ki, Kd, FF float64

	IntegralZone  float64
	Timeout       time.Duration
	SettleZone    float64
	SettleTimeout time.Duration
}

func DefaultPIDConfig() PIDConfig {
	return PIDConfig{Kp: 1}
}

func (c PIDConfig) WithConstants(kp, ki, kd float64) PIDConfig {
	c.Kp, c.Ki, c.Kd = kp, ki, kd
	return c
}

func (c PIDConfig) WithFeedForward(ff float64) PIDConfig {
	c.FF = ff
	return c
}

func (c PIDConfig) WithIntegralZone(z float64) PIDConfig {
	c.IntegralZone = z
	return c
}

func (c PIDConfig) WithTimeout(d time.Duration) PIDConfig {
	c.Timeout = d
	return c
}

func (c PIDConfig) WithSettleZone(z float64) PIDConfig {
	c.SettleZone = z
	return c
}

func (c PIDConfig) WithSettleTimeout(d time.Duration) PIDConfig {
	c.SettleTimeout = d
	return c
}

// Build creates a PID timed by clk. A nil clk uses the wall clock.
func (c PIDConfig) Build(clk clock.Clock) *PID {
	if clk == nil {
		clk = clock.New()
	}
	p := &PID{
		clk:           clk,
		kp:            c.Kp,
		ki:            c.Ki,
		kd:            c.Kd,
		ff:            c.FF,
		integralZone:  c.IntegralZone,
		timeout:       c.Timeout,
		settleZone:    c.SettleZone,
		settleTimeout: c.SettleTimeout,
	}
	p.Reset()
	return p
}
