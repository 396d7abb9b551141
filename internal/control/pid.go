package control

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/benbjohnson/clock"
)

// ErrUnknownParam is returned by SetParam for a name Params does not list.
var ErrUnknownParam = errors.New("control: unknown PID parameter")

// PID is a discrete feedback controller polled at a fixed period by a motion
// primitive. The derivative term is the change in error between calls, not a
// time derivative, so gains are tuned for the caller's loop period.
//
// A PID belongs to one control episode and is not safe for concurrent use.
type PID struct {
	clk clock.Clock

	kp, ki, kd, ff float64

	integralZone  float64
	timeout       time.Duration
	settleZone    float64
	settleTimeout time.Duration

	err        float64
	prevErr    float64
	integral   float64
	derivative float64

	start        time.Time
	settledStart time.Time
}

// NewPID returns a controller with kp=1 and every other setting zero, timed by
// the wall clock.
func NewPID() *PID {
	return DefaultPIDConfig().Build(nil)
}

// Reset clears the accumulated terms and restarts both timing windows.
func (p *PID) Reset() {
	p.err = 0
	p.prevErr = 0
	p.integral = 0
	p.derivative = 0
	now := p.clk.Now()
	p.start = now
	p.settledStart = now
}

// Calculate feeds one error sample and returns the controller output.
func (p *PID) Calculate(e float64) float64 {
	p.err = e
	p.derivative = p.prevErr - e

	// integralZone is a strict bound: zero disables accumulation.
	if math.Abs(e) < p.integralZone {
		p.integral += e
	} else {
		p.integral = 0
	}

	if math.Abs(e) > p.settleZone {
		p.settledStart = p.clk.Now()
	}

	p.prevErr = e
	return p.kp*e + p.kd*p.derivative + p.ki*p.integral + p.ff
}

// CalculateTarget is Calculate(target - feedback).
func (p *PID) CalculateTarget(target, feedback float64) float64 {
	return p.Calculate(target - feedback)
}

// IsCompleted reports whether the episode timed out or the error has stayed
// inside the settle zone for longer than the settle timeout. A zero timeout
// disables its check.
func (p *PID) IsCompleted() bool {
	if p.timeout != 0 && p.TimePassed() > p.timeout {
		return true
	}
	return p.settleTimeout != 0 && p.SettledTimePassed() > p.settleTimeout
}

func (p *PID) TimePassed() time.Duration { return p.clk.Since(p.start) }

func (p *PID) SettledTimePassed() time.Duration { return p.clk.Since(p.settledStart) }

// Proportional, Integral and Derivative report the weighted contribution of
// each term from the last Calculate call.
func (p *PID) Proportional() float64 { return p.kp * p.err }

func (p *PID) Integral() float64 { return p.ki * p.integral }

func (p *PID) Derivative() float64 { return p.kd * p.derivative }

// Error is the last error passed to Calculate.
func (p *PID) Error() float64 { return p.err }

func (p *PID) SetConstants(kp, ki, kd float64) {
	p.kp, p.ki, p.kd = kp, ki, kd
}

func (p *PID) SetFeedForward(ff float64) { p.ff = ff }

func (p *PID) SetIntegralZone(z float64) { p.integralZone = z }

func (p *PID) SetTimeout(d time.Duration) { p.timeout = d }

func (p *PID) SetSettleZone(z float64) { p.settleZone = z }

func (p *PID) SetSettleTimeout(d time.Duration) { p.settleTimeout = d }

func (p *PID) Kp() float64 { return p.kp }
func (p *PID) Ki() float64 { return p.ki }
func (p *PID) Kd() float64 { return p.kd }
func (p *PID) FF() float64 { return p.ff }

// Config returns the controller's settings as a PIDConfig.
func (p *PID) Config() PIDConfig {
	return PIDConfig{
		Kp:            p.kp,
		Ki:            p.ki,
		Kd:            p.kd,
		FF:            p.ff,
		IntegralZone:  p.integralZone,
		Timeout:       p.timeout,
		SettleZone:    p.settleZone,
		SettleTimeout: p.settleTimeout,
	}
}

// Params returns tunable parameters for live adjustment.
func (p *PID) Params() map[string]float64 {
	return map[string]float64{
		"kp":    p.kp,
		"ki":    p.ki,
		"kd":    p.kd,
		"ff":    p.ff,
		"izone": p.integralZone,
		"szone": p.settleZone,
	}
}

// SetParam adjusts a single PID parameter by name.
func (p *PID) SetParam(name string, value float64) error {
	switch name {
	case "kp":
		p.kp = value
	case "ki":
		p.ki = value
	case "kd":
		p.kd = value
	case "ff":
		p.ff = value
	case "izone":
		p.integralZone = value
	case "szone":
		p.settleZone = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	return nil
}
