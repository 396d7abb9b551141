package sim

import (
	"fmt"
	"sync"
	"time"
)

// Plant owns a model's state and advances it under a mutex, so simulated
// devices can read and command it from other goroutines.
type Plant struct {
	mu    sync.Mutex
	dyn   Dynamics
	integ Integrator
	x     State
	u     Control
	t     time.Duration
	steps int
}

// NewPlant starts dyn at x0. A nil x0 starts at the zero state.
func NewPlant(dyn Dynamics, integ Integrator, x0 State) (*Plant, error) {
	if x0 == nil {
		x0 = make(State, dyn.StateDim())
	}
	if len(x0) != dyn.StateDim() {
		return nil, fmt.Errorf("%w: state has %d values, model wants %d", ErrDimensionMismatch, len(x0), dyn.StateDim())
	}
	return &Plant{
		dyn:   dyn,
		integ: integ,
		x:     x0.Clone(),
		u:     make(Control, dyn.ControlDim()),
	}, nil
}

// Step integrates dt of simulated time with the current control held.
func (p *Plant) Step(dt time.Duration) error {
	if dt <= 0 {
		return ErrInvalidStep
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	next := p.integ.Step(p.dyn, p.x, p.u, p.t.Seconds(), dt.Seconds())
	if !next.IsValid() {
		return &StepError{Step: p.steps, Time: p.t, Wrapped: ErrInvalidState}
	}
	p.x = next
	p.t += dt
	p.steps++
	return nil
}

func (p *Plant) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.x.Clone()
}

func (p *Plant) Control() Control {
	p.mu.Lock()
	defer p.mu.Unlock()
	u := make(Control, len(p.u))
	copy(u, p.u)
	return u
}

// Value reads a single state component.
func (p *Plant) Value(i int) float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.x[i]
}

// SetControl sets one control input; out-of-range indices are ignored.
func (p *Plant) SetControl(i int, v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if i >= 0 && i < len(p.u) {
		p.u[i] = v
	}
}

func (p *Plant) Time() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.t
}

// Snapshot returns state, control and time from the same instant.
func (p *Plant) Snapshot() (State, Control, time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	u := make(Control, len(p.u))
	copy(u, p.u)
	return p.x.Clone(), u, p.t
}
