package sim

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
)

// Runner advances a Plant in fixed steps of Dt.
//
// With a *clock.Mock the runner owns simulated time: each step integrates
// the plant, notifies observers and then advances the mock by Dt, waking
// any controller sleeping on the same clock. This runs lock-step and much
// faster than real time. With any other clock the runner ticks in real time.
type Runner struct {
	plant     *Plant
	clk       clock.Clock
	dt        time.Duration
	observers []Observer
	logger    *zap.SugaredLogger
}

func NewRunner(plant *Plant, clk clock.Clock, dt time.Duration, logger *zap.SugaredLogger) *Runner {
	if clk == nil {
		clk = clock.New()
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Runner{plant: plant, clk: clk, dt: dt, logger: logger}
}

func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

func (r *Runner) Plant() *Plant { return r.plant }

func (r *Runner) Clock() clock.Clock { return r.clk }

// Run steps the plant until ctx is done or a step fails. It returns
// ctx.Err() on cancellation.
func (r *Runner) Run(ctx context.Context) error {
	if r.dt <= 0 {
		return ErrInvalidStep
	}
	r.logger.Debugw("runner started", "dt", r.dt, "lockstep", r.isMock())

	if mock, ok := r.clk.(*clock.Mock); ok {
		return r.runLockStep(ctx, mock)
	}

	ticker := r.clk.Ticker(r.dt)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := r.step(); err != nil {
				return err
			}
		}
	}
}

func (r *Runner) runLockStep(ctx context.Context, mock *clock.Mock) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := r.step(); err != nil {
			return err
		}
		mock.Add(r.dt)
	}
}

func (r *Runner) step() error {
	if err := r.plant.Step(r.dt); err != nil {
		r.logger.Errorw("plant step failed", "error", err)
		return err
	}
	x, u, t := r.plant.Snapshot()
	for _, o := range r.observers {
		o.OnStep(x, u, t)
	}
	return nil
}

func (r *Runner) isMock() bool {
	_, ok := r.clk.(*clock.Mock)
	return ok
}
