package drive

import (
	"context"
	"math"

	"github.com/san-kum/tankbot/internal/control"
	"github.com/san-kum/tankbot/internal/units"
)

// Every primitive below blocks, polling once per period, and stops the drive
// before returning. A cancelled ctx stops the drive and returns ctx.Err().
//
// For the open-loop primitives only the magnitude of speed is used; the
// direction always comes from the target, so a mismatched sign cannot drive
// away from the target forever.

// DriveFor drives straight by target at speed percent, without feedback.
func (d *SmartDrive) DriveFor(ctx context.Context, target units.Length, speed float64) error {
	if target.IsZero() {
		return nil
	}
	done := d.begin("drive_for", "target", target, "speed", speed)

	dir := target.Sign()
	goal := d.sidePosition().Add(units.Revolutions(target.Div(d.WheelTravel())))
	cmd := math.Abs(speed) * dir

	for goal.Sub(d.sidePosition()).Raw()*dir > 0 {
		d.Arcade(cmd, 0)
		if !d.sleep(ctx, d.period) {
			return done(ctx.Err())
		}
	}
	return done(nil)
}

// DriveForPID drives straight by target under the drive PID. The error fed
// to the controller is the remaining shaft rotation in radians.
func (d *SmartDrive) DriveForPID(ctx context.Context, target units.Length) error {
	done := d.begin("drive_for_pid", "target", target)

	goal := d.sidePosition().Add(units.Revolutions(target.Div(d.WheelTravel())))
	err := d.runPID(ctx, d.driveForPID, func() float64 {
		return goal.Sub(d.sidePosition()).Radians()
	}, func(out float64) {
		d.Arcade(out, 0)
	})
	return done(err)
}

// TurnFor rotates by target relative to the current rotation, without
// feedback. Positive targets turn clockwise.
func (d *SmartDrive) TurnFor(ctx context.Context, target units.Angle, speed float64) error {
	if target.IsZero() {
		return nil
	}
	done := d.begin("turn_for", "target", target, "speed", speed)

	dir := target.Sign()
	goal := d.imu.Rotation().Add(target)
	cmd := math.Abs(speed) * dir

	for goal.Sub(d.imu.Rotation()).Raw()*dir > 0 {
		d.Arcade(0, cmd)
		if !d.sleep(ctx, d.period) {
			return done(ctx.Err())
		}
	}
	return done(nil)
}

// TurnForPID rotates by target under the turn-for PID, with the error in
// radians.
func (d *SmartDrive) TurnForPID(ctx context.Context, target units.Angle) error {
	done := d.begin("turn_for_pid", "target", target)

	goal := d.imu.Rotation().Add(target)
	err := d.runPID(ctx, d.turnForPID, func() float64 {
		return goal.Sub(d.imu.Rotation()).Radians()
	}, func(out float64) {
		d.Arcade(0, out)
	})
	return done(err)
}

// TurnTo turns to an absolute heading along the shortest path, without
// feedback. It stops once the remaining error is inside the turn tolerance or
// has changed sign, which means the heading passed through the target.
func (d *SmartDrive) TurnTo(ctx context.Context, target units.Angle, speed float64) error {
	remaining := func() units.Angle {
		return units.ShortestTurnPath(target.Sub(d.imu.Heading()))
	}

	e := remaining()
	if e.Abs().Raw() < d.turnToTolerance.Raw() {
		return nil
	}
	done := d.begin("turn_to", "target", target, "speed", speed)

	dir := e.Sign()
	cmd := math.Abs(speed) * dir

	for e.Abs().Raw() >= d.turnToTolerance.Raw() && e.Sign() == dir {
		d.Arcade(0, cmd)
		if !d.sleep(ctx, d.period) {
			return done(ctx.Err())
		}
		e = remaining()
	}
	return done(nil)
}

// TurnToPID turns to an absolute heading under the turn-to PID, with the
// shortest-path error in radians.
func (d *SmartDrive) TurnToPID(ctx context.Context, target units.Angle) error {
	done := d.begin("turn_to_pid", "target", target)

	err := d.runPID(ctx, d.turnToPID, func() float64 {
		return units.ShortestTurnPath(target.Sub(d.imu.Heading())).Radians()
	}, func(out float64) {
		d.Arcade(0, out)
	})
	return done(err)
}

func (d *SmartDrive) runPID(ctx context.Context, pid *control.PID, errFn func() float64, apply func(float64)) error {
	pid.Reset()
	for !pid.IsCompleted() {
		apply(pid.Calculate(errFn()))
		if !d.sleep(ctx, d.period) {
			return ctx.Err()
		}
	}
	return nil
}

// begin logs the start of a primitive and returns a func that stops the
// drive, logs the outcome and passes err through.
func (d *SmartDrive) begin(name string, kv ...interface{}) func(error) error {
	start := d.clk.Now()
	d.logger.Debugw(name+" started", kv...)
	return func(err error) error {
		d.Stop()
		elapsed := d.clk.Since(start)
		if err != nil {
			d.logger.Debugw(name+" interrupted", "elapsed", elapsed, "error", err)
			return err
		}
		d.logger.Debugw(name+" finished", "elapsed", elapsed, "pose", d.Pose())
		return nil
	}
}
