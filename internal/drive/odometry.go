package drive

import (
	"context"
	"time"

	"github.com/san-kum/tankbot/internal/units"
	"github.com/san-kum/tankbot/internal/vec2"
)

// Track runs the odometry loop until ctx is done. It zeroes the tracking
// wheel, blocks while the heading sensor calibrates, then calls Step once per
// period. The returned error is always ctx.Err().
func (d *SmartDrive) Track(ctx context.Context) error {
	if d.tracker != nil {
		d.tracker.zero()
	}

	if err := d.WaitCalibrated(ctx); err != nil {
		return err
	}

	d.mu.Lock()
	d.lastLeft = d.td.left.Position()
	d.lastRight = d.td.right.Position()
	d.tracking = true
	d.mu.Unlock()

	d.logger.Debugw("tracking started", "pose", d.Pose())
	for {
		d.Step()
		if !d.sleep(ctx, d.period) {
			d.logger.Debugw("tracking stopped", "pose", d.Pose())
			return ctx.Err()
		}
	}
}

// Tracking reports whether Track has taken its starting wheel positions.
// Step is only meaningful after that.
func (d *SmartDrive) Tracking() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.tracking
}

// WaitCalibrated blocks while the heading sensor calibrates, warning once a
// second. Callers should wait before running motions that read heading.
func (d *SmartDrive) WaitCalibrated(ctx context.Context) error {
	start := d.clk.Now()
	lastWarn := start
	for d.imu.IsCalibrating() {
		if now := d.clk.Now(); now.Sub(lastWarn) >= calibrationWarnEach {
			d.logger.Warnw("waiting for heading sensor calibration", "elapsed", now.Sub(start))
			lastWarn = now
		}
		if !d.sleep(ctx, calibrationPoll) {
			return ctx.Err()
		}
	}
	d.logger.Debugw("heading sensor calibrated", "took", d.clk.Since(start).Round(time.Millisecond))
	return nil
}

// Step runs one odometry update. Track calls it every period; tests and
// custom loops may call it directly.
//
// Drivetrain travel since the last step is applied along the sensor heading,
// and tracking-wheel travel along the heading rotated 90° clockwise.
func (d *SmartDrive) Step() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pose.Heading != d.prevHeading {
		d.imu.SetHeading(d.pose.Heading)
	}
	heading := d.imu.Heading()

	left := d.td.left.Position()
	right := d.td.right.Position()
	turned := left.Sub(d.lastLeft).Add(right.Sub(d.lastRight)).Scale(0.5)
	d.lastLeft, d.lastRight = left, right

	travel := d.WheelTravel().Scale(turned.Revolutions())
	change := vec2.FromPolar(heading, travel)

	if d.tracker != nil {
		lateral := d.tracker.travel()
		change = change.Add(vec2.FromPolar(heading.Add(units.Degrees(90)), lateral))
	}

	d.pose.Position = d.pose.Position.Add(change)
	d.pose.Heading = heading
	d.pose.CenterPosition = d.centerOf(d.pose.Position, heading)
	d.prevHeading = heading
}
