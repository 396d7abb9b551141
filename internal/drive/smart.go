package drive

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/san-kum/tankbot/internal/control"
	"github.com/san-kum/tankbot/internal/hw"
	"github.com/san-kum/tankbot/internal/units"
	"github.com/san-kum/tankbot/internal/vec2"
)

// Pose is a snapshot of the tracked robot state. Position is the tracked
// point; CenterPosition is shifted forward along the heading by the tracker
// offset.
type Pose struct {
	Position       vec2.Vec2
	CenterPosition vec2.Vec2
	Heading        units.Angle
}

// SmartDrive adds odometry and blocking motion primitives to a TankDrive.
// It forwards only the open drive commands a routine or teleop loop needs;
// the motor groups stay private to the drive.
//
// Track runs the odometry loop and must be started on its own goroutine
// before the pose is meaningful. The motion primitives are meant to be
// called from a single routine goroutine; they never run concurrently with
// each other.
type SmartDrive struct {
	td *TankDrive

	imu     hw.HeadingSensor
	tracker *tracker
	logger  *zap.SugaredLogger
	clk     clock.Clock

	wheelSize       units.Length
	gearRatio       float64
	period          time.Duration
	turnToTolerance units.Angle

	driveForPID *control.PID
	turnForPID  *control.PID
	turnToPID   *control.PID

	mu          sync.RWMutex
	pose        Pose
	prevHeading units.Angle
	lastLeft    units.Angle
	lastRight   units.Angle
	tracking    bool
}

// New wraps td with odometry. The heading sensor starts calibrating
// immediately; Track waits for it to finish. Zero fields of cfg, including
// zero controller configs, take their DefaultConfig values.
func New(td *TankDrive, imu hw.HeadingSensor, cfg Config) *SmartDrive {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop().Sugar()
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	def := DefaultConfig()
	if cfg.Period <= 0 {
		cfg.Period = def.Period
	}
	if cfg.WheelSize.IsZero() {
		cfg.WheelSize = def.WheelSize
	}
	if cfg.GearRatio == 0 {
		cfg.GearRatio = def.GearRatio
	}
	if cfg.TurnToTolerance.IsZero() {
		cfg.TurnToTolerance = def.TurnToTolerance
	}
	// An unset controller would never finish; fall back to the tuned one.
	var unset control.PIDConfig
	if cfg.DriveForPID == unset {
		cfg.DriveForPID = def.DriveForPID
	}
	if cfg.TurnForPID == unset {
		cfg.TurnForPID = def.TurnForPID
	}
	if cfg.TurnToPID == unset {
		cfg.TurnToPID = def.TurnToPID
	}

	d := &SmartDrive{
		td:              td,
		imu:             imu,
		tracker:         newTracker(cfg.Tracker),
		logger:          cfg.Logger,
		clk:             cfg.Clock,
		wheelSize:       cfg.WheelSize,
		gearRatio:       cfg.GearRatio,
		period:          cfg.Period,
		turnToTolerance: cfg.TurnToTolerance,
		driveForPID:     cfg.DriveForPID.Build(cfg.Clock),
		turnForPID:      cfg.TurnForPID.Build(cfg.Clock),
		turnToPID:       cfg.TurnToPID.Build(cfg.Clock),
	}

	imu.Calibrate()
	return d
}

// WheelTravel is the distance covered by one motor revolution.
func (d *SmartDrive) WheelTravel() units.Length {
	return d.wheelSize.Scale(math.Pi * d.gearRatio)
}

// Pose returns a consistent snapshot of position, center and heading.
func (d *SmartDrive) Pose() Pose {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.pose
}

// SetPose overrides the tracked pose. A changed heading is pushed to the
// heading sensor on the next tracking step.
func (d *SmartDrive) SetPose(p Pose) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pose.Position = p.Position
	d.pose.Heading = p.Heading
	d.pose.CenterPosition = d.centerOf(p.Position, p.Heading)
}

func (d *SmartDrive) SetHeading(h units.Angle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pose.Heading = h
}

// The controller accessors expose each primitive's PID for live tuning.
func (d *SmartDrive) DriveForController() *control.PID { return d.driveForPID }
func (d *SmartDrive) TurnForController() *control.PID  { return d.turnForPID }
func (d *SmartDrive) TurnToController() *control.PID   { return d.turnToPID }

func (d *SmartDrive) Logger() *zap.SugaredLogger { return d.logger }

// Arcade mixes a forward and a clockwise rotation command, in percent.
func (d *SmartDrive) Arcade(drive, rot float64) { d.td.Arcade(drive, rot) }

// Stop zeroes both sides.
func (d *SmartDrive) Stop() { d.td.Stop() }

// Commands reports the last lateral, forward and rotation commands.
func (d *SmartDrive) Commands() (x, y, rot float64) { return d.td.Commands() }

func (d *SmartDrive) LeftSplitArcade(pad hw.Gamepad) { d.td.LeftSplitArcade(pad) }

func (d *SmartDrive) LeftSplitArcadeCurved(pad hw.Gamepad) { d.td.LeftSplitArcadeCurved(pad) }

func (d *SmartDrive) centerOf(pos vec2.Vec2, heading units.Angle) vec2.Vec2 {
	if d.tracker == nil {
		return pos
	}
	return pos.Add(vec2.FromPolar(heading, d.tracker.offset))
}

// sidePosition is the mean shaft angle of both drive sides.
func (d *SmartDrive) sidePosition() units.Angle {
	return d.td.left.Position().Add(d.td.right.Position()).Scale(0.5)
}

// sleep waits on the drive's clock and reports false if ctx ended first.
func (d *SmartDrive) sleep(ctx context.Context, dur time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-d.clk.After(dur):
		return true
	}
}

// Wait blocks for dur on the drive's clock.
func (d *SmartDrive) Wait(ctx context.Context, dur time.Duration) error {
	if !d.sleep(ctx, dur) {
		return ctx.Err()
	}
	return nil
}

func (p Pose) String() string {
	return fmt.Sprintf("pos=%s center=%s heading=%s", p.Position, p.CenterPosition, p.Heading)
}
