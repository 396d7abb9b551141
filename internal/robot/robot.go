// Package robot assembles a simulated tank robot from a config: the physics
// plant, simulated devices, motor groups, drive and recorder.
package robot

import (
	"context"
	"errors"
	"fmt"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/tankbot/internal/config"
	"github.com/san-kum/tankbot/internal/drive"
	"github.com/san-kum/tankbot/internal/hw"
	"github.com/san-kum/tankbot/internal/integrators"
	"github.com/san-kum/tankbot/internal/metrics"
	"github.com/san-kum/tankbot/internal/physics"
	"github.com/san-kum/tankbot/internal/sim"
	"github.com/san-kum/tankbot/internal/units"
	"github.com/san-kum/tankbot/internal/vec2"
)

// Sim is a robot wired to a simulated plant.
type Sim struct {
	Config   *config.Config
	Base     *physics.TankBase
	Plant    *sim.Plant
	Runner   *sim.Runner
	IMU      *sim.IMU
	Left     *hw.MotorGroup
	Right    *hw.MotorGroup
	Drive    *drive.SmartDrive
	Recorder *sim.Recorder
	Clock    clock.Clock

	logger *zap.SugaredLogger
}

// Options tune a Sim beyond what the config file describes.
type Options struct {
	// Clock drives both the plant and the drive. A *clock.Mock runs the
	// simulation lock-step, faster than real time; nil uses the wall clock.
	Clock  clock.Clock
	Logger *zap.SugaredLogger
	// Start is the initial pose in inches and degrees.
	Start sim.Pose
}

func New(cfg *config.Config, opts Options) (*Sim, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}

	base := physics.NewTankBase()
	base.WheelDiameter = cfg.Robot.WheelSizeIn
	base.GearRatio = cfg.Robot.GearRatio
	base.TrackWidth = cfg.Robot.TrackWidthIn
	base.MaxRPM = cfg.Sim.MaxRPM
	base.MotorTau = cfg.Sim.MotorTau
	base.LateralSlip = cfg.Sim.LateralSlip
	base.TrackerDiameter = cfg.Robot.Tracker.WheelSizeIn
	base.TrackerGearRatio = cfg.Robot.Tracker.GearRatio
	base.TrackerOffset = cfg.Robot.Tracker.OffsetIn

	integ, err := integrators.New(cfg.Sim.Integrator)
	if err != nil {
		return nil, err
	}

	x0 := make(sim.State, base.StateDim())
	x0[physics.IdxX] = opts.Start.X
	x0[physics.IdxY] = opts.Start.Y
	x0[physics.IdxHeading] = units.Degrees(opts.Start.Heading).Radians()

	plant, err := sim.NewPlant(base, integ, x0)
	if err != nil {
		return nil, fmt.Errorf("robot: %w", err)
	}

	left := make([]hw.Actuator, cfg.Robot.MotorsPerSide)
	right := make([]hw.Actuator, cfg.Robot.MotorsPerSide)
	for i := range left {
		left[i] = sim.NewMotorActuator(plant, 0, physics.IdxShaftL)
		right[i] = sim.NewMotorActuator(plant, 1, physics.IdxShaftR)
	}
	leftGroup := hw.NewMotorGroup(left...).WithSpeedMode(cfg.Robot.SpeedMode)
	rightGroup := hw.NewMotorGroup(right...).WithSpeedMode(cfg.Robot.SpeedMode)

	imu := sim.NewIMU(plant, physics.IdxHeading, opts.Clock, cfg.Sim.Calibration)

	dcfg := drive.DefaultConfig().
		WithWheelSize(units.Inches(cfg.Robot.WheelSizeIn)).
		WithGearRatio(cfg.Robot.GearRatio).
		WithDriveForPID(cfg.PID.DriveFor.Control()).
		WithTurnForPID(cfg.PID.TurnFor.Control()).
		WithTurnToPID(cfg.PID.TurnTo.Control()).
		WithPeriod(cfg.Robot.Period).
		WithTurnToTolerance(units.Degrees(cfg.Robot.TurnToToleranceDeg)).
		WithLogger(opts.Logger.Named("drive")).
		WithClock(opts.Clock)
	if t := cfg.Robot.Tracker; t.Enabled {
		dcfg = dcfg.WithHorizontalTracker(
			sim.NewRotation(plant, physics.IdxTracker),
			units.Inches(t.WheelSizeIn),
			t.GearRatio,
			units.Inches(t.OffsetIn),
		)
	}

	td := drive.NewTankDrive(leftGroup, rightGroup)
	sd := drive.New(td, imu, dcfg)

	// Odometry starts at the origin facing 0°; seed it with the start pose.
	sd.SetPose(drive.Pose{
		Position: vec2.FromCartesian(units.Inches(opts.Start.X), units.Inches(opts.Start.Y)),
		Heading:  units.Degrees(opts.Start.Heading),
	})

	runner := sim.NewRunner(plant, opts.Clock, cfg.Sim.Dt, opts.Logger.Named("sim"))
	rec := sim.NewRecorder(base.Pose, func() sim.Pose { return TrackedPose(sd) }, cfg.Robot.Period)
	for _, m := range metrics.Standard() {
		rec.AddMetric(m)
	}
	runner.AddObserver(rec)

	return &Sim{
		Config:   cfg,
		Base:     base,
		Plant:    plant,
		Runner:   runner,
		IMU:      imu,
		Left:     leftGroup,
		Right:    rightGroup,
		Drive:    sd,
		Recorder: rec,
		Clock:    opts.Clock,
		logger:   opts.Logger,
	}, nil
}

// Run starts the plant and the odometry loop, runs fn once both are going,
// and stops everything when fn returns. fn's error is returned; the
// background loops' cancellation errors are not.
//
// Once the plant has stopped, odometry takes one last step so the tracked
// pose covers the travel since its final periodic update.
func (s *Sim) Run(ctx context.Context, fn func(ctx context.Context, d *drive.SmartDrive) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return ignoreCanceled(gctx, s.Runner.Run(gctx)) })
	g.Go(func() error { return ignoreCanceled(gctx, s.Drive.Track(gctx)) })
	g.Go(func() error {
		defer cancel()
		return fn(gctx, s.Drive)
	})
	err := g.Wait()

	if s.Drive.Tracking() {
		s.Drive.Step()
	}
	return err
}

// TruePose is the plant's actual pose in inches and degrees.
func (s *Sim) TruePose() sim.Pose {
	return s.Base.Pose(s.Plant.State())
}

// TrackedPose converts a drive's odometry into a plain pose.
func TrackedPose(d *drive.SmartDrive) sim.Pose {
	p := d.Pose()
	return sim.Pose{
		X:       p.Position.XLength().Inches(),
		Y:       p.Position.YLength().Inches(),
		Heading: p.Heading.Degrees(),
	}
}

func ignoreCanceled(ctx context.Context, err error) error {
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return nil
	}
	return err
}
