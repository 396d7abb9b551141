package drive_test

import (
	"context"
	"math"
	"time"

	"github.com/benbjohnson/clock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/tankbot/internal/config"
	"github.com/san-kum/tankbot/internal/drive"
	"github.com/san-kum/tankbot/internal/robot"
	"github.com/san-kum/tankbot/internal/sim"
	"github.com/san-kum/tankbot/internal/units"
)

// headingDiff is the signed short-way difference a-b in degrees.
func headingDiff(a, b float64) float64 {
	return units.ShortestTurnPath(units.Degrees(a - b)).Degrees()
}

var _ = Describe("SmartDrive on the simulated base", func() {
	var (
		cfg *config.Config
		s   *robot.Sim
		ctx context.Context
	)

	build := func(start sim.Pose) {
		var err error
		s, err = robot.New(cfg, robot.Options{
			Clock:  clock.NewMock(),
			Logger: ginkgoLogger(),
			Start:  start,
		})
		Expect(err).NotTo(HaveOccurred())
	}

	run := func(fn func(ctx context.Context, d *drive.SmartDrive) error) {
		Expect(s.Run(ctx, fn)).To(Succeed())
	}

	BeforeEach(func() {
		cfg = config.GetPreset("quick")
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 60*time.Second)
		DeferCleanup(cancel)
	})

	Describe("odometry", func() {
		It("follows a straight run north", func() {
			build(sim.Pose{})
			run(func(ctx context.Context, d *drive.SmartDrive) error {
				return d.DriveFor(ctx, units.Inches(36), 60)
			})

			truth := s.TruePose()
			tracked := robot.TrackedPose(s.Drive)
			Expect(truth.Y).To(BeNumerically(">", 34))
			Expect(math.Abs(truth.X)).To(BeNumerically("<", 1e-6))
			Expect(tracked.X).To(BeNumerically("~", truth.X, 0.3))
			Expect(tracked.Y).To(BeNumerically("~", truth.Y, 0.3))
		})

		It("projects travel along a 90° heading onto +X", func() {
			build(sim.Pose{Heading: 90})
			run(func(ctx context.Context, d *drive.SmartDrive) error {
				return d.DriveFor(ctx, units.Inches(24), 50)
			})

			tracked := robot.TrackedPose(s.Drive)
			Expect(tracked.X).To(BeNumerically("~", 24, 2))
			Expect(tracked.Y).To(BeNumerically("~", 0, 0.3))
			Expect(tracked.Heading).To(BeNumerically("~", 90, 0.5))
		})

		It("stays with the true pose through a drive-turn-drive sequence", func() {
			build(sim.Pose{})
			run(func(ctx context.Context, d *drive.SmartDrive) error {
				if err := d.DriveForPID(ctx, units.Inches(24)); err != nil {
					return err
				}
				if err := d.TurnToPID(ctx, units.Degrees(90)); err != nil {
					return err
				}
				return d.DriveForPID(ctx, units.Inches(18))
			})

			truth := s.TruePose()
			tracked := robot.TrackedPose(s.Drive)
			Expect(truth.X).To(BeNumerically("~", 18, 1.5))
			Expect(truth.Y).To(BeNumerically("~", 24, 1.5))
			Expect(tracked.X).To(BeNumerically("~", truth.X, 0.5))
			Expect(tracked.Y).To(BeNumerically("~", truth.Y, 0.5))
		})

		It("uses the tracking wheel to follow sideways drift", func() {
			cfg = config.GetPreset("slippery")
			cfg.Sim.Calibration = 0
			build(sim.Pose{})
			run(func(ctx context.Context, d *drive.SmartDrive) error {
				return d.DriveFor(ctx, units.Inches(40), 60)
			})

			truth := s.TruePose()
			tracked := robot.TrackedPose(s.Drive)
			Expect(truth.X).To(BeNumerically(">", 1.5))
			Expect(tracked.X).To(BeNumerically("~", truth.X, 0.3))
		})
	})

	Describe("DriveFor", func() {
		DescribeTable("stops near the target",
			func(target, speed float64) {
				build(sim.Pose{})
				run(func(ctx context.Context, d *drive.SmartDrive) error {
					return d.DriveFor(ctx, units.Inches(target), speed)
				})
				Expect(s.TruePose().Y).To(BeNumerically("~", target, 2))
				Expect(s.Left.Get()).To(BeZero())
				Expect(s.Right.Get()).To(BeZero())
			},
			Entry("forward", 24.0, 50.0),
			Entry("backward", -18.0, 50.0),
			Entry("backward with a negative speed", -12.0, -40.0),
			Entry("forward with a negative speed", 12.0, -40.0),
			Entry("backward with a positive speed", -12.0, 40.0),
		)

		It("returns at once for a zero target", func() {
			build(sim.Pose{})
			var elapsed time.Duration
			run(func(ctx context.Context, d *drive.SmartDrive) error {
				start := s.Clock.Now()
				err := d.DriveFor(ctx, units.Length{}, 80)
				elapsed = s.Clock.Since(start)
				return err
			})
			Expect(elapsed).To(BeNumerically("<", cfg.Robot.Period))
			Expect(s.TruePose().Y).To(BeZero())
		})

		It("stops the motors when cancelled", func() {
			build(sim.Pose{})
			short, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
			defer cancel()

			err := s.Run(short, func(ctx context.Context, d *drive.SmartDrive) error {
				return d.DriveFor(ctx, units.Inches(10000), 50)
			})
			Expect(err).To(MatchError(context.DeadlineExceeded))
			Expect(s.Left.Get()).To(BeZero())
		})
	})

	Describe("DriveForPID", func() {
		It("settles on the target", func() {
			build(sim.Pose{})
			run(func(ctx context.Context, d *drive.SmartDrive) error {
				return d.DriveForPID(ctx, units.Inches(30))
			})
			Expect(s.TruePose().Y).To(BeNumerically("~", 30, 0.5))
			Expect(s.Drive.DriveForController().IsCompleted()).To(BeTrue())
		})
	})

	Describe("turning", func() {
		It("TurnFor rotates by a relative angle", func() {
			build(sim.Pose{Heading: 30})
			run(func(ctx context.Context, d *drive.SmartDrive) error {
				return d.TurnFor(ctx, units.Degrees(-90), 40)
			})
			Expect(headingDiff(s.TruePose().Heading, -60)).To(BeNumerically("~", 0, 12))
		})

		It("TurnForPID settles on a relative angle", func() {
			build(sim.Pose{})
			run(func(ctx context.Context, d *drive.SmartDrive) error {
				return d.TurnForPID(ctx, units.Degrees(135))
			})
			Expect(s.TruePose().Heading).To(BeNumerically("~", 135, 2))
		})

		DescribeTable("TurnTo reaches an absolute heading the short way",
			func(start, target float64) {
				build(sim.Pose{Heading: start})
				run(func(ctx context.Context, d *drive.SmartDrive) error {
					return d.TurnTo(ctx, units.Degrees(target), 40)
				})
				Expect(math.Abs(headingDiff(s.TruePose().Heading, target))).To(BeNumerically("<", 12))

				// The short way never sweeps more than half a turn.
				swept := math.Abs(s.TruePose().Heading - start)
				Expect(swept).To(BeNumerically("<=", 180+12))
			},
			Entry("clockwise", 0.0, 90.0),
			Entry("counter-clockwise across north", 20.0, 300.0),
			Entry("clockwise across north", 340.0, 30.0),
		)

		It("TurnTo inside the tolerance does nothing", func() {
			build(sim.Pose{Heading: 88})
			run(func(ctx context.Context, d *drive.SmartDrive) error {
				return d.TurnTo(ctx, units.Degrees(90), 40)
			})
			Expect(s.TruePose().Heading).To(BeNumerically("~", 88, 1e-9))
		})

		It("TurnToPID settles on an absolute heading", func() {
			build(sim.Pose{Heading: 10})
			run(func(ctx context.Context, d *drive.SmartDrive) error {
				return d.TurnToPID(ctx, units.Degrees(-80))
			})
			Expect(headingDiff(s.TruePose().Heading, -80)).To(BeNumerically("~", 0, 2))
		})
	})
})
