package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"runtime"
	"text/tabwriter"

	"github.com/benbjohnson/clock"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/tankbot/internal/config"
	"github.com/san-kum/tankbot/internal/drive"
	"github.com/san-kum/tankbot/internal/optim"
	"github.com/san-kum/tankbot/internal/robot"
	"github.com/san-kum/tankbot/internal/units"
)

var (
	tuneKp     []float64
	tuneKi     []float64
	tuneKd     []float64
	tuneTarget float64
	tuneTime   float64
	tuneTop    int
)

func newTuneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "tune [drive_for|turn_for|turn_to]",
		Short:     "grid-search PID gains for one motion in simulation",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"drive_for", "turn_for", "turn_to"},
		RunE:      tunePID,
	}
	addSimFlags(cmd)
	cmd.Flags().Float64SliceVar(&tuneKp, "kp", []float64{5, 10, 15, 30, 60, 90}, "kp values (errors are in radians)")
	cmd.Flags().Float64SliceVar(&tuneKi, "ki", []float64{0}, "ki values")
	cmd.Flags().Float64SliceVar(&tuneKd, "kd", []float64{0}, "kd values (damping needs kd < 0)")
	cmd.Flags().Float64Var(&tuneTarget, "target", 0, "move size in inches or degrees (default 24in or 90°)")
	cmd.Flags().Float64Var(&tuneTime, "time-weight", 1, "score cost per simulated second")
	cmd.Flags().IntVar(&tuneTop, "top", 5, "candidates to print")
	return cmd
}

func tunePID(cmd *cobra.Command, args []string) error {
	motion := args[0]
	base, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if _, err := pidFor(base, motion); err != nil {
		return err
	}

	target := tuneTarget
	if target == 0 {
		target = 90
		if motion == "drive_for" {
			target = 24
		}
	}

	obj := func(ctx context.Context, params map[string]float64) (float64, error) {
		cfg := base.Clone()
		pid, _ := pidFor(cfg, motion)
		pid.Kp, pid.Ki, pid.Kd = params["kp"], params["ki"], params["kd"]
		return scoreMotion(ctx, cfg, motion, target, tuneTime)
	}

	grid := optim.NewGridSearch(
		[]string{"kp", "ki", "kd"},
		[][]float64{tuneKp, tuneKi, tuneKd},
	).WithWorkers(runtime.NumCPU())

	fmt.Printf("tuning %s over %d candidates (target %g)...\n", motion, grid.Size(), target)
	results, err := grid.Search(cmd.Context(), obj)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tKP\tKI\tKD\tSCORE")
	for i, r := range results {
		if i == tuneTop {
			break
		}
		score := fmt.Sprintf("%.4f", r.Score)
		if r.Err != nil {
			score = "failed: " + r.Err.Error()
		}
		fmt.Fprintf(w, "%d\t%g\t%g\t%g\t%s\n", i+1, r.Params["kp"], r.Params["ki"], r.Params["kd"], score)
	}
	return w.Flush()
}

func pidFor(cfg *config.Config, motion string) (*config.PIDConfig, error) {
	switch motion {
	case "drive_for":
		return &cfg.PID.DriveFor, nil
	case "turn_for":
		return &cfg.PID.TurnFor, nil
	case "turn_to":
		return &cfg.PID.TurnTo, nil
	}
	return nil, fmt.Errorf("unknown motion %q (want drive_for, turn_for or turn_to)", motion)
}

// scoreMotion runs one PID motion from the origin on a lock-step clock and
// returns the final error in inches or degrees plus timeWeight per simulated
// second taken.
func scoreMotion(ctx context.Context, cfg *config.Config, motion string, target, timeWeight float64) (float64, error) {
	mock := clock.NewMock()
	s, err := robot.New(cfg, robot.Options{Clock: mock, Logger: zap.NewNop().Sugar()})
	if err != nil {
		return 0, err
	}

	var took float64
	err = s.Run(ctx, func(ctx context.Context, d *drive.SmartDrive) error {
		if err := d.WaitCalibrated(ctx); err != nil {
			return err
		}
		start := mock.Now()
		var err error
		switch motion {
		case "drive_for":
			err = d.DriveForPID(ctx, units.Inches(target))
		case "turn_for":
			err = d.TurnForPID(ctx, units.Degrees(target))
		default:
			err = d.TurnToPID(ctx, units.Degrees(target))
		}
		took = mock.Since(start).Seconds()
		return err
	})
	if err != nil {
		return 0, err
	}

	p := s.TruePose()
	miss := math.Abs(p.Y - target)
	if motion != "drive_for" {
		miss = math.Abs(units.ShortestTurnPath(units.Degrees(p.Heading - target)).Degrees())
	}
	return miss + timeWeight*took, nil
}
