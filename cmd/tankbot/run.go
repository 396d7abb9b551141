package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/spf13/cobra"

	"github.com/san-kum/tankbot/internal/automation"
	"github.com/san-kum/tankbot/internal/drive"
	"github.com/san-kum/tankbot/internal/robot"
	"github.com/san-kum/tankbot/internal/sim"
	"github.com/san-kum/tankbot/internal/storage"
)

func routineArg(args []string) (*automation.Routine, error) {
	name := "square"
	if len(args) > 0 {
		name = args[0]
	}
	return automation.Get(name)
}

func runRoutine(cmd *cobra.Command, args []string) error {
	routine, err := routineArg(args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	var clk clock.Clock = clock.NewMock()
	if realtime {
		clk = clock.New()
	}

	s, err := robot.New(cfg, robot.Options{
		Clock:  clk,
		Logger: logger,
		Start:  sim.Pose{X: startX, Y: startY, Heading: startHeading},
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), secondsToDuration(timeout))
	defer cancel()

	fmt.Printf("running routine %s (%d steps, preset %s)...\n", routine.Name, len(routine.Steps), preset)
	start := time.Now()

	runErr := s.Run(ctx, func(ctx context.Context, d *drive.SmartDrive) error {
		if err := d.WaitCalibrated(ctx); err != nil {
			return err
		}
		return routine.Run(ctx, d, logger.Named("routine"))
	})
	if errors.Is(runErr, context.DeadlineExceeded) {
		runErr = fmt.Errorf("routine did not finish within %.0fs: %w", timeout, runErr)
	}

	elapsed := time.Since(start)
	samples := s.Recorder.Samples()
	simTime := s.Plant.Time()

	fmt.Printf("completed in %v (simulated %v)\n", elapsed.Round(time.Millisecond), simTime.Round(time.Millisecond))
	if n := len(samples); n > 0 {
		last := samples[n-1]
		fmt.Printf("final true:    %s\n", formatPose(last.True))
		fmt.Printf("final tracked: %s\n", formatPose(last.Tracked))
	}
	printMetrics(s.Recorder.Metrics())

	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		meta := storage.RunMetadata{
			Routine:    routine.Name,
			Preset:     preset,
			Dt:         cfg.Sim.Dt.Seconds(),
			Duration:   simTime.Seconds(),
			Integrator: cfg.Sim.Integrator,
			Metrics:    s.Recorder.Metrics(),
		}
		if runErr != nil {
			meta.Error = runErr.Error()
		}
		runID, err := st.Save(meta, samples)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	return runErr
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.4f\n", name, m[name])
	}
}

func formatPose(p sim.Pose) string {
	return fmt.Sprintf("x=%7.2fin y=%7.2fin heading=%7.2f°", p.X, p.Y, p.Heading)
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}
