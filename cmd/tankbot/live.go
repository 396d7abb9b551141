package main

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/tankbot/internal/automation"
	"github.com/san-kum/tankbot/internal/drive"
	"github.com/san-kum/tankbot/internal/robot"
	"github.com/san-kum/tankbot/internal/sim"
	"github.com/san-kum/tankbot/internal/viz"
)

// runLive runs the simulation on the wall clock behind the field view. Logs
// would tear the alternate screen, so the robot gets a no-op logger.
func runLive(cmd *cobra.Command, args []string) error {
	var routine *automation.Routine
	if len(args) > 0 {
		r, err := automation.Get(args[0])
		if err != nil {
			return err
		}
		routine = r
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	s, err := robot.New(cfg, robot.Options{
		Logger: zap.NewNop().Sugar(),
		Start:  sim.Pose{X: startX, Y: startY, Heading: startHeading},
	})
	if err != nil {
		return err
	}

	title := "teleop"
	if routine != nil {
		title = routine.Name
	}
	p := tea.NewProgram(viz.NewFieldModel(s, title, routine == nil), tea.WithAltScreen())

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.Run(gctx, func(ctx context.Context, d *drive.SmartDrive) error {
			if err := d.WaitCalibrated(ctx); err != nil {
				return err
			}
			if routine != nil {
				if err := routine.Run(ctx, d, nil); err != nil {
					return err
				}
			}
			<-ctx.Done()
			return nil
		})
	})
	g.Go(func() error {
		defer cancel()
		_, err := p.Run()
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		p.Quit()
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
