package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/san-kum/tankbot/internal/config"
)

var (
	dataDir  string
	logLevel string
	// Simulation overrides, applied over the preset and config file.
	preset       string
	configFile   string
	integrator   string
	dt           float64
	slip         float64
	startX       float64
	startY       float64
	startHeading float64
	realtime     bool
	timeout      float64
	noSave       bool
	// Output path for path/export commands; empty means stdout.
	outFile string
	force   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "tankbot",
		Short:         "tank-drive robot simulator and autonomous routine runner",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".tankbot", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run [routine]",
		Short: "run an autonomous routine in simulation and save the trace",
		Long:  "Run a builtin routine by name, or a routine YAML file by path. Defaults to \"square\".",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRoutine,
	}
	addSimFlags(runCmd)
	runCmd.Flags().BoolVar(&realtime, "realtime", false, "run on the wall clock instead of lock-step")
	runCmd.Flags().Float64Var(&timeout, "timeout", 120, "wall-clock limit in seconds")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a run's pose and odometry drift",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	pathCmd := &cobra.Command{
		Use:   "path [run_id]",
		Short: "render a run's true and tracked paths to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  pathSVG,
	}
	pathCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default <run_id>.svg)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and trace to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run trace to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list robot presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	routinesCmd := &cobra.Command{
		Use:   "routines",
		Short: "list builtin routines",
		Args:  cobra.NoArgs,
		RunE:  listRoutines,
	}

	liveCmd := &cobra.Command{
		Use:   "live [routine]",
		Short: "watch the robot on the field; drive it yourself when no routine is given",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSimFlags(liveCmd)

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage config files",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a config file with every default spelled out",
		Args:  cobra.MaximumNArgs(1),
		RunE:  configInit,
	}
	configInitCmd.Flags().StringVar(&preset, "preset", "default", "preset to start from")
	configInitCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, pathCmd, exportJSONCmd, exportCSVCmd, presetsCmd, routinesCmd, liveCmd, configCmd, newTuneCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&preset, "preset", "default", "robot preset")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml); overrides the preset")
	cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt.Seconds(), "physics timestep in seconds")
	cmd.Flags().Float64Var(&slip, "slip", 0, "lateral slip per unit turn rate")
	cmd.Flags().Float64Var(&startX, "x", 0, "start x in inches")
	cmd.Flags().Float64Var(&startY, "y", 0, "start y in inches")
	cmd.Flags().Float64Var(&startHeading, "heading", 0, "start heading in degrees")
}

// loadConfig resolves the preset, then the config file, then any flags the
// user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}

	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = fileCfg
	}

	flags := cmd.Flags()
	if flags.Changed("integrator") {
		cfg.Sim.Integrator = integrator
	}
	if flags.Changed("dt") {
		cfg.Sim.Dt = secondsToDuration(dt)
	}
	if flags.Changed("slip") {
		cfg.Sim.LateralSlip = slip
	}
	if cmd.Root().PersistentFlags().Changed("log-level") {
		cfg.LogLevel = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(level string) (*zap.SugaredLogger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("bad log level %q: %w", level, err)
	}

	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.DisableStacktrace = true
	zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	logger, err := zc.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
