package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/san-kum/tankbot/internal/automation"
	"github.com/san-kum/tankbot/internal/config"
	"github.com/san-kum/tankbot/internal/export"
	"github.com/san-kum/tankbot/internal/sim"
	"github.com/san-kum/tankbot/internal/storage"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tROUTINE\tPRESET\tTIME\tSIM\tDRIFT\tSTATUS")

	for _, run := range runs {
		status := "ok"
		if run.Error != "" {
			status = "failed"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2fs\t%.2fin\t%s\n",
			run.ID,
			run.Routine,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.FinalTrue.DistTo(run.FinalTracked),
			status,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	samples, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}

	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("routine: %s\n", meta.Routine)
	fmt.Printf("samples: %d\n\n", len(samples))

	series := []struct {
		caption string
		value   func(sim.Sample) float64
	}{
		{"x (in)", func(s sim.Sample) float64 { return s.True.X }},
		{"y (in)", func(s sim.Sample) float64 { return s.True.Y }},
		{"heading (deg)", func(s sim.Sample) float64 { return s.True.Heading }},
		{"odometry drift (in)", func(s sim.Sample) float64 { return s.True.DistTo(s.Tracked) }},
	}

	for _, sr := range series {
		data := make([]float64, len(samples))
		for i, s := range samples {
			data[i] = sr.value(s)
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(sr.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func pathSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	samples, err := storage.New(dataDir).LoadTrace(runID)
	if err != nil {
		return err
	}

	svg := export.TrajectoryToSVG(samples, 600, export.DefaultPathStyle)
	if svg == "" {
		return fmt.Errorf("run %s has too few samples to draw", runID)
	}

	path := outFile
	if path == "" {
		path = runID + ".svg"
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	return withOutput(func(w io.Writer) error {
		return storage.New(dataDir).ExportJSON(w, args[0])
	})
}

func exportCSV(cmd *cobra.Command, args []string) error {
	return withOutput(func(w io.Writer) error {
		return storage.New(dataDir).ExportCSV(w, args[0])
	})
}

// withOutput runs fn against --out, or stdout when it is unset.
func withOutput(fn func(io.Writer) error) (err error) {
	if outFile == "" {
		return fn(os.Stdout)
	}

	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, f.Close()) }()
	return fn(f)
}

func listPresets(cmd *cobra.Command, args []string) error {
	fmt.Println("presets:")
	for _, p := range config.ListPresets() {
		fmt.Printf("  %s\n", p)
	}
	return nil
}

func listRoutines(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSTEPS\tDESCRIPTION")
	for _, name := range automation.BuiltinNames() {
		r := automation.Builtin[name]
		fmt.Fprintf(w, "%s\t%d\t%s\n", r.Name, len(r.Steps), r.Description)
	}
	return w.Flush()
}

func configInit(cmd *cobra.Command, args []string) error {
	path := "tankbot.yaml"
	if len(args) > 0 {
		path = args[0]
	}

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	cfg := config.GetPreset(preset)
	if cfg == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s (preset %s)\n", path, preset)
	return nil
}
