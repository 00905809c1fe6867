package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/gravswarm/internal/analysis"
	"github.com/san-kum/gravswarm/internal/export"
	"github.com/san-kum/gravswarm/internal/physics"
	"github.com/san-kum/gravswarm/internal/sim"
	"github.com/san-kum/gravswarm/internal/storage"
)

var (
	plotMetric    string
	withParticles bool
	outputPath    string
	drawTrail     bool
	dotRadius     float64
	analyzeMetric string
	xAxis         string
	yAxis         string
)

// runCommands are the commands that read stored runs.
func runCommands() []*cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run metrics",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotMetric, "metric", "", "plot only this series (metric name, attractor_x, attractor_y or force_sign)")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().BoolVar(&withParticles, "particles", false, "include the final particle snapshot")
	exportCmd.Flags().StringVarP(&outputPath, "output", "o", "-", "output file (- for stdout)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run series to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render the final particle snapshot as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (default <run_id>.svg)")
	exportSVGCmd.Flags().BoolVar(&drawTrail, "trail", false, "draw the attractor trajectory")
	exportSVGCmd.Flags().Float64Var(&dotRadius, "radius", 1.5, "particle dot radius in pixels")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a metric series",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&analyzeMetric, "metric", "mean_distance", "series to analyze")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase portrait of two series",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().StringVar(&xAxis, "x-axis", "mean_distance", "series for the x-axis")
	phaseCmd.Flags().StringVar(&yAxis, "y-axis", "mean_speed", "series for the y-axis")

	return []*cobra.Command{listCmd, plotCmd, exportCmd, exportCSVCmd, exportSVGCmd, analyzeCmd, phaseCmd}
}

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
	fmt.Fprintln(w, "ID\tPRESET\tPATH\tTIME\tPARTICLES\tDURATION\tSTEPS\tSEED")
	for _, run := range runs {
		label := run.Preset
		if label == "" {
			label = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.2fs\t%d\t%d\n",
			run.ID,
			label,
			run.Path,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Particles,
			run.Duration,
			run.Steps,
			run.Seed,
		)
	}
	return w.Flush()
}

// column looks a series up by name, including the fixed attractor columns.
func column(series *storage.Series, name string) ([]float64, error) {
	switch name {
	case "attractor_x", "attractor_y":
		out := make([]float64, len(series.Attractor))
		for i, a := range series.Attractor {
			if name == "attractor_x" {
				out[i] = a.X
			} else {
				out[i] = a.Y
			}
		}
		return out, nil
	case "force_sign":
		return series.ForceSigns, nil
	}
	data, ok := series.Columns[name]
	if !ok {
		return nil, fmt.Errorf("no series %q (available: %v)", name, series.Names)
	}
	return data, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(series.Times) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("path: %s\n", meta.Path)
	fmt.Printf("samples: %d\n\n", len(series.Times))

	names := series.Names
	if plotMetric != "" {
		names = []string{plotMetric}
	}
	for _, name := range names {
		data, err := column(series, name)
		if err != nil {
			return err
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s vs time", name)),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	data, err := st.Export(args[0], withParticles)
	if err != nil {
		return err
	}
	return storage.ExportJSON(outputPath, data)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	data, err := st.Export(args[0], false)
	if err != nil {
		return err
	}
	if len(data.Times) == 0 {
		return fmt.Errorf("no data to export")
	}
	names := make([]string, 0, len(data.Series))
	for name := range data.Series {
		names = append(names, name)
	}
	sort.Strings(names)
	return storage.WriteCSV(os.Stdout, data, names)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	cfg, err := st.LoadConfig(runID)
	if err != nil {
		return err
	}
	snapshot, err := st.LoadParticles(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(series.Attractor) == 0 {
		return fmt.Errorf("run %s has no attractor trace", runID)
	}

	last := len(series.Attractor) - 1
	scene := export.Scene{
		Particles: snapshot,
		Attractor: sim.AttractorSnapshot{
			Position:  series.Attractor[last],
			Mass:      cfg.AttractorMass,
			ForceSign: series.ForceSigns[last],
		},
		Bounds:        physics.Bounds{Width: cfg.Width / cfg.PixelsPerUnit, Height: cfg.Height / cfg.PixelsPerUnit},
		PixelsPerUnit: cfg.PixelsPerUnit,
		Background:    physics.Color(cfg.BackgroundColor),
	}
	if drawTrail {
		scene.Trail = series.Attractor
	}

	out := outputPath
	if out == "" {
		out = runID + ".svg"
	}
	if err := os.WriteFile(out, []byte(export.SceneToSVG(scene, dotRadius)), 0644); err != nil {
		return err
	}
	logger.Info("svg written", "path", out, "particles", len(snapshot))
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	data, err := column(series, analyzeMetric)
	if err != nil {
		return err
	}
	if len(data) < 4 {
		return fmt.Errorf("series %s too short to analyze (%d samples)", analyzeMetric, len(data))
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("series: %s, %d samples every %.4fs\n\n", analyzeMetric, len(data), meta.SampleInterval())

	ps := analysis.PowerSpectrum(data)
	graph := asciigraph.Plot(ps,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("power spectrum (%s)", analyzeMetric)),
	)
	fmt.Println(graph)
	fmt.Println()

	freq, power := analysis.DominantFrequency(data, meta.SampleInterval())
	if freq == 0 {
		fmt.Println("no dominant frequency (flat series)")
		return nil
	}
	fmt.Printf("dominant frequency: %.3f hz (amplitude %.4f)\n", freq, power)
	fmt.Printf("period: %.3f s\n", 1.0/freq)
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	xs, err := column(series, xAxis)
	if err != nil {
		return err
	}
	ys, err := column(series, yAxis)
	if err != nil {
		return err
	}

	portrait := analysis.NewPortrait(xs, ys)
	if len(portrait.Points) == 0 {
		return fmt.Errorf("no data to plot")
	}
	fmt.Printf("phase portrait: %s\n", meta.ID)
	fmt.Printf("x-axis: %s, y-axis: %s\n\n", xAxis, yAxis)
	fmt.Print(portrait.ASCII(70, 20))
	return nil
}
