package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/gravswarm/internal/config"
	"github.com/san-kum/gravswarm/internal/experiment"
	"github.com/san-kum/gravswarm/internal/metrics"
	"github.com/san-kum/gravswarm/internal/sim"
	"github.com/san-kum/gravswarm/internal/storage"
	"github.com/san-kum/gravswarm/internal/viz"
)

var (
	dataDir  string
	logLevel string
	logger   *log.Logger

	// swarm bundle
	preset     string
	configFile string
	mobile     bool
	seed       int64
	particles  int
	duration   float64
	invert     bool
	parallel   int

	// headless runs
	pathName    string
	pathParams  map[string]string
	toggleEvery float64
	metricList  string
	ensemble    int
	recordEvery int
	frameDelta  float64
	saveConfig  string

	// live view
	frameRate   float64
	logFile     string
	snapshotDir string
	themeName   string

	benchSteps int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gravswarm",
		Short: "particle swarm around a pointer-driven attractor",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := log.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger = log.NewWithOptions(os.Stderr, log.Options{
				ReportTimestamp: true,
				TimeFormat:      time.Kitchen,
				Level:           level,
			})
			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gravswarm", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation with a scripted pointer",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	swarmFlags(runCmd)
	runCmd.Flags().StringVar(&pathName, "path", "static", "pointer path ("+strings.Join(experiment.NewRegistry().ListPaths(), ", ")+")")
	runCmd.Flags().StringToStringVar(&pathParams, "path-param", nil, "path parameters, e.g. radius=0.3,period=2")
	runCmd.Flags().Float64Var(&toggleEvery, "toggle-every", 0, "flip the attractor force every N simulated seconds (0 = never)")
	runCmd.Flags().StringVar(&metricList, "metrics", "", "comma separated metrics (default: "+strings.Join(metrics.DefaultNames, ",")+")")
	runCmd.Flags().IntVar(&ensemble, "ensemble", 1, "number of runs over consecutive seeds")
	runCmd.Flags().IntVar(&recordEvery, "record-every", 1, "record the series every N steps")
	runCmd.Flags().Float64Var(&frameDelta, "frame-delta", 0, "host frame length in seconds (0 = one fixed step per frame)")
	runCmd.Flags().StringVar(&saveConfig, "save-config", "", "write the resolved config to this file")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the swarm in the terminal with mouse control",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	swarmFlags(liveCmd)
	liveCmd.Flags().Float64Var(&frameRate, "fps", config.DefaultFrameRate, "frame rate")
	liveCmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file instead of discarding them")
	liveCmd.Flags().StringVar(&snapshotDir, "snapshots", ".", "directory for SVG snapshots")
	liveCmd.Flags().StringVar(&themeName, "theme", viz.Themes[0].Name, "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark fixed steps per second",
		Args:  cobra.NoArgs,
		RunE:  benchSwarm,
	}
	benchCmd.Flags().IntVar(&benchSteps, "steps", 600, "fixed steps per case")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tPARTICLES\tDESCRIPTION")
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%s\n", name, cfg.ParticleCount, config.DescribePreset(name))
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, benchCmd, presetsCmd)
	rootCmd.AddCommand(runCommands()...)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func swarmFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&preset, "preset", "", "start from a preset configuration")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().BoolVar(&mobile, "mobile", false, "use the mobile particle count")
	cmd.Flags().Int64Var(&seed, "seed", 0, "spawn seed")
	cmd.Flags().IntVar(&particles, "particles", config.DefaultParticleCount, "particle count")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "simulated seconds")
	cmd.Flags().BoolVar(&invert, "invert", false, "start with a repelling attractor")
	cmd.Flags().IntVar(&parallel, "parallel", 0, "smallest particle chunk per worker (0 = serial)")
}

// loadSwarm resolves the bundle: preset, then config file, then flags the
// user actually set.
func loadSwarm(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("particles") {
		if mobile {
			cfg.ParticleCountMobile = particles
		} else {
			cfg.ParticleCount = particles
		}
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("invert") {
		cfg.InvertForce = invert
	}
	if flags.Changed("parallel") {
		cfg.Parallel = parallel
	}
	if flags.Changed("fps") {
		cfg.FrameRate = frameRate
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parsePathParams() (map[string]float64, error) {
	out := make(map[string]float64, len(pathParams))
	for k, v := range pathParams {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("path parameter %s: %w", k, err)
		}
		out[k] = f
	}
	return out, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadSwarm(cmd)
	if err != nil {
		return err
	}
	params, err := parsePathParams()
	if err != nil {
		return err
	}
	if ensemble < 1 {
		return fmt.Errorf("ensemble must be at least 1, got %d", ensemble)
	}
	if saveConfig != "" {
		if err := config.Save(saveConfig, cfg); err != nil {
			return err
		}
		logger.Info("config saved", "path", saveConfig)
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	registry := experiment.NewRegistry()

	ctx, cancel := signalContext()
	defer cancel()

	// One experiment per seed; each owns its pointer script and toggle
	// schedule.
	build := func(runSeed int64) (*experiment.Experiment, *config.Config, error) {
		runCfg := *cfg
		runCfg.Seed = runSeed
		ms, err := metrics.Parse(metricList)
		if err != nil {
			return nil, nil, err
		}
		exp := experiment.New(experiment.Config{
			Swarm:       &runCfg,
			Path:        pathName,
			PathParams:  params,
			ToggleEvery: toggleEvery,
			Mobile:      mobile,
			FrameDelta:  frameDelta,
			RecordEvery: recordEvery,
		})
		exp.SetLogger(logger)
		if err := exp.Setup(registry, ms); err != nil {
			return nil, nil, err
		}
		return exp, &runCfg, nil
	}

	logger.Info("running swarm", "particles", cfg.ParticleCountFor(mobile), "path", pathName, "duration", cfg.Duration, "runs", ensemble)
	start := time.Now()

	var results []*sim.Result
	var configs []*config.Config
	if ensemble == 1 {
		exp, runCfg, err := build(cfg.Seed)
		if err != nil {
			return err
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return err
		}
		results, configs = []*sim.Result{result}, []*config.Config{runCfg}
	} else {
		configs = make([]*config.Config, ensemble)
		ens := sim.NewEnsemble(func(runSeed int64) (*sim.Runner, error) {
			exp, swarm, err := build(runSeed)
			if err != nil {
				return nil, err
			}
			configs[runSeed-cfg.Seed] = swarm
			return exp.Runner(), nil
		}, ensemble, cfg.Seed)
		runCfg := experiment.New(experiment.Config{
			Swarm:       cfg,
			FrameDelta:  frameDelta,
			RecordEvery: recordEvery,
		}).RunConfig()
		results, err = ens.Run(ctx, runCfg)
		if err != nil {
			return err
		}
	}
	elapsed := time.Since(start)

	completed, err := saveResults(st, storage.RunMetadata{
		Preset:      preset,
		Path:        pathName,
		ToggleEvery: toggleEvery,
		RecordEvery: recordEvery,
	}, configs, results)
	if len(completed) > 1 {
		fmt.Println("ensemble mean:")
		printMetrics(meanMetrics(completed))
	}
	fmt.Printf("completed in %v\n", elapsed)
	return err
}

// saveResults stores every run that finished with a valid state and returns
// them. Diverged runs are logged and skipped; the first one becomes the
// returned error so the command exits non-zero.
func saveResults(st *storage.Store, meta storage.RunMetadata, configs []*config.Config, results []*sim.Result) ([]*sim.Result, error) {
	var diverged error
	completed := make([]*sim.Result, 0, len(results))
	for i, result := range results {
		if err := result.Err(); err != nil {
			logger.Error("run diverged, not saved", "seed", configs[i].Seed, "err", err)
			if diverged == nil {
				diverged = fmt.Errorf("seed %d diverged: %w", configs[i].Seed, err)
			}
			continue
		}
		runID, err := st.Save(meta, configs[i], result)
		if err != nil {
			return completed, err
		}
		completed = append(completed, result)
		fmt.Printf("run id: %s (seed %d)\n", runID, configs[i].Seed)
		fmt.Printf("steps: %d, frames: %d\n", result.StepsTaken, result.Frames)
		printMetrics(result.Metrics)
	}
	return completed, diverged
}

func printMetrics(values map[string]float64) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-18s %.6f\n", name, values[name])
	}
}

func meanMetrics(results []*sim.Result) map[string]float64 {
	out := make(map[string]float64)
	for _, r := range results {
		for name, v := range r.Metrics {
			out[name] += v / float64(len(results))
		}
	}
	return out
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadSwarm(cmd)
	if err != nil {
		return err
	}

	// The alt screen owns the terminal, so logs go to a file or nowhere.
	tuiLogger := log.New(io.Discard)
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		tuiLogger = log.NewWithOptions(f, log.Options{ReportTimestamp: true, Level: logger.GetLevel()})
	}

	m, err := viz.NewModel(cfg, mobile, tuiLogger)
	if err != nil {
		return err
	}
	m.SetSnapshotDir(snapshotDir)
	m.SetTheme(themeName)
	return viz.Run(m)
}

func benchSwarm(cmd *cobra.Command, args []string) error {
	counts := []int{100, 1000, 5000}
	chunks := []int{0, 256, 1024}

	fmt.Printf("benchmarking %d fixed steps per case\n\n", benchSteps)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLES\tPARALLEL\tSTEPS\tTIME\tSTEPS/SEC\tPARTICLE-STEPS/SEC")
	for _, n := range counts {
		for _, chunk := range chunks {
			cfg := config.DefaultConfig()
			cfg.ParticleCount = n
			cfg.Parallel = chunk
			cfg.Seed = 42
			world, err := cfg.NewWorld(0, 0, false)
			if err != nil {
				return err
			}

			pointer := world.LastPointer()
			start := time.Now()
			for i := 0; i < benchSteps; i++ {
				world.Step(pointer)
			}
			elapsed := time.Since(start)
			stepsPerSec := float64(benchSteps) / elapsed.Seconds()
			fmt.Fprintf(w, "%d\t%d\t%d\t%v\t%.0f\t%.0f\n",
				n, chunk, benchSteps, elapsed.Round(time.Microsecond), stepsPerSec, stepsPerSec*float64(n))
		}
	}
	return w.Flush()
}
