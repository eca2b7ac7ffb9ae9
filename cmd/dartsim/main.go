package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/dartsim/internal/analysis"
	"github.com/san-kum/dartsim/internal/config"
	"github.com/san-kum/dartsim/internal/dynamo"
	"github.com/san-kum/dartsim/internal/experiment"
	"github.com/san-kum/dartsim/internal/export"
	"github.com/san-kum/dartsim/internal/optim"
	"github.com/san-kum/dartsim/internal/sim"
	"github.com/san-kum/dartsim/internal/storage"
	"github.com/san-kum/dartsim/internal/viz"
)

var (
	dataDir string
	verbose bool
	logger  = slog.New(slog.DiscardHandler)

	preset     string
	configFile string
	horizon    float64
	increment  float64
	tolerance  float64
	integrator string
	controller string
	aero       string
	gain       float64
	maxDipole  float64
	epoch      string
	rate       []float64
	noSave     bool
	progress   bool

	plotChannels    []string
	pngChannels     []string
	analyzeChannels []string
	pngOut          string
	jsonOut         string
	csvOut          string
	configOut       string
	sampleDt        float64
	maxFreq         float64
	xChannel        string
	yChannel        string

	gains      []float64
	maxDipoles []float64
	metricName string
	parallel   int
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "dartsim",
		Short:        "orbit and attitude propagator for a magnetically damped dart satellite",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogger(cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".dartsim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "propagate a scenario and store the result",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addScenarioFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().BoolVar(&progress, "progress", false, "draw a progress bar on stderr")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run-id]",
		Short: "plot channels of a run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&plotChannels, "channels", []string{"rate", "nose", "wx", "wy", "wz"}, "channels to plot")

	pngCmd := &cobra.Command{
		Use:   "png [run-id]",
		Short: "render channels of a run to an image file",
		Args:  cobra.ExactArgs(1),
		RunE:  renderRun,
	}
	pngCmd.Flags().StringSliceVar(&pngChannels, "channels", []string{"wx", "wy", "wz"}, "channels to draw")
	pngCmd.Flags().StringVarP(&pngOut, "out", "o", "", "output file, format by extension (default <run-id>.png)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run-id]",
		Short: "frequency analysis of a channel",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringSliceVar(&analyzeChannels, "channels", []string{"wx"}, "channels to analyze")
	analyzeCmd.Flags().Float64Var(&sampleDt, "dt", 1.0, "resampling step (s)")
	analyzeCmd.Flags().Float64Var(&maxFreq, "fmax", 0.1, "highest frequency shown (Hz)")

	phaseCmd := &cobra.Command{
		Use:   "phase [run-id]",
		Short: "show a phase portrait of two channels",
		Args:  cobra.ExactArgs(1),
		RunE:  phaseRun,
	}
	phaseCmd.Flags().StringVar(&xChannel, "x", "wx", "channel for the x-axis")
	phaseCmd.Flags().StringVar(&yChannel, "y", "wy", "channel for the y-axis")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run-id]",
		Short: "export a run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&jsonOut, "out", "o", "", "output file (default stdout)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run-id]",
		Short: "export the samples of a run as csv",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&csvOut, "out", "o", "", "output file (default stdout)")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid search over the b-dot gain and dipole limit",
		Args:  cobra.NoArgs,
		RunE:  sweepGains,
	}
	addScenarioFlags(sweepCmd)
	sweepCmd.Flags().Float64SliceVar(&gains, "gains", []float64{-1e3, -5e3, -1e4, -2e4}, "gains to try")
	sweepCmd.Flags().Float64SliceVar(&maxDipoles, "max-dipoles", nil, "dipole limits to try (A·m²)")
	sweepCmd.Flags().StringVar(&metricName, "metric", "rate_damping", "metric to minimize")

	compareCmd := &cobra.Command{
		Use:   "compare [preset...]",
		Short: "run several presets concurrently and compare their metrics",
		Args:  cobra.MinimumNArgs(1),
		RunE:  comparePresets,
	}
	compareCmd.Flags().IntVar(&parallel, "parallel", 0, "concurrent runs (0 = unlimited)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	initConfigCmd := &cobra.Command{
		Use:   "init-config [preset]",
		Short: "write a preset as a yaml config file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initConfig,
	}
	initConfigCmd.Flags().StringVarP(&configOut, "out", "o", "dartsim.yaml", "output file")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, pngCmd, analyzeCmd, phaseCmd,
		exportJSONCmd, exportCSVCmd, sweepCmd, compareCmd, presetsCmd, initConfigCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	def := config.DefaultConfig()
	cmd.Flags().StringVar(&preset, "preset", "", "start from a preset configuration")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml, overrides preset)")
	cmd.Flags().Float64Var(&horizon, "horizon", def.Horizon, "propagation horizon (s)")
	cmd.Flags().Float64Var(&increment, "increment", def.Increment, "frame re-base increment (s)")
	cmd.Flags().Float64Var(&tolerance, "tol", def.Tolerance, "relative tolerance")
	cmd.Flags().StringVar(&integrator, "integrator", def.Integrator, "integrator")
	cmd.Flags().StringVar(&controller, "control", def.Control, "control law")
	cmd.Flags().StringVar(&aero, "aero", def.Aero, "aerodynamic model")
	cmd.Flags().Float64Var(&gain, "gain", def.ControlParams.Gain, "b-dot gain")
	cmd.Flags().Float64Var(&maxDipole, "max-dipole", def.ControlParams.MaxDipole, "per-axis dipole limit (A·m², 0 = none)")
	cmd.Flags().StringVar(&epoch, "epoch", "", "epoch, RFC 3339 or YYYY-MM-DD")
	cmd.Flags().Float64SliceVar(&rate, "rate", nil, "initial body rate wx,wy,wz (rad/s)")
}

func setupLogger(w io.Writer) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadScenario resolves preset, config file and flag overrides, in that
// order of increasing precedence.
func loadScenario(cmd *cobra.Command) (*config.Config, error) {
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
	if flags.Changed("horizon") {
		cfg.Horizon = horizon
	}
	if flags.Changed("increment") {
		cfg.Increment = increment
	}
	if flags.Changed("tol") {
		cfg.Tolerance = tolerance
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("control") {
		cfg.Control = controller
	}
	if flags.Changed("aero") {
		cfg.Aero = aero
	}
	if flags.Changed("gain") {
		cfg.ControlParams.Gain = gain
	}
	if flags.Changed("max-dipole") {
		cfg.ControlParams.MaxDipole = maxDipole
	}
	if flags.Changed("epoch") {
		t, err := parseEpoch(epoch)
		if err != nil {
			return nil, err
		}
		cfg.Epoch = t
	}
	if flags.Changed("rate") {
		if len(rate) != 3 {
			return nil, fmt.Errorf("--rate wants 3 components, got %d", len(rate))
		}
		copy(cfg.InitState.Rate[:], rate)
	}
	return cfg, nil
}

func parseEpoch(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid epoch %q: %w", s, err)
	}
	return t, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd)
	if err != nil {
		return err
	}

	exp, err := experiment.Build(experiment.NewRegistry(), cfg)
	if err != nil {
		return err
	}
	exp.SetLogger(logger)
	prop := exp.GetPropagator()
	prop.AddObserver(sim.NewLogObserver(logger, 100))
	if progress {
		prop.AddObserver(viz.NewProgress(cmd.ErrOrStderr(), cfg.Horizon))
	}

	ctx, stop := signalContext()
	defer stop()

	logger.Info("running scenario", "scenario", cfg.Scenario, "horizon", cfg.Horizon, "integrator", cfg.Integrator)
	start := time.Now()
	result, runErr := exp.Run(ctx)
	elapsed := time.Since(start)

	if result == nil {
		return runErr
	}
	fmt.Println(viz.Summary(cfg.Scenario, result))
	fmt.Printf("completed in %v\n", elapsed.Round(time.Millisecond))

	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(cfg, result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	if runErr != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), viz.ErrorStyle.Render("run stopped early: "+runErr.Error()))
	}
	return runErr
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
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tHORIZON\tSEGMENTS\tINTEG\tCTRL\tDAMPING")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.0fs\t%d\t%s\t%s\t%.4g\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Horizon,
			run.Segments,
			run.Integrator,
			run.Controller,
			run.Metrics["rate_damping"],
		)
	}

	return w.Flush()
}

func lookupChannels(names []string) ([]analysis.Channel, error) {
	out := make([]analysis.Channel, 0, len(names))
	for _, n := range names {
		ch, err := analysis.LookupChannel(strings.TrimSpace(n))
		if err != nil {
			return nil, err
		}
		out = append(out, ch)
	}
	return out, nil
}

func loadRun(runID string) (*storage.RunMetadata, *dynamo.Series, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	series, err := st.LoadStates(runID)
	if err != nil {
		return nil, nil, err
	}
	if series.Len() == 0 {
		return nil, nil, fmt.Errorf("run %s has no samples", runID)
	}
	return meta, series, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	channels, err := lookupChannels(plotChannels)
	if err != nil {
		return err
	}
	meta, series, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", series.Len())

	for _, ch := range channels {
		fmt.Println(viz.Chart(series, ch, 80, 10))
		fmt.Println()
	}
	return nil
}

func renderRun(cmd *cobra.Command, args []string) error {
	channels, err := lookupChannels(pngChannels)
	if err != nil {
		return err
	}
	meta, series, err := loadRun(args[0])
	if err != nil {
		return err
	}

	path := pngOut
	if path == "" {
		path = meta.ID + ".png"
	}
	opts := export.DefaultOptions()
	opts.Title = meta.Scenario
	if err := export.Plot(path, series, channels, opts); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	channels, err := lookupChannels(analyzeChannels)
	if err != nil {
		return err
	}
	meta, series, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n\n", meta.Scenario)

	for _, ch := range channels {
		uniform, err := analysis.Resample(series.Times, analysis.Extract(series, ch), sampleDt)
		if err != nil {
			return fmt.Errorf("channel %s: %w", ch.Name, err)
		}
		spec, err := analysis.UniformSpectrum(uniform, sampleDt)
		if err != nil {
			return fmt.Errorf("channel %s: %w", ch.Name, err)
		}

		fmt.Println(viz.Chart(series, ch, 80, 8))
		fmt.Println()
		if chart := viz.SpectrumChart(spec, maxFreq, 80, 12); chart != "" {
			fmt.Println(chart)
			fmt.Println()
		}

		freq := spec.Peak()
		fmt.Printf("%s dominant frequency: %.5g hz\n", ch.Name, freq)
		if freq > 0 {
			fmt.Printf("%s period: %.1f s\n", ch.Name, 1.0/freq)
		}
		fmt.Println()
	}
	return nil
}

func phaseRun(cmd *cobra.Command, args []string) error {
	x, err := analysis.LookupChannel(xChannel)
	if err != nil {
		return err
	}
	y, err := analysis.LookupChannel(yChannel)
	if err != nil {
		return err
	}
	meta, series, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("phase portrait: %s (%s vs %s)\n\n", meta.ID, y.Name, x.Name)
	p := analysis.GeneratePhasePortrait(series, x, y)
	fmt.Print(analysis.PhasePortraitToASCII(p, 80, 30))
	return nil
}

// output opens path, or stdout when it is empty.
func output(path string) (io.Writer, func() error, error) {
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	cfg, err := st.LoadConfig(args[0])
	if err != nil {
		return err
	}
	meta, series, err := loadRun(args[0])
	if err != nil {
		return err
	}
	result := &dynamo.Result{
		Series:     series,
		Metrics:    meta.Metrics,
		Segments:   meta.Segments,
		StepsTaken: meta.Steps,
	}

	w, done, err := output(jsonOut)
	if err != nil {
		return err
	}
	if err := storage.ExportJSON(w, cfg, result); err != nil {
		done()
		return err
	}
	return done()
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, series, err := loadRun(args[0])
	if err != nil {
		return err
	}

	w, done, err := output(csvOut)
	if err != nil {
		return err
	}
	if err := storage.WriteCSV(w, series); err != nil {
		done()
		return err
	}
	return done()
}

func sweepGains(cmd *cobra.Command, args []string) error {
	base, err := loadScenario(cmd)
	if err != nil {
		return err
	}

	names := []string{"gain"}
	ranges := [][]float64{gains}
	if len(maxDipoles) > 0 {
		names = append(names, "max_dipole")
		ranges = append(ranges, maxDipoles)
	}

	ctx, stop := signalContext()
	defer stop()

	reg := experiment.NewRegistry()
	build := optim.ControlBuilder(reg, base)
	search := optim.NewGridSearch(names, ranges)

	logger.Info("sweeping", "parameters", names, "metric", metricName)
	best, val, trials, err := search.Search(ctx, build, metricName)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "GAIN\tMAX DIPOLE\t%s\n", strings.ToUpper(metricName))
	for _, tr := range trials {
		value := fmt.Sprintf("%.6g", tr.Value)
		if tr.Err != nil {
			value = "error: " + tr.Err.Error()
		}
		fmt.Fprintf(w, "%g\t%g\t%s\n", tr.Params["gain"], tr.Params["max_dipole"], value)
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}
	if err != nil {
		return err
	}

	fmt.Printf("\nbest: gain=%g max_dipole=%g %s=%.6g\n", best["gain"], best["max_dipole"], metricName, val)
	return nil
}

func comparePresets(cmd *cobra.Command, args []string) error {
	reg := experiment.NewRegistry()
	scenarios := make([]sim.Scenario, 0, len(args))
	for _, name := range args {
		cfg := config.GetPreset(name)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
		}
		exp, err := experiment.Build(reg, cfg)
		if err != nil {
			return fmt.Errorf("preset %s: %w", name, err)
		}
		exp.SetLogger(logger.With("scenario", name))
		scenarios = append(scenarios, exp.Scenario())
	}

	ctx, stop := signalContext()
	defer stop()

	start := time.Now()
	results, err := sim.NewEnsemble(parallel).Run(ctx, scenarios)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCENARIO\tSEGMENTS\tSTEPS\tDAMPING\tFINAL RATE\tEFFORT\tENERGY DRIFT")
	for i, r := range results {
		fmt.Fprintf(w, "%s\t%d\t%d\t%.4g\t%.4g\t%.4g\t%.3g\n",
			scenarios[i].Name,
			r.Segments,
			r.StepsTaken,
			r.Metrics["rate_damping"],
			r.Metrics["final_rate"],
			r.Metrics["control_effort"],
			r.Metrics["orbital_energy_drift"],
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\ncompleted in %v\n", time.Since(start).Round(time.Millisecond))
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tHORIZON\tINTEG\tCTRL\tAERO\tGAIN\tMAX DIPOLE\tRATE")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%.0fs\t%s\t%s\t%s\t%g\t%g\t%v\n",
			name,
			cfg.Horizon,
			cfg.Integrator,
			cfg.Control,
			cfg.Aero,
			cfg.ControlParams.Gain,
			cfg.ControlParams.MaxDipole,
			cfg.InitState.Rate,
		)
	}
	return w.Flush()
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if len(args) == 1 {
		cfg = config.GetPreset(args[0])
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
		}
	}
	if err := config.Save(configOut, cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", configOut)
	return nil
}
