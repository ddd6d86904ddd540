package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/lmittmann/tint"
	"github.com/san-kum/ctrlsim/internal/automation"
	"github.com/san-kum/ctrlsim/internal/config"
	"github.com/san-kum/ctrlsim/internal/experiment"
	"github.com/san-kum/ctrlsim/internal/report"
	"github.com/san-kum/ctrlsim/internal/stability"
	"github.com/san-kum/ctrlsim/internal/storage"
	"github.com/spf13/cobra"
)

var (
	dataDir  string
	logLevel string
	theme    string
	jsonOut  string

	sweepParam  string
	sweepMin    float64
	sweepMax    float64
	sweepSteps  int
	trials      int
	perturb     float64
	seed        int64
	scenarioOut bool

	logger   *slog.Logger
	renderer *report.Renderer
)

// main registers the ctrlsim commands and executes the root command,
// exiting with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "ctrlsim",
		Short:         "control system analysis lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var level slog.Level
			if err := level.UnmarshalText([]byte(logLevel)); err != nil {
				return fmt.Errorf("log level: %w", err)
			}
			logger = slog.New(tint.NewHandler(os.Stderr, &tint.Options{
				Level:      level,
				TimeFormat: time.Kitchen,
			}))
			slog.SetDefault(logger)
			renderer = report.New(report.GetTheme(theme))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".ctrlsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", "cyberpunk", fmt.Sprintf("color theme %v", report.ThemeNames()))

	timeCmd := &cobra.Command{
		Use:   "time",
		Short: "time response and characteristics",
		Args:  cobra.NoArgs,
		RunE:  analysisCmd("time", config.AnalysisTime),
	}
	addPlantFlags(timeCmd)
	addTimeFlags(timeCmd)

	freqCmd := &cobra.Command{
		Use:   "freq",
		Short: "frequency response and stability margins",
		Args:  cobra.NoArgs,
		RunE:  analysisCmd("freq", config.AnalysisFrequency),
	}
	addPlantFlags(freqCmd)
	addFreqFlags(freqCmd)

	locusCmd := &cobra.Command{
		Use:   "locus",
		Short: "root-locus gain sweep",
		Args:  cobra.NoArgs,
		RunE:  analysisCmd("locus", config.AnalysisLocus),
	}
	addPlantFlags(locusCmd)
	addLocusFlags(locusCmd)

	stabilityCmd := &cobra.Command{
		Use:   "stability",
		Short: "pole and Routh-Hurwitz stability summary",
		Args:  cobra.NoArgs,
		RunE:  analysisCmd("stability", config.AnalysisStability),
	}
	addPlantFlags(stabilityCmd)

	routhCmd := &cobra.Command{
		Use:   "routh [coefficients...]",
		Short: "Routh array and Hurwitz minors of a polynomial",
		Args:  cobra.MinimumNArgs(1),
		RunE:  routhTable,
	}

	runCmd := &cobra.Command{
		Use:   "run [config.yaml]",
		Short: "run every configured analysis",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runAll,
	}
	addPlantFlags(runCmd)
	addTimeFlags(runCmd)
	addFreqFlags(runCmd)
	addLocusFlags(runCmd)

	compareCmd := &cobra.Command{
		Use:   "compare [integrator1] [integrator2] ...",
		Short: "compare integrators on the same plant",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareIntegrators,
	}
	addPlantFlags(compareCmd)
	addTimeFlags(compareCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one plant parameter",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addPlantFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "zeta", "parameter: k, tau, wn, zeta")
	sweepCmd.Flags().Float64Var(&sweepMin, "from", 0.1, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "to", 1.0, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "n", 10, "number of values")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "Routh verdicts of randomly perturbed denominators",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	addPlantFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 1000, "number of trials")
	monteCarloCmd.Flags().Float64Var(&perturb, "perturbation", 0.1, "relative coefficient perturbation")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 uses the clock)")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file.yaml]",
		Short: "run a batch of analyses",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&scenarioOut, "save", false, "store every step")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
	showCmd.Flags().StringVar(&jsonOut, "json", "", "also export the run to this JSON file")

	presetsCmd := &cobra.Command{
		Use:   "presets [order]",
		Short: "list preset plants",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orders := config.Orders()
			if len(args) > 0 {
				orders = args[:1]
			}
			for _, o := range orders {
				presets := config.ListPresets(o)
				if len(presets) == 0 {
					fmt.Printf("no presets for order: %s\n", o)
					continue
				}
				fmt.Printf("%s:\n", o)
				for _, p := range presets {
					fmt.Printf("  %s/%s\n", o, p)
				}
			}
			return nil
		},
	}

	rootCmd.AddCommand(timeCmd, freqCmd, locusCmd, stabilityCmd, routhCmd, runCmd, compareCmd,
		sweepCmd, monteCarloCmd, scenarioCmd, listCmd, showCmd, presetsCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

// analysisCmd runs a single analysis on the resolved plant.
func analysisCmd(name string, analysis string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		cfg.Analyses = []string{analysis}
		return execute(cmd.Context(), name, cfg)
	}
}

func runAll(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		configFile = args[0]
	}
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	return execute(cmd.Context(), "run", cfg)
}

func execute(ctx context.Context, name string, cfg *config.Config) error {
	exp := experiment.New(cfg, logger)
	if err := exp.Setup(); err != nil {
		return err
	}
	res, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Println(renderer.Result(res))

	if !save {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(name, cfg, res)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func routhTable(cmd *cobra.Command, args []string) error {
	coeffs := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return fmt.Errorf("coefficient %d: %w", i+1, err)
		}
		coeffs[i] = v
	}

	fmt.Println(renderer.Title("Routh array"))
	fmt.Println(renderer.Routh(stability.Routh(coeffs)))

	minors := stability.PrincipalMinors(stability.HurwitzMatrix(coeffs))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MINOR\tVALUE")
	for i, m := range minors {
		fmt.Fprintf(w, "Δ%d\t%.6g\n", i+1, m)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("Hurwitz stable: %t\n", stability.HurwitzStable(coeffs))
	return nil
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	// Only higher-order plants are integrated numerically.
	p, err := cfg.Plant.Build()
	if err != nil {
		return err
	}
	n, d := p.TransferFunction()
	cfg.Plant = config.PlantConfig{Order: "higher", K: 1, Num: n, Den: d}
	cfg.Analyses = []string{config.AnalysisTime}

	var ref []float64
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tFINAL\tMAX |Δ|\tSETTLING\tTIME")
	for _, name := range args {
		c := cfg.Clone()
		c.Integrator = name
		exp := experiment.New(c, logger)
		if err := exp.Setup(); err != nil {
			return err
		}
		res, err := exp.Run(cmd.Context())
		if err != nil {
			return err
		}

		y := res.Time.Y
		if ref == nil {
			ref = y
		}
		var dev float64
		for i := range y {
			dev = math.Max(dev, math.Abs(y[i]-ref[i]))
		}
		fmt.Fprintf(w, "%s\t%.6f\t%.2e\t%s\t%v\n",
			name, y[len(y)-1], dev, res.Time.Characteristics.Settling, res.Elapsed)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	results, err := automation.RunSweep(cmd.Context(), &automation.ParameterSweep{
		Base:      cfg,
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
	}, logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tSTABLE\tPM (deg)\tGM (dB)\tOVERSHOOT\tSETTLING\n", sweepParam)
	overshoot := make([]float64, len(results))
	for i, r := range results {
		fmt.Fprintf(w, "%.4f\t%t\t%s\t%s\t%s\t%s\n",
			r.ParamValue, r.Stable, measure(r.PhaseMargin.Value, r.PhaseMargin.Ok()),
			measure(r.GainMargin.Value, r.GainMargin.Ok()), r.Overshoot, r.Settling)
		overshoot[i] = math.NaN()
		if r.Overshoot.Ok() {
			overshoot[i] = r.Overshoot.Value
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Println("overshoot", report.Sparkline(overshoot, 40))
	return nil
}

func measure(v float64, ok bool) string {
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%.2f", v)
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	p, err := cfg.Plant.Build()
	if err != nil {
		return err
	}
	_, d := p.TransferFunction()

	results, err := automation.RunMonteCarlo(cmd.Context(), &automation.MonteCarloConfig{
		Den:          d,
		Perturbation: perturb,
		NumTrials:    trials,
		Seed:         seed,
	}, logger)
	if err != nil {
		return err
	}

	stable, unstable := automation.MonteCarloStats(results)
	disagree := 0
	for _, r := range results {
		if !r.Agrees {
			disagree++
		}
	}
	fmt.Printf("trials: %d  stable: %d  unstable: %d  (%.1f%% stable)\n",
		len(results), stable, unstable, 100*float64(stable)/float64(max(1, len(results))))
	if disagree > 0 {
		logger.Warn("Routh verdict disagreed with computed roots", "trials", disagree)
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	results, err := automation.RunScenario(cmd.Context(), sc, logger)
	if err != nil {
		return err
	}

	var st *storage.Store
	if scenarioOut {
		st = storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
	}

	for _, r := range results {
		fmt.Println(renderer.Title(fmt.Sprintf("%d. %s", r.Index+1, r.Name)))
		fmt.Println(renderer.Result(r.Result))
		if st == nil && r.SaveAs == "" {
			continue
		}
		if st == nil {
			st = storage.New(dataDir)
			if err := st.Init(); err != nil {
				return err
			}
		}
		name := r.SaveAs
		if name == "" {
			name = r.Name
		}
		runID, err := st.Save(name, r.Config, r.Result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}
	return nil
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
	fmt.Fprintln(w, "ID\tTIME\tORDER\tTRANSFER\tVERDICT\tSERIES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%v\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Config.Plant.Order,
			run.Transfer,
			run.Verdict,
			run.Series,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	fmt.Println(renderer.Title(meta.ID))
	fmt.Printf("created:  %s\n", meta.Timestamp.Format(time.RFC3339))
	fmt.Printf("transfer: %s\n", meta.Transfer)
	if meta.Verdict != "" {
		fmt.Printf("verdict:  %s\n", meta.Verdict)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tVALUE")
	for _, name := range sortedKeys(meta.Metrics) {
		fmt.Fprintf(w, "%s\t%.6g\n", name, meta.Metrics[name])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	for _, name := range meta.Series {
		_, rows, err := st.LoadSeries(runID, name)
		if err != nil {
			return err
		}
		switch name {
		case storage.SeriesTime:
			fmt.Println(report.TimePlot(storage.Column(rows, 0), storage.Column(rows, 1), storage.Column(rows, 2)))
		case storage.SeriesFrequency:
			mag := storage.Column(rows, 1)
			fmt.Println("|G| dB", report.Sparkline(mag, 60))
		}
	}

	if jsonOut != "" {
		if err := st.ExportJSON(runID, jsonOut); err != nil {
			return err
		}
		fmt.Printf("exported to %s\n", jsonOut)
	}
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
