package main

import (
	"fmt"
	"strings"

	"github.com/san-kum/ctrlsim/internal/config"
	"github.com/spf13/cobra"
)

// Plant and grid flags shared by the analysis commands.
var (
	configFile string
	preset     string

	order string
	gain  float64
	tau   float64
	wn    float64
	zeta  float64
	num   []float64
	den   []float64

	inputKind string
	inputFreq float64
	inputAmp  float64
	horizon   float64
	step      float64

	fMin float64
	fMax float64
	ppd  int

	kMin  float64
	kMax  float64
	steps int

	integrator string
	save       bool
)

func addPlantFlags(cmd *cobra.Command) {
	def := config.DefaultConfig()
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset plant (order/name)")
	f.StringVar(&order, "order", def.Plant.Order, "plant order: first, second, higher")
	f.Float64Var(&gain, "k", def.Plant.K, "gain K")
	f.Float64Var(&tau, "tau", def.Plant.Tau, "time constant (first order)")
	f.Float64Var(&wn, "wn", def.Plant.Wn, "natural frequency rad/s (second order)")
	f.Float64Var(&zeta, "zeta", def.Plant.Zeta, "damping ratio (second order)")
	f.Float64SliceVar(&num, "num", def.Plant.Num, "numerator coefficients, descending powers (higher order)")
	f.Float64SliceVar(&den, "den", def.Plant.Den, "denominator coefficients, descending powers (higher order)")
	f.StringVar(&integrator, "integrator", def.Integrator, "integrator for higher-order simulation")
	f.BoolVar(&save, "save", false, "store the run")
}

func addTimeFlags(cmd *cobra.Command) {
	def := config.DefaultConfig()
	f := cmd.Flags()
	f.StringVar(&inputKind, "input", def.Input.Kind, "input: step, ramp, parabolic, impulse, sinusoidal")
	f.Float64Var(&inputFreq, "freq", def.Input.Freq, "sinusoid frequency rad/s")
	f.Float64Var(&inputAmp, "amp", def.Input.Amp, "sinusoid amplitude")
	f.Float64Var(&horizon, "horizon", def.Time.Horizon, "time horizon s")
	f.Float64Var(&step, "step", def.Time.Step, "time step s")
}

func addFreqFlags(cmd *cobra.Command) {
	def := config.DefaultConfig()
	f := cmd.Flags()
	f.Float64Var(&fMin, "fmin", def.Frequency.Min, "lowest frequency rad/s")
	f.Float64Var(&fMax, "fmax", def.Frequency.Max, "highest frequency rad/s")
	f.IntVar(&ppd, "ppd", def.Frequency.PointsPerDecade, "points per decade")
}

func addLocusFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64Var(&kMin, "kmin", 0, "lowest gain")
	f.Float64Var(&kMax, "kmax", 0, "highest gain (default max(50, K))")
	f.IntVar(&steps, "steps", 0, "gain steps (default 200)")
}

// resolveConfig layers defaults, then a preset, then a config file, then
// any flag set on the command line.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		o, name, ok := strings.Cut(preset, "/")
		if !ok {
			return nil, fmt.Errorf("preset %q: want order/name", preset)
		}
		if cfg = config.GetPreset(o, name); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(o))
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	changed := cmd.Flags().Changed
	if changed("order") {
		cfg.Plant.Order = order
	}
	if changed("k") {
		cfg.Plant.K = gain
	}
	if changed("tau") {
		cfg.Plant.Tau = tau
	}
	if changed("wn") {
		cfg.Plant.Wn = wn
	}
	if changed("zeta") {
		cfg.Plant.Zeta = zeta
	}
	if changed("num") {
		cfg.Plant.Num = num
	}
	if changed("den") {
		cfg.Plant.Den = den
	}
	if changed("integrator") {
		cfg.Integrator = integrator
	}
	if changed("input") {
		cfg.Input.Kind = inputKind
	}
	if changed("freq") {
		cfg.Input.Freq = inputFreq
	}
	if changed("amp") {
		cfg.Input.Amp = inputAmp
	}
	if changed("horizon") {
		cfg.Time.Horizon = horizon
	}
	if changed("step") {
		cfg.Time.Step = step
	}
	if changed("fmin") {
		cfg.Frequency.Min = fMin
	}
	if changed("fmax") {
		cfg.Frequency.Max = fMax
	}
	if changed("ppd") {
		cfg.Frequency.PointsPerDecade = ppd
	}
	if changed("kmin") {
		cfg.Locus.KMin = kMin
	}
	if changed("kmax") {
		cfg.Locus.KMax = kMax
	}
	if changed("steps") {
		cfg.Locus.Steps = steps
	}
	return cfg, nil
}
