package experiment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/san-kum/ctrlsim/internal/config"
	"github.com/san-kum/ctrlsim/internal/dynamo"
	"github.com/san-kum/ctrlsim/internal/freqresp"
	"github.com/san-kum/ctrlsim/internal/plant"
	"github.com/san-kum/ctrlsim/internal/rootlocus"
	"github.com/san-kum/ctrlsim/internal/stability"
	"github.com/san-kum/ctrlsim/internal/timeresp"
	"golang.org/x/sync/errgroup"
)

var ErrNotSetup = errors.New("experiment: not set up")

// TimeResult is the output of the time analysis. Signal is the reference
// input sampled on T. DCGain is the step value predicted by the final value
// theorem, meaningful only for stable plants.
type TimeResult struct {
	Input           timeresp.Input
	T               []float64
	Y               []float64
	Signal          []float64
	Characteristics timeresp.Characteristics
	DCGain          float64
}

// Result holds every analysis that ran; disabled ones stay nil.
type Result struct {
	Plant      plant.Plant
	ZPK        plant.ZPK
	ClosedLoop plant.ClosedLoop

	Time      *TimeResult
	Frequency *freqresp.Result
	Locus     *rootlocus.Locus
	Stability *stability.Summary

	Elapsed time.Duration
}

type Experiment struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *Registry

	plant    plant.Plant
	input    timeresp.Input
	grid     []float64
	integ    dynamo.Integrator
	freq     freqresp.Range
	locus    rootlocus.Range
	analyses []string
}

// New returns an experiment over a copy of cfg. A nil logger discards.
func New(cfg *config.Config, logger *slog.Logger) *Experiment {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Experiment{cfg: cfg.Clone(), logger: logger, registry: NewRegistry()}
}

// WithRegistry replaces the default registry.
func (e *Experiment) WithRegistry(r *Registry) *Experiment {
	e.registry = r
	return e
}

// Plant returns the plant built by Setup.
func (e *Experiment) Plant() plant.Plant { return e.plant }

// Setup builds the plant and grids, repairing out-of-range settings. Only
// settings no analysis can use are errors.
func (e *Experiment) Setup() error {
	cfg := e.cfg

	if order, err := plant.ParseOrder(cfg.Plant.Order); err == nil && order == plant.OrderHigher && len(cfg.Plant.Den) == 0 {
		e.logger.Warn("empty denominator replaced", "den", config.DefaultDen)
		cfg.Plant.Den = append([]float64(nil), config.DefaultDen...)
	}
	p, err := cfg.Plant.Build()
	if err != nil {
		return fmt.Errorf("plant: %w", err)
	}
	e.plant = p

	if e.input, err = cfg.Input.Input(); err != nil {
		return fmt.Errorf("input: %w", err)
	}
	if e.grid, err = cfg.Time.Grid(); err != nil {
		return fmt.Errorf("time grid: %w", err)
	}
	if e.integ, err = e.registry.GetIntegrator(cfg.Integrator); err != nil {
		return err
	}

	e.freq = cfg.Frequency.Normalize()
	if e.freq != cfg.Frequency {
		e.logger.Warn("frequency range repaired", "from", cfg.Frequency, "to", e.freq)
	}
	requested := cfg.LocusRange()
	e.locus = requested.Normalize()
	if e.locus != requested {
		e.logger.Warn("gain range repaired", "from", requested, "to", e.locus)
	}

	e.analyses = e.analyses[:0]
	for _, name := range cfg.Analyses {
		if _, err := e.registry.GetAnalysis(name); err != nil {
			return err
		}
		if !slices.Contains(e.analyses, name) {
			e.analyses = append(e.analyses, name)
		}
	}
	if len(e.analyses) == 0 {
		e.analyses = append(e.analyses, config.AllAnalyses...)
	}
	return nil
}

// Run executes the enabled analyses concurrently. The first failure cancels
// the rest.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if e.plant == nil {
		return nil, ErrNotSetup
	}

	start := time.Now()
	res := &Result{
		Plant:      e.plant,
		ZPK:        plant.Factor(e.plant),
		ClosedLoop: plant.Close(e.plant),
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, name := range e.analyses {
		run, err := e.registry.GetAnalysis(name)
		if err != nil {
			return nil, err
		}
		g.Go(func() error {
			t0 := time.Now()
			e.logger.Debug("analysis started", "analysis", name, "plant", e.plant.Order())
			if err := run(gctx, e, res); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			e.logger.Debug("analysis finished", "analysis", name, "elapsed", time.Since(t0))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res.Elapsed = time.Since(start)
	return res, nil
}
