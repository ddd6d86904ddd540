package automation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/san-kum/ctrlsim/internal/config"
	"github.com/san-kum/ctrlsim/internal/experiment"
	"github.com/san-kum/ctrlsim/internal/freqresp"
	"github.com/san-kum/ctrlsim/internal/timeresp"
	"golang.org/x/sync/errgroup"
)

var ErrUnknownParam = errors.New("automation: unknown plant parameter")

// ParameterSweep varies one plant parameter (k, tau, wn or zeta) of Base
// over NumSteps evenly spaced values.
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

type SweepResult struct {
	ParamValue  float64
	Stable      bool
	PhaseMargin freqresp.Measure
	GainMargin  freqresp.Measure
	Overshoot   timeresp.Metric
	Settling    timeresp.Metric
}

// SetParam assigns a named plant parameter.
func SetParam(p *config.PlantConfig, name string, v float64) error {
	switch name {
	case "k":
		p.K = v
	case "tau":
		p.Tau = v
	case "wn":
		p.Wn = v
	case "zeta":
		p.Zeta = v
	default:
		return fmt.Errorf("%w: %s", ErrUnknownParam, name)
	}
	return nil
}

// Values returns the swept parameter values. Fewer than two steps yields
// ParamMin alone.
func (s *ParameterSweep) Values() []float64 {
	if s.NumSteps < 2 {
		return []float64{s.ParamMin}
	}
	out := make([]float64, s.NumSteps)
	step := (s.ParamMax - s.ParamMin) / float64(s.NumSteps-1)
	for i := range out {
		out[i] = s.ParamMin + float64(i)*step
	}
	return out
}

// RunSweep analyzes every swept plant concurrently.
func RunSweep(ctx context.Context, sweep *ParameterSweep, logger *slog.Logger) ([]SweepResult, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	base := sweep.Base
	if base == nil {
		base = config.DefaultConfig()
	}
	var probe config.PlantConfig
	if err := SetParam(&probe, sweep.ParamName, 0); err != nil {
		return nil, err
	}

	values := sweep.Values()
	results := make([]SweepResult, len(values))
	g, gctx := errgroup.WithContext(ctx)

	for i, v := range values {
		g.Go(func() error {
			cfg := base.Clone()
			cfg.Analyses = []string{config.AnalysisTime, config.AnalysisFrequency, config.AnalysisStability}
			_ = SetParam(&cfg.Plant, sweep.ParamName, v)

			exp := experiment.New(cfg, logger)
			if err := exp.Setup(); err != nil {
				return fmt.Errorf("%s=%.4f: %w", sweep.ParamName, v, err)
			}
			res, err := exp.Run(gctx)
			if err != nil {
				return fmt.Errorf("%s=%.4f: %w", sweep.ParamName, v, err)
			}
			results[i] = SweepResult{
				ParamValue:  v,
				Stable:      res.Stability.Stable,
				PhaseMargin: res.Frequency.Margins.PhaseMargin,
				GainMargin:  res.Frequency.Margins.GainMargin,
				Overshoot:   res.Time.Characteristics.Overshoot,
				Settling:    res.Time.Characteristics.Settling,
			}
			logger.Debug("sweep point", "param", sweep.ParamName, "value", v, "stable", res.Stability.Stable)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
