package experiment

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/ctrlsim/internal/config"
	"github.com/san-kum/ctrlsim/internal/dynamo"
	"github.com/san-kum/ctrlsim/internal/freqresp"
	"github.com/san-kum/ctrlsim/internal/integrators"
	"github.com/san-kum/ctrlsim/internal/rootlocus"
	"github.com/san-kum/ctrlsim/internal/stability"
	"github.com/san-kum/ctrlsim/internal/timeresp"
)

// Analysis fills its part of res. Each analysis writes only its own field,
// so analyses may run concurrently.
type Analysis func(ctx context.Context, e *Experiment, res *Result) error

type Registry struct {
	integrators map[string]func() dynamo.Integrator
	analyses    map[string]Analysis
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func() dynamo.Integrator),
		analyses:    make(map[string]Analysis),
	}

	for _, name := range integrators.Names() {
		r.integrators[name] = func() dynamo.Integrator {
			integ, _ := integrators.New(name)
			return integ
		}
	}

	r.analyses[config.AnalysisTime] = runTime
	r.analyses[config.AnalysisFrequency] = runFrequency
	r.analyses[config.AnalysisLocus] = runLocus
	r.analyses[config.AnalysisStability] = runStability

	return r
}

// GetIntegrator returns a fresh integrator. Names are matched without case
// or surrounding space; the empty name selects integrators.Default.
func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = integrators.Default
	}
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", dynamo.ErrUnknownIntegrator, name)
	}
	return fn(), nil
}

func (r *Registry) GetAnalysis(name string) (Analysis, error) {
	fn, ok := r.analyses[name]
	if !ok {
		return nil, fmt.Errorf("unknown analysis: %s", name)
	}
	return fn, nil
}

// Register adds or replaces an analysis.
func (r *Registry) Register(name string, a Analysis) {
	r.analyses[name] = a
}

func (r *Registry) ListIntegrators() []string {
	return sortedKeys(r.integrators)
}

func (r *Registry) ListAnalyses() []string {
	return sortedKeys(r.analyses)
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func runTime(ctx context.Context, e *Experiment, res *Result) error {
	y, err := timeresp.ResponseContext(ctx, e.plant, e.input, e.grid, e.integ)
	if err != nil {
		return err
	}
	ch, err := timeresp.Analyze(e.grid, y, e.input.Kind)
	if err != nil {
		return err
	}
	res.Time = &TimeResult{
		Input:           e.input,
		T:               e.grid,
		Y:               y,
		Signal:          e.input.Signal(e.grid),
		Characteristics: ch,
		DCGain:          timeresp.DCGain(e.plant),
	}
	return nil
}

func runFrequency(_ context.Context, e *Experiment, res *Result) error {
	fr := freqresp.Analyze(e.plant, e.freq)
	res.Frequency = &fr
	return nil
}

func runLocus(ctx context.Context, e *Experiment, res *Result) error {
	l, err := rootlocus.ForPlant(ctx, e.plant, e.locus)
	if err != nil {
		return err
	}
	res.Locus = l
	return nil
}

func runStability(_ context.Context, e *Experiment, res *Result) error {
	s := stability.Summarize(e.plant)
	res.Stability = &s
	return nil
}
