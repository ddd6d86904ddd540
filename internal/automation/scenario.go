package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/san-kum/ctrlsim/internal/config"
	"github.com/san-kum/ctrlsim/internal/experiment"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// Scenario is a batch of analyses read from YAML.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Concurrency int            `yaml:"concurrency"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep starts from DefaultConfig, or from Preset ("order/name")
// when set, and decodes Config over it.
type ScenarioStep struct {
	Name   string    `yaml:"name"`
	Preset string    `yaml:"preset"`
	Config yaml.Node `yaml:"config"`
	SaveAs string    `yaml:"save_as"`
}

// StepResult pairs a step with its effective configuration and result.
type StepResult struct {
	Index  int
	Name   string
	SaveAs string
	Config *config.Config
	Result *experiment.Result
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}

	return &scenario, nil
}

// Resolve returns the configuration a step runs with.
func (s ScenarioStep) Resolve() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		order, name, ok := strings.Cut(s.Preset, "/")
		if !ok {
			return nil, fmt.Errorf("preset %q: want order/name", s.Preset)
		}
		if cfg = config.GetPreset(order, name); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", s.Preset, config.ListPresets(order))
		}
	}
	if !s.Config.IsZero() {
		if err := s.Config.Decode(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// RunScenario runs the steps concurrently, at most Concurrency at a time
// (GOMAXPROCS when unset). Results keep step order. The first failing step
// cancels the rest.
func RunScenario(ctx context.Context, scenario *Scenario, logger *slog.Logger) ([]StepResult, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	limit := scenario.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	results := make([]StepResult, len(scenario.Steps))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, step := range scenario.Steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step-%d", i+1)
		}
		g.Go(func() error {
			cfg, err := step.Resolve()
			if err != nil {
				return fmt.Errorf("step %d (%s): %w", i+1, name, err)
			}
			log := logger.With("scenario", scenario.Name, "step", name)
			log.Info("running step", "index", i+1, "of", len(scenario.Steps))

			exp := experiment.New(cfg, log)
			if err := exp.Setup(); err != nil {
				return fmt.Errorf("step %d (%s) setup: %w", i+1, name, err)
			}
			res, err := exp.Run(gctx)
			if err != nil {
				return fmt.Errorf("step %d (%s) run: %w", i+1, name, err)
			}
			results[i] = StepResult{Index: i, Name: name, SaveAs: step.SaveAs, Config: cfg, Result: res}
			log.Debug("step finished", "elapsed", res.Elapsed)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
