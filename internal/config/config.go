package config

import (
	"fmt"
	"os"

	"github.com/san-kum/ctrlsim/internal/freqresp"
	"github.com/san-kum/ctrlsim/internal/plant"
	"github.com/san-kum/ctrlsim/internal/rootlocus"
	"github.com/san-kum/ctrlsim/internal/timeresp"
	"gopkg.in/yaml.v3"
)

// Analysis names accepted in Config.Analyses.
const (
	AnalysisTime      = "time"
	AnalysisFrequency = "frequency"
	AnalysisLocus     = "locus"
	AnalysisStability = "stability"
)

// AllAnalyses is the order in which results are reported.
var AllAnalyses = []string{AnalysisTime, AnalysisFrequency, AnalysisLocus, AnalysisStability}

// DefaultDen is the higher-order denominator used when none is configured.
var DefaultDen = []float64{1, 3, 3, 1}

type Config struct {
	Plant      PlantConfig     `yaml:"plant"`
	Input      InputConfig     `yaml:"input"`
	Time       TimeConfig      `yaml:"time"`
	Frequency  freqresp.Range  `yaml:"frequency"`
	Locus      rootlocus.Range `yaml:"locus"`
	Integrator string          `yaml:"integrator"`
	Analyses   []string        `yaml:"analyses,omitempty"`
}

// PlantConfig describes a plant. Only the fields of Order are used.
type PlantConfig struct {
	Order string    `yaml:"order"`
	K     float64   `yaml:"k"`
	Tau   float64   `yaml:"tau,omitempty"`
	Wn    float64   `yaml:"wn,omitempty"`
	Zeta  float64   `yaml:"zeta,omitempty"`
	Num   []float64 `yaml:"num,omitempty,flow"`
	Den   []float64 `yaml:"den,omitempty,flow"`
}

type InputConfig struct {
	Kind string  `yaml:"kind"`
	Freq float64 `yaml:"freq,omitempty"`
	Amp  float64 `yaml:"amp,omitempty"`
}

type TimeConfig struct {
	Horizon float64 `yaml:"horizon"`
	Step    float64 `yaml:"step"`
}

// DefaultConfig returns an underdamped second-order plant with every
// analysis enabled. The locus range is left zero, meaning 0..max(50, K).
func DefaultConfig() *Config {
	return &Config{
		Plant: PlantConfig{
			Order: plant.OrderSecond.String(),
			K:     1.0,
			Tau:   1.0,
			Wn:    2.0,
			Zeta:  0.5,
			Num:   []float64{1},
			Den:   append([]float64(nil), DefaultDen...),
		},
		Input:      InputConfig{Kind: timeresp.Step.String(), Freq: 1.0, Amp: 1.0},
		Time:       TimeConfig{Horizon: timeresp.DefaultHorizon, Step: timeresp.DefaultStep},
		Frequency:  freqresp.DefaultRange(),
		Integrator: "rk2",
		Analyses:   append([]string(nil), AllAnalyses...),
	}
}

// Load reads a YAML file over DefaultConfig, so omitted fields keep their
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Plant.Num = append([]float64(nil), c.Plant.Num...)
	out.Plant.Den = append([]float64(nil), c.Plant.Den...)
	out.Analyses = append([]string(nil), c.Analyses...)
	return &out
}

// Enabled reports whether analysis name should run. An empty list enables
// all of them.
func (c *Config) Enabled(name string) bool {
	if len(c.Analyses) == 0 {
		return true
	}
	for _, a := range c.Analyses {
		if a == name {
			return true
		}
	}
	return false
}

// Build converts the descriptor into a plant.
func (p PlantConfig) Build() (plant.Plant, error) {
	order, err := plant.ParseOrder(p.Order)
	if err != nil {
		return nil, err
	}
	switch order {
	case plant.OrderFirst:
		return plant.FirstOrder{K: p.K, Tau: p.Tau}, nil
	case plant.OrderSecond:
		return plant.SecondOrder{K: p.K, Wn: p.Wn, Zeta: p.Zeta}, nil
	}
	h := plant.HigherOrder{
		K:   p.K,
		Num: append([]float64(nil), p.Num...),
		Den: append([]float64(nil), p.Den...),
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}
	return h, nil
}

// Input converts the input section. Zero sinusoid parameters default to 1.
func (in InputConfig) Input() (timeresp.Input, error) {
	kind, err := timeresp.ParseKind(in.Kind)
	if err != nil {
		return timeresp.Input{}, err
	}
	out := timeresp.NewInput(kind)
	if in.Freq != 0 {
		out.Freq = in.Freq
	}
	if in.Amp != 0 {
		out.Amp = in.Amp
	}
	return out, nil
}

// Grid returns the configured time grid.
func (t TimeConfig) Grid() ([]float64, error) {
	return timeresp.Grid(t.Horizon, t.Step)
}

// LocusRange returns the configured gain sweep, substituting
// rootlocus.DefaultRange(k) when no bounds were given.
func (c *Config) LocusRange() rootlocus.Range {
	r := c.Locus
	if r.KMin == 0 && r.KMax == 0 {
		steps := r.Steps
		r = rootlocus.DefaultRange(c.Plant.K)
		if steps > 0 {
			r.Steps = steps
		}
	}
	return r
}
