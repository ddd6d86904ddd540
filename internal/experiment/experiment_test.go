package experiment

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/ctrlsim/internal/config"
	"github.com/san-kum/ctrlsim/internal/dynamo"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, cfg *config.Config, logger *slog.Logger) *Experiment {
	t.Helper()
	e := New(cfg, logger)
	require.NoError(t, e.Setup())
	return e
}

func TestRunAllAnalyses(t *testing.T) {
	e := setup(t, config.DefaultConfig(), nil)

	res, err := e.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, res.Time)
	require.NotNil(t, res.Frequency)
	require.NotNil(t, res.Locus)
	require.NotNil(t, res.Stability)

	require.Len(t, res.Time.Y, len(res.Time.T))
	require.Len(t, res.Time.Signal, len(res.Time.T))
	require.InDelta(t, 16.3, res.Time.Characteristics.Overshoot.Value, 0.5)
	require.True(t, res.Stability.Stable)
	require.InDelta(t, 4.0, res.ZPK.Gain, 1e-12)
	require.Equal(t, 2, res.Locus.InitialBranches())
}

func TestRunSelectedAnalyses(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Analyses = []string{config.AnalysisStability, config.AnalysisStability}

	res, err := setup(t, cfg, nil).Run(context.Background())
	require.NoError(t, err)
	require.Nil(t, res.Time)
	require.Nil(t, res.Frequency)
	require.Nil(t, res.Locus)
	require.NotNil(t, res.Stability)
}

func TestSetupRepairsAndWarns(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	cfg := config.DefaultConfig()
	cfg.Plant = config.PlantConfig{Order: "higher", K: 1}
	cfg.Frequency.Min = -1
	cfg.Locus.KMin = 5
	cfg.Locus.KMax = 1

	e := setup(t, cfg, logger)
	require.Equal(t, 0.1, e.freq.Min)
	require.Equal(t, 1000.0, e.freq.Max)
	require.Equal(t, 60.0, e.locus.KMax)

	out := buf.String()
	require.Contains(t, out, "empty denominator replaced")
	require.Contains(t, out, "frequency range repaired")
	require.Contains(t, out, "gain range repaired")
}

func TestSetupErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   error
	}{
		{"order", func(c *config.Config) { c.Plant.Order = "fifth" }, nil},
		{"input", func(c *config.Config) { c.Input.Kind = "square" }, dynamo.ErrUnknownInput},
		{"grid", func(c *config.Config) { c.Time.Step = 0 }, nil},
		{"integrator", func(c *config.Config) { c.Integrator = "leapfrog" }, dynamo.ErrUnknownIntegrator},
		{"analysis", func(c *config.Config) { c.Analyses = []string{"nyquist"} }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tt.mutate(cfg)
			err := New(cfg, nil).Setup()
			require.Error(t, err)
			if tt.want != nil {
				require.True(t, errors.Is(err, tt.want), "got %v", err)
			}
		})
	}
}

func TestRunWithoutSetup(t *testing.T) {
	_, err := New(config.DefaultConfig(), nil).Run(context.Background())
	require.ErrorIs(t, err, ErrNotSetup)
}

func TestRunCanceled(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Analyses = []string{config.AnalysisLocus}
	e := setup(t, cfg, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.Run(ctx)
	require.Error(t, err)
	require.True(t, strings.HasPrefix(err.Error(), "locus"))
}

func TestNewCopiesConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	e := New(cfg, nil)
	cfg.Plant.Wn = 100
	require.NoError(t, e.Setup())
	res, err := e.Run(context.Background())
	require.NoError(t, err)
	require.InDelta(t, 4.0, res.ZPK.Gain, 1e-12)
}

func TestHigherOrderPipeline(t *testing.T) {
	cfg := config.GetPreset("higher", "unstable")
	res, err := setup(t, cfg, nil).Run(context.Background())
	require.NoError(t, err)
	require.False(t, res.Stability.Stable)
	require.NotNil(t, res.Stability.Routh)
	require.Equal(t, 2, res.Stability.Routh.SignChanges())
	for _, y := range res.Time.Y {
		require.False(t, math.IsNaN(y))
	}
}

func TestIntegratorNameNormalized(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"RK4", " rk4 ", "Rk4"} {
		integ, err := r.GetIntegrator(name)
		require.NoError(t, err, name)
		require.Equal(t, "rk4", integ.Name())
	}

	_, err := r.GetIntegrator("rk5")
	require.ErrorIs(t, err, dynamo.ErrUnknownIntegrator)

	cfg := config.GetPreset("higher", "triple-pole")
	cfg.Integrator = "RK4"
	setup(t, cfg, nil)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	require.Equal(t, []string{"euler", "midpoint", "rk2", "rk4"}, r.ListIntegrators())
	require.ElementsMatch(t, config.AllAnalyses, r.ListAnalyses())

	integ, err := r.GetIntegrator("")
	require.NoError(t, err)
	require.Equal(t, "rk2", integ.Name())

	called := false
	r.Register("custom", func(context.Context, *Experiment, *Result) error {
		called = true
		return nil
	})
	cfg := config.DefaultConfig()
	cfg.Analyses = []string{"custom"}
	e := New(cfg, nil).WithRegistry(r)
	require.NoError(t, e.Setup())
	_, err = e.Run(context.Background())
	require.NoError(t, err)
	require.True(t, called)
}
