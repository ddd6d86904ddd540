package automation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/ctrlsim/internal/config"
	"github.com/san-kum/ctrlsim/internal/dynamo"
	"github.com/stretchr/testify/require"
)

const scenarioYAML = `name: damping study
concurrency: 2
steps:
  - name: light
    preset: second/underdamped
    config:
      analyses: [time, stability]
  - name: heavy
    preset: second/overdamped
    save_as: heavy-run
  - name: custom
    config:
      plant:
        order: higher
        k: 1
        den: [1, 1, 2, 8]
      analyses: [stability]
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadAndRunScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	require.NoError(t, err)
	require.Equal(t, "damping study", sc.Name)
	require.Len(t, sc.Steps, 3)

	results, err := RunScenario(context.Background(), sc, nil)
	require.NoError(t, err)
	require.Len(t, results, 3)

	light := results[0]
	require.Equal(t, "light", light.Name)
	require.Equal(t, 0.5, light.Config.Plant.Zeta)
	require.NotNil(t, light.Result.Time)
	require.Nil(t, light.Result.Frequency)

	heavy := results[1]
	require.Equal(t, "heavy-run", heavy.SaveAs)
	require.NotNil(t, heavy.Result.Frequency)
	require.True(t, heavy.Result.Time.Characteristics.Overshoot.Ok())
	require.Zero(t, heavy.Result.Time.Characteristics.Overshoot.Value)

	custom := results[2]
	require.False(t, custom.Result.Stability.Stable)
	require.Equal(t, 2, custom.Result.Stability.Routh.SignChanges())
}

func TestResolve(t *testing.T) {
	step := ScenarioStep{Preset: "first/lag"}
	cfg, err := step.Resolve()
	require.NoError(t, err)
	require.Equal(t, "first", cfg.Plant.Order)

	_, err = ScenarioStep{Preset: "lag"}.Resolve()
	require.Error(t, err)
	_, err = ScenarioStep{Preset: "first/none"}.Resolve()
	require.Error(t, err)
}

func TestRunScenarioStepError(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, `steps:
  - config:
      integrator: leapfrog
`))
	require.NoError(t, err)

	_, err = RunScenario(context.Background(), sc, nil)
	require.ErrorIs(t, err, dynamo.ErrUnknownIntegrator)
	require.Contains(t, err.Error(), "step-1")
}

func TestLoadScenarioInvalid(t *testing.T) {
	_, err := LoadScenario(writeScenario(t, "steps: {"))
	require.Error(t, err)
}

func TestRunSweep(t *testing.T) {
	sweep := &ParameterSweep{
		Base:      config.GetPreset("second", "underdamped"),
		ParamName: "zeta",
		ParamMin:  0.2,
		ParamMax:  1.0,
		NumSteps:  5,
	}
	results, err := RunSweep(context.Background(), sweep, nil)
	require.NoError(t, err)
	require.Len(t, results, 5)

	for i, r := range results {
		require.True(t, r.Stable)
		if i > 0 {
			require.Greater(t, r.ParamValue, results[i-1].ParamValue)
			require.LessOrEqual(t, r.Overshoot.Value, results[i-1].Overshoot.Value+1e-9)
		}
	}
	require.InDelta(t, 1.0, results[4].ParamValue, 1e-12)
}

func TestRunSweepGainDestabilizes(t *testing.T) {
	base := config.GetPreset("higher", "triple-pole")
	sweep := &ParameterSweep{Base: base, ParamName: "k", ParamMin: 1, ParamMax: 20, NumSteps: 2}
	results, err := RunSweep(context.Background(), sweep, nil)
	require.NoError(t, err)
	// K is a forward gain here; the open-loop plant stays stable.
	require.True(t, results[0].Stable)
	require.True(t, results[1].Stable)
	require.True(t, results[0].GainMargin.Ok())
	require.Less(t, results[1].GainMargin.Value, results[0].GainMargin.Value)
}

func TestRunSweepUnknownParam(t *testing.T) {
	_, err := RunSweep(context.Background(), &ParameterSweep{ParamName: "mass", NumSteps: 3}, nil)
	require.ErrorIs(t, err, ErrUnknownParam)
}

func TestSweepValues(t *testing.T) {
	require.Equal(t, []float64{2}, (&ParameterSweep{ParamMin: 2, ParamMax: 5, NumSteps: 1}).Values())
	require.Equal(t, []float64{0, 0.5, 1}, (&ParameterSweep{ParamMin: 0, ParamMax: 1, NumSteps: 3}).Values())
}

func TestRunMonteCarlo(t *testing.T) {
	cfg := &MonteCarloConfig{Den: []float64{1, 3, 3, 1}, Perturbation: 0.1, NumTrials: 200, Seed: 7}
	results, err := RunMonteCarlo(context.Background(), cfg, nil)
	require.NoError(t, err)
	require.Len(t, results, 200)

	stable, unstable := MonteCarloStats(results)
	require.Equal(t, 200, stable)
	require.Zero(t, unstable)
	for _, r := range results {
		require.True(t, r.Agrees)
	}
}

func TestRunMonteCarloMixed(t *testing.T) {
	// s³+s²+s+1 is marginal; perturbations fall on both sides.
	cfg := &MonteCarloConfig{Den: []float64{1, 1, 1, 1}, Perturbation: 0.2, NumTrials: 300, Seed: 11}
	results, err := RunMonteCarlo(context.Background(), cfg, nil)
	require.NoError(t, err)

	stable, unstable := MonteCarloStats(results)
	require.Positive(t, stable)
	require.Positive(t, unstable)
}

func TestRunMonteCarloErrors(t *testing.T) {
	_, err := RunMonteCarlo(context.Background(), &MonteCarloConfig{NumTrials: 1}, nil)
	require.ErrorIs(t, err, ErrEmptyPolynomial)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, err := RunMonteCarlo(ctx, &MonteCarloConfig{Den: []float64{1, 1}, NumTrials: 5, Seed: 1}, nil)
	require.True(t, errors.Is(err, dynamo.ErrContextCanceled))
	require.Empty(t, results)
}
