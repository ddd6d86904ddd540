package automation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/san-kum/ctrlsim/internal/dynamo"
	"github.com/san-kum/ctrlsim/internal/stability"
)

var ErrEmptyPolynomial = errors.New("automation: empty characteristic polynomial")

// MonteCarloConfig perturbs each coefficient of Den by a uniform relative
// factor in [1-Perturbation, 1+Perturbation]. A zero Seed uses the clock.
type MonteCarloConfig struct {
	Den          []float64
	Perturbation float64
	NumTrials    int
	Seed         int64
}

type MonteCarloResult struct {
	TrialID int
	Den     []float64
	Stable  bool
	// Agrees reports whether the Routh verdict matched the computed roots.
	Agrees bool
}

// RunMonteCarlo classifies perturbed polynomials with the Routh array and
// cross-checks each against its roots.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, logger *slog.Logger) ([]MonteCarloResult, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if len(cfg.Den) == 0 {
		return nil, ErrEmptyPolynomial
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	results := make([]MonteCarloResult, 0, cfg.NumTrials)
	for trial := 0; trial < cfg.NumTrials; trial++ {
		if err := ctx.Err(); err != nil {
			return results, fmt.Errorf("trial %d: %w: %w", trial, dynamo.ErrContextCanceled, err)
		}

		den := make([]float64, len(cfg.Den))
		for i, c := range cfg.Den {
			den[i] = c * (1 + (rng.Float64()-0.5)*2*cfg.Perturbation)
		}

		stable := stability.Routh(den).Stable()
		results = append(results, MonteCarloResult{
			TrialID: trial,
			Den:     den,
			Stable:  stable,
			Agrees:  stable == stability.RootsStable(den),
		})

		if (trial+1)%100 == 0 {
			logger.Debug("monte carlo progress", "done", trial+1, "of", cfg.NumTrials)
		}
	}

	return results, nil
}

// MonteCarloStats counts stable and unstable trials.
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
