package freqresp

import "github.com/san-kum/ctrlsim/internal/plant"

// Result is a full sweep of one plant.
type Result struct {
	Range   Range
	Samples []Sample
	Margins Margins
}

// Analyze sweeps p over r after normalizing it.
func Analyze(p plant.Plant, r Range) Result {
	r = r.Normalize()
	freqs := r.Grid()
	samples := Response(p, freqs)
	// Lengths match by construction.
	m, _ := StabilityMargins(freqs, samples)
	return Result{Range: r, Samples: samples, Margins: m}
}
