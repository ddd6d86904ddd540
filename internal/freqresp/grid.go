// Package freqresp evaluates plants along the imaginary axis and extracts
// Bode margins, bandwidth, resonant peak and corner frequencies.
package freqresp

import "math"

const (
	DefaultMin             = 0.1
	DefaultMax             = 1000.0
	DefaultPointsPerDecade = 50
)

// Range is a logarithmic sweep [Min, Max] rad/s.
type Range struct {
	Min             float64 `yaml:"min" json:"min"`
	Max             float64 `yaml:"max" json:"max"`
	PointsPerDecade int     `yaml:"points_per_decade" json:"points_per_decade"`
}

func DefaultRange() Range {
	return Range{Min: DefaultMin, Max: DefaultMax, PointsPerDecade: DefaultPointsPerDecade}
}

// Normalize repairs a user-entered range: a non-finite or non-positive Min
// becomes DefaultMin, a Max not above Min becomes Min·1000, and a
// non-positive density becomes DefaultPointsPerDecade.
func (r Range) Normalize() Range {
	if !finitePositive(r.Min) {
		r.Min = DefaultMin
	}
	if math.IsNaN(r.Max) || math.IsInf(r.Max, 0) || r.Max <= r.Min {
		r.Max = r.Min * 1000
	}
	if r.PointsPerDecade <= 0 {
		r.PointsPerDecade = DefaultPointsPerDecade
	}
	return r
}

// Grid returns the sweep of r. See [Grid].
func (r Range) Grid() []float64 {
	return Grid(r.Min, r.Max, r.PointsPerDecade)
}

// Grid returns max(2, ceil(decades·pointsPerDecade)) frequencies evenly
// spaced in log10 from lo to hi inclusive. A non-positive lo becomes 0.1,
// a hi not above lo becomes max(10·lo, lo+1), and a non-positive density
// becomes 50.
func Grid(lo, hi float64, pointsPerDecade int) []float64 {
	if !finitePositive(lo) {
		lo = DefaultMin
	}
	if math.IsNaN(hi) || math.IsInf(hi, 0) || hi <= lo {
		hi = math.Max(lo*10, lo+1)
	}
	if pointsPerDecade <= 0 {
		pointsPerDecade = DefaultPointsPerDecade
	}

	logMin, logMax := math.Log10(lo), math.Log10(hi)
	n := int(math.Ceil((logMax-logMin)*float64(pointsPerDecade) - 1e-9))
	if n < 2 {
		n = 2
	}

	freqs := make([]float64, n)
	for i := range freqs {
		frac := float64(i) / float64(n-1)
		freqs[i] = math.Pow(10, logMin+frac*(logMax-logMin))
	}
	// Pin the endpoints against rounding in Pow.
	freqs[0], freqs[n-1] = lo, hi
	return freqs
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
