package rootlocus

import "math"

const (
	DefaultSteps = 200
	MinSteps     = 10
	MaxSteps     = 2000
	// minSpan is the smallest gain span used when a range must be repaired.
	minSpan = 50.0
)

// Range is the gain sweep KMin..KMax in Steps equal increments, so a sweep
// has Steps+1 samples.
type Range struct {
	KMin  float64 `yaml:"k_min" json:"k_min"`
	KMax  float64 `yaml:"k_max" json:"k_max"`
	Steps int     `yaml:"steps" json:"steps"`
}

// DefaultRange sweeps from 0 to max(50, k).
func DefaultRange(k float64) Range {
	return Range{KMin: 0, KMax: math.Max(minSpan, k), Steps: DefaultSteps}
}

// Normalize repairs a range: a non-finite KMin becomes 0, a KMax not above
// KMin becomes KMin + max(50, |KMin|+50), Steps of 4 or fewer becomes
// DefaultSteps and anything else is clamped to [MinSteps, MaxSteps].
func (r Range) Normalize() Range {
	if math.IsNaN(r.KMin) || math.IsInf(r.KMin, 0) {
		r.KMin = 0
	}
	if math.IsNaN(r.KMax) || math.IsInf(r.KMax, 0) || r.KMax <= r.KMin {
		r.KMax = r.KMin + math.Max(minSpan, math.Abs(r.KMin)+minSpan)
	}
	switch {
	case r.Steps <= 4:
		r.Steps = DefaultSteps
	case r.Steps < MinSteps:
		r.Steps = MinSteps
	case r.Steps > MaxSteps:
		r.Steps = MaxSteps
	}
	return r
}

// Gain returns the i-th sampled gain.
func (r Range) Gain(i int) float64 {
	return r.KMin + float64(i)/float64(r.Steps)*(r.KMax-r.KMin)
}
