package freqresp

import (
	"fmt"
	"math"

	"github.com/san-kum/ctrlsim/internal/dynamo"
)

const (
	// cornerSlopeChange is the change in dB/decade between adjacent
	// segments that marks a corner.
	cornerSlopeChange = 10.0
	maxCorners        = 5
	// wellDampedPM is the phase margin in degrees above which the closed
	// loop is described as well damped.
	wellDampedPM = 45.0
)

type Status int

const (
	Found Status = iota
	// NotFoundInRange means the defining crossing did not occur inside the
	// sweep. It says nothing about frequencies outside the sweep.
	NotFoundInRange
)

func (s Status) String() string {
	if s == Found {
		return "found"
	}
	return "not found in range"
}

// Measure is a value whose defining event may be absent from the sweep.
type Measure struct {
	Value  float64
	Status Status
}

func (m Measure) Ok() bool { return m.Status == Found }

var missing = Measure{Status: NotFoundInRange}

// Margins holds the Bode stability figures of a sweep. Crossovers report the
// frequency of the sample just before the crossing; no interpolation is done.
type Margins struct {
	GainCrossover Measure // rad/s, |G| crosses 1 from above
	PhaseMargin   Measure // degrees
	// PhaseCrossover is where the phase crosses -180° from above. When it is
	// missing GainMargin is reported as +Inf with NotFoundInRange: the sweep
	// never reached -180°, which is not a proof of infinite margin.
	PhaseCrossover Measure
	GainMargin     Measure // dB
	Bandwidth      Measure // rad/s, first sample at or below DC/√2
	ResonantPeak   float64 // dB
	Corners        []float64
	// Damping interprets the phase margin; empty without a gain crossover.
	Damping string
}

// StabilityMargins extracts margins from a sweep. freqs and resp must have
// the same length.
func StabilityMargins(freqs []float64, resp []Sample) (Margins, error) {
	if len(freqs) != len(resp) {
		return Margins{}, fmt.Errorf("%w: %d frequencies, %d samples", dynamo.ErrDimensionMismatch, len(freqs), len(resp))
	}
	m := Margins{
		GainCrossover:  missing,
		PhaseMargin:    missing,
		PhaseCrossover: missing,
		GainMargin:     Measure{Value: math.Inf(1), Status: NotFoundInRange},
		Bandwidth:      missing,
		Corners:        []float64{},
	}
	if len(resp) == 0 {
		m.ResonantPeak = db(0)
		return m, nil
	}

	for i := 0; i < len(resp)-1; i++ {
		if resp[i].Magnitude >= 1 && resp[i+1].Magnitude <= 1 {
			m.GainCrossover = Measure{Value: freqs[i]}
			m.PhaseMargin = Measure{Value: 180 + resp[i].Phase}
			break
		}
	}

	for i := 0; i < len(resp)-1; i++ {
		if resp[i].Phase >= -180 && resp[i+1].Phase <= -180 {
			m.PhaseCrossover = Measure{Value: freqs[i]}
			gm := math.Inf(1)
			if resp[i].Magnitude > MagFloor {
				gm = 20 * math.Log10(1/resp[i].Magnitude)
			}
			m.GainMargin = Measure{Value: gm}
			break
		}
	}

	target := resp[0].Magnitude / math.Sqrt2
	for i := range resp {
		if resp[i].Magnitude <= target {
			m.Bandwidth = Measure{Value: freqs[i]}
			break
		}
	}

	peak := 0.0
	for _, s := range resp {
		peak = math.Max(peak, s.Magnitude)
	}
	m.ResonantPeak = db(peak)
	m.Corners = corners(freqs, resp)

	if m.PhaseMargin.Ok() {
		m.Damping = "moderately damped"
		if m.PhaseMargin.Value > wellDampedPM {
			m.Damping = "well-damped"
		}
	}
	return m, nil
}

// corners compares the dB/decade slope of consecutive segments and reports
// the middle frequency where it changes by more than cornerSlopeChange.
func corners(freqs []float64, resp []Sample) []float64 {
	out := []float64{}
	for i := 1; i < len(resp)-1 && len(out) < maxCorners; i++ {
		s1 := slope(freqs[i-1], freqs[i], resp[i-1].MagnitudeDB(), resp[i].MagnitudeDB())
		s2 := slope(freqs[i], freqs[i+1], resp[i].MagnitudeDB(), resp[i+1].MagnitudeDB())
		if math.Abs(s1-s2) > cornerSlopeChange {
			out = append(out, freqs[i])
		}
	}
	return out
}

func slope(w0, w1, m0, m1 float64) float64 {
	d := math.Log10(w1) - math.Log10(w0)
	if d == 0 {
		return 0
	}
	return (m1 - m0) / d
}
