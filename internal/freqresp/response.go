package freqresp

import (
	"math"

	"github.com/san-kum/ctrlsim/internal/plant"
	"github.com/san-kum/ctrlsim/internal/poly"
)

// MagFloor is the magnitude substituted for zero before taking logarithms.
const MagFloor = 1e-12

// Sample is G(jω) at one frequency. Phase is in degrees and unwrapped along
// the sweep, so it can run past ±180.
type Sample struct {
	Frequency float64 `json:"frequency"`
	Magnitude float64 `json:"magnitude"`
	Phase     float64 `json:"phase"`
	Real      float64 `json:"real"`
	Imag      float64 `json:"imag"`
}

// MagnitudeDB returns 20·log10 of the magnitude, floored at MagFloor.
func (s Sample) MagnitudeDB() float64 {
	return db(s.Magnitude)
}

func db(m float64) float64 {
	return 20 * math.Log10(math.Max(m, MagFloor))
}

// Response evaluates p at s = jω for each frequency. A degenerate
// denominator at some ω gives a zero sample there.
func Response(p plant.Plant, freqs []float64) []Sample {
	num, den := p.TransferFunction()
	out := make([]Sample, len(freqs))
	prev := 0.0
	for i, w := range freqs {
		s := complex(0, w)
		g := poly.Div(poly.Eval(num, s), poly.Eval(den, s))
		phase := poly.Phase(g) * 180 / math.Pi
		if i > 0 {
			phase = unwrap(prev, phase)
		}
		prev = phase
		out[i] = Sample{
			Frequency: w,
			Magnitude: poly.Abs(g),
			Phase:     phase,
			Real:      real(g),
			Imag:      imag(g),
		}
	}
	return out
}

// unwrap shifts phase by whole turns to lie within 180° of prev.
func unwrap(prev, phase float64) float64 {
	for phase-prev > 180 {
		phase -= 360
	}
	for phase-prev < -180 {
		phase += 360
	}
	return phase
}
