package storage

import (
	"github.com/san-kum/ctrlsim/internal/dynamo"
	"github.com/san-kum/ctrlsim/internal/experiment"
	"github.com/san-kum/ctrlsim/internal/freqresp"
	"github.com/san-kum/ctrlsim/internal/timeresp"
)

// Metrics flattens the scalar results of res. Metrics that were not
// applicable or not found are omitted, as are NaN and ±Inf values, which
// JSON cannot carry.
func Metrics(res *experiment.Result) map[string]float64 {
	m := make(map[string]float64)
	put := func(name string, v float64) {
		if (dynamo.State{v}).IsValid() {
			m[name] = v
		}
	}
	if tr := res.Time; tr != nil {
		ch := tr.Characteristics
		for name, v := range map[string]timeresp.Metric{
			"delay_time":         ch.Delay,
			"rise_time":          ch.Rise,
			"peak_time":          ch.Peak,
			"overshoot_pct":      ch.Overshoot,
			"settling_time":      ch.Settling,
			"steady_state":       ch.SteadyState,
			"steady_state_error": ch.SteadyStateError,
			"final_error":        ch.FinalError,
		} {
			if v.Ok() {
				put(name, v.Value)
			}
		}
		put("dc_gain", tr.DCGain)
	}
	if fr := res.Frequency; fr != nil {
		mg := fr.Margins
		for name, v := range map[string]freqresp.Measure{
			"gain_crossover":  mg.GainCrossover,
			"phase_margin":    mg.PhaseMargin,
			"phase_crossover": mg.PhaseCrossover,
			"gain_margin_db":  mg.GainMargin,
			"bandwidth":       mg.Bandwidth,
		} {
			if v.Ok() {
				put(name, v.Value)
			}
		}
		put("resonant_peak_db", mg.ResonantPeak)
	}
	if l := res.Locus; l != nil {
		if k, ok := l.FirstUnstableGain(); ok {
			put("first_unstable_gain", k)
		}
	}
	if st := res.Stability; st != nil {
		m["stable"] = 0
		if st.Stable {
			m["stable"] = 1
		}
	}
	return m
}
