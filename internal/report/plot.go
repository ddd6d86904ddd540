package report

import (
	"math"
	"strconv"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/ctrlsim/internal/freqresp"
	"github.com/san-kum/ctrlsim/internal/rootlocus"
)

const (
	plotWidth  = 72
	plotHeight = 12
)

// finite replaces non-finite samples with NaN, which asciigraph leaves
// blank.
func finite(v []float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		if math.IsInf(x, 0) {
			x = math.NaN()
		}
		out[i] = x
	}
	return out
}

func plottable(v []float64) bool {
	for _, x := range v {
		if !math.IsNaN(x) && !math.IsInf(x, 0) {
			return true
		}
	}
	return false
}

// TimePlot draws y and the reference input u against the sample index.
func TimePlot(t, y, u []float64) string {
	if !plottable(y) {
		return ""
	}
	caption := "y(t) and input"
	if len(t) > 0 {
		caption += " over 0.." + trimFloat(t[len(t)-1]) + " s"
	}
	data := [][]float64{finite(y)}
	if len(u) > 0 {
		data = append(data, finite(u))
	}
	return asciigraph.PlotMany(data,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Precision(3),
		asciigraph.SeriesColors(asciigraph.Cyan, asciigraph.DarkGray),
		asciigraph.SeriesLegends("y", "input"),
		asciigraph.Caption(caption),
	)
}

// BodePlot draws the magnitude in dB over the log-spaced grid.
func BodePlot(samples []freqresp.Sample) string {
	if len(samples) == 0 {
		return ""
	}
	mag := make([]float64, len(samples))
	for i, s := range samples {
		mag[i] = s.MagnitudeDB()
	}
	lo, hi := samples[0].Frequency, samples[len(samples)-1].Frequency
	return asciigraph.Plot(finite(mag),
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Precision(1),
		asciigraph.Caption("|G(jω)| dB, "+trimFloat(lo)+".."+trimFloat(hi)+" rad/s (log)"),
	)
}

// LocusPlot draws the real part of every branch against gain.
func LocusPlot(l *rootlocus.Locus) string {
	if len(l.Branches) == 0 {
		return ""
	}
	series := make([][]float64, 0, len(l.Branches))
	for b := range l.Branches {
		re := make([]float64, len(l.Samples))
		for k := range l.Samples {
			if z, ok := l.Point(b, k); ok {
				re[k] = real(z)
			} else {
				re[k] = math.NaN()
			}
		}
		series = append(series, re)
	}
	return asciigraph.PlotMany(series,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Precision(2),
		asciigraph.Caption("Re(pole) per branch vs gain "+trimFloat(l.Range.KMin)+".."+trimFloat(l.Range.KMax)),
	)
}

// Sparkline renders values as a one-line bar chart of at most width cells.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	rng := hi - lo
	if rng <= 0 || math.IsInf(rng, 0) || math.IsNaN(rng) {
		rng = 1
	}

	step := len(values) / width
	if step < 1 {
		step = 1
	}
	var sb strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		v := values[i*step]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			sb.WriteRune(' ')
			continue
		}
		idx := int((v - lo) / rng * float64(len(chars)-1))
		idx = max(0, min(idx, len(chars)-1))
		sb.WriteRune(chars[idx])
	}
	return sb.String()
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}
