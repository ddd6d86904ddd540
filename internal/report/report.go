package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/ctrlsim/internal/experiment"
	"github.com/san-kum/ctrlsim/internal/freqresp"
	"github.com/san-kum/ctrlsim/internal/plant"
	"github.com/san-kum/ctrlsim/internal/poly"
	"github.com/san-kum/ctrlsim/internal/rootlocus"
	"github.com/san-kum/ctrlsim/internal/stability"
	"github.com/san-kum/ctrlsim/internal/timeresp"
)

// Renderer formats results with one set of styles.
type Renderer struct {
	s Styles
}

func New(theme Theme) *Renderer {
	return &Renderer{s: NewStyles(theme)}
}

func (r *Renderer) Title(text string) string {
	return r.s.Header.Render(r.s.Title.Render(text))
}

func (r *Renderer) row(label, value string) string {
	return r.s.Label.Render(label) + r.s.Value.Render(value)
}

func (r *Renderer) verdict(stable bool, text string) string {
	if stable {
		return r.s.Good.Render(text)
	}
	return r.s.Bad.Render(text)
}

// Plant renders the transfer function, ZPK factors and closed loop.
func (r *Renderer) Plant(p plant.Plant) string {
	num, den := p.TransferFunction()
	z := plant.Factor(p)
	rows := []string{
		r.row("order", p.Order().String()),
		r.row("G(s)", fmt.Sprintf("(%s) / (%s)", poly.String(num, "s"), poly.String(den, "s"))),
		r.row("gain", fmt.Sprintf("%.4g", z.Gain)),
		r.row("poles", complexList(z.Poles)),
		r.row("zeros", complexList(z.Zeros)),
	}
	if len(z.Corners) > 0 {
		rows = append(rows, r.row("corners (rad/s)", floatList(z.Corners)))
	}
	cl := plant.Close(p)
	rows = append(rows,
		r.row("closed loop D+KN", poly.String(cl.Char, "s")),
		r.row("closed-loop poles", complexList(cl.Poles())),
	)
	return r.s.Panel.Render(strings.Join(rows, "\n"))
}

// Characteristics renders the time-domain metrics that apply to the input.
func (r *Renderer) Characteristics(c timeresp.Characteristics) string {
	metrics := []struct {
		label string
		m     timeresp.Metric
		unit  string
	}{
		{"delay time", c.Delay, "s"},
		{"rise time", c.Rise, "s"},
		{"peak time", c.Peak, "s"},
		{"overshoot", c.Overshoot, "%"},
		{"settling time", c.Settling, "s"},
		{"steady state", c.SteadyState, ""},
		{"steady-state error", c.SteadyStateError, ""},
		{"final error", c.FinalError, ""},
	}
	rows := []string{r.row("input", c.Input.String())}
	for _, m := range metrics {
		if m.m.Status == timeresp.NotApplicable {
			continue
		}
		if !m.m.Ok() {
			rows = append(rows, r.s.Label.Render(m.label)+r.s.Muted.Render(m.m.String()))
			continue
		}
		rows = append(rows, r.row(m.label, m.m.String()+m.unit))
	}
	return r.s.Panel.Render(strings.Join(rows, "\n"))
}

// Margins renders the Bode stability figures.
func (r *Renderer) Margins(m freqresp.Margins) string {
	measure := func(label string, v freqresp.Measure, format string) string {
		if !v.Ok() {
			return r.s.Label.Render(label) + r.s.Muted.Render(v.Status.String())
		}
		return r.row(label, fmt.Sprintf(format, v.Value))
	}
	rows := []string{
		measure("gain crossover", m.GainCrossover, "%.3f rad/s"),
		measure("phase margin", m.PhaseMargin, "%.2f°"),
		measure("phase crossover", m.PhaseCrossover, "%.3f rad/s"),
		measure("gain margin", m.GainMargin, "%.2f dB"),
		measure("bandwidth", m.Bandwidth, "%.3f rad/s"),
		r.row("resonant peak", fmt.Sprintf("%.2f dB", m.ResonantPeak)),
	}
	if len(m.Corners) > 0 {
		rows = append(rows, r.row("corners (rad/s)", floatList(m.Corners)))
	}
	if m.Damping != "" {
		rows = append(rows, r.row("damping", m.Damping))
	}
	return r.s.Panel.Render(strings.Join(rows, "\n"))
}

// Routh renders the array with a power column and the verdict.
func (r *Renderer) Routh(t stability.Table) string {
	if len(t.Rows) == 0 {
		return r.s.Warn.Render(t.Verdict())
	}
	var sb strings.Builder
	for i, row := range t.Rows {
		sb.WriteString(r.s.Label.Width(8).Render(fmt.Sprintf("s^%d", t.Power(i))))
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = fmt.Sprintf("%10.4f", v)
		}
		sb.WriteString(r.s.Value.Render(strings.Join(cells, " ")))
		sb.WriteByte('\n')
	}
	if t.Negated {
		sb.WriteString(r.s.Muted.Render("polynomial negated to make the leading coefficient positive") + "\n")
	}
	for _, e := range t.Events {
		sb.WriteString(r.s.Warn.Render(fmt.Sprintf("row s^%d: %s", t.Power(e.Row), e.Kind)) + "\n")
	}
	sb.WriteString(r.verdict(t.Stable(), t.Verdict()))
	return r.s.Panel.Render(sb.String())
}

// Stability renders a stability summary.
func (r *Renderer) Stability(s stability.Summary) string {
	rows := []string{
		r.row("method", string(s.Method)),
		r.s.Label.Render("verdict") + r.verdict(s.Stable, s.Verdict()),
		r.row("BIBO stable", fmt.Sprintf("%t", s.BIBO)),
		r.row("poles", strings.Join(s.PoleText, ", ")),
	}
	if len(s.Minors) > 0 {
		rows = append(rows, r.row("Hurwitz minors", floatList(s.Minors)))
	}
	out := r.s.Panel.Render(strings.Join(rows, "\n"))
	if s.Routh != nil {
		out = lipgloss.JoinVertical(lipgloss.Left, out, r.Routh(*s.Routh))
	}
	return out
}

// Locus summarizes a root-locus sweep.
func (r *Renderer) Locus(l *rootlocus.Locus) string {
	rows := []string{
		r.row("gain range", fmt.Sprintf("%.3g .. %.3g (%d steps)", l.Range.KMin, l.Range.KMax, l.Range.Steps)),
		r.row("branches", fmt.Sprintf("%d (%d at start)", len(l.Branches), l.InitialBranches())),
		r.row("open-loop poles", complexList(l.Poles)),
		r.row("open-loop zeros", complexList(l.Zeros)),
	}
	if k, ok := l.FirstUnstableGain(); ok {
		rows = append(rows, r.s.Label.Render("first unstable gain")+r.s.Bad.Render(fmt.Sprintf("%.4g", k)))
	} else {
		rows = append(rows, r.s.Label.Render("first unstable gain")+r.s.Good.Render("none in range"))
	}
	return r.s.Panel.Render(strings.Join(rows, "\n"))
}

// Result renders every analysis present in res.
func (r *Renderer) Result(res *experiment.Result) string {
	parts := []string{r.Title("plant"), r.Plant(res.Plant)}
	if res.Time != nil {
		parts = append(parts,
			r.Title("time response"),
			r.Characteristics(res.Time.Characteristics),
			TimePlot(res.Time.T, res.Time.Y, res.Time.Signal),
		)
	}
	if res.Frequency != nil {
		parts = append(parts,
			r.Title("frequency response"),
			r.Margins(res.Frequency.Margins),
			BodePlot(res.Frequency.Samples),
		)
	}
	if res.Locus != nil {
		parts = append(parts, r.Title("root locus"), r.Locus(res.Locus), LocusPlot(res.Locus))
	}
	if res.Stability != nil {
		parts = append(parts, r.Title("stability"), r.Stability(*res.Stability))
	}
	parts = append(parts, r.s.Muted.Render(fmt.Sprintf("completed in %v", res.Elapsed)))
	return strings.Join(parts, "\n")
}

func complexList(zs []complex128) string {
	if len(zs) == 0 {
		return "none"
	}
	out := make([]string, len(zs))
	for i, z := range zs {
		out[i] = poly.FormatComplex(z)
	}
	return strings.Join(out, ", ")
}

func floatList(vs []float64) string {
	out := make([]string, len(vs))
	for i, v := range vs {
		if math.IsInf(v, 0) {
			out[i] = "inf"
			continue
		}
		out[i] = fmt.Sprintf("%.4g", v)
	}
	return strings.Join(out, ", ")
}
