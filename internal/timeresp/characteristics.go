package timeresp

import (
	"fmt"
	"math"

	"github.com/san-kum/ctrlsim/internal/dynamo"
)

const (
	// SettlingBand is the 2% tolerance band around the final value.
	SettlingBand = 0.02
	// overshootMargin is the factor by which the peak must exceed the final
	// value before it counts as overshoot.
	overshootMargin = 1.01
	// minFinal is the smallest final value for which step metrics are
	// computed.
	minFinal = 1e-3
)

type Status int

const (
	Valid Status = iota
	// NotApplicable marks a metric that has no meaning for the input kind.
	NotApplicable
	// NotFound marks a metric whose defining event did not occur on the grid.
	NotFound
)

func (s Status) String() string {
	switch s {
	case Valid:
		return "valid"
	case NotApplicable:
		return "n/a"
	case NotFound:
		return "not found"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

type Metric struct {
	Value  float64
	Status Status
}

func valid(v float64) Metric { return Metric{Value: v} }

var (
	na       = Metric{Status: NotApplicable}
	notFound = Metric{Status: NotFound}
)

func (m Metric) Ok() bool { return m.Status == Valid }

func (m Metric) String() string {
	if m.Status != Valid {
		return m.Status.String()
	}
	return fmt.Sprintf("%.3f", m.Value)
}

// Characteristics are the classical response metrics. Times are in seconds,
// Overshoot in percent of the final value.
type Characteristics struct {
	Input Kind

	Delay     Metric // 50% of final value
	Rise      Metric // 10% to 90%
	Peak      Metric
	Overshoot Metric
	Settling  Metric // last exit from the SettlingBand

	SteadyState      Metric
	SteadyStateError Metric
	// FinalError is the parabolic tracking error t²/2 - y at the last
	// sample.
	FinalError Metric
}

// Analyze derives characteristics of y sampled on t for the given input.
func Analyze(t, y []float64, kind Kind) (Characteristics, error) {
	if len(t) != len(y) {
		return Characteristics{}, fmt.Errorf("%w: %d times, %d samples", dynamo.ErrDimensionMismatch, len(t), len(y))
	}
	if !kind.valid() {
		return Characteristics{}, fmt.Errorf("%w: %v", dynamo.ErrUnknownInput, kind)
	}

	c := Characteristics{
		Input: kind, Delay: na, Rise: na, Peak: na, Overshoot: na, Settling: na,
		SteadyState: na, SteadyStateError: na, FinalError: na,
	}
	if len(y) == 0 {
		return c, nil
	}
	last := len(y) - 1
	final := y[last]

	switch kind {
	case Step:
		c.SteadyState = valid(final)
		c.SteadyStateError = valid(1 - final)
		stepMetrics(&c, t, y, final)

	case Ramp:
		c.SteadyState = valid(final)
		if last >= 1 {
			slope := (y[last] - y[last-1]) / (t[last] - t[last-1])
			c.SteadyStateError = valid(1 - slope)
		} else {
			c.SteadyStateError = notFound
		}

	case Parabolic:
		c.SteadyState = valid(final)
		c.FinalError = valid(0.5*t[last]*t[last] - final)
		if last >= 2 {
			h := t[last] - t[last-1]
			curvature := (y[last] - 2*y[last-1] + y[last-2]) / (h * h)
			c.SteadyStateError = valid(1 - curvature)
		} else {
			c.SteadyStateError = notFound
		}

	case Impulse:
		c.SteadyState = valid(final)
		peak := 0
		for i := range y {
			if math.Abs(y[i]) > math.Abs(y[peak]) {
				peak = i
			}
		}
		c.Peak = valid(t[peak])
	}
	return c, nil
}

// stepMetrics fills the step metrics. The response is normalized by its
// final value so that negative gains cross thresholds the same way.
func stepMetrics(c *Characteristics, t, y []float64, final float64) {
	c.Delay, c.Rise, c.Peak, c.Overshoot, c.Settling = notFound, notFound, notFound, notFound, notFound
	if math.Abs(final) <= minFinal {
		return
	}

	t10, t50, t90 := -1, -1, -1
	peak := 0
	for i, v := range y {
		n := v / final
		if t10 < 0 && n >= 0.1 {
			t10 = i
		}
		if t50 < 0 && n >= 0.5 {
			t50 = i
		}
		if t90 < 0 && n >= 0.9 {
			t90 = i
		}
		if n > y[peak]/final {
			peak = i
		}
	}
	if t50 >= 0 {
		c.Delay = valid(t[t50])
	}
	if t10 >= 0 && t90 >= 0 {
		c.Rise = valid(t[t90] - t[t10])
	}

	if y[peak]/final > overshootMargin {
		c.Peak = valid(t[peak])
		c.Overshoot = valid((y[peak]/final - 1) * 100)
	} else {
		c.Overshoot = valid(0)
	}

	tol := math.Abs(final) * SettlingBand
	// y[last] is the final value, so any exit found is before the last
	// sample.
	for i := len(y) - 1; i >= 0; i-- {
		if math.Abs(y[i]-final) > tol {
			c.Settling = valid(t[i+1])
			return
		}
	}
	c.Settling = valid(t[0])
}
