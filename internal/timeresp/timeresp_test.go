package timeresp

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/san-kum/ctrlsim/internal/dynamo"
	"github.com/san-kum/ctrlsim/internal/integrators"
	"github.com/san-kum/ctrlsim/internal/plant"
)

func TestGrid(t *testing.T) {
	g := DefaultGrid()
	require.Len(t, g, 301)
	require.Equal(t, 0.0, g[0])
	require.InDelta(t, 15.0, g[len(g)-1], 1e-12)

	g, err := Grid(1, 0.3)
	require.NoError(t, err)
	require.Len(t, g, 5)

	for _, bad := range [][2]float64{{10, 0}, {10, -1}, {-1, 0.1}, {math.NaN(), 0.1}} {
		_, err := Grid(bad[0], bad[1])
		require.ErrorIs(t, err, ErrInvalidGrid)
	}
}

func TestParseKind(t *testing.T) {
	for _, name := range []string{"step", "ramp", "parabolic", "impulse", "sinusoidal"} {
		k, err := ParseKind(name)
		require.NoError(t, err)
		require.Equal(t, name, k.String())
	}
	k, err := ParseKind("Sine")
	require.NoError(t, err)
	require.Equal(t, Sinusoid, k)

	_, err = ParseKind("chirp")
	require.ErrorIs(t, err, dynamo.ErrUnknownInput)
}

func TestSignal(t *testing.T) {
	g := []float64{0, 0.1, 0.2}
	u := NewInput(Impulse).Signal(g)
	if math.Abs(u[0]-10) > 1e-9 || u[1] != 0 || u[2] != 0 {
		t.Errorf("impulse signal = %v", u)
	}
	u = NewInput(Parabolic).Signal(g)
	if math.Abs(u[2]-0.02) > 1e-12 {
		t.Errorf("parabolic signal = %v", u)
	}
}

func TestFirstOrderStep(t *testing.T) {
	g := DefaultGrid()
	y, err := Response(plant.FirstOrder{K: 1, Tau: 1}, NewInput(Step), g)
	require.NoError(t, err)

	if math.Abs(y[20]-(1-math.Exp(-1))) > 1e-4 {
		t.Errorf("y(1) = %.6f, want 0.6321", y[20])
	}
	if math.Abs(y[len(y)-1]-1) > 1e-6 {
		t.Errorf("y(15) = %.8f, want 1", y[len(y)-1])
	}
}

func TestFirstOrderInitialValues(t *testing.T) {
	p := plant.FirstOrder{K: 2, Tau: 0.5}
	g := DefaultGrid()

	tests := []struct {
		kind Kind
		want float64
	}{
		{Step, 0},
		{Ramp, 0},
		{Parabolic, 0},
		{Impulse, 4},
		{Sinusoid, 0},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			y := FirstOrder(p, NewInput(tt.kind), g)
			if math.Abs(y[0]-tt.want) > 1e-12 {
				t.Errorf("y(0) = %v, want %v", y[0], tt.want)
			}
		})
	}
}

func TestFirstOrderStaticGain(t *testing.T) {
	y := FirstOrder(plant.FirstOrder{K: 3, Tau: 0}, NewInput(Ramp), []float64{0, 1, 2})
	require.Equal(t, []float64{0, 3, 6}, y)
}

func TestSecondOrderStepClosedForm(t *testing.T) {
	g, _ := Grid(10, 0.01)

	t.Run("underdamped", func(t *testing.T) {
		zeta, wn := 0.3, 2.0
		y := SecondOrder(plant.SecondOrder{K: 1, Wn: wn, Zeta: zeta}, NewInput(Step), g)
		beta := math.Sqrt(1 - zeta*zeta)
		for i, ti := range g {
			want := 1 - math.Exp(-zeta*wn*ti)/beta*math.Sin(wn*beta*ti+math.Acos(zeta))
			if math.Abs(y[i]-want) > 1e-9 {
				t.Fatalf("y(%.2f) = %.9f, want %.9f", ti, y[i], want)
			}
		}
	})

	t.Run("critical", func(t *testing.T) {
		wn := 3.0
		y := SecondOrder(plant.SecondOrder{K: 2, Wn: wn, Zeta: 1}, NewInput(Step), g)
		for i, ti := range g {
			want := 2 * (1 - math.Exp(-wn*ti)*(1+wn*ti))
			if math.Abs(y[i]-want) > 1e-9 {
				t.Fatalf("y(%.2f) = %.9f, want %.9f", ti, y[i], want)
			}
		}
	})

	t.Run("overdamped", func(t *testing.T) {
		y := SecondOrder(plant.SecondOrder{K: 1, Wn: 2, Zeta: 1.5}, NewInput(Step), g)
		if math.Abs(y[0]) > 1e-12 {
			t.Errorf("y(0) = %v, want 0", y[0])
		}
		for i := 1; i < len(y); i++ {
			if y[i] < y[i-1]-1e-12 || y[i] > 1 {
				t.Fatalf("non-monotone overdamped step at t=%.2f: %v", g[i], y[i])
			}
		}
	})
}

// Each input is the integral of the next simpler one, so the responses must
// be related by differentiation.
func TestSecondOrderResponsesDifferentiate(t *testing.T) {
	g, _ := Grid(8, 0.001)
	plants := map[string]plant.SecondOrder{
		"underdamped": {K: 1.5, Wn: 2, Zeta: 0.4},
		"critical":    {K: 1.5, Wn: 2, Zeta: 1},
		"overdamped":  {K: 1.5, Wn: 2, Zeta: 2.5},
		"undamped":    {K: 1.5, Wn: 2, Zeta: 0},
	}

	for name, p := range plants {
		t.Run(name, func(t *testing.T) {
			imp := SecondOrder(p, NewInput(Impulse), g)
			step := SecondOrder(p, NewInput(Step), g)
			ramp := SecondOrder(p, NewInput(Ramp), g)
			para := SecondOrder(p, NewInput(Parabolic), g)

			for _, y := range [][]float64{step, ramp, para} {
				if math.Abs(y[0]) > 1e-9 {
					t.Fatalf("nonzero initial value %v", y[0])
				}
			}
			h := g[1] - g[0]
			for i := 1; i < len(g)-1; i += 97 {
				pairs := []struct {
					name          string
					integral, der []float64
				}{
					{"step", step, imp},
					{"ramp", ramp, step},
					{"parabolic", para, ramp},
				}
				for _, pr := range pairs {
					d := (pr.integral[i+1] - pr.integral[i-1]) / (2 * h)
					if math.Abs(d-pr.der[i]) > 1e-4 {
						t.Fatalf("%s: d/dt at t=%.3f = %.6f, want %.6f", pr.name, g[i], d, pr.der[i])
					}
				}
			}
		})
	}
}

func TestSecondOrderSinusoid(t *testing.T) {
	g, _ := Grid(30, 0.01)
	in := Input{Kind: Sinusoid, Freq: 1.5, Amp: 2}

	for _, zeta := range []float64{0.3, 1, 2} {
		p := plant.SecondOrder{K: 1, Wn: 2, Zeta: zeta}
		y := SecondOrder(p, in, g)
		if math.Abs(y[0]) > 1e-9 {
			t.Errorf("ζ=%v: y(0) = %v, want 0", zeta, y[0])
		}

		g0 := plant.Eval(p, in.Freq)
		last := len(g) - 1
		want := in.Amp * math.Hypot(real(g0), imag(g0)) * math.Sin(in.Freq*g[last]+math.Atan2(imag(g0), real(g0)))
		if math.Abs(y[last]-want) > 1e-6 {
			t.Errorf("ζ=%v: steady state %v, want %v", zeta, y[last], want)
		}
	}
}

// ζ = -1 puts a double pole at +ωₙ.
func TestSecondOrderNegativeCriticalDamping(t *testing.T) {
	g, _ := Grid(1, 0.1)
	p := plant.SecondOrder{K: 1, Wn: 2, Zeta: -1}
	cases := []struct {
		kind Kind
		want func(t float64) float64
	}{
		{Step, func(t float64) float64 { return 1 + math.Exp(2*t)*(2*t-1) }},
		{Ramp, func(t float64) float64 { return t + 1 + math.Exp(2*t)*(t-1) }},
		{Impulse, func(t float64) float64 { return 4 * t * math.Exp(2*t) }},
	}

	for _, tc := range cases {
		t.Run(tc.kind.String(), func(t *testing.T) {
			y := SecondOrder(p, NewInput(tc.kind), g)
			for i, ti := range g {
				require.False(t, math.IsNaN(y[i]), "y(%.1f) is NaN", ti)
				require.InDelta(t, tc.want(ti), y[i], 1e-9, "y(%.1f)", ti)
			}
		})
	}
}

func TestSecondOrderZeroNaturalFrequency(t *testing.T) {
	y := SecondOrder(plant.SecondOrder{K: 1, Wn: 0, Zeta: 0.5}, NewInput(Step), []float64{0, 1})
	require.Equal(t, []float64{0, 0}, y)
}

func TestDCGain(t *testing.T) {
	tests := []struct {
		name string
		p    plant.Plant
		want float64
	}{
		{"first", plant.FirstOrder{K: 3, Tau: 0.5}, 3},
		{"static", plant.FirstOrder{K: 2, Tau: 0}, 2},
		{"second", plant.SecondOrder{K: 1.5, Wn: 2, Zeta: 0.4}, 1.5},
		{"higher", plant.HigherOrder{K: 2, Num: []float64{1, 2}, Den: []float64{1, 6, 11, 6}}, 4.0 / 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.InDelta(t, tt.want, DCGain(tt.p), 1e-12)
		})
	}

	t.Run("integrator", func(t *testing.T) {
		g := DCGain(plant.HigherOrder{K: 1, Num: []float64{1}, Den: []float64{1, 1, 0}})
		require.True(t, math.IsNaN(g) || math.IsInf(g, 0), "got %v", g)
	})
}

// The simulated step settles on the DC gain for a stable plant.
func TestDCGainMatchesSimulatedStep(t *testing.T) {
	g, _ := Grid(30, 0.01)
	p := plant.HigherOrder{K: 2, Num: []float64{1, 2}, Den: []float64{1, 6, 11, 6}}
	y, err := Response(p, NewInput(Step), g)
	require.NoError(t, err)
	require.InDelta(t, DCGain(p), y[len(y)-1], 1e-3)
}

func TestHigherOrderMatchesAnalytic(t *testing.T) {
	g, _ := Grid(10, 0.01)
	analytic := SecondOrder(plant.SecondOrder{K: 1, Wn: 2, Zeta: 0.5}, NewInput(Step), g)
	sim, err := Response(plant.HigherOrder{K: 1, Num: []float64{4}, Den: []float64{1, 2, 4}}, NewInput(Step), g)
	require.NoError(t, err)

	for i := range g {
		if math.Abs(sim[i]-analytic[i]) > 2e-3 {
			t.Fatalf("t=%.2f: simulated %.6f, analytic %.6f", g[i], sim[i], analytic[i])
		}
	}
}

func TestHigherOrderFirstOrderEquivalent(t *testing.T) {
	g := DefaultGrid()
	y, err := Response(plant.HigherOrder{K: 1, Num: []float64{1}, Den: []float64{1, 1}}, NewInput(Step), g)
	require.NoError(t, err)
	require.Equal(t, 0.0, y[0])
	require.InDelta(t, 1-math.Exp(-1), y[20], 1e-3)
}

func TestHigherOrderIntegrators(t *testing.T) {
	g := DefaultGrid()
	for _, name := range integrators.Names() {
		t.Run(name, func(t *testing.T) {
			integ, err := integrators.New(name)
			require.NoError(t, err)
			y, err := ResponseContext(context.Background(),
				plant.HigherOrder{K: 1, Den: []float64{1, 3, 3, 1}}, NewInput(Step), g, integ)
			require.NoError(t, err)
			require.InDelta(t, 1, y[len(y)-1], 5e-3)
		})
	}
}

func TestHigherOrderImpulse(t *testing.T) {
	g, _ := Grid(5, 0.01)
	y, err := Response(plant.HigherOrder{K: 1, Den: []float64{1, 1}}, NewInput(Impulse), g)
	require.NoError(t, err)
	for i := 50; i < len(g); i += 50 {
		want := math.Exp(-g[i])
		if math.Abs(y[i]-want)/want > 0.02 {
			t.Errorf("y(%.2f) = %.5f, want ≈ %.5f", g[i], y[i], want)
		}
	}
}

func TestHigherOrderDegenerate(t *testing.T) {
	g := []float64{0, 0.1, 0.2}
	for _, den := range [][]float64{nil, {2}, {0, 1, 1}} {
		y, err := Response(plant.HigherOrder{K: 1, Den: den}, NewInput(Step), g)
		require.NoError(t, err)
		require.Equal(t, []float64{0, 0, 0}, y)
	}
}

func TestSimulateCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Simulate(ctx, []float64{1}, []float64{1, 1}, NewInput(Step), DefaultGrid(), nil)
	require.ErrorIs(t, err, dynamo.ErrContextCanceled)
	require.ErrorIs(t, err, context.Canceled)

	var se *dynamo.SimulationError
	require.True(t, errors.As(err, &se))
	require.Equal(t, 0, se.Step)
}

func TestResponseUnknownKind(t *testing.T) {
	_, err := Response(plant.FirstOrder{K: 1, Tau: 1}, Input{Kind: Kind(42)}, DefaultGrid())
	require.ErrorIs(t, err, dynamo.ErrUnknownInput)
}
