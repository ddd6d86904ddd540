package plant

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestTransferFunctions(t *testing.T) {
	tests := []struct {
		name     string
		p        Plant
		num, den []float64
	}{
		{"first", FirstOrder{K: 2, Tau: 0.5}, []float64{2}, []float64{0.5, 1}},
		{"second", SecondOrder{K: 1, Wn: 2, Zeta: 0.5}, []float64{4}, []float64{1, 2, 4}},
		{"higher", HigherOrder{K: 3, Num: []float64{1, 1}, Den: []float64{1, 3, 3, 1}}, []float64{3, 3}, []float64{1, 3, 3, 1}},
		{"higher default numerator", HigherOrder{K: 2, Den: []float64{1, 1}}, []float64{2}, []float64{1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			num, den := tt.p.TransferFunction()
			if !equal(num, tt.num) || !equal(den, tt.den) {
				t.Errorf("got %v/%v, want %v/%v", num, den, tt.num, tt.den)
			}
		})
	}
}

func TestEvalFirstOrder(t *testing.T) {
	p := FirstOrder{K: 1, Tau: 1}
	g := Eval(p, 1)
	want := complex(0.5, -0.5)
	if cmplx.Abs(g-want) > 1e-12 {
		t.Errorf("G(j1) = %v, want %v", g, want)
	}
}

func TestEvalSecondOrderAtNaturalFrequency(t *testing.T) {
	p := SecondOrder{K: 1, Wn: 2, Zeta: 0.5}
	g := Eval(p, 2)
	// G(jωₙ) = 1/(j2ζ)
	if math.Abs(cmplx.Abs(g)-1) > 1e-12 {
		t.Errorf("|G(jωₙ)| = %v, want 1", cmplx.Abs(g))
	}
	if math.Abs(cmplx.Phase(g)+math.Pi/2) > 1e-12 {
		t.Errorf("phase = %v, want -π/2", cmplx.Phase(g))
	}
}

func TestRegime(t *testing.T) {
	tests := []struct {
		zeta float64
		want Regime
	}{
		{0.2, Underdamped},
		{1, Critical},
		{1 + 1e-9, Critical},
		{1.5, Overdamped},
	}

	for _, tt := range tests {
		if got := (SecondOrder{K: 1, Wn: 1, Zeta: tt.zeta}).Regime(); got != tt.want {
			t.Errorf("Regime(ζ=%v) = %v, want %v", tt.zeta, got, tt.want)
		}
	}
}

func TestParseOrder(t *testing.T) {
	for in, want := range map[string]Order{"first": OrderFirst, "2": OrderSecond, " Higher ": OrderHigher} {
		got, err := ParseOrder(in)
		if err != nil || got != want {
			t.Errorf("ParseOrder(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseOrder("fourth"); err == nil {
		t.Error("expected error for unknown order")
	}
}

type orderName struct{}

func (orderName) First(FirstOrder) string   { return "first" }
func (orderName) Second(SecondOrder) string { return "second" }
func (orderName) Higher(HigherOrder) string { return "higher" }

func TestVisitDispatch(t *testing.T) {
	plants := []Plant{
		FirstOrder{K: 1, Tau: 1},
		&SecondOrder{K: 1, Wn: 1, Zeta: 1},
		HigherOrder{K: 1, Den: []float64{1, 1}},
	}
	for _, p := range plants {
		if got := Visit[string](p, orderName{}); got != p.Order().String() {
			t.Errorf("Visit(%T) = %q, want %q", p, got, p.Order())
		}
	}
}

func TestRepeated(t *testing.T) {
	tests := []struct {
		zeta     float64
		repeated bool
		pole     float64
	}{
		{1, true, -2},
		{1 + 1e-9, true, -2},
		{-1, true, 2},
		{0.5, false, 0},
		{-0.5, false, 0},
	}

	for _, tt := range tests {
		p := SecondOrder{K: 1, Wn: 2, Zeta: tt.zeta}
		if got := p.Repeated(); got != tt.repeated {
			t.Errorf("Repeated(ζ=%v) = %v, want %v", tt.zeta, got, tt.repeated)
			continue
		}
		if !tt.repeated {
			continue
		}
		z := Factor(p)
		for _, pole := range z.Poles {
			if math.Abs(real(pole)-tt.pole) > 1e-6 || imag(pole) != 0 {
				t.Errorf("ζ=%v: poles = %v, want double %v", tt.zeta, z.Poles, tt.pole)
			}
		}
	}
}

func TestFactor(t *testing.T) {
	z := Factor(SecondOrder{K: 2, Wn: 2, Zeta: 0.5})
	if z.Gain != 8 {
		t.Errorf("gain = %v, want 8", z.Gain)
	}
	if len(z.Poles) != 2 || math.Abs(real(z.Poles[0])+1) > 1e-12 {
		t.Errorf("poles = %v", z.Poles)
	}

	z = Factor(FirstOrder{K: 1, Tau: 0.25})
	if len(z.Corners) != 1 || z.Corners[0] != 4 {
		t.Errorf("corners = %v", z.Corners)
	}

	z = Factor(HigherOrder{K: 2, Num: []float64{1, 2}, Den: []float64{2, 3, 1}})
	if z.Gain != 1 || len(z.Zeros) != 1 || len(z.Poles) != 2 {
		t.Errorf("zpk = %+v", z)
	}
}

func TestCloseAt(t *testing.T) {
	cl := CloseAt(HigherOrder{K: 1, Num: []float64{1}, Den: []float64{1, 3, 3, 1}}, 7)
	want := []float64{1, 3, 3, 8}
	if !equal(cl.Char, want) {
		t.Errorf("char = %v, want %v", cl.Char, want)
	}
	if !equal(cl.N, []float64{0, 0, 0, 1}) {
		t.Errorf("aligned numerator = %v", cl.N)
	}
	// (s+1)³ + 7 has the real root -1 - ∛7.
	want3 := -1 - math.Cbrt(7)
	found := false
	for _, p := range cl.Poles() {
		if math.Abs(real(p)-want3) < 1e-6 && math.Abs(imag(p)) < 1e-6 {
			found = true
		}
	}
	if !found {
		t.Errorf("poles %v missing real root %v", cl.Poles(), want3)
	}
}

func TestPoleZeroMap(t *testing.T) {
	poles, zeros := PoleZeroMap(HigherOrder{K: 1, Num: []float64{1, 2}, Den: []float64{1, 4, 3}})
	if len(poles) != 2 || len(zeros) != 1 {
		t.Fatalf("poles %v zeros %v", poles, zeros)
	}
	if math.Abs(real(zeros[0])+2) > 1e-12 {
		t.Errorf("zero = %v, want -2", zeros[0])
	}
}

func equal(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-12 {
			return false
		}
	}
	return true
}
