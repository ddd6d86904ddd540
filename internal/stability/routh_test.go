package stability

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/ctrlsim/internal/poly"
)

func TestRouthRows(t *testing.T) {
	tests := []struct {
		name  string
		c     []float64
		first []float64
	}{
		{"triple pole", []float64{1, 3, 3, 1}, []float64{1, 3, 8.0 / 3, 1}},
		{"unstable quadratic", []float64{1, -1, 2}, []float64{1, -1, 2}},
		{"first order", []float64{2, 1}, []float64{2, 1}},
		{"negated", []float64{-1, -3, -3, -1}, []float64{1, 3, 8.0 / 3, 1}},
		{"quartic", []float64{1, 2, 3, 4, 5}, []float64{1, 2, 1, -6, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tab := Routh(tt.c)
			if len(tab.Rows) != len(tt.c) {
				t.Fatalf("rows = %d, want %d", len(tab.Rows), len(tt.c))
			}
			col := tab.FirstColumn()
			for i := range tt.first {
				if math.Abs(col[i]-tt.first[i]) > 1e-12 {
					t.Errorf("first column = %v, want %v", col, tt.first)
					break
				}
			}
		})
	}
}

func TestRouthDegenerate(t *testing.T) {
	if tab := Routh(nil); len(tab.Rows) != 0 || tab.Stable() {
		t.Errorf("empty: %+v", tab)
	}
	if tab := Routh([]float64{0, 0}); len(tab.Rows) != 0 {
		t.Errorf("all zero: %+v", tab)
	}
	tab := Routh([]float64{3})
	if len(tab.Rows) != 1 || !tab.Stable() {
		t.Errorf("constant: %+v", tab)
	}
	// Leading zeros are trimmed before building the array.
	tab = Routh([]float64{0, 1, 3, 3, 1})
	if tab.Degree != 3 || !tab.Stable() {
		t.Errorf("leading zero: degree %d stable %v", tab.Degree, tab.Stable())
	}
}

func TestRouthZeroRow(t *testing.T) {
	// (s+1)(s²+1): the s¹ row vanishes; A(s) = s² + 1 gives A'(s) = 2s.
	tab := Routh([]float64{1, 1, 1, 1})
	want := [][]float64{{1, 1}, {1, 1}, {2, 0}, {1}}
	if len(tab.Rows) != len(want) {
		t.Fatalf("rows = %v", tab.Rows)
	}
	for i := range want {
		for j := range want[i] {
			if math.Abs(tab.Rows[i][j]-want[i][j]) > 1e-12 {
				t.Fatalf("rows = %v, want %v", tab.Rows, want)
			}
		}
	}
	if !tab.Marginal() || !tab.Approximate() {
		t.Errorf("expected a zero-row event, got %v", tab.Events)
	}
	if tab.Events[0] != (Event{Row: 2, Kind: ZeroRow}) {
		t.Errorf("event = %+v", tab.Events[0])
	}
}

func TestRouthZeroPivot(t *testing.T) {
	// s⁴ + s³ + 2s² + 2s + 3 has a zero pivot in the s² row and two RHP
	// roots.
	tab := Routh([]float64{1, 1, 2, 2, 3})
	if len(tab.Events) == 0 || tab.Events[0].Kind != ZeroPivot {
		t.Fatalf("events = %v", tab.Events)
	}
	if tab.Stable() {
		t.Error("expected unstable")
	}
	if got := tab.SignChanges(); got != 2 {
		t.Errorf("sign changes = %d, want 2", got)
	}
	if tab.Marginal() {
		t.Error("zero pivot is not a marginal case")
	}
}

func TestSignChangesSkipsZeros(t *testing.T) {
	if got := SignChanges([]float64{1, 0, -1, 1e-13, 2}); got != 2 {
		t.Errorf("SignChanges = %d, want 2", got)
	}
}

func TestHurwitzMatrix(t *testing.T) {
	h := HurwitzMatrix([]float64{1, 3, 3, 1})
	want := [][]float64{
		{3, 1, 0},
		{1, 3, 3},
		{0, 0, 1},
	}
	for i := range want {
		for j := range want[i] {
			if h[i][j] != want[i][j] {
				t.Fatalf("H = %v, want %v", h, want)
			}
		}
	}
	minors := PrincipalMinors(h)
	for i, w := range []float64{3, 8, 8} {
		if math.Abs(minors[i]-w) > 1e-12 {
			t.Errorf("Δ%d = %v, want %v", i+1, minors[i], w)
		}
	}
}

func TestDeterminantMatchesLU(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for n := 1; n <= 6; n++ {
		data := make([]float64, n*n)
		rows := make([][]float64, n)
		for i := range rows {
			rows[i] = data[i*n : (i+1)*n]
			for j := range rows[i] {
				rows[i][j] = rng.Float64()*4 - 2
			}
		}
		want := mat.Det(mat.NewDense(n, n, data))
		if got := Determinant(rows); math.Abs(got-want) > 1e-9*math.Max(1, math.Abs(want)) {
			t.Errorf("n=%d: Determinant = %v, gonum = %v", n, got, want)
		}
	}
	if Determinant(nil) != 0 {
		t.Error("empty determinant should be 0")
	}
}

// randomPoly builds a polynomial from n roots; each root (or conjugate pair)
// has a real part drawn from the given sign.
func randomPoly(rng *rand.Rand, n int, re func() float64) []float64 {
	c := []float64{1}
	for n > 0 {
		a := re()
		if n >= 2 && rng.Intn(2) == 0 {
			b := 0.2 + rng.Float64()*3
			c = poly.Mul(c, []float64{1, -2 * a, a*a + b*b})
			n -= 2
			continue
		}
		c = poly.Mul(c, []float64{1, -a})
		n--
	}
	return c
}

func TestRouthAgreesWithRoots(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	lhp := func() float64 { return -(0.2 + rng.Float64()*3) }
	rhp := func() float64 { return 0.2 + rng.Float64()*3 }

	for trial := 0; trial < 200; trial++ {
		n := 1 + rng.Intn(6)

		stable := randomPoly(rng, n, lhp)
		tab := Routh(stable)
		if tab.SignChanges() != 0 || !tab.Stable() {
			t.Fatalf("%v: expected stable, first column %v", stable, tab.FirstColumn())
		}
		if !HurwitzStable(stable) {
			t.Fatalf("%v: Hurwitz minors disagree: %v", stable, PrincipalMinors(HurwitzMatrix(stable)))
		}

		// One right-half-plane root on top of a stable factor.
		unstable := poly.Mul(randomPoly(rng, n-1, lhp), []float64{1, -rhp()})
		tab = Routh(unstable)
		if tab.SignChanges() < 1 || tab.Stable() {
			t.Fatalf("%v: expected sign changes, first column %v", unstable, tab.FirstColumn())
		}
		if HurwitzStable(unstable) {
			t.Fatalf("%v: Hurwitz minors reported stable", unstable)
		}
	}
}
