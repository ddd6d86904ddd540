// Package stability decides closed-loop stability algebraically with the
// Routh array and Hurwitz determinants, and summarizes plant stability.
package stability

import (
	"fmt"
	"math"

	"github.com/san-kum/ctrlsim/internal/poly"
)

// Epsilon replaces a vanishing pivot so the recursion can continue.
const Epsilon = 1e-12

// EventKind classifies a degenerate step of the Routh recursion.
type EventKind int

const (
	// ZeroPivot: a lone zero leading entry was replaced by Epsilon.
	ZeroPivot EventKind = iota
	// ZeroRow: an all-zero row was replaced by the derivative of the
	// auxiliary polynomial formed from the row above it.
	ZeroRow
	// ZeroRowFallback: the auxiliary derivative also vanished and the row
	// was replaced by [Epsilon].
	ZeroRowFallback
)

func (k EventKind) String() string {
	switch k {
	case ZeroPivot:
		return "zero pivot"
	case ZeroRow:
		return "zero row"
	case ZeroRowFallback:
		return "zero row (epsilon fallback)"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event records a substitution made while building row Row.
type Event struct {
	Row  int
	Kind EventKind
}

// Table is a Routh array. Row i holds the coefficients for s^(Degree-i).
type Table struct {
	Degree int
	Rows   [][]float64
	// Negated is set when the polynomial was multiplied by -1 to make the
	// leading coefficient positive.
	Negated bool
	Events  []Event
}

// Routh builds the Routh array of c (descending powers). Leading near-zero
// coefficients are dropped; an empty or all-zero c yields an empty table. A
// table of degree n has n+1 rows.
func Routh(coeffs []float64) Table {
	c := append([]float64(nil), poly.Trim(coeffs)...)
	t := Table{Degree: len(c) - 1, Rows: [][]float64{}}
	if len(c) == 0 {
		return t
	}
	if c[0] < 0 {
		for i := range c {
			c[i] = -c[i]
		}
		t.Negated = true
	}
	n := t.Degree

	even, odd := []float64{}, []float64{}
	for i, v := range c {
		if i%2 == 0 {
			even = append(even, v)
		} else {
			odd = append(odd, v)
		}
	}
	t.Rows = append(t.Rows, even)
	if n == 0 {
		return t
	}
	t.Rows = append(t.Rows, odd)

	for i := 2; i <= n; i++ {
		above := t.Rows[i-2]
		prev := t.Rows[i-1]

		if negligible(prev) {
			d := auxDerivative(above, n-(i-2))
			if len(d) > 0 && !negligible(d) {
				prev = d
				t.Events = append(t.Events, Event{Row: i - 1, Kind: ZeroRow})
			} else {
				prev = []float64{Epsilon}
				t.Events = append(t.Events, Event{Row: i - 1, Kind: ZeroRowFallback})
			}
			t.Rows[i-1] = prev
		}

		pivot := prev[0]
		if math.Abs(pivot) < Epsilon {
			pivot = Epsilon
			prev[0] = Epsilon
			t.Events = append(t.Events, Event{Row: i - 1, Kind: ZeroPivot})
		}

		width := max(len(prev), len(above))
		row := make([]float64, 0, width)
		for j := 0; j < width-1; j++ {
			v := (pivot*at(above, j+1) - at(above, 0)*at(prev, j+1)) / pivot
			if math.IsNaN(v) || math.IsInf(v, 0) {
				v = 0
			}
			row = append(row, v)
		}
		if len(row) == 0 {
			row = append(row, 0)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// auxDerivative differentiates the auxiliary polynomial whose coefficients
// are row at powers p, p-2, p-4, ...; terms whose power would go negative are
// dropped.
func auxDerivative(row []float64, p int) []float64 {
	d := make([]float64, 0, len(row))
	for k, v := range row {
		power := p - 2*k
		if power < 0 {
			break
		}
		d = append(d, v*float64(power))
	}
	return d
}

func negligible(row []float64) bool {
	for _, v := range row {
		if math.Abs(v) >= Epsilon {
			return false
		}
	}
	return true
}

func at(row []float64, j int) float64 {
	if j < len(row) {
		return row[j]
	}
	return 0
}

// FirstColumn returns the leading entry of every row.
func (t Table) FirstColumn() []float64 {
	col := make([]float64, 0, len(t.Rows))
	for _, r := range t.Rows {
		if len(r) > 0 {
			col = append(col, r[0])
		}
	}
	return col
}

// SignChanges counts sign changes in the first column, skipping entries
// below Epsilon in magnitude.
func (t Table) SignChanges() int {
	return SignChanges(t.FirstColumn())
}

func SignChanges(col []float64) int {
	changes := 0
	for i := 1; i < len(col); i++ {
		prev, cur := col[i-1], col[i]
		if math.Abs(prev) < Epsilon || math.Abs(cur) < Epsilon {
			continue
		}
		if math.Signbit(prev) != math.Signbit(cur) {
			changes++
		}
	}
	return changes
}

// Stable reports no sign changes and a strictly positive first column.
func (t Table) Stable() bool {
	if len(t.Rows) == 0 {
		return false
	}
	for _, v := range t.FirstColumn() {
		if !(v > 0) {
			return false
		}
	}
	return t.SignChanges() == 0
}

// Approximate reports whether any substitution was made, in which case
// entries after the first event are approximate.
func (t Table) Approximate() bool {
	return len(t.Events) > 0
}

// Marginal reports an auxiliary-polynomial substitution. With no sign
// changes it indicates roots placed symmetrically on the imaginary axis.
func (t Table) Marginal() bool {
	for _, e := range t.Events {
		if e.Kind != ZeroPivot {
			return true
		}
	}
	return false
}

// Power returns the power of s that row i stands for.
func (t Table) Power(i int) int {
	return t.Degree - i
}

func (t Table) Verdict() string {
	switch {
	case len(t.Rows) == 0:
		return "undetermined"
	case t.Stable():
		return "stable"
	}
	return fmt.Sprintf("unstable (%d sign changes)", t.SignChanges())
}
