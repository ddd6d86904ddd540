// Package statespace realizes transfer functions in controllable canonical
// form and evaluates them as dynamo systems.
package statespace

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/ctrlsim/internal/dynamo"
	"github.com/san-kum/ctrlsim/internal/poly"
)

// LeadingTol is the smallest usable magnitude of the leading denominator
// coefficient.
const LeadingTol = 1e-12

// Model is ẋ = Ax + Bu, y = Cx + Du for a single input and output.
type Model struct {
	A *mat.Dense
	B *mat.VecDense
	C *mat.VecDense
	D float64

	n  int
	xv *mat.VecDense
	ax *mat.VecDense
}

// FromTransferFunction builds the controllable canonical realization of
// num/den. For den = [d0, d1, ..., dn] with a_i = d_{i+1}/d0, A has ones on
// its super-diagonal and -a_{n-1}, ..., -a_0 on its bottom row; B = e_n; the
// numerator is reshaped to n coefficients, scaled by 1/d0 and reversed into C.
// D is zero. It reports false when den has degree below one or |d0| is below
// LeadingTol.
func FromTransferFunction(num, den []float64) (*Model, bool) {
	n := len(den) - 1
	if n < 1 || math.Abs(den[0]) < LeadingTol {
		return nil, false
	}
	d0 := den[0]

	a := mat.NewDense(n, n, nil)
	for i := 0; i < n-1; i++ {
		a.Set(i, i+1, 1)
	}
	for j := 0; j < n; j++ {
		// a_i = den[i+1]/d0 fills the last row in reverse.
		a.Set(n-1, j, -den[n-j]/d0)
	}

	b := mat.NewVecDense(n, nil)
	b.SetVec(n-1, 1)

	bn := poly.StrictlyProper(num, n)
	c := mat.NewVecDense(n, nil)
	for j := 0; j < n; j++ {
		c.SetVec(j, bn[n-1-j]/d0)
	}

	return &Model{
		A:  a,
		B:  b,
		C:  c,
		n:  n,
		xv: mat.NewVecDense(n, nil),
		ax: mat.NewVecDense(n, nil),
	}, true
}

func (m *Model) StateDim() int { return m.n }

// NewState returns a zero state of the model's dimension.
func (m *Model) NewState() dynamo.State {
	return make(dynamo.State, m.n)
}

// Derive writes Ax + Bu into dx. u[0] is the scalar input; a missing input
// counts as zero.
func (m *Model) Derive(dx, x dynamo.State, u dynamo.Control, t float64) {
	copy(m.xv.RawVector().Data, x)
	m.ax.MulVec(m.A, m.xv)
	in := 0.0
	if len(u) > 0 {
		in = u[0]
	}
	for i := 0; i < m.n; i++ {
		dx[i] = m.ax.AtVec(i) + m.B.AtVec(i)*in
	}
}

// Output returns Cx + Du.
func (m *Model) Output(x dynamo.State, u float64) float64 {
	y := m.D * u
	for i := 0; i < m.n; i++ {
		y += m.C.AtVec(i) * x[i]
	}
	return y
}

// DCGain returns -C·A⁻¹·B + D, or NaN when A is singular.
func (m *Model) DCGain() float64 {
	var x mat.VecDense
	if err := x.SolveVec(m.A, m.B); err != nil {
		return math.NaN()
	}
	return -mat.Dot(m.C, &x) + m.D
}
