package plant

import (
	"github.com/san-kum/ctrlsim/internal/poly"
	"github.com/san-kum/ctrlsim/internal/roots"
)

// ZPK is the zero-pole-gain summary of a plant.
type ZPK struct {
	Zeros []complex128
	Poles []complex128
	Gain  float64
	// Corners holds analytic corner frequencies in rad/s: 1/τ for first
	// order, ωₙ for second order. Higher-order plants leave it empty; their
	// corners come from the frequency response.
	Corners []float64
}

type zpkVisitor struct{}

func (zpkVisitor) First(p FirstOrder) ZPK {
	z := ZPK{Zeros: []complex128{}, Gain: p.K}
	if p.Tau != 0 {
		z.Poles = []complex128{complex(-1/p.Tau, 0)}
		z.Corners = []float64{1 / p.Tau}
	}
	return z
}

func (zpkVisitor) Second(p SecondOrder) ZPK {
	p1, p2 := p.Poles()
	poles := []complex128{p1, p2}
	if p.Repeated() {
		poles = []complex128{p.DoublePole(), p.DoublePole()}
	}
	return ZPK{
		Zeros:   []complex128{},
		Poles:   poles,
		Gain:    p.K * p.Wn * p.Wn,
		Corners: []float64{p.Wn},
	}
}

func (zpkVisitor) Higher(p HigherOrder) ZPK {
	num, den := p.OpenLoop()
	num = poly.Trim(num)
	den = poly.Trim(den)
	z := ZPK{
		Zeros: roots.Solve(num),
		Poles: roots.Solve(den),
	}
	if len(num) > 0 && len(den) > 0 {
		z.Gain = p.K * num[0] / den[0]
	}
	return z
}

// Factor returns the zero-pole-gain form of p.
func Factor(p Plant) ZPK {
	return Visit[ZPK](p, zpkVisitor{})
}

// PoleZeroMap returns the open-loop poles (roots of D) and zeros (roots of N
// aligned to the length of D). Roots of degree three and above are
// approximate.
func PoleZeroMap(p Plant) (poles, zeros []complex128) {
	num, den := p.OpenLoop()
	if len(num) == 0 || len(den) == 0 {
		return []complex128{}, []complex128{}
	}
	s := roots.NewSolver()
	poles = s.Solve(den)
	zeros = s.Solve(poly.Align(num, den))
	return poles, zeros
}

// ClosedLoop is the unity-feedback loop T(s) = K·N(s) / (D(s) + K·N(s)).
type ClosedLoop struct {
	K float64
	// N is the open-loop numerator aligned to the length of D.
	N []float64
	D []float64
	// Char is the characteristic polynomial D + K·N.
	Char []float64
}

// Close forms the unity-feedback loop around p at its own gain.
func Close(p Plant) ClosedLoop {
	return CloseAt(p, p.Gain())
}

// CloseAt forms the unity-feedback loop around p's open-loop polynomials at
// gain k.
func CloseAt(p Plant, k float64) ClosedLoop {
	num, den := p.OpenLoop()
	n := poly.Align(num, den)
	char, _ := poly.Combine(den, n, k)
	return ClosedLoop{K: k, N: n, D: append([]float64(nil), den...), Char: char}
}

// Poles returns the closed-loop poles.
func (c ClosedLoop) Poles() []complex128 {
	return roots.Solve(c.Char)
}

func (c ClosedLoop) String() string {
	return "T(s) = K·N(s) / [D(s) + K·N(s)], D(s) = " + poly.String(c.D, "s") +
		", N(s) = " + poly.String(c.N, "s") +
		", D(s) + K·N(s) = " + poly.String(c.Char, "s")
}
