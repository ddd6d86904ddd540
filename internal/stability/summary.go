package stability

import (
	"fmt"
	"math"

	"github.com/san-kum/ctrlsim/internal/plant"
	"github.com/san-kum/ctrlsim/internal/poly"
	"github.com/san-kum/ctrlsim/internal/roots"
)

// Method names how a Summary reached its verdict.
type Method string

const (
	MethodPoles Method = "pole location"
	MethodRouth Method = "Routh-Hurwitz"
)

// Summary is the stability verdict of a plant's own poles.
type Summary struct {
	Order  plant.Order
	Method Method
	Stable bool
	// BIBO is bounded-input bounded-output stability; for these plants it
	// coincides with Stable.
	BIBO  bool
	Poles []complex128
	Zeros []complex128
	// PoleText describes the poles, grouping conjugate and repeated pairs.
	PoleText []string

	// Routh and Minors are filled for higher-order plants.
	Routh  *Table
	Minors []float64
}

// Verdict renders the summary in one phrase.
func (s Summary) Verdict() string {
	v := "unstable"
	if s.Stable {
		v = "stable"
	}
	if s.Method == MethodRouth {
		return v + " (Routh-Hurwitz)"
	}
	return v
}

// Summarize decides stability of p. First-order plants are stable iff τ > 0,
// second-order iff ωₙ > 0 and ζ > 0, and higher-order plants by the Routh
// array of the denominator.
func Summarize(p plant.Plant) Summary {
	return plant.Visit[Summary](p, summarizer{})
}

type summarizer struct{}

func (summarizer) First(p plant.FirstOrder) Summary {
	s := Summary{Order: plant.OrderFirst, Method: MethodPoles, Zeros: []complex128{}}
	s.Stable = p.Tau > 0
	s.BIBO = s.Stable
	if p.Tau != 0 {
		pole := complex(-1/p.Tau, 0)
		s.Poles = []complex128{pole}
		s.PoleText = []string{poly.FormatComplex(pole)}
	}
	return s
}

func (summarizer) Second(p plant.SecondOrder) Summary {
	s := Summary{Order: plant.OrderSecond, Method: MethodPoles, Zeros: []complex128{}}
	s.Stable = p.Wn > 0 && p.Zeta > 0
	s.BIBO = s.Stable

	p1, p2 := p.Poles()
	switch {
	case p.Repeated():
		p1, p2 = p.DoublePole(), p.DoublePole()
		s.PoleText = []string{fmt.Sprintf("%.3f (repeated)", real(p1))}
	case p.Regime() == plant.Underdamped:
		s.PoleText = []string{fmt.Sprintf("%.3f ± j%.3f", real(p1), math.Abs(imag(p1)))}
	default:
		s.PoleText = []string{poly.FormatComplex(p1), poly.FormatComplex(p2)}
	}
	s.Poles = []complex128{p1, p2}
	return s
}

func (summarizer) Higher(p plant.HigherOrder) Summary {
	_, den := p.OpenLoop()
	t := Routh(den)
	s := Summary{
		Order:  plant.OrderHigher,
		Method: MethodRouth,
		Stable: t.Stable(),
		Routh:  &t,
		Minors: PrincipalMinors(HurwitzMatrix(poly.Trim(den))),
	}
	s.BIBO = s.Stable
	s.Poles, s.Zeros = plant.PoleZeroMap(p)
	s.PoleText = make([]string, len(s.Poles))
	for i, z := range s.Poles {
		s.PoleText[i] = poly.FormatComplex(z)
	}
	return s
}

// RootsStable reports whether every root of c lies strictly in the left half
// plane. It is the direct check the algebraic criteria stand in for; a
// polynomial whose roots cannot be determined is not reported stable.
func RootsStable(c []float64) bool {
	rs := roots.Solve(c)
	if len(rs) == 0 {
		return false
	}
	for _, z := range rs {
		if real(z) >= 0 {
			return false
		}
	}
	return true
}
