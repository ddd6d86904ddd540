// Package plant describes linear time-invariant plants as a closed sum type.
//
// A [Plant] is exactly one of [FirstOrder], [SecondOrder] or [HigherOrder].
// Code that must treat each order differently goes through [Visit] with a
// [Visitor]; adding a new order adds a Visitor method, so every dispatch site
// fails to compile until it handles the new case.
package plant

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/ctrlsim/internal/poly"
)

// DampingTol is the distance from ζ = 1 treated as critical damping.
const DampingTol = 1e-8

var (
	ErrUnknownOrder  = errors.New("plant: unknown order")
	ErrNoDenominator = errors.New("plant: denominator coefficients required")
)

type Order int

const (
	OrderFirst Order = iota
	OrderSecond
	OrderHigher
)

func (o Order) String() string {
	switch o {
	case OrderFirst:
		return "first"
	case OrderSecond:
		return "second"
	case OrderHigher:
		return "higher"
	}
	return fmt.Sprintf("Order(%d)", int(o))
}

// ParseOrder accepts "first", "second", "higher" and the digits 1 and 2.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "first", "1":
		return OrderFirst, nil
	case "second", "2":
		return OrderSecond, nil
	case "higher", "high", "n":
		return OrderHigher, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownOrder, s)
}

// Plant is a SISO transfer function G(s) = K·N(s)/D(s).
type Plant interface {
	Order() Order
	// Gain is the loop gain K.
	Gain() float64
	// OpenLoop returns N(s) and D(s) without the gain K.
	OpenLoop() (num, den []float64)
	// TransferFunction returns K·N(s) and D(s).
	TransferFunction() (num, den []float64)

	sealed()
}

// FirstOrder is G(s) = K / (τs + 1).
type FirstOrder struct {
	K   float64
	Tau float64
}

// SecondOrder is G(s) = K·ωₙ² / (s² + 2ζωₙs + ωₙ²).
type SecondOrder struct {
	K    float64
	Wn   float64
	Zeta float64
}

// HigherOrder is G(s) = K·N(s)/D(s) for arbitrary coefficient sequences in
// descending powers.
type HigherOrder struct {
	K   float64
	Num []float64
	Den []float64
}

func (FirstOrder) Order() Order  { return OrderFirst }
func (SecondOrder) Order() Order { return OrderSecond }
func (HigherOrder) Order() Order { return OrderHigher }

func (p FirstOrder) Gain() float64  { return p.K }
func (p SecondOrder) Gain() float64 { return p.K }
func (p HigherOrder) Gain() float64 { return p.K }

func (FirstOrder) sealed()  {}
func (SecondOrder) sealed() {}
func (HigherOrder) sealed() {}

func (p FirstOrder) OpenLoop() (num, den []float64) {
	return []float64{1}, []float64{p.Tau, 1}
}

func (p FirstOrder) TransferFunction() (num, den []float64) {
	return []float64{p.K}, []float64{p.Tau, 1}
}

func (p SecondOrder) OpenLoop() (num, den []float64) {
	w2 := p.Wn * p.Wn
	return []float64{w2}, []float64{1, 2 * p.Zeta * p.Wn, w2}
}

func (p SecondOrder) TransferFunction() (num, den []float64) {
	num, den = p.OpenLoop()
	return poly.Scale(num, p.K), den
}

func (p HigherOrder) OpenLoop() (num, den []float64) {
	num = append([]float64(nil), p.Num...)
	if len(num) == 0 {
		num = []float64{1}
	}
	return num, append([]float64(nil), p.Den...)
}

func (p HigherOrder) TransferFunction() (num, den []float64) {
	num, den = p.OpenLoop()
	return poly.Scale(num, p.K), den
}

// Validate reports descriptors no analysis can use.
func (p HigherOrder) Validate() error {
	if len(p.Den) == 0 {
		return ErrNoDenominator
	}
	return nil
}

// Regime classifies second-order damping.
type Regime int

const (
	Underdamped Regime = iota
	Critical
	Overdamped
)

func (r Regime) String() string {
	switch r {
	case Underdamped:
		return "underdamped"
	case Critical:
		return "critically damped"
	case Overdamped:
		return "overdamped"
	}
	return fmt.Sprintf("Regime(%d)", int(r))
}

func (p SecondOrder) Regime() Regime {
	switch {
	case math.Abs(p.Zeta-1) < DampingTol:
		return Critical
	case p.Zeta < 1:
		return Underdamped
	default:
		return Overdamped
	}
}

// Repeated reports whether the two poles coincide, which happens at
// |ζ| = 1 for either sign of damping.
func (p SecondOrder) Repeated() bool {
	return math.Abs(p.Zeta*p.Zeta-1) < DampingTol
}

// DoublePole returns -ζωₙ, the shared pole when Repeated holds.
func (p SecondOrder) DoublePole() complex128 {
	return complex(-p.Zeta*p.Wn, 0)
}

// Poles returns the two closed-form poles -ζωₙ ± ωₙ√(ζ²-1).
func (p SecondOrder) Poles() (complex128, complex128) {
	sigma := -p.Zeta * p.Wn
	d := p.Zeta*p.Zeta - 1
	if d >= 0 {
		r := p.Wn * math.Sqrt(d)
		return complex(sigma+r, 0), complex(sigma-r, 0)
	}
	wd := p.Wn * math.Sqrt(-d)
	return complex(sigma, wd), complex(sigma, -wd)
}

// Eval returns G(jω).
func Eval(p Plant, omega float64) complex128 {
	num, den := p.TransferFunction()
	s := complex(0, omega)
	return poly.Div(poly.Eval(num, s), poly.Eval(den, s))
}

// EvalAt returns G(s) at an arbitrary complex point.
func EvalAt(p Plant, s complex128) complex128 {
	num, den := p.TransferFunction()
	return poly.Div(poly.Eval(num, s), poly.Eval(den, s))
}
