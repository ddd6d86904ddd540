package poly

import (
	"errors"
	"math"
)

// ZeroTol is the magnitude below which a coefficient counts as zero.
const ZeroTol = 1e-12

// ErrLengthMismatch is returned when coefficient-wise combination is asked
// for polynomials of different lengths.
var ErrLengthMismatch = errors.New("poly: coefficient sequences differ in length")

// Degree returns len(c)-1, or -1 for an empty sequence.
func Degree(c []float64) int {
	return len(c) - 1
}

// Eval evaluates c at z by Horner accumulation over descending powers.
func Eval(c []float64, z complex128) complex128 {
	var acc complex128
	for _, v := range c {
		acc = acc*z + complex(v, 0)
	}
	return acc
}

// EvalReal evaluates c at a real point.
func EvalReal(c []float64, x float64) float64 {
	acc := 0.0
	for _, v := range c {
		acc = acc*x + v
	}
	return acc
}

// Trim strips leading coefficients whose magnitude is below ZeroTol. The
// result shares storage with c.
func Trim(c []float64) []float64 {
	i := 0
	for i < len(c) && math.Abs(c[i]) < ZeroTol {
		i++
	}
	return c[i:]
}

// IsZero reports whether every coefficient is below ZeroTol in magnitude.
func IsZero(c []float64) bool {
	for _, v := range c {
		if math.Abs(v) >= ZeroTol {
			return false
		}
	}
	return true
}

// PadLeft returns a fresh copy of c with exactly n coefficients. Shorter
// sequences are left-padded with zeros; longer ones keep their n lowest-order
// terms, dropping the highest powers.
func PadLeft(c []float64, n int) []float64 {
	if n <= 0 {
		return []float64{}
	}
	out := make([]float64, n)
	if len(c) >= n {
		copy(out, c[len(c)-n:])
		return out
	}
	copy(out[n-len(c):], c)
	return out
}

// Align pads or truncates num to the length of den.
func Align(num, den []float64) []float64 {
	return PadLeft(num, len(den))
}

// StrictlyProper returns num reshaped to n coefficients, where n is the
// degree of the denominator. Numerator degree is then below n.
func StrictlyProper(num []float64, n int) []float64 {
	return PadLeft(num, n)
}

// Scale returns k·c.
func Scale(c []float64, k float64) []float64 {
	out := make([]float64, len(c))
	for i, v := range c {
		out[i] = k * v
	}
	return out
}

// Combine returns d + k·n for equal-length sequences.
func Combine(d, n []float64, k float64) ([]float64, error) {
	if len(d) != len(n) {
		return nil, ErrLengthMismatch
	}
	out := make([]float64, len(d))
	for i := range d {
		out[i] = d[i] + k*n[i]
	}
	return out, nil
}

// CombineInto writes d + k·n into dst. All three must share a length.
func CombineInto(dst, d, n []float64, k float64) error {
	if len(d) != len(n) || len(dst) != len(d) {
		return ErrLengthMismatch
	}
	for i := range d {
		dst[i] = d[i] + k*n[i]
	}
	return nil
}

// Mul returns the product polynomial a·b.
func Mul(a, b []float64) []float64 {
	if len(a) == 0 || len(b) == 0 {
		return []float64{}
	}
	out := make([]float64, len(a)+len(b)-1)
	for i, x := range a {
		for j, y := range b {
			out[i+j] += x * y
		}
	}
	return out
}

// FromRoots expands the monic polynomial with the given real roots.
func FromRoots(rs ...float64) []float64 {
	out := []float64{1}
	for _, r := range rs {
		out = Mul(out, []float64{1, -r})
	}
	return out
}
