package poly

import "math"

// DivEpsilon is the squared divisor magnitude below which Div reports a
// degenerate quotient.
const DivEpsilon = 1e-10

// Div returns a/b. A divisor whose squared magnitude is below DivEpsilon
// yields 0 instead of an infinity; callers treat that as a degenerate
// response, not a failure.
func Div(a, b complex128) complex128 {
	den := real(b)*real(b) + imag(b)*imag(b)
	if math.Abs(den) < DivEpsilon {
		return 0
	}
	return complex(
		(real(a)*real(b)+imag(a)*imag(b))/den,
		(imag(a)*real(b)-real(a)*imag(b))/den,
	)
}

// Degenerate reports whether Div would refuse b as a divisor.
func Degenerate(b complex128) bool {
	return real(b)*real(b)+imag(b)*imag(b) < DivEpsilon
}

func Abs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}

// Phase returns the principal argument of c in (-π, π].
func Phase(c complex128) float64 {
	return math.Atan2(imag(c), real(c))
}

// Pow raises c to a non-negative integer power by repeated multiplication.
// Negative exponents are treated as zero.
func Pow(c complex128, n int) complex128 {
	result := complex(1, 0)
	for i := 0; i < n; i++ {
		result *= c
	}
	return result
}
