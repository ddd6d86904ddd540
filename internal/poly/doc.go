// Package poly provides the complex and polynomial algebra shared by every
// analysis pipeline.
//
// Complex values are plain complex128. The helpers here add the guarded
// behavior the analyses rely on:
//
//   - [Div]: quotient that yields 0 when the divisor is (near) zero
//   - [Abs], [Phase], [Pow]: magnitude, principal phase, integer power
//   - [Eval]: Horner evaluation of a descending-power polynomial
//
// Polynomials are []float64 in descending powers, leading term first.
// [PadLeft] and [Combine] keep polynomials at a fixed length so they can be
// combined coefficient-wise, e.g. D(s) + K·N(s).
package poly
