package poly

import (
	"fmt"
	"math"
	"strings"
)

// String renders c as a polynomial in variable, e.g. "s^2 + 3.000s - 2.000".
// Terms below 1e-10 are omitted and unit coefficients are elided except on
// the constant term.
func String(c []float64, variable string) string {
	n := len(c) - 1
	var sb strings.Builder
	terms := 0
	for i, v := range c {
		if math.Abs(v) < 1e-10 {
			continue
		}
		power := n - i
		switch {
		case v < 0 && terms == 0:
			sb.WriteString("-")
		case v < 0:
			sb.WriteString(" - ")
		case terms > 0:
			sb.WriteString(" + ")
		}
		if math.Abs(v) != 1 || power == 0 {
			fmt.Fprintf(&sb, "%.3f", math.Abs(v))
		}
		switch {
		case power > 1:
			fmt.Fprintf(&sb, "%s^%d", variable, power)
		case power == 1:
			sb.WriteString(variable)
		}
		terms++
	}
	if terms == 0 {
		return "0"
	}
	return sb.String()
}

// FormatComplex renders z as "a", "bj" or "a ± bj" with three decimals.
func FormatComplex(z complex128) string {
	re, im := real(z), imag(z)
	if math.Abs(im) < 1e-9 {
		return fmt.Sprintf("%.3f", re)
	}
	sign := "+"
	if im < 0 {
		sign = "-"
	}
	return fmt.Sprintf("%.3f %s %.3fj", re, sign, math.Abs(im))
}
