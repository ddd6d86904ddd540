package stability

import "github.com/san-kum/ctrlsim/internal/poly"

// HurwitzMatrix returns the n×n matrix whose (i, j) entry, 1-indexed, is
// c[2i-j] or zero when 2i-j falls outside c. n is the degree of c.
func HurwitzMatrix(c []float64) [][]float64 {
	n := len(c) - 1
	if n < 1 {
		return [][]float64{}
	}
	h := make([][]float64, n)
	for i := 1; i <= n; i++ {
		row := make([]float64, n)
		for j := 1; j <= n; j++ {
			if idx := 2*i - j; idx >= 0 && idx < len(c) {
				row[j-1] = c[idx]
			}
		}
		h[i-1] = row
	}
	return h
}

// Determinant expands along the first row recursively. The empty matrix has
// determinant 0.
func Determinant(m [][]float64) float64 {
	n := len(m)
	switch n {
	case 0:
		return 0
	case 1:
		return m[0][0]
	case 2:
		return m[0][0]*m[1][1] - m[0][1]*m[1][0]
	}

	det := 0.0
	minor := make([][]float64, n-1)
	for j := 0; j < n; j++ {
		for r := 1; r < n; r++ {
			row := make([]float64, 0, n-1)
			row = append(row, m[r][:j]...)
			row = append(row, m[r][j+1:]...)
			minor[r-1] = row
		}
		sign := 1.0
		if j%2 == 1 {
			sign = -1
		}
		det += sign * m[0][j] * Determinant(minor)
	}
	return det
}

// PrincipalMinors returns Δ₁..Δₙ, the determinants of the leading k×k
// submatrices of m.
func PrincipalMinors(m [][]float64) []float64 {
	minors := make([]float64, len(m))
	for k := 1; k <= len(m); k++ {
		sub := make([][]float64, k)
		for i := 0; i < k; i++ {
			sub[i] = m[i][:k]
		}
		minors[k-1] = Determinant(sub)
	}
	return minors
}

// HurwitzStable reports whether every principal minor is positive after the
// leading coefficient has been made positive. A constant polynomial is
// stable when nonzero.
func HurwitzStable(coeffs []float64) bool {
	c := append([]float64(nil), poly.Trim(coeffs)...)
	if len(c) == 0 {
		return false
	}
	if c[0] < 0 {
		for i := range c {
			c[i] = -c[i]
		}
	}
	for _, d := range PrincipalMinors(HurwitzMatrix(c)) {
		if !(d > 0) {
			return false
		}
	}
	return true
}
