// Package roots finds all complex roots of a real polynomial.
//
// Degrees one and two use closed forms. Higher degrees use Durand–Kerner
// simultaneous iteration capped at [MaxIterations]; when the cap is reached
// the current estimates are returned as they are. Callers must treat roots of
// degree three and above as approximate.
package roots

import (
	"math"
	"math/cmplx"

	"github.com/san-kum/ctrlsim/internal/poly"
)

const (
	// MaxIterations caps Durand–Kerner iteration.
	MaxIterations = 100
	// Tolerance is the largest per-iteration correction accepted as converged.
	Tolerance = 1e-10
	// LeadingTol is the leading-coefficient magnitude below which no roots
	// are reported.
	LeadingTol = 1e-12

	// startAngle rotates the initial circle so the starting points sit off
	// any symmetry of the polynomial's roots.
	startAngle = 0.4
)

// Stats describes the last Durand–Kerner run of a Solver. Degenerate is set
// when the final iteration had to skip a correction because two estimates
// coincided or the update overflowed; such a run never counts as converged.
type Stats struct {
	Iterations int
	MaxDelta   float64
	Converged  bool
	Degenerate bool
}

// Solver holds scratch buffers reused across Solve calls. A Solver is not
// safe for concurrent use; give each goroutine its own.
type Solver struct {
	MaxIter int
	Tol     float64

	norm []float64
	z    []complex128
	next []complex128
	last Stats
}

func NewSolver() *Solver {
	return &Solver{MaxIter: MaxIterations, Tol: Tolerance}
}

// Solve returns the roots of c (descending powers) using a fresh Solver.
func Solve(c []float64) []complex128 {
	return NewSolver().Solve(c)
}

func (s *Solver) ensureScratch(n int) {
	if cap(s.z) < n {
		s.norm = make([]float64, n+1)
		s.z = make([]complex128, n)
		s.next = make([]complex128, n)
	}
	s.norm = s.norm[:n+1]
	s.z = s.z[:n]
	s.next = s.next[:n]
}

// Stats reports how the most recent iterative solve ended. Closed-form
// solves report zero iterations and Converged.
func (s *Solver) Stats() Stats {
	return s.last
}

// Solve returns all roots of c. Leading near-zero coefficients are stripped
// first. An empty result means the roots could not be determined (constant
// or all-zero polynomial); it does not mean the polynomial has no roots.
// The returned slice is freshly allocated.
func (s *Solver) Solve(c []float64) []complex128 {
	s.last = Stats{Converged: true}
	c = poly.Trim(c)
	n := len(c) - 1
	if n <= 0 || math.Abs(c[0]) < LeadingTol {
		return []complex128{}
	}

	switch n {
	case 1:
		return []complex128{complex(-c[1]/c[0], 0)}
	case 2:
		return quadratic(c[0], c[1], c[2])
	}
	return s.durandKerner(c)
}

func quadratic(a, b, c float64) []complex128 {
	d := b*b - 4*a*c
	if d >= 0 {
		sq := math.Sqrt(d)
		return []complex128{
			complex((-b+sq)/(2*a), 0),
			complex((-b-sq)/(2*a), 0),
		}
	}
	re := -b / (2 * a)
	im := math.Sqrt(-d) / (2 * a)
	return []complex128{complex(re, im), complex(re, -im)}
}

func (s *Solver) durandKerner(c []float64) []complex128 {
	n := len(c) - 1
	s.ensureScratch(n)

	lead := c[0]
	for i, v := range c {
		s.norm[i] = v / lead
	}

	radius := math.Max(1, math.Abs(s.norm[n]))
	for i := 0; i < n; i++ {
		angle := 2*math.Pi*float64(i)/float64(n) + startAngle
		s.z[i] = complex(radius*math.Cos(angle), radius*math.Sin(angle))
	}

	s.last = Stats{}
	for iter := 0; iter < s.MaxIter; iter++ {
		maxDelta := 0.0
		degenerate := false
		for i := 0; i < n; i++ {
			zi := s.z[i]
			den := complex(1, 0)
			for j := 0; j < n; j++ {
				if i != j {
					den *= zi - s.z[j]
				}
			}
			// Native division: clustered estimates give tiny but valid
			// divisors.
			var delta complex128
			if den != 0 {
				delta = poly.Eval(s.norm, zi) / den
			}
			if den == 0 || cmplx.IsNaN(delta) || cmplx.IsInf(delta) {
				degenerate = true
				s.next[i] = zi
				continue
			}
			s.next[i] = zi - delta
			if d := poly.Abs(delta); d > maxDelta {
				maxDelta = d
			}
		}
		s.z, s.next = s.next, s.z

		s.last.Iterations = iter + 1
		s.last.MaxDelta = maxDelta
		s.last.Degenerate = degenerate
		if !degenerate && maxDelta < s.Tol {
			s.last.Converged = true
			break
		}
	}

	out := make([]complex128, n)
	copy(out, s.z)
	return out
}
