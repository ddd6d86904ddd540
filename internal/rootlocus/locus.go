// Package rootlocus sweeps the loop gain K and follows the closed-loop poles,
// the roots of D(s) + K·N(s), from step to step.
//
// Each sweep step is an immutable snapshot of the roots at one gain.
// Branches are index-based: entry k of a branch names the root it occupies
// in snapshot k, or Gap. Following a branch never mutates a snapshot.
package rootlocus

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/ctrlsim/internal/dynamo"
	"github.com/san-kum/ctrlsim/internal/plant"
	"github.com/san-kum/ctrlsim/internal/poly"
	"github.com/san-kum/ctrlsim/internal/roots"
)

// Gap marks a step where a branch has no matched root.
const Gap = -1

// rhpTol is the real part above which a pole counts as unstable.
const rhpTol = 1e-9

// Sample is the set of closed-loop poles at one gain.
type Sample struct {
	K     float64
	Roots []complex128
}

// Branch holds, per sweep step, an index into that step's Roots or Gap.
type Branch []int

// Locus is a completed sweep.
type Locus struct {
	Range    Range
	Samples  []Sample
	Branches []Branch
	// Poles and Zeros are the open-loop roots of D and of N aligned to D.
	Poles []complex128
	Zeros []complex128
	// Threshold is the squared distance beyond which two roots on adjacent
	// steps are not considered the same branch.
	Threshold float64
}

// Sweep runs the sweep without cancellation.
func Sweep(num, den []float64, r Range) *Locus {
	l, _ := SweepContext(context.Background(), num, den, r)
	return l
}

// ForPlant sweeps the open loop of p. K in p is ignored; the gain comes from
// r.
func ForPlant(ctx context.Context, p plant.Plant, r Range) (*Locus, error) {
	num, den := p.OpenLoop()
	return SweepContext(ctx, num, den, r)
}

// SweepContext computes the roots of D + K·N at every gain of r (after
// Normalize) and links them into branches. ctx is checked once per step.
func SweepContext(ctx context.Context, num, den []float64, r Range) (*Locus, error) {
	r = r.Normalize()
	n := poly.Align(num, den)
	solver := roots.NewSolver()

	l := &Locus{
		Range:   r,
		Samples: make([]Sample, 0, r.Steps+1),
		Poles:   solver.Solve(den),
		Zeros:   solver.Solve(n),
	}
	l.Threshold = matchThreshold(l.Poles, l.Zeros)

	char := make([]float64, len(den))
	for i := 0; i <= r.Steps; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("rootlocus: step %d: %w: %w", i, dynamo.ErrContextCanceled, err)
		}
		k := r.Gain(i)
		// Lengths agree by construction.
		_ = poly.CombineInto(char, den, n, k)

		s := Sample{K: k, Roots: []complex128{}}
		if !poly.IsZero(char) {
			s.Roots = solver.Solve(char)
		}
		l.Samples = append(l.Samples, s)
	}

	l.Branches = track(l.Samples, l.Threshold)
	return l, nil
}

// matchThreshold is (0.5·scale)² where scale is the largest |Re| or |Im|
// among the open-loop poles and zeros, at least 1.
func matchThreshold(poles, zeros []complex128) float64 {
	scale := 1.0
	for _, set := range [][]complex128{poles, zeros} {
		for _, z := range set {
			scale = math.Max(scale, math.Max(math.Abs(real(z)), math.Abs(imag(z))))
		}
	}
	return (0.5 * scale) * (0.5 * scale)
}

// Point returns the root of branch b at step k.
func (l *Locus) Point(b, k int) (complex128, bool) {
	idx := l.Branches[b][k]
	if idx == Gap {
		return 0, false
	}
	return l.Samples[k].Roots[idx], true
}

// Trajectory returns the known points of branch b with their gains.
func (l *Locus) Trajectory(b int) (gains []float64, pts []complex128) {
	for k := range l.Samples {
		if p, ok := l.Point(b, k); ok {
			gains = append(gains, l.Samples[k].K)
			pts = append(pts, p)
		}
	}
	return gains, pts
}

// InitialBranches counts branches present at the first step.
func (l *Locus) InitialBranches() int {
	n := 0
	for _, b := range l.Branches {
		if len(b) > 0 && b[0] != Gap {
			n++
		}
	}
	return n
}

// FirstUnstableGain returns the smallest sampled gain with a closed-loop pole
// in the right half plane.
func (l *Locus) FirstUnstableGain() (float64, bool) {
	for _, s := range l.Samples {
		for _, z := range s.Roots {
			if real(z) > rhpTol {
				return s.K, true
			}
		}
	}
	return 0, false
}
