package rootlocus

import (
	"math"
	"math/cmplx"
)

// track links the roots of consecutive samples into branches. One branch is
// seeded per root at the first sample that has any. At each later sample
// every branch, in order, takes the nearest unclaimed root to its last known
// point if the squared distance is below threshold, and records Gap
// otherwise. Roots left unclaimed start new branches.
//
// A branch that recorded a gap keeps its last known point and may pick up a
// root again later.
func track(samples []Sample, threshold float64) []Branch {
	var branches []Branch
	// last[b] is the most recent known point of branch b.
	var last []complex128

	start := 0
	for start < len(samples) && len(samples[start].Roots) == 0 {
		start++
	}
	if start == len(samples) {
		return []Branch{}
	}

	spawn := func(k, idx int) {
		b := make(Branch, len(samples))
		for i := range b {
			b[i] = Gap
		}
		b[k] = idx
		branches = append(branches, b)
		last = append(last, samples[k].Roots[idx])
	}

	for idx := range samples[start].Roots {
		spawn(start, idx)
	}

	var used []bool
	for k := start + 1; k < len(samples); k++ {
		now := samples[k].Roots
		used = resize(used, len(now))

		for b := range branches {
			best, bestDist := -1, math.Inf(1)
			for r, z := range now {
				if used[r] {
					continue
				}
				d := sqDist(z, last[b])
				if d < bestDist {
					best, bestDist = r, d
				}
			}
			if best >= 0 && bestDist < threshold {
				used[best] = true
				branches[b][k] = best
				last[b] = now[best]
			}
		}

		for r := range now {
			if !used[r] {
				spawn(k, r)
			}
		}
	}
	return branches
}

func resize(b []bool, n int) []bool {
	if cap(b) < n {
		return make([]bool, n)
	}
	b = b[:n]
	for i := range b {
		b[i] = false
	}
	return b
}

func sqDist(a, b complex128) float64 {
	d := cmplx.Abs(a - b)
	return d * d
}
