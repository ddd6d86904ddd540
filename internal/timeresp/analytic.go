package timeresp

import (
	"math"
	"math/cmplx"

	"github.com/san-kum/ctrlsim/internal/plant"
	"github.com/san-kum/ctrlsim/internal/poly"
)

// transientCutoff is the number of time constants of the slowest pole after
// which the second-order sinusoidal transient is taken as zero.
const transientCutoff = 10.0

// FirstOrder evaluates K/(τs+1) driven by in. τ = 0 degenerates to a static
// gain.
func FirstOrder(p plant.FirstOrder, in Input, t []float64) []float64 {
	y := make([]float64, len(t))
	K, tau := p.K, p.Tau
	if tau == 0 {
		u := in.Signal(t)
		for i := range y {
			y[i] = K * u[i]
		}
		return y
	}

	// Sinusoidal gain and phase at the forcing frequency.
	wt := in.Freq * tau
	mag := K / math.Sqrt(1+wt*wt)
	phase := -math.Atan(wt)

	for i, ti := range t {
		e := math.Exp(-ti / tau)
		switch in.Kind {
		case Step:
			y[i] = K * (1 - e)
		case Ramp:
			y[i] = K * (ti - tau*(1-e))
		case Parabolic:
			y[i] = K * (0.5*ti*ti - tau*ti + tau*tau*(1-e))
		case Impulse:
			y[i] = K / tau * e
		case Sinusoid:
			ss := mag * in.Amp * math.Sin(in.Freq*ti+phase)
			y[i] = ss - mag*in.Amp*math.Sin(phase)*e
		}
	}
	return y
}

// SecondOrder evaluates Kωₙ²/(s²+2ζωₙs+ωₙ²) driven by in. ωₙ ≤ 0 yields
// zeros.
//
// Writing the forced response as the inverse transform of G(s)/s^k, each
// input splits into a polynomial particular part plus the residues at the
// plant poles p₁, p₂:
//
//	step       1 + T₁(t)
//	ramp       t - 2ζ/ωₙ + T₂(t)
//	parabolic  t²/2 - 2ζt/ωₙ + (4ζ²-1)/ωₙ² + T₃(t)
//
// with T_k(t) = ωₙ²·Σ e^{pᵢt}/(pᵢ^k·(pᵢ-pⱼ)) for distinct poles and
// T_k(t) = ωₙ²·e^{pt}·(t/p^k - k/p^{k+1}) at the double pole p = -ζωₙ,
// |ζ| = 1.
func SecondOrder(p plant.SecondOrder, in Input, t []float64) []float64 {
	y := make([]float64, len(t))
	if p.Wn <= 0 {
		return y
	}
	r := newResidues(p)

	for i, ti := range t {
		switch in.Kind {
		case Step:
			y[i] = 1 + r.transient(1, ti)
		case Ramp:
			y[i] = ti - 2*r.zeta/r.wn + r.transient(2, ti)
		case Parabolic:
			wn2 := r.wn * r.wn
			y[i] = 0.5*ti*ti - 2*r.zeta*ti/r.wn + (4*r.zeta*r.zeta-1)/wn2 + r.transient(3, ti)
		case Impulse:
			y[i] = r.impulse(ti)
		case Sinusoid:
			y[i] = r.sinusoid(in, ti)
			continue
		}
		y[i] *= p.K
	}
	return y
}

// residues holds the pole data of a second-order plant.
type residues struct {
	wn, zeta float64
	gain     float64
	p1, p2   complex128
	repeated bool
}

func newResidues(p plant.SecondOrder) residues {
	r := residues{wn: p.Wn, zeta: p.Zeta, gain: p.K}
	if p.Repeated() {
		r.repeated = true
		r.p1 = p.DoublePole()
		r.p2 = r.p1
		return r
	}
	r.p1, r.p2 = p.Poles()
	return r
}

// transient returns T_k(t) for unit gain. Neither pole is zero while
// ωₙ > 0, and distinct poles differ, so the divisions are safe.
func (r residues) transient(k int, t float64) float64 {
	wn2 := complex(r.wn*r.wn, 0)
	ct := complex(t, 0)
	if r.repeated {
		p := r.p1
		pk := poly.Pow(p, k)
		term := ct/pk - complex(float64(k), 0)/(pk*p)
		return real(wn2 * cmplx.Exp(p*ct) * term)
	}
	d := r.p1 - r.p2
	a := cmplx.Exp(r.p1*ct) / (poly.Pow(r.p1, k) * d)
	b := cmplx.Exp(r.p2*ct) / (-poly.Pow(r.p2, k) * d)
	return real(wn2 * (a + b))
}

// impulse returns the unit-gain impulse response.
func (r residues) impulse(t float64) float64 {
	wn2 := r.wn * r.wn
	if r.repeated {
		return wn2 * t * math.Exp(real(r.p1)*t)
	}
	ct := complex(t, 0)
	diff := cmplx.Exp(r.p1*ct) - cmplx.Exp(r.p2*ct)
	return real(complex(wn2, 0) * diff / (r.p1 - r.p2))
}

// sinusoid returns the full response to A·sin(ωt) including gain: the steady
// sinusoid A·|G(jω)|·sin(ωt + ∠G(jω)) plus the residues of
// G(s)·Aω/(s²+ω²) at the plant poles. For stable poles the transient is
// dropped once t exceeds transientCutoff time constants; for underdamped
// plants that is 10/(ζωₙ).
func (r residues) sinusoid(in Input, t float64) float64 {
	w := in.Freq
	wn2 := r.wn * r.wn
	g := poly.Div(complex(r.gain*wn2, 0), complex(wn2-w*w, 2*r.zeta*r.wn*w))
	y := in.Amp * cmplx.Abs(g) * math.Sin(w*t+cmplx.Phase(g))

	if slow := math.Max(real(r.p1), real(r.p2)); slow < 0 && t > transientCutoff/-slow {
		return y
	}

	c := complex(r.gain*wn2*in.Amp*w, 0)
	ct := complex(t, 0)
	w2 := complex(w*w, 0)
	// A pole on ±jω means undamped resonance; the Div fault above already
	// zeroed the steady part and the transient is left out with it.
	if resonant(r.p1, w2) || resonant(r.p2, w2) {
		return y
	}
	if r.repeated {
		p := r.p1
		q := p*p + w2
		term := ct/q - 2*p/(q*q)
		return y + real(c*cmplx.Exp(p*ct)*term)
	}
	d := r.p1 - r.p2
	a := cmplx.Exp(r.p1*ct) / (d * (r.p1*r.p1 + w2))
	b := cmplx.Exp(r.p2*ct) / (-d * (r.p2*r.p2 + w2))
	return y + real(c*(a+b))
}

func resonant(p, w2 complex128) bool {
	return cmplx.Abs(p*p+w2) <= 1e-12*math.Max(1, real(w2))
}
