package integrators

import (
	"testing"

	"github.com/san-kum/ctrlsim/internal/dynamo"
)

// chain is a cascade of eight first-order lags.
type chain struct{}

func (chain) StateDim() int { return 8 }

func (chain) Derive(dx, x dynamo.State, u dynamo.Control, t float64) {
	dx[0] = -x[0] + u[0]
	for i := 1; i < 8; i++ {
		dx[i] = -x[i] + x[i-1]
	}
}

func benchStep(b *testing.B, integ dynamo.Integrator, dyn dynamo.System) {
	x := make(dynamo.State, dyn.StateDim())
	next := make(dynamo.State, dyn.StateDim())
	u := dynamo.Control{1}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integ.Step(dyn, next, x, u, 0, 0.01)
		x, next = next, x
	}
}

func BenchmarkEuler(b *testing.B)    { benchStep(b, NewEuler(), oscillator{}) }
func BenchmarkMidpoint(b *testing.B) { benchStep(b, NewMidpoint(), oscillator{}) }
func BenchmarkRK4(b *testing.B)      { benchStep(b, NewRK4(), oscillator{}) }

func BenchmarkMidpoint_Chain8(b *testing.B) { benchStep(b, NewMidpoint(), chain{}) }
func BenchmarkRK4_Chain8(b *testing.B)      { benchStep(b, NewRK4(), chain{}) }
