package integrators

import "github.com/san-kum/ctrlsim/internal/dynamo"

// Euler is the explicit first-order scheme.
type Euler struct {
	k1 dynamo.State
}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(dyn dynamo.System, next, x dynamo.State, u dynamo.Control, t, dt float64) {
	if len(e.k1) != len(x) {
		e.k1 = make(dynamo.State, len(x))
	}
	dyn.Derive(e.k1, x, u, t)
	next.AddScaled(x, dt, e.k1)
}
