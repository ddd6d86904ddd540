package integrators

import "github.com/san-kum/ctrlsim/internal/dynamo"

// Midpoint is the second-order Runge-Kutta midpoint scheme:
//
//	k1 = f(x, u, t)
//	k2 = f(x + dt/2·k1, u, t + dt/2)
//	x' = x + dt·k2
type Midpoint struct {
	k1, k2  dynamo.State
	scratch dynamo.State
}

func NewMidpoint() *Midpoint {
	return &Midpoint{}
}

func (m *Midpoint) Name() string { return "rk2" }

func (m *Midpoint) ensureScratch(n int) {
	if len(m.k1) != n {
		m.k1 = make(dynamo.State, n)
		m.k2 = make(dynamo.State, n)
		m.scratch = make(dynamo.State, n)
	}
}

func (m *Midpoint) Step(dyn dynamo.System, next, x dynamo.State, u dynamo.Control, t, dt float64) {
	m.ensureScratch(len(x))

	dyn.Derive(m.k1, x, u, t)
	m.scratch.AddScaled(x, dt*0.5, m.k1)
	dyn.Derive(m.k2, m.scratch, u, t+dt*0.5)
	next.AddScaled(x, dt, m.k2)
}
