package dynamo

import "math"

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

// IsValid reports whether every component is finite.
func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// AddScaled sets s = x + h·dx component-wise. All three must have the same
// length.
func (s State) AddScaled(x State, h float64, dx State) {
	for i := range s {
		s[i] = x[i] + h*dx[i]
	}
}

type Control []float64

// System evaluates dx/dt = f(x, u, t) into dx. len(dx) and len(x) equal
// StateDim.
type System interface {
	Derive(dx, x State, u Control, t float64)
	StateDim() int
}

// Integrator advances x by one step of size dt and writes the result into
// next. next and x must not alias. u is held constant across the step.
type Integrator interface {
	Name() string
	Step(dyn System, next, x State, u Control, t, dt float64)
}
