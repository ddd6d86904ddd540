// Package dynamo provides the simulation primitives shared by the
// state-space and time-response packages.
//
// The package defines the interfaces for integrating linear ODEs
// dx/dt = f(x, u, t):
//
//   - [State]: vector representing system state
//   - [System]: derivative evaluator writing into a caller-owned buffer
//   - [Integrator]: one fixed step of a numerical scheme
//
// # Buffers
//
// Both interfaces write into destination slices supplied by the caller, so a
// simulation allocates its state storage once and reuses it for every step.
// Implementations must not retain the slices they are handed.
//
// # Example
//
//	ss := statespace.FromTransferFunction(num, den)
//	integ := integrators.NewMidpoint()
//	x, next := ss.NewState(), ss.NewState()
//	integ.Step(ss, next, x, dynamo.Control{1}, 0, 0.01)
package dynamo
