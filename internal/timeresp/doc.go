// Package timeresp computes time-domain responses of plants to the canonical
// test inputs and extracts the usual response characteristics.
//
// First- and second-order plants are evaluated from closed-form expressions
// obtained by partial fractions of G(s)·R(s). Higher-order plants are
// realized in controllable canonical form and integrated with a fixed-step
// scheme (RK2 midpoint unless another integrator is supplied), the input
// held constant across each step.
package timeresp
