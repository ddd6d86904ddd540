package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors. Degenerate numerics never produce these; they report misuse.
var (
	// ErrDimensionMismatch indicates sequences that must have equal length do not.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch")

	// ErrContextCanceled indicates the computation was interrupted.
	ErrContextCanceled = errors.New("dynamo: canceled by context")

	// ErrUnknownInput indicates an input kind outside the supported set.
	ErrUnknownInput = errors.New("dynamo: unknown input kind")

	// ErrUnknownIntegrator indicates an integrator name with no registration.
	ErrUnknownIntegrator = errors.New("dynamo: unknown integrator")
)

// SimulationError wraps an error with the step at which it occurred.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
