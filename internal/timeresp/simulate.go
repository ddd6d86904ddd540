package timeresp

import (
	"context"
	"fmt"

	"github.com/san-kum/ctrlsim/internal/dynamo"
	"github.com/san-kum/ctrlsim/internal/integrators"
	"github.com/san-kum/ctrlsim/internal/statespace"
)

// cancelCheckEvery is how many steps run between context checks.
const cancelCheckEvery = 256

// Simulate integrates num/den (gain already folded into num) over t from a
// zero initial state. y[k] is the output at t[k], recorded before the step
// from t[k] to t[k+1]; the input sample u[k] is held across that step. A nil
// integ selects the default midpoint scheme. A denominator without a usable
// realization yields zeros.
func Simulate(ctx context.Context, num, den []float64, in Input, t []float64, integ dynamo.Integrator) ([]float64, error) {
	y := make([]float64, len(t))
	m, ok := statespace.FromTransferFunction(num, den)
	if !ok || len(t) == 0 {
		return y, nil
	}
	if integ == nil {
		integ = integrators.NewMidpoint()
	}

	dt := stepOf(t)
	u := in.Signal(t)
	x, next := m.NewState(), m.NewState()
	ctl := make(dynamo.Control, 1)

	for k := range t {
		if k%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, &dynamo.SimulationError{
					Step:    k,
					Time:    t[k],
					State:   x.Clone(),
					Wrapped: fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, err),
				}
			}
		}
		ctl[0] = u[k]
		y[k] = m.Output(x, u[k])
		integ.Step(m, next, x, ctl, t[k], dt)
		x, next = next, x
	}
	return y, nil
}
