package timeresp

import (
	"context"
	"fmt"

	"github.com/san-kum/ctrlsim/internal/dynamo"
	"github.com/san-kum/ctrlsim/internal/plant"
	"github.com/san-kum/ctrlsim/internal/statespace"
)

// Response returns the response of p to in over t, integrating higher-order
// plants with the default scheme.
func Response(p plant.Plant, in Input, t []float64) ([]float64, error) {
	return ResponseContext(context.Background(), p, in, t, nil)
}

// ResponseContext is Response with cancellation and a caller-chosen
// integrator for higher-order plants. integ is ignored for first and second
// order plants, which are evaluated analytically.
func ResponseContext(ctx context.Context, p plant.Plant, in Input, t []float64, integ dynamo.Integrator) ([]float64, error) {
	if !in.Kind.valid() {
		return nil, fmt.Errorf("%w: %v", dynamo.ErrUnknownInput, in.Kind)
	}
	out := plant.Visit[result](p, responder{ctx: ctx, in: in, t: t, integ: integ})
	return out.y, out.err
}

// DCGain returns G(0) from the state-space realization of p, the value a
// stable step response settles to. Plants without a realization fall back to
// evaluating the transfer function at s = 0. A pole at the origin gives NaN
// or ±Inf.
func DCGain(p plant.Plant) float64 {
	num, den := p.TransferFunction()
	if m, ok := statespace.FromTransferFunction(num, den); ok {
		return m.DCGain()
	}
	return real(plant.EvalAt(p, 0))
}

type result struct {
	y   []float64
	err error
}

type responder struct {
	ctx   context.Context
	in    Input
	t     []float64
	integ dynamo.Integrator
}

func (r responder) First(p plant.FirstOrder) result {
	return result{y: FirstOrder(p, r.in, r.t)}
}

func (r responder) Second(p plant.SecondOrder) result {
	return result{y: SecondOrder(p, r.in, r.t)}
}

func (r responder) Higher(p plant.HigherOrder) result {
	num, den := p.TransferFunction()
	y, err := Simulate(r.ctx, num, den, r.in, r.t, r.integ)
	return result{y: y, err: err}
}
