package timeresp

import (
	"errors"
	"fmt"
	"math"
)

const (
	DefaultHorizon = 15.0
	DefaultStep    = 0.05
)

// ErrInvalidGrid is returned for a non-positive step or a negative horizon.
var ErrInvalidGrid = errors.New("timeresp: invalid time grid")

// Grid returns the uniform grid 0, step, 2·step, ... covering [0, horizon]
// with ceil(horizon/step)+1 points.
func Grid(horizon, step float64) ([]float64, error) {
	if !(step > 0) || math.IsInf(step, 0) || !(horizon >= 0) || math.IsInf(horizon, 0) {
		return nil, fmt.Errorf("%w: horizon=%v step=%v", ErrInvalidGrid, horizon, step)
	}
	// Tolerance absorbs representation error in horizon/step.
	points := int(math.Ceil(horizon/step-1e-9)) + 1
	t := make([]float64, points)
	for i := range t {
		t[i] = float64(i) * step
	}
	return t, nil
}

// DefaultGrid is Grid(DefaultHorizon, DefaultStep).
func DefaultGrid() []float64 {
	t, _ := Grid(DefaultHorizon, DefaultStep)
	return t
}

// stepOf returns the sample spacing of t, or DefaultStep for grids with fewer
// than two samples.
func stepOf(t []float64) float64 {
	if len(t) > 1 {
		return t[1] - t[0]
	}
	return DefaultStep
}
