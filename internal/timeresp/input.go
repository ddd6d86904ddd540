package timeresp

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/ctrlsim/internal/dynamo"
)

type Kind int

const (
	Step Kind = iota
	Ramp
	Parabolic
	Impulse
	Sinusoid
)

var kindNames = [...]string{"step", "ramp", "parabolic", "impulse", "sinusoidal"}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) valid() bool {
	return k >= Step && k <= Sinusoid
}

// ParseKind accepts the names printed by Kind.String plus "sine" and
// "sinusoid".
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "sine", "sinusoid", "sin":
		return Sinusoid, nil
	}
	for i, name := range kindNames {
		if s == name {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", dynamo.ErrUnknownInput, s)
}

// Input is a reference signal. Freq (rad/s) and Amp apply to sinusoids only.
type Input struct {
	Kind Kind
	Freq float64
	Amp  float64
}

// NewInput returns an input of the given kind with a unit sinusoid.
func NewInput(k Kind) Input {
	return Input{Kind: k, Freq: 1, Amp: 1}
}

// At returns r(t). Impulses have no pointwise value and return 0.
func (in Input) At(t float64) float64 {
	switch in.Kind {
	case Step:
		return 1
	case Ramp:
		return t
	case Parabolic:
		return 0.5 * t * t
	case Sinusoid:
		return in.Amp * math.Sin(in.Freq*t)
	}
	return 0
}

// Signal samples the input over t. The impulse is approximated by 1/Δt at
// the first sample and zero elsewhere.
func (in Input) Signal(t []float64) []float64 {
	u := make([]float64, len(t))
	if in.Kind == Impulse {
		if len(u) > 0 {
			u[0] = 1 / stepOf(t)
		}
		return u
	}
	for i, ti := range t {
		u[i] = in.At(ti)
	}
	return u
}
