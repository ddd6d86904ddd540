package integrators

import (
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/ctrlsim/internal/dynamo"
)

// Default is the scheme used when no integrator is named.
const Default = "rk2"

var factories = map[string]func() dynamo.Integrator{
	"euler":    func() dynamo.Integrator { return NewEuler() },
	"rk2":      func() dynamo.Integrator { return NewMidpoint() },
	"midpoint": func() dynamo.Integrator { return NewMidpoint() },
	"rk4":      func() dynamo.Integrator { return NewRK4() },
}

// New returns a fresh integrator by name. An empty name selects Default.
// Integrators hold scratch buffers, so each simulation needs its own.
func New(name string) (dynamo.Integrator, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = Default
	}
	f, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", dynamo.ErrUnknownIntegrator, name)
	}
	return f(), nil
}

// Names lists the registered integrator names in sorted order.
func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
