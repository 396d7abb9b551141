package integrators

import "github.com/san-kum/tankbot/internal/sim"

// Euler is the explicit first-order step. Cheap, and adequate at the small
// steps the runner uses for live views.
type Euler struct{}

func NewEuler() *Euler { return &Euler{} }

func (*Euler) Step(dyn sim.Dynamics, x sim.State, u sim.Control, t, dt float64) sim.State {
	return x.Add(dyn.Derivative(x, u, t).Scale(dt))
}
