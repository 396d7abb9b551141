package sim

import (
	"math"
	"time"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Add(other State) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i]
		if i < len(other) {
			result[i] += other[i]
		}
	}
	return result
}

func (s State) Scale(factor float64) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] * factor
	}
	return result
}

type Control []float64

// Dynamics is a continuous-time plant model.
type Dynamics interface {
	Derivative(x State, u Control, t float64) State
	StateDim() int
	ControlDim() int
}

type Integrator interface {
	Step(dyn Dynamics, x State, u Control, t float64, dt float64) State
}

// Configurable is implemented by models that support live tuning.
type Configurable interface {
	Params() map[string]float64
	SetParam(name string, value float64) error
}

// Observer is notified after every plant step. t is simulated time.
type Observer interface {
	OnStep(x State, u Control, t time.Duration)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(x State, u Control, t time.Duration)

func (f ObserverFunc) OnStep(x State, u Control, t time.Duration) { f(x, u, t) }

// Pose is a plain field pose in inches and degrees, shared by the recorder,
// metrics and storage.
type Pose struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Heading float64 `json:"heading"`
}

// Sample is one recorded step of a run.
type Sample struct {
	T       time.Duration
	True    Pose
	Tracked Pose
	CmdL    float64
	CmdR    float64
}

func (p Pose) DistTo(o Pose) float64 {
	return math.Hypot(o.X-p.X, o.Y-p.Y)
}
