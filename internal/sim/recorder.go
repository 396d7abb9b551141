package sim

import (
	"sync"
	"time"
)

// Metric summarizes a run from its recorded samples.
type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

// PoseFunc extracts a pose from plant state.
type PoseFunc func(x State) Pose

// Recorder is an Observer that keeps at most one Sample per recording interval of simulated time
// and feeds each kept sample to its metrics.
type Recorder struct {
	truePose PoseFunc
	tracked  func() Pose
	every    time.Duration

	mu      sync.Mutex
	samples []Sample
	metrics []Metric
	last    time.Duration
	started bool
}

// NewRecorder records the true pose from plant state and the tracked pose
// from tracked. A nil tracked records a zero tracked pose.
func NewRecorder(truePose PoseFunc, tracked func() Pose, every time.Duration) *Recorder {
	if tracked == nil {
		tracked = func() Pose { return Pose{} }
	}
	return &Recorder{
		truePose: truePose,
		tracked:  tracked,
		every:    every,
	}
}

func (r *Recorder) AddMetric(m Metric) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metrics = append(r.metrics, m)
}

func (r *Recorder) OnStep(x State, u Control, t time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started && t-r.last < r.every {
		return
	}
	r.started = true
	r.last = t

	s := Sample{
		T:       t,
		True:    r.truePose(x),
		Tracked: r.tracked(),
	}
	if len(u) >= 2 {
		s.CmdL, s.CmdR = u[0], u[1]
	}
	r.samples = append(r.samples, s)
	for _, m := range r.metrics {
		m.Observe(s)
	}
}

func (r *Recorder) Samples() []Sample {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Sample, len(r.samples))
	copy(out, r.samples)
	return out
}

// Last returns the most recent sample, if any.
func (r *Recorder) Last() (Sample, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.samples) == 0 {
		return Sample{}, false
	}
	return r.samples[len(r.samples)-1], true
}

func (r *Recorder) Metrics() map[string]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]float64, len(r.metrics))
	for _, m := range r.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = nil
	r.started = false
	for _, m := range r.metrics {
		m.Reset()
	}
}
