package metrics

import "github.com/san-kum/tankbot/internal/sim"

// PathLength is the distance the chassis actually covered, in inches.
type PathLength struct {
	total float64
	prev  sim.Pose
	seen  bool
}

func NewPathLength() *PathLength {
	return &PathLength{}
}

func (p *PathLength) Name() string {
	return "path_length_in"
}

func (p *PathLength) Observe(s sim.Sample) {
	if p.seen {
		p.total += p.prev.DistTo(s.True)
	}
	p.prev = s.True
	p.seen = true
}

func (p *PathLength) Value() float64 {
	return p.total
}

func (p *PathLength) Reset() {
	*p = PathLength{}
}
