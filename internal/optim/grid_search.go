package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

var ErrNoCandidates = errors.New("optim: no candidate produced a score")

// Objective scores one parameter set; lower is better.
type Objective func(ctx context.Context, params map[string]float64) (float64, error)

// Result is one scored grid point.
type Result struct {
	Params map[string]float64
	Score  float64
	Err    error
}

// GridSearch evaluates an Objective at every combination of parameter values.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	workers    int
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges, workers: 1}
}

// WithWorkers sets how many candidates are scored concurrently.
func (g *GridSearch) WithWorkers(n int) *GridSearch {
	if n < 1 {
		n = 1
	}
	g.workers = n
	return g
}

// Size is the number of grid points.
func (g *GridSearch) Size() int {
	if len(g.ranges) == 0 {
		return 0
	}
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Candidates lists every grid point, the last parameter varying fastest.
func (g *GridSearch) Candidates() []map[string]float64 {
	if len(g.paramNames) != len(g.ranges) {
		return nil
	}
	out := make([]map[string]float64, 0, g.Size())
	g.expand(0, map[string]float64{}, &out)
	return out
}

func (g *GridSearch) expand(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.paramNames) {
		if len(current) > 0 {
			*out = append(*out, current)
		}
		return
	}
	for _, val := range g.ranges[depth] {
		next := make(map[string]float64, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[g.paramNames[depth]] = val
		g.expand(depth+1, next, out)
	}
}

// Search scores every candidate and returns them best first. Candidates whose
// objective failed sort last with their error attached. The error is non-nil
// only if ctx ended or no candidate scored; individual failures are joined
// into it in the latter case.
func (g *GridSearch) Search(ctx context.Context, obj Objective) ([]Result, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, fmt.Errorf("optim: %d parameter names for %d ranges", len(g.paramNames), len(g.ranges))
	}

	cands := g.Candidates()
	results := make([]Result, len(cands))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)

	var mu sync.Mutex
	var failures error
	for i, params := range cands {
		i, params := i, params
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			score, err := obj(ctx, params)
			if err == nil && math.IsNaN(score) {
				err = errors.New("objective returned NaN")
			}
			results[i] = Result{Params: params, Score: score, Err: err}
			if err != nil {
				results[i].Score = math.Inf(1)
				mu.Lock()
				failures = multierr.Append(failures, fmt.Errorf("%v: %w", params, err))
				mu.Unlock()
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score < results[b].Score
	})
	if len(results) == 0 || results[0].Err != nil {
		return results, multierr.Append(ErrNoCandidates, failures)
	}
	return results, nil
}
