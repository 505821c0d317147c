package sgsim

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"

	vec2d "github.com/flywave/go3d/float64/vec2"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// SimParams controls a simulation batch.
type SimParams struct {
	// MaxNeighbors caps the conditioning points per kriging solve.
	MaxNeighbors int
	// Realizations is the number of independent fields to generate.
	Realizations int
	// Seed is the base random seed; realization i draws from seed+i.
	Seed uint64
	// BackTransform maps simulated normal scores to raw units through the
	// dataset's transform.
	BackTransform bool
	// Workers bounds concurrent realizations, NumCPU when zero.
	Workers int
	// Progress, when set, is called after each completed realization.
	Progress ProgressCallback
}

// Realization is one simulated field: Values holds one entry per grid node
// in the grid's fixed node order. Values is nil when the realization failed.
type Realization struct {
	Index  int
	Values []float64
}

// Stats returns the mean and variance of the realization values.
func (r Realization) Stats() (mean, variance float64) {
	return stat.MeanVariance(r.Values, nil)
}

// Simulator runs sequential Gaussian simulation over a grid: each
// realization visits the nodes along a random path, krigs a conditional
// distribution at each node from the samples and the previously simulated
// nodes, and draws one value from it.
type Simulator struct {
	grid    *Grid
	dataset *SpatialDataset
	solver  KrigingSolver
	params  SimParams
}

func NewSimulator(grid *Grid, dataset *SpatialDataset, model *Variogram, params SimParams) (*Simulator, error) {
	if grid == nil || dataset == nil || model == nil {
		return nil, fmt.Errorf("%w: nil grid, dataset or model", ErrInvalidParameter)
	}
	if params.MaxNeighbors < 1 {
		return nil, fmt.Errorf("%w: maxNeighbors %d must be at least 1", ErrInvalidParameter, params.MaxNeighbors)
	}
	if params.Realizations < 0 {
		return nil, fmt.Errorf("%w: negative realization count %d", ErrInvalidParameter, params.Realizations)
	}
	if params.BackTransform && dataset.Transform() == nil {
		return nil, fmt.Errorf("%w: back-transform requested but dataset has no samples", ErrEmptyInput)
	}
	return &Simulator{
		grid:    grid,
		dataset: dataset,
		solver:  KrigingSolver{Model: model},
		params:  params,
	}, nil
}

// Run generates the requested realizations on a worker pool. Each
// realization is independent; a failed one is reported in the joined error
// with its realization index and node coordinates while siblings complete
// normally.
func (s *Simulator) Run() ([]Realization, error) {
	n := s.params.Realizations
	results := make([]Realization, n)
	if n == 0 {
		return results, nil
	}

	workers := s.params.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > n {
		workers = n
	}

	errs := make([]error, n)
	indices := make(chan int)
	var completed int64
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indices {
				results[idx], errs[idx] = s.runRealization(idx)
				if s.params.Progress != nil {
					s.params.Progress(int(atomic.AddInt64(&completed, 1)), n)
				}
			}
		}()
	}
	for idx := 0; idx < n; idx++ {
		indices <- idx
	}
	close(indices)
	wg.Wait()

	return results, errors.Join(errs...)
}

func (s *Simulator) runRealization(idx int) (Realization, error) {
	rng := rand.New(rand.NewSource(s.params.Seed + uint64(idx)))
	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: rng}
	sill := s.solver.Model.Sill()

	path := rng.Perm(s.grid.Count)
	values := make([]float64, s.grid.Count)
	simulated := make([]Neighbor, 0, s.grid.Count)

	for _, node := range path {
		pos := s.grid.Node(node)
		hood := s.neighborhood(pos, simulated)

		var mean, variance float64
		if len(hood) == 0 {
			// Nothing to condition on yet: draw from the unconditional
			// standard field.
			mean, variance = 0, sill
		} else {
			var err error
			mean, variance, err = s.solver.Estimate(pos, hood)
			if err != nil {
				return Realization{Index: idx}, fmt.Errorf("realization %d: node %d at (%g, %g): %w",
					idx, node, pos[0], pos[1], err)
			}
		}

		value := mean + normal.Rand()*math.Sqrt(variance)
		values[node] = value
		simulated = append(simulated, Neighbor{Pos: pos, Value: value})
	}

	if s.params.BackTransform {
		transform := s.dataset.Transform()
		for i := range values {
			values[i] = transform.Inverse(values[i])
		}
	}
	return Realization{Index: idx, Values: values}, nil
}

type candidate struct {
	nb Neighbor
	d  float64
}

// neighborhood merges the nearest samples with the already simulated nodes
// of this realization, keeping the MaxNeighbors closest to pos.
func (s *Simulator) neighborhood(pos vec2d.T, simulated []Neighbor) []Neighbor {
	maxN := s.params.MaxNeighbors

	cands := make([]candidate, 0, maxN+len(simulated))
	for _, smp := range s.dataset.NearestK(pos, maxN) {
		cands = append(cands, candidate{nb: Neighbor{Pos: smp.Pos, Value: smp.Score}, d: dist2(smp.Pos, pos)})
	}
	for _, nb := range simulated {
		cands = append(cands, candidate{nb: nb, d: dist2(nb.Pos, pos)})
	}

	sort.Slice(cands, func(i, j int) bool { return cands[i].d < cands[j].d })
	if len(cands) > maxN {
		cands = cands[:maxN]
	}

	hood := make([]Neighbor, len(cands))
	for i, c := range cands {
		hood[i] = c.nb
	}
	return hood
}
