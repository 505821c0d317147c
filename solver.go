package sgsim

import (
	"fmt"

	vec2d "github.com/flywave/go3d/float64/vec2"
	"gonum.org/v1/gonum/mat"
)

// coincidentTol is the squared distance below which two locations are
// treated as the same point.
const coincidentTol = 1e-20

// Neighbor is one conditioning point available to a kriging solve: an
// original sample or a previously simulated node.
type Neighbor struct {
	Pos   vec2d.T
	Value float64
}

// KrigingSolver solves the ordinary kriging system for a local conditional
// mean and variance under the given variogram model.
type KrigingSolver struct {
	Model *Variogram
}

// Estimate solves the (n+1)x(n+1) ordinary kriging system for the target
// location: covariance entries between neighbors, a Lagrange row enforcing
// unit-sum weights, and neighbor-to-target covariances on the right-hand
// side. The returned variance is clamped to [0, totalSill].
func (s *KrigingSolver) Estimate(target vec2d.T, neighborhood []Neighbor) (mean, variance float64, err error) {
	if len(neighborhood) == 0 {
		return 0, 0, fmt.Errorf("%w: empty neighborhood at (%g, %g)", ErrInsufficientData, target[0], target[1])
	}

	hood := dropCoincident(neighborhood)

	// A conditioning point at the target itself decides the outcome: ordinary
	// kriging is an exact interpolator there.
	for _, nb := range hood {
		if dist2(nb.Pos, target) < coincidentTol {
			return nb.Value, 0, nil
		}
	}

	n := len(hood)
	sill := s.Model.Sill()

	a := mat.NewDense(n+1, n+1, nil)
	b := mat.NewVecDense(n+1, nil)
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			h := vec2d.Sub(&hood[i].Pos, &hood[j].Pos)
			c := s.Model.Covariance(h)
			a.Set(i, j, c)
			a.Set(j, i, c)
		}
		a.Set(i, n, 1)
		a.Set(n, i, 1)

		h := vec2d.Sub(&hood[i].Pos, &target)
		b.SetVec(i, s.Model.Covariance(h))
	}
	b.SetVec(n, 1)

	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return 0, 0, fmt.Errorf("%w: %d-point system at (%g, %g)", ErrSingularSystem, n, target[0], target[1])
	}

	mu := x.AtVec(n)
	variance = sill - mu
	for i := 0; i < n; i++ {
		w := x.AtVec(i)
		mean += w * hood[i].Value
		variance -= w * b.AtVec(i)
	}

	if variance < 0 {
		variance = 0
	}
	if variance > sill {
		variance = sill
	}
	return mean, variance, nil
}

// dropCoincident removes neighbors that coincide with an earlier one,
// keeping the first occurrence, so near-duplicate conditioning points cannot
// degenerate the kriging matrix.
func dropCoincident(neighborhood []Neighbor) []Neighbor {
	kept := make([]Neighbor, 0, len(neighborhood))
	for _, nb := range neighborhood {
		dup := false
		for _, k := range kept {
			if dist2(nb.Pos, k.Pos) < coincidentTol {
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, nb)
		}
	}
	return kept
}
