package sgsim

import (
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// NormalScoreTransform is the rank-based monotone table mapping raw values to
// standard normal scores. Fitted once from the full sample set; the table is
// never mutated afterwards.
type NormalScoreTransform struct {
	raws   []float64
	scores []float64
}

// FitNormalScore builds the transform table by pairing each sorted value with
// the normal quantile at probability (rank-0.5)/n. Duplicate raw values
// collapse into one table entry carrying their averaged quantile.
func FitNormalScore(values []float64) (*NormalScoreTransform, error) {
	n := len(values)
	if n == 0 {
		return nil, ErrEmptyInput
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	t := &NormalScoreTransform{
		raws:   make([]float64, 0, n),
		scores: make([]float64, 0, n),
	}
	for i := 0; i < n; {
		j := i
		sum := 0.0
		for j < n && sorted[j] == sorted[i] {
			sum += distuv.UnitNormal.Quantile((float64(j) + 0.5) / float64(n))
			j++
		}
		t.raws = append(t.raws, sorted[i])
		t.scores = append(t.scores, sum/float64(j-i))
		i = j
	}
	return t, nil
}

// Forward maps a raw value to its normal score by piecewise-linear
// interpolation. Values beyond the table extremes extrapolate linearly along
// the outermost table segment.
func (t *NormalScoreTransform) Forward(raw float64) float64 {
	return interpolateTable(t.raws, t.scores, raw)
}

// Inverse maps a normal score back to raw units, with the same tail policy
// as Forward.
func (t *NormalScoreTransform) Inverse(score float64) float64 {
	return interpolateTable(t.scores, t.raws, score)
}

func interpolateTable(xs, ys []float64, x float64) float64 {
	n := len(xs)
	if n == 1 {
		return ys[0]
	}

	switch {
	case x <= xs[0]:
		return ys[0] + (x-xs[0])*tableSlope(xs, ys, 0)
	case x >= xs[n-1]:
		return ys[n-1] + (x-xs[n-1])*tableSlope(xs, ys, n-2)
	}

	i := sort.SearchFloat64s(xs, x)
	if xs[i] == x {
		return ys[i]
	}
	// xs[i-1] < x < xs[i]
	frac := (x - xs[i-1]) / (xs[i] - xs[i-1])
	return ys[i-1] + frac*(ys[i]-ys[i-1])
}

func tableSlope(xs, ys []float64, seg int) float64 {
	dx := xs[seg+1] - xs[seg]
	if dx == 0 {
		return 0
	}
	return (ys[seg+1] - ys[seg]) / dx
}
