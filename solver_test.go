package sgsim

import (
	"math"
	"testing"

	vec2d "github.com/flywave/go3d/float64/vec2"

	"github.com/stretchr/testify/assert"
)

func testModel(t *testing.T) *Variogram {
	t.Helper()
	v, err := NewVariogram(0, Structure{Type: Spherical, Sill: 1, Range: 100})
	if err != nil {
		t.Fatalf("model: %v", err)
	}
	return v
}

func TestEstimateEmptyNeighborhood(t *testing.T) {
	solver := &KrigingSolver{Model: testModel(t)}
	_, _, err := solver.Estimate(vec2d.T{0, 0}, nil)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestEstimateExactAtDataPoint(t *testing.T) {
	a := assert.New(t)
	solver := &KrigingSolver{Model: testModel(t)}

	hood := []Neighbor{
		{Pos: vec2d.T{3, 4}, Value: 1.7},
		{Pos: vec2d.T{20, 0}, Value: -0.4},
		{Pos: vec2d.T{0, 30}, Value: 0.9},
	}
	mean, variance, err := solver.Estimate(vec2d.T{3, 4}, hood)
	a.NoError(err)
	a.Equal(1.7, mean)
	a.Equal(0.0, variance)
}

func TestEstimateSingleNeighbor(t *testing.T) {
	a := assert.New(t)
	model := testModel(t)
	solver := &KrigingSolver{Model: model}

	const d = 20.0
	hood := []Neighbor{{Pos: vec2d.T{d, 0}, Value: 2.5}}
	mean, variance, err := solver.Estimate(vec2d.T{0, 0}, hood)
	a.NoError(err)

	// The single weight must be 1, so the mean is the neighbor's value.
	a.InDelta(2.5, mean, 1e-12)

	// Ordinary kriging variance with one datum is 2*(C0 - C(d)), capped at
	// the sill.
	c := model.Covariance(vec2d.T{d, 0})
	want := math.Min(2*(model.Sill()-c), model.Sill())
	a.InDelta(want, variance, 1e-12)
	a.GreaterOrEqual(variance, 0.0)
	a.LessOrEqual(variance, model.Sill())
}

func TestEstimateVarianceBounds(t *testing.T) {
	a := assert.New(t)
	model := testModel(t)
	solver := &KrigingSolver{Model: model}

	hood := []Neighbor{
		{Pos: vec2d.T{10, 0}, Value: 0.5},
		{Pos: vec2d.T{0, 10}, Value: -0.5},
		{Pos: vec2d.T{-10, 0}, Value: 0.1},
		{Pos: vec2d.T{0, -10}, Value: 0.2},
	}

	for _, target := range []vec2d.T{{0, 0}, {5, 5}, {200, 200}} {
		_, variance, err := solver.Estimate(target, hood)
		a.NoError(err)
		a.GreaterOrEqual(variance, 0.0)
		a.LessOrEqual(variance, model.Sill())
	}

	// Far from all data the estimate approaches the unconditional field.
	mean, variance, err := solver.Estimate(vec2d.T{1e4, 1e4}, hood)
	a.NoError(err)
	a.InDelta(0.075, mean, 1e-9) // average of the values, weights equal by symmetry
	a.InDelta(model.Sill(), variance, 1e-9)
}

func TestEstimateDropsCoincidentNeighbors(t *testing.T) {
	a := assert.New(t)
	solver := &KrigingSolver{Model: testModel(t)}

	distinct := []Neighbor{
		{Pos: vec2d.T{10, 0}, Value: 1.0},
		{Pos: vec2d.T{0, 10}, Value: 2.0},
	}
	withDup := []Neighbor{
		{Pos: vec2d.T{10, 0}, Value: 1.0},
		{Pos: vec2d.T{10, 0}, Value: 9.9}, // duplicate location, first one wins
		{Pos: vec2d.T{0, 10}, Value: 2.0},
	}

	m1, v1, err := solver.Estimate(vec2d.T{2, 2}, distinct)
	a.NoError(err)
	m2, v2, err := solver.Estimate(vec2d.T{2, 2}, withDup)
	a.NoError(err)

	a.InDelta(m1, m2, 1e-12)
	a.InDelta(v1, v2, 1e-12)
}

func TestEstimateNuggetModel(t *testing.T) {
	a := assert.New(t)

	model, err := NewVariogram(0.3, Structure{Type: Exponential, Sill: 0.7, Range: 50})
	a.NoError(err)
	solver := &KrigingSolver{Model: model}

	hood := []Neighbor{
		{Pos: vec2d.T{5, 0}, Value: 1.0},
		{Pos: vec2d.T{0, 5}, Value: 3.0},
	}
	mean, variance, err := solver.Estimate(vec2d.T{1, 1}, hood)
	a.NoError(err)
	a.InDelta(2.0, mean, 1e-9) // symmetric geometry, equal weights
	a.Greater(variance, 0.0)
	a.LessOrEqual(variance, model.Sill())
}
