package sgsim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFitNormalScoreEmpty(t *testing.T) {
	_, err := FitNormalScore(nil)
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestNormalScoreRoundTrip(t *testing.T) {
	a := assert.New(t)

	values := []float64{3.2, 0.7, 12.5, 5.1, 0.7, 8.9, 2.2}
	tr, err := FitNormalScore(values)
	a.NoError(err)

	for _, v := range values {
		a.InDelta(v, tr.Inverse(tr.Forward(v)), 1e-12)
	}
}

func TestNormalScoreMonotone(t *testing.T) {
	a := assert.New(t)

	tr, err := FitNormalScore([]float64{1, 4, 2, 9, 5, 7})
	a.NoError(err)

	prev := tr.Forward(0)
	for x := 0.5; x <= 10; x += 0.5 {
		cur := tr.Forward(x)
		a.GreaterOrEqual(cur, prev, "forward not monotone at %g", x)
		prev = cur
	}
}

func TestNormalScoreSymmetricRanks(t *testing.T) {
	a := assert.New(t)

	// Evenly ranked data: scores are symmetric quantiles around zero and the
	// median maps to score zero.
	tr, err := FitNormalScore([]float64{10, 20, 30})
	a.NoError(err)

	a.InDelta(0, tr.Forward(20), 1e-12)
	a.InDelta(-tr.Forward(10), tr.Forward(30), 1e-12)
}

func TestNormalScoreTailExtrapolation(t *testing.T) {
	a := assert.New(t)

	tr, err := FitNormalScore([]float64{1, 2, 3, 4})
	a.NoError(err)

	// Beyond the table the mapping continues linearly along the outer
	// segment, so simulated scores outside the observed extremes still map
	// to distinct raw values.
	hi := tr.Forward(4.0)
	hiSlope := (tr.Forward(4.0) - tr.Forward(3.0)) / 1.0
	a.InDelta(hi+2*hiSlope, tr.Forward(6.0), 1e-12)
	a.Greater(tr.Inverse(hi+1), 4.0)

	lo := tr.Forward(1.0)
	a.Less(tr.Inverse(lo-1), 1.0)
}

func TestNormalScoreDuplicatesCollapse(t *testing.T) {
	a := assert.New(t)

	tr, err := FitNormalScore([]float64{5, 5, 5, 1})
	a.NoError(err)

	// All duplicates share one score; the round trip still recovers the raw
	// value exactly.
	a.InDelta(5.0, tr.Inverse(tr.Forward(5)), 1e-12)
	a.Less(tr.Forward(1), tr.Forward(5))
}
