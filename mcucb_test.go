package acq

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/floats"
)

func TestQScalarizedUCBShapes(t *testing.T) {
	// Two outputs, weights [0.1, 0.5], beta 0.1: one q-batch of three
	// two-dimensional points scores to one value, two q-batches to two.
	qucb, err := NewQScalarizedUCB(
		newTestModel(), 0.1, []float64{0.1, 0.5},
		NewStratifiedNormalSampler(128, 1))
	assert.NoError(t, err)

	one, err := qucb.Score([][][]float64{
		{{0.1, 0.2}, {0.3, 0.4}, {0.5, 0.6}},
	})
	assert.NoError(t, err)
	assert.Len(t, one, 1)

	two, err := qucb.Score([][][]float64{
		{{0.1, 0.2}, {0.3, 0.4}, {0.5, 0.6}},
		{{0.7, 0.8}, {0.9, 1.0}, {1.1, 1.2}},
	})
	assert.NoError(t, err)
	assert.Len(t, two, 2)
}

func TestQScalarizedUCBConvergesToAnalytic(t *testing.T) {
	// At q = 1 the Monte Carlo estimator is unbiased for the analytic
	// maximizing value; with a large stratified sample it must land within a
	// small tolerance.
	model := newTestModel()
	weights := []float64{0.1, 0.5}
	beta := 0.1
	x := [][]float64{{0.3, 0.4}}

	analytic, err := NewScalarizedUCB(model, beta, weights, true)
	assert.NoError(t, err)

	want, err := analytic.ScoreOne(x)
	assert.NoError(t, err)

	mc, err := NewQScalarizedUCB(model, beta, weights,
		NewStratifiedNormalSampler(4096, 7))
	assert.NoError(t, err)

	got, err := mc.ScoreOne(x)
	assert.NoError(t, err)

	assert.InDelta(t, want, got, 0.02)
}

func TestQScalarizedUCBBatchInvariance(t *testing.T) {
	// The cached base samples are shared across t-batch entries, so scoring
	// a t-batch in one call equals scoring its entries individually.
	qucb, err := NewQScalarizedUCB(
		newTestModel(), 0.1, []float64{0.1, 0.5},
		NewStratifiedNormalSampler(256, 11))
	assert.NoError(t, err)

	X := [][][]float64{
		{{0.1, 0.2}, {0.3, 0.4}},
		{{0.5, 0.5}, {0.6, 0.1}},
	}

	batched, err := qucb.Score(X)
	assert.NoError(t, err)
	assert.Len(t, batched, 2)

	for b := range X {
		single, err := qucb.ScoreOne(X[b])
		assert.NoError(t, err)
		assert.Equal(t, single, batched[b])
	}
}

func TestQScalarizedUCBBetaMonotonic(t *testing.T) {
	model := newTestModel()
	weights := []float64{0.1, 0.5}
	x := [][]float64{{0.3, 0.4}, {0.5, 0.6}}

	// One sampler per scorer, equal seeds: identical base samples, so the
	// comparison isolates beta.
	low, err := NewQScalarizedUCB(model, 0.1, weights,
		NewStratifiedNormalSampler(512, 3))
	assert.NoError(t, err)

	high, err := NewQScalarizedUCB(model, 1.0, weights,
		NewStratifiedNormalSampler(512, 3))
	assert.NoError(t, err)

	lowScore, err := low.ScoreOne(x)
	assert.NoError(t, err)

	highScore, err := high.ScoreOne(x)
	assert.NoError(t, err)

	assert.Greater(t, highScore, lowScore)
}

func TestQScalarizedUCBAcceptsAnyQ(t *testing.T) {
	qucb, err := NewQScalarizedUCB(
		newTestModel(), 0.1, []float64{0.1, 0.5},
		NewStratifiedNormalSampler(64, 5))
	assert.NoError(t, err)

	for q := 1; q <= 4; q++ {
		qb := make([][]float64, q)
		for i := range qb {
			qb[i] = []float64{float64(i), float64(q - i)}
		}

		_, err := qucb.ScoreOne(qb)
		assert.NoError(t, err, "q=%d", q)
	}
}

func TestQScalarizedUCBWeightMismatch(t *testing.T) {
	qucb, err := NewQScalarizedUCB(
		newTestModel(), 0.1, []float64{0.1, 0.5, 0.2},
		NewStratifiedNormalSampler(64, 5))
	assert.NoError(t, err)

	_, err = qucb.ScoreOne([][]float64{{0.3, 0.4}})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestQScalarizedUCBInvalidParameters(t *testing.T) {
	model := newTestModel()

	_, err := NewQScalarizedUCB(nil, 0.1, []float64{1}, nil)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = NewQScalarizedUCB(model, -1, []float64{1}, nil)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = NewQScalarizedUCB(model, 0.1, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestQScalarizedUCBPendingPoints(t *testing.T) {
	model := newTestModel()
	weights := []float64{0.1, 0.5}

	qucb, err := NewQScalarizedUCB(model, 0.1, weights,
		NewStratifiedNormalSampler(256, 13))
	assert.NoError(t, err)

	x := [][]float64{{0.1, 0.1}}

	plain, err := qucb.ScoreOne(x)
	assert.NoError(t, err)

	// A pending point far above the candidate dominates the max-over-batch
	// term, so the score must rise to roughly its scalarized mean.
	qucb.SetPending([][]float64{{50, 50}})

	withPending, err := qucb.ScoreOne(x)
	assert.NoError(t, err)
	assert.Greater(t, withPending, plain)

	pendingMean := floats.Dot(weights, []float64{1.0 * 100, 2.0 * 100})
	assert.Greater(t, withPending, pendingMean-1)

	// Pending points with the wrong dimensionality are rejected.
	qucb.SetPending([][]float64{{1, 2, 3}})

	_, err = qucb.ScoreOne(x)
	assert.ErrorIs(t, err, ErrInvalidInputShape)

	// Clearing restores the original score exactly: same base samples.
	qucb.SetPending(nil)

	cleared, err := qucb.ScoreOne(x)
	assert.NoError(t, err)
	assert.Equal(t, plain, cleared)
}

func TestQScalarizedUCBDeterministicRepeats(t *testing.T) {
	qucb, err := NewQScalarizedUCB(
		newTestModel(), 0.1, []float64{0.1, 0.5},
		NewStratifiedNormalSampler(128, 21))
	assert.NoError(t, err)

	x := [][]float64{{0.2, 0.9}, {0.4, 0.4}}

	first, err := qucb.ScoreOne(x)
	assert.NoError(t, err)

	second, err := qucb.ScoreOne(x)
	assert.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestQScalarizedUCBDeterministicModel(t *testing.T) {
	// Zero predictive covariance: every sample is (numerically) the mean, so
	// the score collapses to the best scalarized function value in the batch.
	model := &DeterministicModel{
		F: func(x []float64) []float64 {
			return []float64{x[0], x[1]}
		},
		Outputs: 2,
	}

	qucb, err := NewQScalarizedUCB(model, 0.1, []float64{1, 1},
		NewStratifiedNormalSampler(64, 17))
	assert.NoError(t, err)

	score, err := qucb.ScoreOne([][]float64{
		{0.2, 0.3},
		{0.6, 0.1},
	})
	assert.NoError(t, err)

	best := math.Max(0.2+0.3, 0.6+0.1)
	assert.InDelta(t, best, score, 1e-4)
}
