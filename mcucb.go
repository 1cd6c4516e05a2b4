package acq

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
)

// QScalarizedUCB is the Monte Carlo scalarized Upper Confidence Bound
// acquisition function for jointly evaluated batches of design points.
//
// How it works:
//   - n joint samples are drawn from the predictive distribution via the
//     configured Sampler
//   - Each sample and the posterior mean are scalarized by the weight vector
//   - Per sample and point, the estimate is
//     mean + sqrt(beta·π/2) · |sample − mean|
//     (the expected absolute deviation of a normal, scaled this way,
//     reproduces the analytic confidence radius in expectation)
//   - Within each q-batch the maximum over its points is taken, so a batch
//     is worth as much as its best candidate
//   - The maxima are averaged over the n samples
//
// At q = 1 this is an unbiased estimator of the analytic maximizing
// ScalarizedUCB value; for q > 1 it is the tractable generalization, since
// the max-over-batch term has no closed form.
//
// Samplers reuse their base samples, so scores are deterministic given the
// sampler's seed and repeated calls agree exactly. Construct one sampler per
// concurrent evaluation context.
//
// Usage example:
//
//	qucb, err := acq.NewQScalarizedUCB(model, 0.1, []float64{0.1, 0.5}, nil)
//	if err != nil {
//	    return err
//	}
//
//	// One score per q-batch of three jointly evaluated points.
//	scores, err := qucb.Score([][][]float64{
//	    {{0.2, 0.7}, {0.4, 0.4}, {0.9, 0.1}},
//	})
type QScalarizedUCB struct {
	model   Model
	beta    float64
	weights []float64
	sampler Sampler
	pending [][]float64
}

// NewQScalarizedUCB creates a Monte Carlo scalarized UCB acquisition
// function.
//
// Parameters:
// - model: Predictive model queried for posterior distributions
// - beta: Non-negative exploration weight
// - weights: Scalarization weights, one per model output
// - sampler: Posterior sampler; nil selects a stratified quasi-random
//   sampler drawing DefaultSampleCount samples with a time-derived seed
//
// Construction fails with ErrInvalidParameter on a nil model, negative beta,
// or empty weight vector. Weight-vector length versus model output count is
// checked on every Score call and fails with ErrDimensionMismatch.
func NewQScalarizedUCB(model Model, beta float64, weights []float64, sampler Sampler) (*QScalarizedUCB, error) {
	if model == nil {
		return nil, fmt.Errorf("nil model: %w", ErrInvalidParameter)
	}

	if beta < 0 {
		return nil, fmt.Errorf("beta must be non-negative, got %v: %w", beta, ErrInvalidParameter)
	}

	if len(weights) == 0 {
		return nil, fmt.Errorf("empty weight vector: %w", ErrInvalidParameter)
	}

	if sampler == nil {
		sampler = NewStratifiedNormalSampler(DefaultSampleCount, uint64(time.Now().UnixNano()))
	}

	w := make([]float64, len(weights))
	copy(w, weights)

	return &QScalarizedUCB{
		model:   model,
		beta:    beta,
		weights: w,
		sampler: sampler,
	}, nil
}

// SetPending replaces the set of pending design points: candidates already
// submitted for evaluation whose outcomes are not yet observed. Pending
// points are appended to every q-batch before scoring, so they participate
// in the max-over-batch term and steer new candidates away from territory
// that is already covered. Pass nil to clear the set.
//
// The points are copied; the caller's slices are never retained.
func (a *QScalarizedUCB) SetPending(points [][]float64) {
	if len(points) == 0 {
		a.pending = nil

		return
	}

	pending := make([][]float64, len(points))
	for i, p := range points {
		pending[i] = make([]float64, len(p))
		copy(pending[i], p)
	}

	a.pending = pending
}

// Score computes one Monte Carlo UCB estimate per t-batch entry.
//
// X has shape t × q × d with q ≥ 1. The result has length t, one score per
// q-batch, preserving input order. The estimate is stochastic; its variance
// shrinks as the sampler's sample count grows.
func (a *QScalarizedUCB) Score(X [][][]float64) ([]float64, error) {
	t, q, d, err := batchDims(X)
	if err != nil {
		return nil, err
	}

	if len(a.pending) > 0 {
		X, q, err = a.withPending(X, q, d)
		if err != nil {
			return nil, err
		}
	}

	post, err := a.model.Posterior(X)
	if err != nil {
		return nil, err
	}

	o, err := checkPosterior(post, t, q)
	if err != nil {
		return nil, err
	}

	if o != len(a.weights) {
		return nil, fmt.Errorf(
			"weight vector has length %d but model has %d outputs: %w",
			len(a.weights), o, ErrDimensionMismatch)
	}

	samples, err := a.sampler.Sample(post)
	if err != nil {
		return nil, err
	}

	n := len(samples)
	if n == 0 {
		return nil, fmt.Errorf("sampler produced no samples: %w", ErrInvalidParameter)
	}

	scale := math.Sqrt(a.beta * math.Pi / 2)

	out := make([]float64, t)

	for b := 0; b < t; b++ {
		means := scalarizeMean(a.weights, post.Mean[b])

		var acc float64

		for s := 0; s < n; s++ {
			best := math.Inf(-1)

			for i := 0; i < q; i++ {
				sampled := floats.Dot(a.weights, samples[s][b][i])

				est := means[i] + scale*math.Abs(sampled-means[i])
				if est > best {
					best = est
				}
			}

			acc += best
		}

		out[b] = acc / float64(n)
	}

	return out, nil
}

// ScoreOne scores a single q-batch, restoring the omitted t-batch dimension
// before scoring and unwrapping the singleton result.
func (a *QScalarizedUCB) ScoreOne(x [][]float64) (float64, error) {
	scores, err := a.Score(ensureTBatch(x))
	if err != nil {
		return 0, err
	}

	return scores[0], nil
}

// withPending returns a copy of X with the pending points appended to every
// q-batch, along with the grown q.
func (a *QScalarizedUCB) withPending(X [][][]float64, q, d int) ([][][]float64, int, error) {
	for i, p := range a.pending {
		if len(p) != d {
			return nil, 0, fmt.Errorf(
				"pending point %d has dimension %d, expected %d: %w",
				i, len(p), d, ErrInvalidInputShape)
		}
	}

	grown := make([][][]float64, len(X))
	for b, qb := range X {
		joined := make([][]float64, 0, q+len(a.pending))
		joined = append(joined, qb...)
		joined = append(joined, a.pending...)
		grown[b] = joined
	}

	return grown, q + len(a.pending), nil
}
