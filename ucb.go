package acq

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ScalarizedUCB is the analytic (closed-form) scalarized Upper Confidence
// Bound acquisition function for multi-output models.
//
// How it works:
//   - The model's outputs are collapsed to one scalar objective by a fixed
//     weight vector: objective = weights · outputs
//   - The score of a design point is the scalarized posterior mean plus (or,
//     when minimizing, minus) a confidence radius sqrt(beta · wᵀΣw), where Σ
//     is the posterior covariance across outputs
//   - Beta controls the exploration/exploitation trade-off: larger beta
//     widens the confidence bound and favors exploration
//
// The closed form only exists for single-point q-batches; inputs with q > 1
// are rejected with ErrInvalidInputShape. Use QScalarizedUCB for jointly
// evaluated batches.
//
// A ScalarizedUCB is immutable after construction and safe for concurrent
// use, since scoring is a pure function of its inputs.
//
// Usage example:
//
//	ucb, err := acq.NewScalarizedUCB(model, 0.1, []float64{0.1, 0.5}, true)
//	if err != nil {
//	    return err
//	}
//
//	// One score per q-batch: X is t × 1 × d.
//	scores, err := ucb.Score([][][]float64{
//	    {{0.2, 0.7}},
//	    {{0.9, 0.1}},
//	})
type ScalarizedUCB struct {
	model    Model
	beta     float64
	weights  []float64
	maximize bool
}

// NewScalarizedUCB creates an analytic scalarized UCB acquisition function.
//
// Parameters:
// - model: Predictive model queried for posterior distributions
// - beta: Non-negative exploration weight (its square root scales the bound)
// - weights: Scalarization weights, one per model output
// - maximize: Adds the confidence radius when true, subtracts it when false
//
// Construction validates what is knowable without a posterior: nil model,
// negative beta, and empty weights fail with ErrInvalidParameter. Whether the
// weight vector actually matches the model's output count is checked on every
// Score call, which fails with ErrDimensionMismatch on a mismatch.
func NewScalarizedUCB(model Model, beta float64, weights []float64, maximize bool) (*ScalarizedUCB, error) {
	if model == nil {
		return nil, fmt.Errorf("nil model: %w", ErrInvalidParameter)
	}

	if beta < 0 {
		return nil, fmt.Errorf("beta must be non-negative, got %v: %w", beta, ErrInvalidParameter)
	}

	if len(weights) == 0 {
		return nil, fmt.Errorf("empty weight vector: %w", ErrInvalidParameter)
	}

	w := make([]float64, len(weights))
	copy(w, weights)

	return &ScalarizedUCB{
		model:    model,
		beta:     beta,
		weights:  w,
		maximize: maximize,
	}, nil
}

// Score computes one UCB value per t-batch entry.
//
// X must have shape t × 1 × d: any q-batch with more than one point is
// rejected with ErrInvalidInputShape, since the max-over-batch term of joint
// evaluation has no closed form. The result has length t, one score per
// q-batch, preserving input order.
func (a *ScalarizedUCB) Score(X [][][]float64) ([]float64, error) {
	t, q, _, err := batchDims(X)
	if err != nil {
		return nil, err
	}

	if q != 1 {
		return nil, fmt.Errorf(
			"analytic scalarized UCB requires exactly one point per q-batch, got q=%d: %w",
			q, ErrInvalidInputShape)
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

	w := mat.NewVecDense(o, a.weights)

	out := make([]float64, t)

	for b := 0; b < t; b++ {
		mean := floats.Dot(a.weights, post.Mean[b][0])

		// Scalarized variance is the quadratic form wᵀΣw. Clamp tiny
		// negative values from floating-point round-off before the root.
		variance := mat.Inner(w, post.Cov[b], w)
		if variance < 0 {
			variance = 0
		}

		delta := math.Sqrt(a.beta * variance)

		if a.maximize {
			out[b] = mean + delta
		} else {
			out[b] = mean - delta
		}
	}

	return out, nil
}

// ScoreOne scores a single q-batch, restoring the omitted t-batch dimension
// before scoring and unwrapping the singleton result.
func (a *ScalarizedUCB) ScoreOne(x [][]float64) (float64, error) {
	scores, err := a.Score(ensureTBatch(x))
	if err != nil {
		return 0, err
	}

	return scores[0], nil
}
