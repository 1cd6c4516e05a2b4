package acq

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

//////
// Predictive model collaborators.
//
// The scoring procedures in this package never compute a posterior
// themselves: anything exposing Posterior and NumOutputs can drive them.
// This keeps model fitting and inference entirely outside the package and
// allows substituting alternative models without touching the scorers.
//////

// Model is the predictive-model contract consumed by the acquisition
// functions. Implementations produce a joint Gaussian predictive distribution
// over all outputs at a batch of design points.
//
// Implementations must be read-only from the scorers' perspective: Posterior
// is called repeatedly and must not mutate observable model state.
type Model interface {
	// Posterior returns the predictive distribution at a t × q × d batch of
	// design points. The returned posterior must cover every point of every
	// q-batch in the input.
	Posterior(X [][][]float64) (*Posterior, error)

	// NumOutputs returns the number of outputs the model predicts per
	// design point.
	NumOutputs() int
}

// Posterior is a joint Gaussian predictive distribution over a t-batch of
// q-batches.
//
// Fields:
//   - Mean: Per-point output means with shape t × q × o
//   - Cov: One joint covariance matrix per t-batch entry, of order q·o, laid
//     out point-major: entry (i·o+j, k·o+l) is the covariance between output
//     j of point i and output l of point k
//
// For a single-point q-batch (q = 1) each covariance matrix is exactly the
// o × o covariance across outputs, which is what the analytic scorer
// consumes. The Monte Carlo path uses the full joint matrix so that samples
// are correlated both across outputs and across the points of a q-batch.
//
// A Posterior is immutable once produced; scorers and samplers only read it.
type Posterior struct {
	// Mean holds the per-point output means, t × q × o.
	Mean [][][]float64

	// Cov holds one (q·o) × (q·o) joint covariance per t-batch entry.
	Cov []*mat.SymDense
}

// Dims returns the batch dimensions (t, q, o) of the posterior. It assumes a
// well-formed posterior; use checkPosterior for validation.
func (p *Posterior) Dims() (t, q, o int) {
	t = len(p.Mean)
	if t == 0 {
		return 0, 0, 0
	}

	q = len(p.Mean[0])
	if q == 0 {
		return t, 0, 0
	}

	return t, q, len(p.Mean[0][0])
}

//////
// Deterministic model.
//////

// DeterministicModel adapts a plain vector-valued function to the Model
// interface by giving it a degenerate predictive distribution: the posterior
// mean is the function value and the covariance is zero.
//
// It is useful for plugging known objectives into acquisition-driven search
// and for composing with probabilistic models in tests. Scoring a
// deterministic model with the analytic scorer reduces to the scalarized
// function value, since the confidence radius collapses to zero.
//
// Usage example:
//
//	model := &acq.DeterministicModel{
//	    F: func(x []float64) []float64 {
//	        return []float64{x[0] + x[1], x[0] * x[1]}
//	    },
//	    Outputs: 2,
//	}
type DeterministicModel struct {
	// F maps one design point to its o output values. It must return
	// exactly Outputs values for every input.
	F func(x []float64) []float64

	// Outputs is the number of values F produces per design point.
	Outputs int
}

// NumOutputs returns the configured output count.
func (m *DeterministicModel) NumOutputs() int { return m.Outputs }

// Posterior evaluates F at every design point in the batch and wraps the
// results in a zero-covariance predictive distribution.
func (m *DeterministicModel) Posterior(X [][][]float64) (*Posterior, error) {
	if m.F == nil {
		return nil, fmt.Errorf("deterministic model has no function: %w", ErrInvalidParameter)
	}

	t, q, _, err := batchDims(X)
	if err != nil {
		return nil, err
	}

	mean := make([][][]float64, t)
	cov := make([]*mat.SymDense, t)

	for b := range X {
		mean[b] = make([][]float64, q)

		for i, x := range X[b] {
			y := m.F(x)
			if len(y) != m.Outputs {
				return nil, fmt.Errorf(
					"deterministic model returned %d outputs, expected %d: %w",
					len(y), m.Outputs, ErrDimensionMismatch)
			}

			mean[b][i] = y
		}

		// Zero covariance: the model is certain about its predictions.
		cov[b] = mat.NewSymDense(q*m.Outputs, nil)
	}

	return &Posterior{Mean: mean, Cov: cov}, nil
}
