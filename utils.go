package acq

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

//////
// Helper functions.
//////

// batchDims validates a t-batch of q-batches of design points and returns its
// dimensions.
//
// The canonical input shape is t × q × d: an outer batch of t independent
// q-batches, each holding q design points of dimensionality d. A ragged batch
// (q-batches of different sizes, or points of different dimensionality) is
// rejected, as are empty batches.
//
// Returns:
// - t: Number of independent q-batches
// - q: Number of jointly evaluated points per q-batch
// - d: Dimensionality of each design point
// - error: Wraps ErrInvalidInputShape if the batch is malformed
func batchDims(X [][][]float64) (t, q, d int, err error) {
	t = len(X)
	if t == 0 {
		return 0, 0, 0, fmt.Errorf("empty t-batch: %w", ErrInvalidInputShape)
	}

	q = len(X[0])
	if q == 0 {
		return 0, 0, 0, fmt.Errorf("empty q-batch: %w", ErrInvalidInputShape)
	}

	d = len(X[0][0])
	if d == 0 {
		return 0, 0, 0, fmt.Errorf("empty design point: %w", ErrInvalidInputShape)
	}

	for b, qb := range X {
		if len(qb) != q {
			return 0, 0, 0, fmt.Errorf(
				"ragged t-batch: q-batch %d has %d points, expected %d: %w",
				b, len(qb), q, ErrInvalidInputShape)
		}

		for i, p := range qb {
			if len(p) != d {
				return 0, 0, 0, fmt.Errorf(
					"ragged q-batch: point %d of q-batch %d has dimension %d, expected %d: %w",
					i, b, len(p), d, ErrInvalidInputShape)
			}
		}
	}

	return t, q, d, nil
}

// ensureTBatch promotes a single q-batch to a t-batch of one. It is the
// normalization step behind the ScoreOne convenience methods: callers that
// omit the outer batch dimension get it restored before scoring, and the
// singleton result is unwrapped afterwards.
func ensureTBatch(x [][]float64) [][][]float64 {
	return [][][]float64{x}
}

// checkPosterior validates that a posterior is internally consistent with the
// t × q batch it was computed for, and returns the number of model outputs.
//
// A malformed posterior (wrong batch count, ragged means, covariance order
// not equal to q·o) is a model implementation bug and is reported as
// ErrInvalidInputShape. Comparing the returned output count against the
// weight vector is the caller's responsibility, since that particular
// violation must surface as ErrDimensionMismatch.
func checkPosterior(p *Posterior, t, q int) (o int, err error) {
	if p == nil {
		return 0, fmt.Errorf("nil posterior: %w", ErrInvalidInputShape)
	}

	if t <= 0 || q <= 0 {
		return 0, fmt.Errorf("posterior covers an empty batch: %w", ErrInvalidInputShape)
	}

	if len(p.Mean) != t || len(p.Cov) != t {
		return 0, fmt.Errorf(
			"posterior has %d mean entries and %d covariance entries, expected %d: %w",
			len(p.Mean), len(p.Cov), t, ErrInvalidInputShape)
	}

	if len(p.Mean[0]) == 0 || len(p.Mean[0][0]) == 0 {
		return 0, fmt.Errorf("posterior mean is empty: %w", ErrInvalidInputShape)
	}

	o = len(p.Mean[0][0])

	for b := range p.Mean {
		if len(p.Mean[b]) != q {
			return 0, fmt.Errorf(
				"posterior mean entry %d covers %d points, expected %d: %w",
				b, len(p.Mean[b]), q, ErrInvalidInputShape)
		}

		for i := range p.Mean[b] {
			if len(p.Mean[b][i]) != o {
				return 0, fmt.Errorf(
					"posterior mean entry %d point %d has %d outputs, expected %d: %w",
					b, i, len(p.Mean[b][i]), o, ErrInvalidInputShape)
			}
		}

		if p.Cov[b] == nil || p.Cov[b].SymmetricDim() != q*o {
			return 0, fmt.Errorf(
				"posterior covariance entry %d must have order %d: %w",
				b, q*o, ErrInvalidInputShape)
		}
	}

	return o, nil
}

// scalarizeMean reduces the per-point output means of one t-batch entry to
// scalars via the fixed weight vector: result[i] = weights · mean[i].
func scalarizeMean(weights []float64, mean [][]float64) []float64 {
	out := make([]float64, len(mean))
	for i, m := range mean {
		out[i] = floats.Dot(weights, m)
	}

	return out
}

// flattenMean lays out one t-batch entry's q × o mean point-major, matching
// the covariance ordering used by Posterior: index i·o+j holds output j of
// point i.
func flattenMean(mean [][]float64, o int) []float64 {
	out := make([]float64, len(mean)*o)
	for i, m := range mean {
		copy(out[i*o:(i+1)*o], m)
	}

	return out
}
