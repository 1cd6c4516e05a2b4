package acq

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// linearGaussianModel is a test model with a posterior that is exactly
// computable by hand: output j of a design point x has mean
// slopes[j] * sum(x), the covariance across outputs is fixed, and points are
// uncorrelated with each other (the joint covariance is block-diagonal).
type linearGaussianModel struct {
	slopes []float64
	cov    *mat.SymDense
}

func (m *linearGaussianModel) NumOutputs() int { return len(m.slopes) }

func (m *linearGaussianModel) Posterior(X [][][]float64) (*Posterior, error) {
	t, q, _, err := batchDims(X)
	if err != nil {
		return nil, err
	}

	o := len(m.slopes)

	mean := make([][][]float64, t)
	cov := make([]*mat.SymDense, t)

	for b := range X {
		mean[b] = make([][]float64, q)

		for i, x := range X[b] {
			s := floats.Sum(x)

			out := make([]float64, o)
			for j, slope := range m.slopes {
				out[j] = slope * s
			}

			mean[b][i] = out
		}

		joint := mat.NewSymDense(q*o, nil)
		for i := 0; i < q; i++ {
			for j := 0; j < o; j++ {
				for k := j; k < o; k++ {
					joint.SetSym(i*o+j, i*o+k, m.cov.At(j, k))
				}
			}
		}

		cov[b] = joint
	}

	return &Posterior{Mean: mean, Cov: cov}, nil
}

// newTestModel returns a two-output linearGaussianModel with a non-diagonal
// output covariance, the workhorse model of the scoring tests.
func newTestModel() *linearGaussianModel {
	return &linearGaussianModel{
		slopes: []float64{1.0, 2.0},
		cov: mat.NewSymDense(2, []float64{
			0.04, 0.01,
			0.01, 0.09,
		}),
	}
}

// scalarizedVariance computes wᵀΣw for the model's per-point covariance.
func (m *linearGaussianModel) scalarizedVariance(w []float64) float64 {
	wv := mat.NewVecDense(len(w), w)

	return mat.Inner(wv, m.cov, wv)
}
