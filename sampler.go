package acq

import (
	"fmt"
	"sync"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

//////
// Posterior samplers.
//
// The Monte Carlo scorer needs joint samples from the predictive
// distribution. Both samplers below follow the same two-step scheme: draw
// standard-normal base samples once per shape, then correlate them through
// the Cholesky factor of the posterior covariance (y = μ + L·z). Reusing the
// base samples makes successive draws deterministic given the seed, so
// repeated scoring of the same candidates is reproducible and t-batch
// results are exactly stackable.
//
// A sampler advances no state after its base samples exist, but the lazily
// built cache is guarded by a mutex. Construct one sampler per concurrent
// evaluation context rather than sharing one across goroutines that score
// different shapes.
//////

// DefaultSampleCount is the number of posterior samples drawn by the default
// sampler of the Monte Carlo scorer.
const DefaultSampleCount = 512

// Sampler draws joint samples from a predictive distribution.
//
// Sample returns a tensor of shape n × t × q × o: n samples, each covering
// every point of every q-batch the posterior describes. Implementations must
// be deterministic given their construction-time seed.
type Sampler interface {
	Sample(p *Posterior) ([][][][]float64, error)
}

// StratifiedNormalSampler draws quasi-random joint normal samples.
//
// Each base dimension is stratified Latin-hypercube style: the unit interval
// is split into n equal strata, one uniform draw is placed in each, the
// strata are shuffled independently per dimension, and the draws are mapped
// through the standard-normal quantile. The stratification spreads samples
// evenly through the distribution, which reduces estimator variance compared
// to independent draws at the same sample count.
//
// This is the default sampler for the Monte Carlo scorer, with
// DefaultSampleCount samples.
type StratifiedNormalSampler struct {
	n   int
	rng *rand.Rand

	// mu guards the lazily built base-sample cache.
	mu   sync.Mutex
	base map[int][][]float64
}

// NewStratifiedNormalSampler creates a stratified sampler drawing n samples
// per call, deterministic given seed. A non-positive n falls back to
// DefaultSampleCount.
func NewStratifiedNormalSampler(n int, seed uint64) *StratifiedNormalSampler {
	if n <= 0 {
		n = DefaultSampleCount
	}

	return &StratifiedNormalSampler{
		n:    n,
		rng:  rand.New(rand.NewSource(seed)),
		base: make(map[int][][]float64),
	}
}

// SampleCount returns the number of samples drawn per call.
func (s *StratifiedNormalSampler) SampleCount() int { return s.n }

// Sample draws n joint samples from the posterior, shaped n × t × q × o.
func (s *StratifiedNormalSampler) Sample(p *Posterior) ([][][][]float64, error) {
	return sampleJoint(p, s.n, s.baseFor)
}

// baseFor returns the cached n × dims base samples for a given joint
// dimensionality, generating them on first use.
func (s *StratifiedNormalSampler) baseFor(dims int) [][]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if z, ok := s.base[dims]; ok {
		return z
	}

	z := make([][]float64, s.n)
	for i := range z {
		z[i] = make([]float64, dims)
	}

	for d := 0; d < dims; d++ {
		// One draw per stratum, strata shuffled per dimension.
		perm := s.rng.Perm(s.n)

		for i := 0; i < s.n; i++ {
			u := (float64(perm[i]) + s.rng.Float64()) / float64(s.n)

			// Keep the quantile argument strictly inside (0, 1).
			if u < 1e-12 {
				u = 1e-12
			} else if u > 1-1e-12 {
				u = 1 - 1e-12
			}

			z[i][d] = distuv.UnitNormal.Quantile(u)
		}
	}

	s.base[dims] = z

	return z
}

// IIDNormalSampler draws independent pseudo-random joint normal samples.
// Prefer StratifiedNormalSampler unless genuinely independent draws are
// required; at equal sample counts the stratified estimator is tighter.
type IIDNormalSampler struct {
	n   int
	rng *rand.Rand

	mu   sync.Mutex
	base map[int][][]float64
}

// NewIIDNormalSampler creates an independent-draw sampler drawing n samples
// per call, deterministic given seed. A non-positive n falls back to
// DefaultSampleCount.
func NewIIDNormalSampler(n int, seed uint64) *IIDNormalSampler {
	if n <= 0 {
		n = DefaultSampleCount
	}

	return &IIDNormalSampler{
		n:    n,
		rng:  rand.New(rand.NewSource(seed)),
		base: make(map[int][][]float64),
	}
}

// SampleCount returns the number of samples drawn per call.
func (s *IIDNormalSampler) SampleCount() int { return s.n }

// Sample draws n joint samples from the posterior, shaped n × t × q × o.
func (s *IIDNormalSampler) Sample(p *Posterior) ([][][][]float64, error) {
	return sampleJoint(p, s.n, s.baseFor)
}

func (s *IIDNormalSampler) baseFor(dims int) [][]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if z, ok := s.base[dims]; ok {
		return z
	}

	z := make([][]float64, s.n)
	for i := range z {
		z[i] = make([]float64, dims)
		for d := range z[i] {
			z[i][d] = s.rng.NormFloat64()
		}
	}

	s.base[dims] = z

	return z
}

//////
// Shared sampling machinery.
//////

// sampleJoint correlates base samples through the posterior: for each
// t-batch entry, y = μ + L·z with L the (jittered, if necessary) Cholesky
// factor of the joint covariance.
func sampleJoint(p *Posterior, n int, baseFor func(dims int) [][]float64) ([][][][]float64, error) {
	if p == nil {
		return nil, fmt.Errorf("nil posterior: %w", ErrInvalidInputShape)
	}

	t, q, o := p.Dims()
	if _, err := checkPosterior(p, t, q); err != nil {
		return nil, err
	}

	dims := q * o
	base := baseFor(dims)

	out := make([][][][]float64, n)
	for s := range out {
		out[s] = make([][][]float64, t)
	}

	var y mat.VecDense

	for b := 0; b < t; b++ {
		low, err := lowerFactor(p.Cov[b])
		if err != nil {
			return nil, err
		}

		mean := flattenMean(p.Mean[b], o)

		for s := 0; s < n; s++ {
			y.MulVec(low, mat.NewVecDense(dims, base[s]))

			sample := make([][]float64, q)
			for i := 0; i < q; i++ {
				sample[i] = make([]float64, o)
				for j := 0; j < o; j++ {
					sample[i][j] = mean[i*o+j] + y.AtVec(i*o+j)
				}
			}

			out[s][b] = sample
		}
	}

	return out, nil
}

// lowerFactor computes the lower Cholesky factor of a covariance matrix,
// escalating diagonal jitter when the matrix is only semi-definite. A zero
// covariance (deterministic model) factorizes at the first jitter level.
func lowerFactor(cov *mat.SymDense) (*mat.TriDense, error) {
	order := cov.SymmetricDim()

	var chol mat.Cholesky

	jitter := 0.0
	for attempt := 0; attempt < 6; attempt++ {
		trial := cov
		if jitter > 0 {
			trial = addJitter(cov, jitter)
		}

		if chol.Factorize(trial) {
			low := mat.NewTriDense(order, mat.Lower, nil)
			chol.LTo(low)

			return low, nil
		}

		if jitter == 0 {
			jitter = 1e-12
		} else {
			jitter *= 100
		}
	}

	return nil, fmt.Errorf(
		"posterior covariance is not positive semi-definite: %w", ErrInvalidParameter)
}

// addJitter returns a copy of cov with eps added to the diagonal.
func addJitter(cov *mat.SymDense, eps float64) *mat.SymDense {
	order := cov.SymmetricDim()
	out := mat.NewSymDense(order, nil)

	for i := 0; i < order; i++ {
		for j := i; j < order; j++ {
			v := cov.At(i, j)
			if i == j {
				v += eps
			}

			out.SetSym(i, j, v)
		}
	}

	return out
}
