package acq

import (
	"fmt"

	"golang.org/x/exp/constraints"
	"golang.org/x/exp/rand"
)

//////
// Candidate search.
//////

// SearchCandidates ranks random candidate q-batches by acquisition value and
// returns the most promising one. It is the generation step an outer
// optimization loop runs each iteration: build a scorer for the current
// model (see Factory), search the design space with it, then submit the
// winning q-batch for evaluation.
//
// Type Parameter:
//   - T: The numeric type for the search-space bounds (integer or float)
//
// Parameters:
// - scorer: Acquisition function ranking the candidates
// - config: SearchConfig controlling the search
// - bounds: One ParameterRange per design-point dimension
//
// Returns:
// - [][]float64: The best candidate q-batch (config.Q × len(bounds))
// - float64: Its acquisition value
// - error: Configuration or scoring failure
//
// Usage example:
//
//	config := acq.DefaultSearchConfig()
//	config.Q = 3
//
//	best, score, err := acq.SearchCandidates(
//	    qucb,
//	    config,
//	    acq.ParameterRange[float64]{Min: 0, Max: 1},
//	    acq.ParameterRange[float64]{Min: 0, Max: 1},
//	)
//
// How it works:
//  1. Generates NumCandidates random q-batches inside the bounds
//  2. Scores all of them in one t-batched call
//  3. Returns the argmax q-batch and its score
//
// Scoring every candidate in a single call exploits the scorers' t-batch
// dimension: the result is identical to scoring candidates one at a time,
// only cheaper. Progress updates are emitted per ranked candidate on
// config.ProgressChan when it is set, with non-blocking sends.
func SearchCandidates[T constraints.Integer | constraints.Float](
	scorer AcquisitionScorer,
	config SearchConfig,
	bounds ...ParameterRange[T],
) ([][]float64, float64, error) {
	if scorer == nil {
		return nil, 0, fmt.Errorf("nil scorer: %w", ErrInvalidParameter)
	}

	if config.NumCandidates <= 0 {
		return nil, 0, fmt.Errorf(
			"number of candidates must be positive, got %d: %w",
			config.NumCandidates, ErrInvalidParameter)
	}

	if config.Q <= 0 {
		return nil, 0, fmt.Errorf("q must be positive, got %d: %w", config.Q, ErrInvalidParameter)
	}

	if len(bounds) == 0 {
		return nil, 0, fmt.Errorf("no search-space bounds: %w", ErrInvalidParameter)
	}

	for i, b := range bounds {
		if b.Min > b.Max {
			return nil, 0, fmt.Errorf(
				"bound %d has min %v greater than max %v: %w",
				i, b.Min, b.Max, ErrInvalidParameter)
		}
	}

	rng := rand.New(rand.NewSource(config.Seed))

	// Generate all candidates up front so they can be scored as one t-batch.
	X := make([][][]float64, config.NumCandidates)
	for c := range X {
		qb := make([][]float64, config.Q)
		for i := range qb {
			qb[i] = randomPoint(rng, bounds)
		}

		X[c] = qb
	}

	scores, err := scorer.Score(X)
	if err != nil {
		return nil, 0, err
	}

	bestIdx := 0

	for c, score := range scores {
		if score > scores[bestIdx] {
			bestIdx = c
		}

		if config.ProgressChan != nil {
			update := SearchUpdate{
				CurrentCandidate: c + 1,
				TotalCandidates:  config.NumCandidates,
				CurrentScore:     score,
				BestScore:        scores[bestIdx],
			}

			select {
			case config.ProgressChan <- update:
			default:
				// Skip update if channel is full.
			}
		}
	}

	return X[bestIdx], scores[bestIdx], nil
}

// randomPoint draws one design point uniformly inside the bounds. Integer
// ranges draw integers inclusive of both ends; float ranges draw uniformly
// over [Min, Max).
func randomPoint[T constraints.Integer | constraints.Float](
	rng *rand.Rand,
	bounds []ParameterRange[T],
) []float64 {
	p := make([]float64, len(bounds))

	for i, bound := range bounds {
		switch any(bound.Min).(type) {
		case float32, float64:
			// For float types, generate a random float in range.
			lo := float64(bound.Min)
			hi := float64(bound.Max)
			p[i] = lo + rng.Float64()*(hi-lo)
		default:
			// For integer types, generate a random integer in range.
			lo := int64(bound.Min)
			hi := int64(bound.Max)
			p[i] = float64(lo + rng.Int63n(hi-lo+1))
		}
	}

	return p
}
