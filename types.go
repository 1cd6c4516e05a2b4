package acq

import (
	"time"

	"golang.org/x/exp/constraints"
)

// ParameterRange defines the valid range for one decision variable of the
// candidate search space. Each dimension must have a minimum and maximum
// value.
//
// Type Parameter:
//   - T: The numeric type for this range (integer or float)
//
// Integer ranges produce integer-valued candidates (as float64 design
// points); float ranges sample uniformly over [Min, Max).
//
// Usage:
//
//	// A two-dimensional search space.
//	bounds := []acq.ParameterRange[float64]{
//	    {Min: 0, Max: 1},
//	    {Min: -5, Max: 5},
//	}
//
// Validation:
// - Min must be less than or equal to Max
// - The range is inclusive of Min; integer ranges are inclusive of Max too
type ParameterRange[T constraints.Integer | constraints.Float] struct {
	// Min defines the minimum allowed value (inclusive) for this dimension.
	Min T

	// Max defines the maximum allowed value for this dimension.
	Max T
}

// SearchUpdate represents the current state of a candidate search. Updates
// are emitted on SearchConfig.ProgressChan as candidates are ranked.
type SearchUpdate struct {
	// CurrentCandidate is the 1-based index of the candidate just ranked.
	CurrentCandidate int

	// TotalCandidates is the total number of candidates being ranked.
	TotalCandidates int

	// CurrentScore is the acquisition value of the candidate just ranked.
	CurrentScore float64

	// BestScore is the best acquisition value seen so far.
	BestScore float64
}

// SearchConfig controls a candidate search over an acquisition scorer.
//
// Fields explanation:
// - NumCandidates: Number of random candidate q-batches to rank
// - Q: Number of jointly evaluated points per candidate q-batch
// - Seed: Seed for the candidate generator, for reproducible searches
// - ProgressChan: Optional channel for ranking progress; nil disables updates
//
// Performance impact notes:
// - Higher NumCandidates = more thorough search but a larger scoring batch
// - Candidates are scored in a single t-batched call, so the scorer's cost
//   scales with NumCandidates × Q × sample count
type SearchConfig struct {
	// NumCandidates determines how many random candidate q-batches to
	// generate and rank. Recommended range: 100-1000.
	NumCandidates int

	// Q is the number of design points per candidate q-batch. Use 1 with
	// analytic scorers; Monte Carlo scorers accept any Q ≥ 1.
	Q int

	// Seed seeds the candidate generator. Searches with equal seeds, bounds,
	// and configuration rank identical candidates.
	Seed uint64

	// ProgressChan receives a SearchUpdate per ranked candidate. Sends are
	// non-blocking: updates are dropped if the channel is full. If nil, no
	// updates are sent.
	ProgressChan chan<- SearchUpdate
}

// DefaultSearchConfig returns a default candidate-search configuration:
// 256 single-point candidates with a time-derived seed.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		NumCandidates: 256,
		Q:             1,
		Seed:          uint64(time.Now().UnixNano()),
		ProgressChan:  nil, // Default to no progress updates.
	}
}
