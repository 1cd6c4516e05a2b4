package acq

import "fmt"

//////
// Optimization-driver factory contract.
//
// Orchestration layers that run an outer optimization loop rebuild their
// acquisition function every iteration from the freshly fitted model and the
// current bookkeeping (objective weights, observed and pending points). The
// Factory signature below is that construction hook; both UCB variants in
// this package ship a conforming factory.
//////

// AcquisitionScorer is anything that can score a t-batch of q-batches,
// returning one value per q-batch. Both ScalarizedUCB and QScalarizedUCB
// satisfy it, as do user-defined acquisition functions registered with an
// optimization driver.
type AcquisitionScorer interface {
	Score(X [][][]float64) ([]float64, error)
}

// OutcomeConstraints expresses linear feasibility constraints on model
// outputs, one row per constraint: A·outputs ≤ B. Neither UCB variant has a
// constrained form, so the factories in this package reject non-empty
// constraints; the type exists so that conforming factories for
// improvement-based acquisitions can share the contract.
type OutcomeConstraints struct {
	// A holds one coefficient row of length o per constraint.
	A [][]float64

	// B holds the right-hand side, one entry per constraint.
	B []float64
}

// Empty reports whether no constraints are present.
func (c *OutcomeConstraints) Empty() bool {
	return c == nil || len(c.A) == 0
}

// FactoryOptions carries the per-iteration extras of the factory contract.
type FactoryOptions struct {
	// Beta is the exploration weight handed to the acquisition function.
	Beta float64

	// Maximize selects the sign of the analytic confidence term. Ignored by
	// the Monte Carlo variant, which always maximizes.
	Maximize bool

	// Samples overrides the Monte Carlo sample count when Sampler is nil.
	// Zero keeps DefaultSampleCount.
	Samples int

	// Seed seeds the default sampler when Sampler is nil.
	Seed uint64

	// Sampler overrides the posterior sampler entirely. Takes precedence
	// over Samples and Seed.
	Sampler Sampler
}

// Factory is the construction hook an optimization driver calls once per
// iteration to (re)build its acquisition scorer.
//
// Parameters:
// - model: The freshly fitted predictive model
// - objectiveWeights: Scalarization weights, one per model output
// - constraints: Linear outcome constraints, nil or empty when unconstrained
// - observed: Design points evaluated so far (used by improvement-based
//   acquisitions to locate the incumbent; UCB has no use for them)
// - pending: Design points submitted but not yet observed
// - opts: Remaining knobs, acquisition-specific
type Factory func(
	model Model,
	objectiveWeights []float64,
	constraints *OutcomeConstraints,
	observed [][]float64,
	pending [][]float64,
	opts FactoryOptions,
) (AcquisitionScorer, error)

// AnalyticUCBFactory builds a ScalarizedUCB. It conforms to Factory.
//
// Outcome constraints are rejected (UCB has no constrained form), and so are
// pending points: the closed form scores exactly one point per q-batch and
// has no joint term for in-flight candidates to participate in. Observed
// points are accepted and unused.
func AnalyticUCBFactory(
	model Model,
	objectiveWeights []float64,
	constraints *OutcomeConstraints,
	observed [][]float64,
	pending [][]float64,
	opts FactoryOptions,
) (AcquisitionScorer, error) {
	if !constraints.Empty() {
		return nil, fmt.Errorf(
			"scalarized UCB does not support outcome constraints: %w", ErrInvalidParameter)
	}

	if len(pending) > 0 {
		return nil, fmt.Errorf(
			"analytic scalarized UCB does not support pending points: %w", ErrInvalidParameter)
	}

	return NewScalarizedUCB(model, opts.Beta, objectiveWeights, opts.Maximize)
}

// MCUCBFactory builds a QScalarizedUCB. It conforms to Factory.
//
// Outcome constraints are rejected (UCB has no constrained form). Pending
// points are wired through SetPending so they join every scored q-batch.
// Observed points are accepted and unused. The sampler resolves as: explicit
// opts.Sampler, else a stratified sampler of opts.Samples (or
// DefaultSampleCount) draws seeded by opts.Seed.
func MCUCBFactory(
	model Model,
	objectiveWeights []float64,
	constraints *OutcomeConstraints,
	observed [][]float64,
	pending [][]float64,
	opts FactoryOptions,
) (AcquisitionScorer, error) {
	if !constraints.Empty() {
		return nil, fmt.Errorf(
			"scalarized UCB does not support outcome constraints: %w", ErrInvalidParameter)
	}

	sampler := opts.Sampler
	if sampler == nil && (opts.Samples > 0 || opts.Seed != 0) {
		sampler = NewStratifiedNormalSampler(opts.Samples, opts.Seed)
	}

	scorer, err := NewQScalarizedUCB(model, opts.Beta, objectiveWeights, sampler)
	if err != nil {
		return nil, err
	}

	if len(pending) > 0 {
		scorer.SetPending(pending)
	}

	return scorer, nil
}

// Compile-time conformance checks.
var (
	_ Factory           = AnalyticUCBFactory
	_ Factory           = MCUCBFactory
	_ AcquisitionScorer = (*ScalarizedUCB)(nil)
	_ AcquisitionScorer = (*QScalarizedUCB)(nil)
)
