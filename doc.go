// Package acq provides scalarized Upper Confidence Bound (UCB) acquisition
// functions for multi-output Bayesian optimization, in an analytic
// (closed-form, single-point) and a Monte Carlo (sampling-based, batched)
// variant, plus the factory contract for registering them with an external
// optimization driver.
//
// # Features
//
// The package includes the following key features:
//
//   - Scalarization: Multi-output predictions are collapsed to one scalar
//     objective by a fixed weight vector supplied at construction
//   - Analytic Scalarized UCB: Closed-form scoring of single design points
//     using the posterior mean and across-output covariance
//   - Monte Carlo Scalarized UCB: Sampling-based scoring of jointly
//     evaluated q-batches, where the max-over-batch term has no closed form
//   - Pluggable Collaborators: Predictive models and posterior samplers are
//     capability interfaces, so alternative models and sampling schemes drop
//     in without touching the scorers
//   - Deterministic Sampling: Samplers reuse seeded base samples, making
//     Monte Carlo scores reproducible and t-batch results exactly stackable
//   - Candidate Search: A batched random search that ranks candidate
//     q-batches by acquisition value, with progress updates via channels
//   - Eager Validation: Malformed batches, weight/output mismatches, and
//     invalid parameters fail before any numeric work, with a small sentinel
//     error taxonomy
//
// # Batch conventions
//
// Design points travel in two nested batches. A q-batch is a group of q
// points evaluated jointly; its acquisition value depends on all members
// together (via a max). A t-batch is an outer batch of independent q-batches
// scored in one call; scorers return one value per t-batch entry. The
// canonical input shape is t × q × d. The ScoreOne methods accept a bare
// q-batch and restore the outer dimension internally.
//
// # Choosing a variant
//
// 1. Analytic ScalarizedUCB:
//
//   - Exact, cheap, differentiable composition of mean and covariance
//
//   - Restricted to one point per q-batch (q = 1)
//
//     ucb, err := acq.NewScalarizedUCB(model, 0.1, weights, true)
//
// 2. Monte Carlo QScalarizedUCB:
//
//   - Accepts any q ≥ 1; a q-batch is driven by its best candidate
//
//   - Unbiased estimate of the analytic value at q = 1; estimator variance
//     shrinks with the sample count
//
//   - Supports pending points: in-flight candidates join every scored batch
//
//     qucb, err := acq.NewQScalarizedUCB(model, 0.1, weights, nil)
//
// # Driver registration
//
// Optimization loops rebuild their acquisition function each iteration from
// the freshly fitted model. The Factory type captures that hook, and
// AnalyticUCBFactory and MCUCBFactory conform to it:
//
//	scorer, err := acq.MCUCBFactory(
//	    model, weights, nil, observed, pending,
//	    acq.FactoryOptions{Beta: 0.2, Samples: 512, Seed: 42},
//	)
//
// SearchCandidates then plays the generation step, ranking random candidate
// q-batches inside bounds with a single t-batched scoring call.
//
// # Concurrency
//
// Scoring is a pure, synchronous computation: no I/O, no shared mutable
// state beyond the sampler's lazily built base-sample cache, which is
// mutex-guarded. Construct one sampler (or one acquisition instance) per
// concurrent evaluation context; sharing a sampler across goroutines is
// safe but serializes cache access.
package acq
