package acq

import "errors"

//////
// Error taxonomy.
//
// Every failure mode in this package is a programmer-error-class condition:
// a malformed batch, a weight vector that does not fit the model, or an
// invalid configuration value. All of them are detected eagerly, before any
// numeric work happens, and surfaced to the caller wrapped around one of the
// sentinels below. There is no retry or recovery path.
//////

var (
	// ErrInvalidInputShape indicates a malformed design-point batch: an
	// empty or ragged batch, a q-batch with more than one point handed to
	// the analytic scorer, or a posterior whose shape does not match the
	// input it was computed for.
	//
	// Use errors.Is to test for it:
	//
	//	if errors.Is(err, acq.ErrInvalidInputShape) { ... }
	ErrInvalidInputShape = errors.New("invalid input shape")

	// ErrDimensionMismatch indicates that the weight vector length does not
	// match the number of model outputs. It is reported the first time a
	// shape-dependent computation is attempted, not at construction, since
	// the model's effective output count is only known once a posterior has
	// been produced.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrInvalidParameter indicates an invalid configuration value, such as
	// a negative beta (its square root appears in both scoring formulas), an
	// empty weight vector, a nil model, or an unsupported factory option.
	ErrInvalidParameter = errors.New("invalid parameter")
)
