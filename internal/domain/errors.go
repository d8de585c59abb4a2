package domain

import "errors"

// Pipeline errors. All are unrecoverable: the run aborts with a diagnostic
// and emits no partial results.
var (
	// ErrConfiguration is returned when generation or split parameters are
	// invalid. Validation runs before any random draw so a bad config never
	// produces a partial dataset.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrDegenerateData is returned when a stage receives input that is
	// insufficient for its algorithm: an empty training partition, a fit
	// with more free parameters than rows, a zero-variance target, or an
	// ANOVA group with fewer than two observations. Surfacing the condition
	// replaces silently producing NaN metrics.
	ErrDegenerateData = errors.New("degenerate data")
)
