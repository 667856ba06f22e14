package simulation

import "errors"

// Sentinel errors for the engine's failure taxonomy. Callers discriminate
// with errors.Is; wrapped messages carry the offending field or value.
var (
	// ErrInvalidConfiguration rejects a config before any simulation runs:
	// non-positive months or iterations, negative volatility or balance.
	ErrInvalidConfiguration = errors.New("invalid simulation configuration")

	// ErrEmptyDistribution reports a zero-length value slice where a
	// distribution was required.
	ErrEmptyDistribution = errors.New("empty distribution")

	// ErrTargetUnreachable reports that the solver exhausted its bracket
	// without reaching the target success rate. It is non-fatal: the
	// accompanying SolverResult still carries the best-effort values and
	// callers are expected to fall back to them.
	ErrTargetUnreachable = errors.New("target success rate unreachable")
)
