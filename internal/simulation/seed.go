package simulation

import "time"

// seedFunc returns a seed for configs that do not pin one (override for
// deterministic Monte Carlo tests).
var seedFunc = func() int64 { return time.Now().UnixNano() }

// SetSeedFunc overrides how unseeded runs derive their seed.
func SetSeedFunc(f func() int64) { seedFunc = f }

// NewSeed returns a fresh seed from the configured seed source. Composers
// that need pinned seeds across several dependent runs draw one here.
func NewSeed() int64 { return seedFunc() }

// trialSeed derives a distinct generator seed for one trial. Each trial
// owns its own rand.Rand so parallel trials never share RNG state and the
// result is independent of how trials are scheduled across workers.
func trialSeed(base int64, trial int) int64 {
	// SplitMix-style odd multiplier keeps nearby trial indices
	// uncorrelated; the multiply wraps in unsigned arithmetic.
	return base + int64((uint64(trial)+1)*0x9E3779B97F4A7C15)
}
