package simulation

import (
	"math/rand"
)

// trialSpec is the float-valued view of a config (plus shock cash-flow
// effects) that the hot loop compounds. Built once per simulation run.
type trialSpec struct {
	initial      float64
	contribution float64
	months       int
	model        ReturnModel

	// Shock cash-flow effects. Return-distribution effects live in model.
	lumpWithdrawal  float64
	lumpMonth       int
	zeroContribFrom int // 1-based inclusive range; 0 means no zeroed window
	zeroContribTo   int
}

// contributionAt applies the zero-contribution window, if any.
func (s *trialSpec) contributionAt(month int) float64 {
	if s.zeroContribFrom > 0 && month >= s.zeroContribFrom && month <= s.zeroContribTo {
		return 0
	}
	return s.contribution
}

// runTrial compounds one balance trajectory over the spec's horizon,
// writing each month's balance into the month-major buffer at the trial's
// column. Each month: balance = balance*(1+r) + contribution. The balance
// is deliberately not clamped at zero; withdrawal sustainability depends on
// observing the first crossing below zero, which is returned as a 1-based
// month (-1 if the balance never went negative).
func runTrial(rng *rand.Rand, spec *trialSpec, trial int, byMonth [][]float64) (final float64, depletionMonth int) {
	balance := spec.initial
	depletionMonth = -1

	for month := 1; month <= spec.months; month++ {
		r := spec.model.Sample(rng, month)
		balance = balance*(1+r) + spec.contributionAt(month)
		if spec.lumpMonth > 0 && month == spec.lumpMonth {
			balance -= spec.lumpWithdrawal
		}
		byMonth[month-1][trial] = balance
		if depletionMonth < 0 && balance < 0 {
			depletionMonth = month
		}
	}
	return balance, depletionMonth
}
