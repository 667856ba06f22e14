package simulation

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/finflow/simulation-engine/internal/domain"
)

// SolverOptions tune the contribution bisection. Zero values take the
// documented defaults.
type SolverOptions struct {
	// UpperBound caps the searched contribution. When zero the solver uses
	// a conservatively large ceiling: the larger of 10x the config's
	// current contribution and 2x the target spread evenly over the
	// horizon, with a $100 floor.
	UpperBound decimal.Decimal

	// Tolerance is the bracket width at which the search converges.
	// Defaults to $1.
	Tolerance decimal.Decimal

	// MaxProbes bounds the number of full simulations the solver may run.
	// Defaults to 24. Each probe costs a complete iterations-trial run, so
	// this bounds total solver cost.
	MaxProbes int
}

// SolverResult reports the solved contribution and the success rate it
// achieved. On ErrTargetUnreachable it carries the best-effort values at
// the upper bound so callers can fall back without re-simulating.
type SolverResult struct {
	Contribution decimal.Decimal `json:"contribution"`
	SuccessRate  decimal.Decimal `json:"successRate"`
	Probes       int             `json:"probes"`
}

// FindRequiredContribution bisects over the monthly contribution until the
// probability of the terminal balance reaching targetAmount meets
// targetRate. Success is monotonically non-decreasing in the contribution,
// which makes the bisection valid; to keep that monotonicity across probes
// despite sampling noise, every probe re-simulates with the same seed
// (common random numbers). The solver is therefore deterministic given the
// config's seed.
func (e *Engine) FindRequiredContribution(ctx context.Context, cfg domain.SimulationConfig, targetAmount, targetRate decimal.Decimal, opts *SolverOptions) (SolverResult, error) {
	if err := ValidateConfig(cfg); err != nil {
		return SolverResult{}, err
	}
	if targetRate.LessThanOrEqual(decimal.Zero) || targetRate.GreaterThan(decimal.NewFromInt(1)) {
		return SolverResult{}, fmt.Errorf("%w: target success rate must be in (0, 1], got %s",
			ErrInvalidConfiguration, targetRate)
	}

	var o SolverOptions
	if opts != nil {
		o = *opts
	}
	upper := o.UpperBound
	if upper.IsZero() {
		upper = defaultUpperBound(cfg, targetAmount)
	}
	tolerance := o.Tolerance
	if tolerance.IsZero() {
		tolerance = decimal.NewFromInt(1)
	}
	maxProbes := o.MaxProbes
	if maxProbes <= 0 {
		maxProbes = 24
	}

	// Degenerate case: nothing ever enters the portfolio, so any positive
	// target is unreachable. Short-circuit instead of producing NaN bands.
	if targetAmount.IsPositive() && cfg.InitialBalance.IsZero() && upper.LessThanOrEqual(decimal.Zero) {
		return SolverResult{Contribution: upper, SuccessRate: decimal.Zero},
			fmt.Errorf("%w: zero balance and zero contribution ceiling", ErrTargetUnreachable)
	}

	// Pin the probe seed so every candidate sees identical market paths.
	probeCfg := cfg
	if probeCfg.Seed == 0 {
		probeCfg = probeCfg.WithSeed(seedFunc())
	}

	target := targetAmount.InexactFloat64()
	rate := targetRate.InexactFloat64()
	probes := 0

	probe := func(contribution decimal.Decimal) (float64, error) {
		probes++
		res, err := e.Simulate(ctx, probeCfg.WithContribution(contribution))
		if err != nil {
			return 0, err
		}
		return SuccessRate(res.FinalValues, target)
	}

	upperRate, err := probe(upper)
	if err != nil {
		return SolverResult{}, err
	}
	if upperRate < rate {
		e.log().Infof("contribution solver: upper bound %s reaches only %.4f of target rate %.4f",
			upper.StringFixed(2), upperRate, rate)
		return SolverResult{
				Contribution: upper,
				SuccessRate:  decimal.NewFromFloat(upperRate),
				Probes:       probes,
			},
			fmt.Errorf("%w: best rate %.4f at upper bound %s", ErrTargetUnreachable, upperRate, upper.StringFixed(2))
	}

	lowerRate, err := probe(decimal.Zero)
	if err != nil {
		return SolverResult{}, err
	}
	if lowerRate >= rate {
		return SolverResult{Contribution: decimal.Zero, SuccessRate: decimal.NewFromFloat(lowerRate), Probes: probes}, nil
	}

	// Invariant: lo fails the target, hi meets it.
	lo, hi := decimal.Zero, upper
	hiRate := upperRate
	two := decimal.NewFromInt(2)
	for probes < maxProbes && hi.Sub(lo).GreaterThan(tolerance) {
		mid := lo.Add(hi).Div(two)
		midRate, err := probe(mid)
		if err != nil {
			return SolverResult{}, err
		}
		if midRate >= rate {
			hi, hiRate = mid, midRate
		} else {
			lo = mid
		}
	}

	return SolverResult{
		Contribution: hi.Round(2),
		SuccessRate:  decimal.NewFromFloat(hiRate),
		Probes:       probes,
	}, nil
}

func defaultUpperBound(cfg domain.SimulationConfig, targetAmount decimal.Decimal) decimal.Decimal {
	upper := cfg.MonthlyContribution.Abs().Mul(decimal.NewFromInt(10))
	spread := targetAmount.Div(decimal.NewFromInt(int64(cfg.Months))).Mul(decimal.NewFromInt(2))
	if spread.GreaterThan(upper) {
		upper = spread
	}
	if floor := decimal.NewFromInt(100); upper.LessThan(floor) {
		upper = floor
	}
	return upper
}
