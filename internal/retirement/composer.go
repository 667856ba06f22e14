// Package retirement composes an accumulation-phase simulation with a
// withdrawal-phase simulation into a single retirement plan assessment.
package retirement

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/finflow/simulation-engine/internal/domain"
	"github.com/finflow/simulation-engine/internal/simulation"
	"github.com/finflow/simulation-engine/pkg/money"
)

// sustainabilityTarget is the success probability the safe-withdrawal and
// nest-egg searches aim for.
const sustainabilityTarget = 0.75

const (
	solverMaxProbes = 20
	solverTolerance = 1 // dollars of bracket width
)

// Composer chains the two retirement phases through the simulation engine.
type Composer struct {
	engine *simulation.Engine
	logger simulation.Logger
}

// NewComposer creates a composer over the given engine.
func NewComposer(engine *simulation.Engine) *Composer {
	logger := engine.Logger
	if logger == nil {
		logger = simulation.NopLogger{}
	}
	return &Composer{engine: engine, logger: logger}
}

// SimulateRetirement runs the accumulation phase from the current age to
// the retirement age, then seeds the withdrawal phase with the
// accumulation's median terminal balance (per-trial carry-over is not
// modeled) and simulates decumulation to life expectancy. Beyond the two
// base runs it performs three bisection
// searches (safe withdrawal, target nest egg, required contribution), each
// costing up to solverMaxProbes full simulations.
func (c *Composer) SimulateRetirement(ctx context.Context, cfg domain.RetirementConfig) (*domain.RetirementResult, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = simulation.NewSeed()
	}

	monthsToRet := cfg.MonthsToRetirement()
	monthsInRet := cfg.MonthsInRetirement()

	accCfg := domain.SimulationConfig{
		InitialBalance:      cfg.CurrentSavings,
		MonthlyContribution: cfg.MonthlyContribution,
		Months:              monthsToRet,
		Iterations:          cfg.Iterations,
		ExpectedReturn:      cfg.ExpectedReturn,
		Volatility:          cfg.Volatility,
		Seed:                seed,
	}
	accRes, err := c.engine.Simulate(ctx, accCfg)
	if err != nil {
		return nil, fmt.Errorf("accumulation phase: %w", err)
	}

	accumulation := domain.AccumulationPhase{
		YearsToRetirement:  cfg.RetirementAge - cfg.CurrentAge,
		FinalBalanceP10:    accRes.P10.Round(2),
		FinalBalanceMedian: accRes.Median.Round(2),
		FinalBalanceP90:    accRes.P90.Round(2),
		TotalContributions: money.FromDecimal(cfg.MonthlyContribution).
			Annual().Decimal.Mul(decimal.NewFromInt(int64(cfg.RetirementAge - cfg.CurrentAge))).Round(2),
	}

	netNeed := money.FromDecimal(cfg.MonthlyExpenses.Sub(cfg.OtherMonthlyIncome)).
		ClampFloor(money.New(0)).Round()

	nestEgg := accRes.Median
	if nestEgg.IsNegative() {
		c.logger.Warnf("accumulation median is negative (%s); withdrawal phase starts from zero", nestEgg.StringFixed(2))
		nestEgg = decimal.Zero
	}

	postReturn := cfg.PostRetirementReturn
	if postReturn.IsZero() {
		postReturn = cfg.ExpectedReturn
	}
	postVol := cfg.PostRetirementVolatility
	if postVol.IsZero() {
		postVol = cfg.Volatility
	}

	wdCfg := domain.SimulationConfig{
		InitialBalance:      nestEgg,
		MonthlyContribution: netNeed.Decimal.Neg(),
		Months:              monthsInRet,
		Iterations:          cfg.Iterations,
		ExpectedReturn:      postReturn,
		Volatility:          postVol,
		Seed:                seed + 1,
	}
	wdRes, err := c.engine.Simulate(ctx, wdCfg)
	if err != nil {
		return nil, fmt.Errorf("withdrawal phase: %w", err)
	}

	safeWithdrawal, err := c.solveSafeWithdrawal(ctx, wdCfg)
	if err != nil {
		return nil, fmt.Errorf("safe withdrawal search: %w", err)
	}

	withdrawal := domain.WithdrawalPhase{
		YearsInRetirement:           cfg.LifeExpectancy - cfg.RetirementAge,
		NetMonthlyNeed:              netNeed.Decimal,
		ProbabilityOfNotRunningOut:  sustainabilityRate(wdRes.DepletionMonths),
		MedianYearsOfSustainability: medianYearsSustained(wdRes.DepletionMonths, monthsInRet),
		SafeWithdrawalRate:          safeWithdrawal,
	}

	recommendations, err := c.deriveRecommendations(ctx, cfg, accCfg, accRes, wdCfg, netNeed.Decimal)
	if err != nil {
		return nil, err
	}

	return &domain.RetirementResult{
		AccumulationPhase: accumulation,
		WithdrawalPhase:   withdrawal,
		Recommendations:   *recommendations,
	}, nil
}

func validate(cfg domain.RetirementConfig) error {
	switch {
	case cfg.CurrentAge <= 0:
		return fmt.Errorf("%w: current age must be positive, got %d", simulation.ErrInvalidConfiguration, cfg.CurrentAge)
	case cfg.RetirementAge <= cfg.CurrentAge:
		return fmt.Errorf("%w: retirement age %d must exceed current age %d",
			simulation.ErrInvalidConfiguration, cfg.RetirementAge, cfg.CurrentAge)
	case cfg.LifeExpectancy <= cfg.RetirementAge:
		return fmt.Errorf("%w: life expectancy %d must exceed retirement age %d",
			simulation.ErrInvalidConfiguration, cfg.LifeExpectancy, cfg.RetirementAge)
	case cfg.Iterations <= 0:
		return fmt.Errorf("%w: iterations must be positive, got %d", simulation.ErrInvalidConfiguration, cfg.Iterations)
	case cfg.CurrentSavings.IsNegative():
		return fmt.Errorf("%w: current savings cannot be negative, got %s",
			simulation.ErrInvalidConfiguration, cfg.CurrentSavings)
	case cfg.Volatility.IsNegative():
		return fmt.Errorf("%w: volatility cannot be negative, got %s", simulation.ErrInvalidConfiguration, cfg.Volatility)
	}
	return nil
}

// sustainabilityRate is the fraction of trials that never crossed below
// zero.
func sustainabilityRate(depletions []int) decimal.Decimal {
	if len(depletions) == 0 {
		return decimal.Zero
	}
	sustained := 0
	for _, d := range depletions {
		if d < 0 {
			sustained++
		}
	}
	return decimal.NewFromInt(int64(sustained)).Div(decimal.NewFromInt(int64(len(depletions))))
}

// medianYearsSustained reports the median number of years portfolios lasted
// (nearest-rank median over months survived, capped at the horizon).
func medianYearsSustained(depletions []int, horizonMonths int) decimal.Decimal {
	if len(depletions) == 0 {
		return decimal.Zero
	}
	lasted := make([]int, len(depletions))
	for i, d := range depletions {
		if d < 0 {
			lasted[i] = horizonMonths
		} else {
			lasted[i] = d
		}
	}
	sort.Ints(lasted)
	mid := (len(lasted)+1)/2 - 1
	return decimal.NewFromInt(int64(lasted[mid])).Div(decimal.NewFromInt(12)).Round(1)
}

// solveSafeWithdrawal bisects over the monthly withdrawal amount for the
// largest withdrawal keeping the probability of not running out at or above
// the sustainability target. Probes reuse the withdrawal config's seed so
// the search sees consistent market paths.
func (c *Composer) solveSafeWithdrawal(ctx context.Context, base domain.SimulationConfig) (decimal.Decimal, error) {
	if base.InitialBalance.IsZero() {
		return decimal.Zero, nil
	}

	sustain := func(withdrawal decimal.Decimal) (float64, error) {
		res, err := c.engine.Simulate(ctx, base.WithContribution(withdrawal.Neg()))
		if err != nil {
			return 0, err
		}
		return sustainabilityRate(res.DepletionMonths).InexactFloat64(), nil
	}

	// Straight-line depletion times three is a generous ceiling; any
	// withdrawal above it fails long before the horizon.
	upper := base.InitialBalance.Div(decimal.NewFromInt(int64(base.Months))).Mul(decimal.NewFromInt(3))
	if floor := base.MonthlyContribution.Abs().Mul(decimal.NewFromInt(2)); floor.GreaterThan(upper) {
		upper = floor
	}

	upperRate, err := sustain(upper)
	if err != nil {
		return decimal.Zero, err
	}
	if upperRate >= sustainabilityTarget {
		return upper.Round(2), nil
	}

	// Invariant: lo sustains, hi does not.
	lo, hi := decimal.Zero, upper
	two := decimal.NewFromInt(2)
	tolerance := decimal.NewFromInt(solverTolerance)
	for probes := 0; probes < solverMaxProbes && hi.Sub(lo).GreaterThan(tolerance); probes++ {
		mid := lo.Add(hi).Div(two)
		rate, err := sustain(mid)
		if err != nil {
			return decimal.Zero, err
		}
		if rate >= sustainabilityTarget {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo.Round(2), nil
}

// solveNestEgg bisects over the starting balance for the smallest nest egg
// giving the withdrawal phase the target probability of not running out.
func (c *Composer) solveNestEgg(ctx context.Context, base domain.SimulationConfig, netNeed decimal.Decimal) (decimal.Decimal, error) {
	if netNeed.IsZero() {
		return decimal.Zero, nil
	}

	sustain := func(initial decimal.Decimal) (float64, error) {
		probe := base
		probe.InitialBalance = initial
		res, err := c.engine.Simulate(ctx, probe)
		if err != nil {
			return 0, err
		}
		return sustainabilityRate(res.DepletionMonths).InexactFloat64(), nil
	}

	// Fully funding every month with zero growth, plus 50% margin for
	// adverse return sequences.
	upper := netNeed.Mul(decimal.NewFromInt(int64(base.Months))).Mul(decimal.NewFromFloat(1.5))
	upperRate, err := sustain(upper)
	if err != nil {
		return decimal.Zero, err
	}
	if upperRate < sustainabilityTarget {
		c.logger.Warnf("nest egg ceiling %s only sustains %.2f; reporting ceiling", upper.StringFixed(2), upperRate)
		return upper.Round(2), nil
	}

	// Invariant: lo fails, hi sustains.
	lo, hi := decimal.Zero, upper
	two := decimal.NewFromInt(2)
	tolerance := decimal.NewFromInt(solverTolerance)
	for probes := 0; probes < solverMaxProbes && hi.Sub(lo).GreaterThan(tolerance); probes++ {
		mid := lo.Add(hi).Div(two)
		rate, err := sustain(mid)
		if err != nil {
			return decimal.Zero, err
		}
		if rate >= sustainabilityTarget {
			hi = mid
		} else {
			lo = mid
		}
	}
	return hi.Round(2), nil
}

func (c *Composer) deriveRecommendations(ctx context.Context, cfg domain.RetirementConfig, accCfg domain.SimulationConfig, accRes *domain.SimulationResult, wdCfg domain.SimulationConfig, netNeed decimal.Decimal) (*domain.Recommendations, error) {
	nestEgg, err := c.solveNestEgg(ctx, wdCfg, netNeed)
	if err != nil {
		return nil, fmt.Errorf("nest egg search: %w", err)
	}

	rec := &domain.Recommendations{TargetNestEgg: nestEgg}
	if nestEgg.IsZero() {
		return rec, nil
	}

	// Additional contribution for a 75% chance of reaching the nest egg by
	// the retirement date. Unreachable is non-fatal: no recommendation.
	solved, err := c.engine.FindRequiredContribution(ctx, accCfg, nestEgg, decimal.NewFromFloat(sustainabilityTarget), nil)
	switch {
	case err == nil:
		if increase := solved.Contribution.Sub(cfg.MonthlyContribution); increase.IsPositive() {
			rounded := increase.Round(2)
			rec.IncreaseContributionBy = &rounded
		}
	case errors.Is(err, simulation.ErrTargetUnreachable):
		c.logger.Infof("no reachable contribution hits nest egg %s at %.0f%% confidence",
			nestEgg.StringFixed(2), sustainabilityTarget*100)
	default:
		return nil, fmt.Errorf("contribution search: %w", err)
	}

	// If the median trajectory already clears the nest egg before the
	// retirement date, report how much earlier.
	for _, snap := range accRes.TimeSeries {
		if snap.Median.GreaterThanOrEqual(nestEgg) {
			if monthsEarly := accCfg.Months - snap.Month; monthsEarly >= 12 {
				years := decimal.NewFromInt(int64(monthsEarly)).Div(decimal.NewFromInt(12)).Round(1)
				rec.CanRetireEarlierBy = &years
			}
			break
		}
	}
	return rec, nil
}
