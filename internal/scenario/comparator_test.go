package scenario

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finflow/simulation-engine/internal/domain"
	"github.com/finflow/simulation-engine/internal/simulation"
)

func newComparator() *Comparator {
	return NewComparator(simulation.NewEngine(), NewLibrary())
}

// Zero-volatility configs make the comparison fully deterministic, so the
// derived metrics can be checked against closed-form arithmetic.
func TestCompareMarketCrashDeterministic(t *testing.T) {
	cfg := domain.SimulationConfig{
		InitialBalance: decimal.NewFromInt(100000),
		Months:         24,
		Iterations:     100,
		ExpectedReturn: decimal.NewFromFloat(0.07),
		Volatility:     decimal.Zero,
		Seed:           1,
	}

	result, err := newComparator().Compare(context.Background(), cfg, "market_crash")
	require.NoError(t, err)

	assert.Equal(t, "market_crash", result.Scenario.Name)
	assert.Equal(t, domain.SeveritySevere, result.Scenario.Severity)

	cmp := result.Comparison
	assert.True(t, cmp.MedianDifference.IsPositive())
	assert.True(t, result.Stressed.Median.LessThan(result.Baseline.Median))

	// Losing 30% up front and compounding the remainder leaves the
	// stressed median a bit over 30% behind the baseline.
	assert.True(t, cmp.MedianDifferencePercent.GreaterThan(decimal.NewFromInt(30)))
	assert.Equal(t, domain.ImpactCritical, cmp.ImpactSeverity)
	assert.True(t, cmp.WorthStressTesting)

	// Without contributions the stressed path can never regain 90% of the
	// baseline.
	assert.Nil(t, cmp.RecoveryMonths)
}

func TestCompareRecoveryWithContributions(t *testing.T) {
	// Heavy contributions relative to the starting balance swamp a mild
	// correction immediately.
	cfg := domain.SimulationConfig{
		InitialBalance:      decimal.NewFromInt(10000),
		MonthlyContribution: decimal.NewFromInt(5000),
		Months:              24,
		Iterations:          100,
		ExpectedReturn:      decimal.NewFromFloat(0.07),
		Volatility:          decimal.Zero,
		Seed:                1,
	}

	result, err := newComparator().Compare(context.Background(), cfg, "market_correction")
	require.NoError(t, err)

	require.NotNil(t, result.Comparison.RecoveryMonths)
	assert.Equal(t, 1, *result.Comparison.RecoveryMonths)
}

func TestCompareJobLossExactImpact(t *testing.T) {
	cfg := domain.SimulationConfig{
		InitialBalance:      decimal.Zero,
		MonthlyContribution: decimal.NewFromInt(1000),
		Months:              24,
		Iterations:          50,
		ExpectedReturn:      decimal.Zero,
		Volatility:          decimal.Zero,
		Seed:                1,
	}

	result, err := newComparator().Compare(context.Background(), cfg, "job_loss")
	require.NoError(t, err)

	// 12 of 24 contribution months are zeroed at 0% growth: exactly half
	// the baseline terminal balance is lost.
	assert.True(t, result.Baseline.Median.Equal(decimal.NewFromInt(24000)))
	assert.True(t, result.Stressed.Median.Equal(decimal.NewFromInt(12000)))
	assert.True(t, result.Comparison.MedianDifference.Equal(decimal.NewFromInt(12000)))
	assert.True(t, result.Comparison.MedianDifferencePercent.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, domain.ImpactCritical, result.Comparison.ImpactSeverity)
}

// Adverse shocks must depress the median path for every month from the
// onset, not just at the horizon. Zero volatility makes the per-month
// ordering exact.
func TestCompareStressedMedianDominatedEveryMonth(t *testing.T) {
	cfg := domain.SimulationConfig{
		InitialBalance:      decimal.NewFromInt(100000),
		MonthlyContribution: decimal.NewFromInt(1000),
		Months:              36,
		Iterations:          50,
		ExpectedReturn:      decimal.NewFromFloat(0.07),
		Volatility:          decimal.Zero,
		Seed:                1,
	}

	comparator := newComparator()
	library := NewLibrary()
	for _, name := range []string{"market_crash", "job_loss", "medical_emergency"} {
		result, err := comparator.Compare(context.Background(), cfg, name)
		require.NoError(t, err, "scenario %s", name)

		sc, err := library.Get(name)
		require.NoError(t, err)

		baseline, err := simulation.NewEngine().Simulate(context.Background(), cfg)
		require.NoError(t, err)
		stressed, err := simulation.NewEngine().SimulateShocked(context.Background(), cfg, sc.Shock)
		require.NoError(t, err)

		require.Len(t, stressed.TimeSeries, len(baseline.TimeSeries))
		for m := sc.Shock.OnsetMonth; m <= len(baseline.TimeSeries); m++ {
			assert.True(t,
				stressed.TimeSeries[m-1].Median.LessThanOrEqual(baseline.TimeSeries[m-1].Median),
				"scenario %s month %d: stressed median %s above baseline %s",
				name, m, stressed.TimeSeries[m-1].Median, baseline.TimeSeries[m-1].Median)
		}
		assert.True(t, result.Stressed.Median.LessThanOrEqual(result.Baseline.Median))
	}
}

func TestCompareUnknownScenario(t *testing.T) {
	cfg := domain.SimulationConfig{
		InitialBalance: decimal.NewFromInt(1000),
		Months:         12,
		Iterations:     10,
		Seed:           1,
	}
	_, err := newComparator().Compare(context.Background(), cfg, "nope")
	assert.ErrorIs(t, err, ErrUnknownScenario)
}

func TestCompareInvalidConfig(t *testing.T) {
	_, err := newComparator().Compare(context.Background(), domain.SimulationConfig{}, "market_crash")
	assert.ErrorIs(t, err, simulation.ErrInvalidConfiguration)
}

func TestClassifyImpact(t *testing.T) {
	tests := []struct {
		pct  float64
		want domain.ImpactSeverity
	}{
		{0, domain.ImpactMinimal},
		{4.99, domain.ImpactMinimal},
		{5, domain.ImpactModerate},
		{14.99, domain.ImpactModerate},
		{15, domain.ImpactSignificant},
		{30, domain.ImpactSignificant},
		{30.01, domain.ImpactCritical},
		{80, domain.ImpactCritical},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classifyImpact(dec(tt.pct)), "pct %v", tt.pct)
	}
}

func TestDeriveComparisonZeroBaseline(t *testing.T) {
	baseline := &domain.SimulationResult{Median: decimal.Zero}
	stressed := &domain.SimulationResult{Median: decimal.NewFromInt(-100)}

	cmp := deriveComparison(baseline, stressed, 1)

	// A zero baseline median cannot produce a percentage; the comparison
	// degrades to absolute numbers.
	assert.True(t, cmp.MedianDifferencePercent.IsZero())
	assert.True(t, cmp.MedianDifference.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, domain.ImpactMinimal, cmp.ImpactSeverity)
}
