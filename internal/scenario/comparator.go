package scenario

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/finflow/simulation-engine/internal/domain"
	"github.com/finflow/simulation-engine/internal/simulation"
)

// Impact severity thresholds on |median difference %|: below 5% minimal,
// 5-15% moderate, 15-30% significant, above 30% critical.
var (
	thresholdModerate    = decimal.NewFromInt(5)
	thresholdSignificant = decimal.NewFromInt(15)
	thresholdCritical    = decimal.NewFromInt(30)
)

// recoveryFraction is the share of the baseline median the stressed median
// must regain to count as recovered.
const recoveryFraction = 0.9

// Comparator runs a baseline and a stressed simulation and derives impact
// and recovery metrics from the pair.
type Comparator struct {
	engine  *simulation.Engine
	library *Library
}

// NewComparator wires a comparator over an engine and a scenario library.
func NewComparator(engine *simulation.Engine, library *Library) *Comparator {
	return &Comparator{engine: engine, library: library}
}

// Compare simulates the config as-is and under the named scenario's shock,
// using the same iteration count for both runs. The two runs draw
// independently; no shared-seed variance reduction is applied, so small
// differences between runs carry sampling noise.
func (c *Comparator) Compare(ctx context.Context, cfg domain.SimulationConfig, scenarioName string) (*domain.ScenarioComparisonResult, error) {
	sc, err := c.library.Get(scenarioName)
	if err != nil {
		return nil, err
	}

	baseline, err := c.engine.Simulate(ctx, cfg)
	if err != nil {
		return nil, err
	}
	stressed, err := c.engine.SimulateShocked(ctx, cfg, sc.Shock)
	if err != nil {
		return nil, err
	}

	comparison := deriveComparison(baseline, stressed, sc.Shock.OnsetMonth)
	return &domain.ScenarioComparisonResult{
		Scenario:   sc.Info(),
		Baseline:   baseline.Summary(),
		Stressed:   stressed.Summary(),
		Comparison: comparison,
	}, nil
}

func deriveComparison(baseline, stressed *domain.SimulationResult, onsetMonth int) domain.ScenarioComparison {
	medianDiff := baseline.Median.Sub(stressed.Median)

	var medianDiffPct decimal.Decimal
	if !baseline.Median.IsZero() {
		medianDiffPct = medianDiff.Div(baseline.Median).Mul(decimal.NewFromInt(100))
	}

	severity := classifyImpact(medianDiffPct.Abs())
	return domain.ScenarioComparison{
		MedianDifference:        medianDiff,
		MedianDifferencePercent: medianDiffPct,
		P10Difference:           baseline.P10.Sub(stressed.P10),
		RecoveryMonths:          recoveryMonth(baseline.TimeSeries, stressed.TimeSeries, onsetMonth),
		ImpactSeverity:          severity,
		WorthStressTesting:      severity != domain.ImpactMinimal,
	}
}

// recoveryMonth scans from the shock onset for the first month where the
// stressed median regains 90% of the baseline median at the same month.
// Nil means the stressed path never recovered within the horizon.
func recoveryMonth(baseline, stressed []domain.MonthlySnapshot, onsetMonth int) *int {
	if onsetMonth < 1 {
		onsetMonth = 1
	}
	frac := decimal.NewFromFloat(recoveryFraction)
	for m := onsetMonth; m <= len(stressed) && m <= len(baseline); m++ {
		if stressed[m-1].Median.GreaterThanOrEqual(baseline[m-1].Median.Mul(frac)) {
			month := m
			return &month
		}
	}
	return nil
}

func classifyImpact(absPct decimal.Decimal) domain.ImpactSeverity {
	switch {
	case absPct.LessThan(thresholdModerate):
		return domain.ImpactMinimal
	case absPct.LessThan(thresholdSignificant):
		return domain.ImpactModerate
	case absPct.LessThanOrEqual(thresholdCritical):
		return domain.ImpactSignificant
	default:
		return domain.ImpactCritical
	}
}
