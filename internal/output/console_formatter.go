package output

import (
	"bytes"
	"fmt"

	"github.com/finflow/simulation-engine/internal/domain"
)

// ConsoleFormatter provides a concise console-style summary via the
// formatter interface.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	switch {
	case report.Simulation != nil:
		c.writeSimulation(&buf, report.Simulation)
	case report.Comparison != nil:
		c.writeComparison(&buf, report.Comparison)
	case report.Retirement != nil:
		c.writeRetirement(&buf, report.Retirement)
	case report.Scenarios != nil:
		c.writeScenarios(&buf, report)
	default:
		return nil, fmt.Errorf("empty report")
	}
	return buf.Bytes(), nil
}

func (c ConsoleFormatter) writeSimulation(buf *bytes.Buffer, sim *SimulationReport) {
	fmt.Fprintln(buf, "MONTE CARLO SIMULATION")
	fmt.Fprintln(buf, "================================")
	fmt.Fprintf(buf, "Trials: %d  Horizon: %d months\n", sim.Config.Iterations, sim.Config.Months)
	fmt.Fprintf(buf, "Terminal balance: p10=%s median=%s p90=%s mean=%s\n",
		FormatCurrency(sim.Result.P10),
		FormatCurrency(sim.Result.Median),
		FormatCurrency(sim.Result.P90),
		FormatCurrency(sim.Result.Mean),
	)
	if t := sim.Target; t != nil {
		fmt.Fprintf(buf, "Target %s: success rate %s\n", FormatCurrency(t.Amount), FormatPercentage(t.SuccessRate))
		if t.RequiredContribution != nil {
			label := "Required monthly contribution"
			if t.TargetUnreachable {
				label = "Best-effort contribution (target unreachable)"
			}
			fmt.Fprintf(buf, "%s: %s\n", label, FormatCurrency(*t.RequiredContribution))
		}
	}
}

func (c ConsoleFormatter) writeComparison(buf *bytes.Buffer, cmp *domain.ScenarioComparisonResult) {
	fmt.Fprintln(buf, "STRESS TEST COMPARISON")
	fmt.Fprintln(buf, "================================")
	fmt.Fprintf(buf, "Scenario: %s [%s]\n", cmp.Scenario.Name, cmp.Scenario.Severity)
	fmt.Fprintf(buf, "  %s\n", cmp.Scenario.Description)
	fmt.Fprintf(buf, "Baseline median: %s   Stressed median: %s\n",
		FormatCurrency(cmp.Baseline.Median), FormatCurrency(cmp.Stressed.Median))
	fmt.Fprintf(buf, "Median impact: %s (%s%%)   P10 impact: %s\n",
		FormatCurrency(cmp.Comparison.MedianDifference),
		cmp.Comparison.MedianDifferencePercent.StringFixed(1),
		FormatCurrency(cmp.Comparison.P10Difference),
	)
	if cmp.Comparison.RecoveryMonths != nil {
		fmt.Fprintf(buf, "Recovery: month %d\n", *cmp.Comparison.RecoveryMonths)
	} else {
		fmt.Fprintln(buf, "Recovery: not within horizon")
	}
	fmt.Fprintf(buf, "Impact severity: %s   Worth stress testing: %t\n",
		cmp.Comparison.ImpactSeverity, cmp.Comparison.WorthStressTesting)
}

func (c ConsoleFormatter) writeRetirement(buf *bytes.Buffer, res *domain.RetirementResult) {
	fmt.Fprintln(buf, "RETIREMENT PLAN")
	fmt.Fprintln(buf, "================================")
	acc := res.AccumulationPhase
	fmt.Fprintf(buf, "Accumulation (%d years): median nest egg %s (p10 %s, p90 %s)\n",
		acc.YearsToRetirement,
		FormatCurrency(acc.FinalBalanceMedian),
		FormatCurrency(acc.FinalBalanceP10),
		FormatCurrency(acc.FinalBalanceP90),
	)
	fmt.Fprintf(buf, "Total contributions: %s\n", FormatCurrency(acc.TotalContributions))
	wd := res.WithdrawalPhase
	fmt.Fprintf(buf, "Withdrawal (%d years): need %s/mo, probability of not running out %s\n",
		wd.YearsInRetirement,
		FormatCurrency(wd.NetMonthlyNeed),
		FormatPercentage(wd.ProbabilityOfNotRunningOut),
	)
	fmt.Fprintf(buf, "Median sustainability: %s years   Safe withdrawal: %s/mo\n",
		wd.MedianYearsOfSustainability.StringFixed(1),
		FormatCurrency(wd.SafeWithdrawalRate),
	)
	rec := res.Recommendations
	fmt.Fprintf(buf, "Target nest egg: %s\n", FormatCurrency(rec.TargetNestEgg))
	if rec.IncreaseContributionBy != nil {
		fmt.Fprintf(buf, "Recommendation: increase contributions by %s/mo\n", FormatCurrency(*rec.IncreaseContributionBy))
	}
	if rec.CanRetireEarlierBy != nil {
		fmt.Fprintf(buf, "Recommendation: could retire %s years earlier\n", rec.CanRetireEarlierBy.StringFixed(1))
	}
}

func (c ConsoleFormatter) writeScenarios(buf *bytes.Buffer, report *Report) {
	fmt.Fprintln(buf, "AVAILABLE STRESS SCENARIOS")
	fmt.Fprintln(buf, "================================")
	for _, s := range report.Scenarios {
		fmt.Fprintf(buf, "%-18s [%s] %s\n", s.Name, s.Severity, s.Description)
	}
}
