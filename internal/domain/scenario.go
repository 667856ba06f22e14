package domain

import (
	"github.com/shopspring/decimal"
)

// Severity describes how harsh a stress scenario is. It is descriptive
// metadata for display layers and never drives engine behavior.
type Severity string

const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

// Shock is a deterministic transform applied to a baseline configuration
// before simulating the stressed run. Sustained effects apply from
// OnsetMonth for WindowMonths; one-time effects apply at OnsetMonth only.
type Shock struct {
	// OnsetMonth is the 1-based month the shock lands.
	OnsetMonth int `json:"onsetMonth"`

	// WindowMonths is how long the sustained effects persist, counted from
	// OnsetMonth inclusive. Zero means the shock has no sustained window.
	WindowMonths int `json:"windowMonths,omitempty"`

	// OneTimeReturn, when set, replaces the sampled return at OnsetMonth
	// (e.g. -0.30 for a severe crash). Normal sampling resumes afterward.
	OneTimeReturn *decimal.Decimal `json:"oneTimeReturn,omitempty"`

	// LumpWithdrawal is subtracted from the balance at OnsetMonth, after
	// growth and contribution are applied.
	LumpWithdrawal decimal.Decimal `json:"lumpWithdrawal,omitempty"`

	// ZeroContributions forces the monthly contribution to zero inside the
	// window. Withdrawals (negative contributions) are zeroed too.
	ZeroContributions bool `json:"zeroContributions,omitempty"`

	// AnnualReturnTo, when set, replaces the annualized expected return
	// inside the window.
	AnnualReturnTo *decimal.Decimal `json:"annualReturnTo,omitempty"`

	// AnnualReturnDelta is added to the annualized expected return inside
	// the window, after AnnualReturnTo is applied.
	AnnualReturnDelta decimal.Decimal `json:"annualReturnDelta,omitempty"`

	// VolatilityScale multiplies the annualized volatility inside the
	// window. Zero means unchanged.
	VolatilityScale decimal.Decimal `json:"volatilityScale,omitempty"`
}

// Scenario is a named catalog entry: display metadata plus its shock.
type Scenario struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
	Shock       Shock    `json:"shock"`
}

// Info returns the display-only view of the scenario.
func (s Scenario) Info() ScenarioInfo {
	return ScenarioInfo{Name: s.Name, Description: s.Description, Severity: s.Severity}
}

// ScenarioInfo is the name/description/severity view exposed to UI layers.
type ScenarioInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}

// ImpactSeverity classifies how much a shock moved the median outcome.
type ImpactSeverity string

const (
	ImpactMinimal     ImpactSeverity = "minimal"
	ImpactModerate    ImpactSeverity = "moderate"
	ImpactSignificant ImpactSeverity = "significant"
	ImpactCritical    ImpactSeverity = "critical"
)

// ScenarioComparison holds the metrics derived from a baseline/stressed pair.
type ScenarioComparison struct {
	MedianDifference        decimal.Decimal `json:"medianDifference"`
	MedianDifferencePercent decimal.Decimal `json:"medianDifferencePercent"`
	P10Difference           decimal.Decimal `json:"p10Difference"`

	// RecoveryMonths is the first month (from the shock onset) where the
	// stressed median recovers to 90% of the baseline median at the same
	// month, or nil if it never does within the horizon.
	RecoveryMonths *int `json:"recoveryMonths"`

	ImpactSeverity     ImpactSeverity `json:"impactSeverity"`
	WorthStressTesting bool           `json:"worthStressTesting"`
}

// ScenarioComparisonResult is the full output of a stress-test comparison.
type ScenarioComparisonResult struct {
	Scenario   ScenarioInfo       `json:"scenario"`
	Baseline   SimulationSummary  `json:"baseline"`
	Stressed   SimulationSummary  `json:"stressed"`
	Comparison ScenarioComparison `json:"comparison"`
}
