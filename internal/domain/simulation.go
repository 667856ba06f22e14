package domain

import (
	"github.com/shopspring/decimal"
)

// SimulationConfig holds the inputs for one Monte Carlo simulation run.
// It is a pure value object: validated once, never mutated by the engine.
type SimulationConfig struct {
	// InitialBalance is the starting portfolio balance. Must be >= 0.
	InitialBalance decimal.Decimal `yaml:"initial_balance" json:"initialBalance"`

	// MonthlyContribution is added to the balance each month after growth.
	// A negative value models a fixed monthly withdrawal.
	MonthlyContribution decimal.Decimal `yaml:"monthly_contribution" json:"monthlyContribution"`

	// Months is the simulation horizon. Must be > 0.
	Months int `yaml:"months" json:"months"`

	// Iterations is the number of independent trials, typically 5,000-10,000.
	Iterations int `yaml:"iterations" json:"iterations"`

	// ExpectedReturn is the annualized expected return as a decimal (0.07 = 7%).
	ExpectedReturn decimal.Decimal `yaml:"expected_return" json:"expectedReturn"`

	// Volatility is the annualized standard deviation of returns. Must be >= 0.
	Volatility decimal.Decimal `yaml:"volatility" json:"volatility"`

	// InflationRate is an optional annualized inflation assumption, carried
	// for callers that report real values. The engine simulates nominal
	// balances and does not apply it to trajectories.
	InflationRate decimal.Decimal `yaml:"inflation_rate,omitempty" json:"inflationRate,omitempty"`

	// Seed drives the random sequence. Zero means derive a seed from the
	// process clock; any other value makes the run reproducible.
	Seed int64 `yaml:"seed,omitempty" json:"seed,omitempty"`
}

// WithContribution returns a copy of the config with the monthly
// contribution replaced. Used by the contribution solver between probes.
func (c SimulationConfig) WithContribution(amount decimal.Decimal) SimulationConfig {
	c.MonthlyContribution = amount
	return c
}

// WithSeed returns a copy of the config with the seed replaced.
func (c SimulationConfig) WithSeed(seed int64) SimulationConfig {
	c.Seed = seed
	return c
}

// MonthlySnapshot summarizes the cross-trial balance distribution at a
// single month. Each field is derived from that month's distribution only,
// not cumulatively across months.
type MonthlySnapshot struct {
	Month  int             `json:"month"`
	P10    decimal.Decimal `json:"p10"`
	Median decimal.Decimal `json:"median"`
	P90    decimal.Decimal `json:"p90"`
	Mean   decimal.Decimal `json:"mean"`
}

// SimulationResult is the output of one simulation run.
//
// FinalValues and DepletionMonths keep the raw per-trial data as plain
// float64/int slices so a 10,000-trial run stays a handful of contiguous
// buffers; the summary statistics callers persist or display are decimal.
type SimulationResult struct {
	// FinalValues holds one terminal balance per trial; its length always
	// equals the configured iteration count.
	FinalValues []float64 `json:"-"`

	// TimeSeries holds one snapshot per month, ordered by month.
	TimeSeries []MonthlySnapshot `json:"timeSeries"`

	// P10, Median, P90 and Mean describe the terminal distribution.
	P10    decimal.Decimal `json:"p10"`
	Median decimal.Decimal `json:"median"`
	P90    decimal.Decimal `json:"p90"`
	Mean   decimal.Decimal `json:"mean"`

	// DepletionMonths records, per trial, the first month the balance
	// crossed below zero, or -1 if it never did. The withdrawal phase of
	// retirement planning reads sustainability from this.
	DepletionMonths []int `json:"-"`
}

// Summary is the trimmed view of a result that scenario comparisons embed.
func (r *SimulationResult) Summary() SimulationSummary {
	return SimulationSummary{
		P10:    r.P10,
		Median: r.Median,
		P90:    r.P90,
		Mean:   r.Mean,
	}
}

// SimulationSummary carries only the terminal percentile statistics.
type SimulationSummary struct {
	P10    decimal.Decimal `json:"p10"`
	Median decimal.Decimal `json:"median"`
	P90    decimal.Decimal `json:"p90"`
	Mean   decimal.Decimal `json:"mean"`
}
