package domain

import (
	"github.com/shopspring/decimal"
)

// RetirementConfig holds the inputs for a two-phase retirement simulation:
// accumulation from the current age to the retirement age, then withdrawal
// from the retirement age to life expectancy.
type RetirementConfig struct {
	CurrentAge     int `yaml:"current_age" json:"currentAge"`
	RetirementAge  int `yaml:"retirement_age" json:"retirementAge"`
	LifeExpectancy int `yaml:"life_expectancy" json:"lifeExpectancy"`

	CurrentSavings      decimal.Decimal `yaml:"current_savings" json:"currentSavings"`
	MonthlyContribution decimal.Decimal `yaml:"monthly_contribution" json:"monthlyContribution"`

	// MonthlyExpenses and OtherMonthlyIncome determine the net monthly need
	// drawn from the portfolio in retirement.
	MonthlyExpenses    decimal.Decimal `yaml:"monthly_expenses" json:"monthlyExpenses"`
	OtherMonthlyIncome decimal.Decimal `yaml:"other_monthly_income,omitempty" json:"otherMonthlyIncome,omitempty"`

	// ExpectedReturn and Volatility are the annualized accumulation-phase
	// assumptions.
	ExpectedReturn decimal.Decimal `yaml:"expected_return" json:"expectedReturn"`
	Volatility     decimal.Decimal `yaml:"volatility" json:"volatility"`

	// PostRetirementReturn and PostRetirementVolatility override the
	// withdrawal-phase assumptions. Zero values inherit the accumulation
	// assumptions.
	PostRetirementReturn     decimal.Decimal `yaml:"post_retirement_return,omitempty" json:"postRetirementReturn,omitempty"`
	PostRetirementVolatility decimal.Decimal `yaml:"post_retirement_volatility,omitempty" json:"postRetirementVolatility,omitempty"`

	Iterations int   `yaml:"iterations" json:"iterations"`
	Seed       int64 `yaml:"seed,omitempty" json:"seed,omitempty"`
}

// MonthsToRetirement is the accumulation horizon in months.
func (c RetirementConfig) MonthsToRetirement() int {
	return (c.RetirementAge - c.CurrentAge) * 12
}

// MonthsInRetirement is the withdrawal horizon in months.
func (c RetirementConfig) MonthsInRetirement() int {
	return (c.LifeExpectancy - c.RetirementAge) * 12
}

// AccumulationPhase summarizes the saving period before retirement.
type AccumulationPhase struct {
	YearsToRetirement  int             `json:"yearsToRetirement"`
	FinalBalanceP10    decimal.Decimal `json:"finalBalanceP10"`
	FinalBalanceMedian decimal.Decimal `json:"finalBalanceMedian"`
	FinalBalanceP90    decimal.Decimal `json:"finalBalanceP90"`
	TotalContributions decimal.Decimal `json:"totalContributions"`
}

// WithdrawalPhase summarizes the spending period after retirement.
type WithdrawalPhase struct {
	YearsInRetirement int             `json:"yearsInRetirement"`
	NetMonthlyNeed    decimal.Decimal `json:"netMonthlyNeed"`

	// ProbabilityOfNotRunningOut is the fraction of withdrawal-phase trials
	// whose balance never crossed below zero before the horizon ended.
	ProbabilityOfNotRunningOut decimal.Decimal `json:"probabilityOfNotRunningOut"`

	// MedianYearsOfSustainability is the median number of years the
	// portfolio lasted across trials.
	MedianYearsOfSustainability decimal.Decimal `json:"medianYearsOfSustainability"`

	// SafeWithdrawalRate is the monthly withdrawal amount sustaining a 75%
	// probability of not running out over the retirement horizon.
	SafeWithdrawalRate decimal.Decimal `json:"safeWithdrawalRate"`
}

// Recommendations are the derived planning suggestions. Nil pointer fields
// mean the current plan already satisfies the corresponding target.
type Recommendations struct {
	// IncreaseContributionBy is the additional monthly contribution needed
	// for a 75% chance of reaching the target nest egg by retirement.
	IncreaseContributionBy *decimal.Decimal `json:"increaseContributionBy"`

	// CanRetireEarlierBy is how many years earlier the median trajectory
	// already reaches the target nest egg.
	CanRetireEarlierBy *decimal.Decimal `json:"canRetireEarlierBy"`

	// TargetNestEgg is the minimum starting retirement balance giving the
	// withdrawal phase a 75% probability of not running out.
	TargetNestEgg decimal.Decimal `json:"targetNestEgg"`
}

// RetirementResult is the composed output of both phases.
type RetirementResult struct {
	AccumulationPhase AccumulationPhase `json:"accumulationPhase"`
	WithdrawalPhase   WithdrawalPhase   `json:"withdrawalPhase"`
	Recommendations   Recommendations   `json:"recommendations"`
}
