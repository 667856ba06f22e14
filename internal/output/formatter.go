// Package output renders engine results for the CLI: a concise console
// summary and pretty-printed JSON for piping into other tools.
package output

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/finflow/simulation-engine/internal/domain"
)

// Report bundles whichever results a command produced. Exactly one of the
// result fields is set per command.
type Report struct {
	Simulation *SimulationReport               `json:"simulation,omitempty"`
	Comparison *domain.ScenarioComparisonResult `json:"comparison,omitempty"`
	Retirement *domain.RetirementResult        `json:"retirement,omitempty"`
	Scenarios  []domain.ScenarioInfo           `json:"scenarios,omitempty"`
}

// SimulationReport pairs a simulation result with its config and, when the
// request named a goal, the goal evaluation and solver outcome.
type SimulationReport struct {
	Config domain.SimulationConfig  `json:"config"`
	Result *domain.SimulationResult `json:"result"`
	Target *TargetReport            `json:"target,omitempty"`
}

// TargetReport holds the goal evaluation of a simulation run.
type TargetReport struct {
	Amount      decimal.Decimal `json:"amount"`
	SuccessRate decimal.Decimal `json:"successRate"`

	// RequiredContribution is the solver's answer for the requested target
	// success rate; nil when no solve was requested.
	RequiredContribution *decimal.Decimal `json:"requiredContribution,omitempty"`

	// TargetUnreachable marks a best-effort solver answer: even the upper
	// bound missed the requested rate.
	TargetUnreachable bool `json:"targetUnreachable,omitempty"`
}

// Formatter defines a pluggable output formatter that returns a byte slice.
// Implementations should be pure (no side effects besides deterministic
// formatting).
type Formatter interface {
	Format(report *Report) ([]byte, error)
	// Name returns a short identifier for logging / debugging.
	Name() string
}

var builtInFormatters = []Formatter{
	ConsoleFormatter{},
	JSONFormatter{},
}

// GetFormatterByName fetches a registered formatter, resolving aliases.
// Returns nil for unknown names.
func GetFormatterByName(name string) Formatter {
	n := NormalizeFormatName(name)
	for _, f := range builtInFormatters {
		if f.Name() == n {
			return f
		}
	}
	return nil
}

var aliasMap = map[string]string{
	"text":        "console",
	"plain":       "console",
	"json-pretty": "json",
}

// NormalizeFormatName lowers and resolves aliases.
func NormalizeFormatName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := aliasMap[n]; ok {
		return alias
	}
	return n
}
