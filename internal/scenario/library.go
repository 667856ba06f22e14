// Package scenario provides the fixed catalog of historical-event stress
// shocks and the baseline-versus-stressed comparison built on top of the
// simulation engine.
package scenario

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/finflow/simulation-engine/internal/domain"
)

// ErrUnknownScenario reports a lookup for a name not in the catalog.
var ErrUnknownScenario = errors.New("unknown scenario")

// Library is the fixed catalog of named stress scenarios. The shocks are
// deterministic transforms; severity is display metadata only.
type Library struct {
	scenarios map[string]domain.Scenario
	order     []string
}

// NewLibrary builds the standard catalog.
func NewLibrary() *Library {
	lib := &Library{scenarios: make(map[string]domain.Scenario)}
	for _, s := range catalog() {
		lib.scenarios[s.Name] = s
		lib.order = append(lib.order, s.Name)
	}
	return lib
}

// List returns the display metadata for every scenario, in catalog order.
func (l *Library) List() []domain.ScenarioInfo {
	infos := make([]domain.ScenarioInfo, 0, len(l.order))
	for _, name := range l.order {
		infos = append(infos, l.scenarios[name].Info())
	}
	return infos
}

// Get returns the named scenario or fails with ErrUnknownScenario.
func (l *Library) Get(name string) (domain.Scenario, error) {
	s, ok := l.scenarios[name]
	if !ok {
		return domain.Scenario{}, fmt.Errorf("%w: %q", ErrUnknownScenario, name)
	}
	return s, nil
}

func dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func decPtr(f float64) *decimal.Decimal {
	d := decimal.NewFromFloat(f)
	return &d
}

func catalog() []domain.Scenario {
	return []domain.Scenario{
		{
			Name:        "market_crash",
			Description: "Severe one-time market crash: a -30% return in the first month, normal conditions afterward.",
			Severity:    domain.SeveritySevere,
			Shock: domain.Shock{
				OnsetMonth:    1,
				OneTimeReturn: decPtr(-0.30),
			},
		},
		{
			Name:        "market_correction",
			Description: "Mild market correction: a -10% return in the first month, normal conditions afterward.",
			Severity:    domain.SeverityMild,
			Shock: domain.Shock{
				OnsetMonth:    1,
				OneTimeReturn: decPtr(-0.10),
			},
		},
		{
			Name:        "recession",
			Description: "Recession: expected return drops to 0% for 18 months, then recovers.",
			Severity:    domain.SeverityModerate,
			Shock: domain.Shock{
				OnsetMonth:     1,
				WindowMonths:   18,
				AnnualReturnTo: decPtr(0),
			},
		},
		{
			Name:        "job_loss",
			Description: "Job loss: contributions stop for 12 months while the portfolio rides the market.",
			Severity:    domain.SeverityModerate,
			Shock: domain.Shock{
				OnsetMonth:        1,
				WindowMonths:      12,
				ZeroContributions: true,
			},
		},
		{
			Name:        "disability",
			Description: "Long-term disability: contributions stop for 24 months.",
			Severity:    domain.SeveritySevere,
			Shock: domain.Shock{
				OnsetMonth:        1,
				WindowMonths:      24,
				ZeroContributions: true,
			},
		},
		{
			Name:        "medical_emergency",
			Description: "Medical emergency: a one-time $25,000 withdrawal in the first month.",
			Severity:    domain.SeverityModerate,
			Shock: domain.Shock{
				OnsetMonth:     1,
				LumpWithdrawal: dec(25000),
			},
		},
		{
			Name:        "inflation_spike",
			Description: "Inflation spike: volatility up 50% and real return down 2 points for 12 months.",
			Severity:    domain.SeverityModerate,
			Shock: domain.Shock{
				OnsetMonth:        1,
				WindowMonths:      12,
				AnnualReturnDelta: dec(-0.02),
				VolatilityScale:   dec(1.5),
			},
		},
	}
}
