package output

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finflow/simulation-engine/internal/domain"
)

func TestGetFormatterByName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"console", "console"},
		{"json", "json"},
		{"text", "console"},
		{"plain", "console"},
		{"json-pretty", "json"},
		{"CONSOLE", "console"},
	}
	for _, tt := range tests {
		f := GetFormatterByName(tt.name)
		require.NotNil(t, f, "formatter %q", tt.name)
		assert.Equal(t, tt.want, f.Name())
	}

	assert.Nil(t, GetFormatterByName("xml"))
}

func sampleSimulationReport() *Report {
	required := decimal.NewFromFloat(1250.50)
	return &Report{
		Simulation: &SimulationReport{
			Config: domain.SimulationConfig{
				Months:     120,
				Iterations: 10000,
			},
			Result: &domain.SimulationResult{
				P10:    decimal.NewFromInt(180000),
				Median: decimal.NewFromInt(270000),
				P90:    decimal.NewFromInt(410000),
				Mean:   decimal.NewFromInt(290000),
			},
			Target: &TargetReport{
				Amount:               decimal.NewFromInt(250000),
				SuccessRate:          decimal.NewFromFloat(0.82),
				RequiredContribution: &required,
			},
		},
	}
}

func TestConsoleFormatterSimulation(t *testing.T) {
	out, err := ConsoleFormatter{}.Format(sampleSimulationReport())
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "MONTE CARLO SIMULATION")
	assert.Contains(t, text, "Trials: 10000  Horizon: 120 months")
	assert.Contains(t, text, "median=$270000.00")
	assert.Contains(t, text, "Target $250000.00: success rate 82.0%")
	assert.Contains(t, text, "Required monthly contribution: $1250.50")
}

func TestConsoleFormatterUnreachableTarget(t *testing.T) {
	report := sampleSimulationReport()
	report.Simulation.Target.TargetUnreachable = true

	out, err := ConsoleFormatter{}.Format(report)
	require.NoError(t, err)
	assert.Contains(t, string(out), "Best-effort contribution (target unreachable)")
}

func TestConsoleFormatterScenarios(t *testing.T) {
	report := &Report{
		Scenarios: []domain.ScenarioInfo{
			{Name: "market_crash", Description: "crash", Severity: domain.SeveritySevere},
		},
	}
	out, err := ConsoleFormatter{}.Format(report)
	require.NoError(t, err)
	assert.Contains(t, string(out), "market_crash")
	assert.Contains(t, string(out), "severe")
}

func TestConsoleFormatterEmptyReport(t *testing.T) {
	_, err := ConsoleFormatter{}.Format(&Report{})
	assert.ErrorContains(t, err, "empty report")
}

func TestJSONFormatter(t *testing.T) {
	out, err := JSONFormatter{}.Format(sampleSimulationReport())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))

	sim, ok := decoded["simulation"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, sim, "config")
	assert.Contains(t, sim, "result")
	assert.Contains(t, sim, "target")

	// Raw per-trial buffers stay out of the serialized payload.
	result := sim["result"].(map[string]any)
	assert.NotContains(t, result, "finalValues")
	assert.NotContains(t, result, "FinalValues")
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "$1234.50", FormatCurrency(decimal.NewFromFloat(1234.5)))
	assert.Equal(t, "$0.00", FormatCurrency(decimal.Zero))
	assert.Equal(t, "$-42.35", FormatCurrency(decimal.NewFromFloat(-42.345)))

	assert.Equal(t, "82.0%", FormatPercentage(decimal.NewFromFloat(0.82)))
	assert.Equal(t, "7.5%", FormatPercentage(decimal.NewFromFloat(0.075)))
	assert.Equal(t, "100.0%", FormatPercentage(decimal.NewFromInt(1)))
}
