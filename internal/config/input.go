// Package config parses and validates the YAML request files the CLI
// feeds into the simulation engine.
package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/finflow/simulation-engine/internal/domain"
	"github.com/finflow/simulation-engine/internal/simulation"
)

// defaultIterations is applied when a request leaves the trial count unset.
const defaultIterations = 5000

// Request is the top-level shape of a request file. Commands read the
// sections they need; unused sections stay nil.
type Request struct {
	Simulation *domain.SimulationConfig `yaml:"simulation"`
	Retirement *domain.RetirementConfig `yaml:"retirement"`

	// Target configures goal evaluation and the contribution solver for
	// the simulate command.
	Target *TargetSpec `yaml:"target"`
}

// TargetSpec names the goal a simulation is measured against.
type TargetSpec struct {
	Amount      decimal.Decimal `yaml:"amount"`
	SuccessRate decimal.Decimal `yaml:"success_rate"`
}

// InputParser handles parsing of request files.
type InputParser struct{}

// NewInputParser creates a new input parser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads and validates a request from a YAML file.
func (ip *InputParser) LoadFromFile(filename string) (*Request, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var req Request
	if err := yaml.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	ip.applyDefaults(&req)
	if err := ip.ValidateRequest(&req); err != nil {
		return nil, fmt.Errorf("request validation failed: %w", err)
	}
	return &req, nil
}

func (ip *InputParser) applyDefaults(req *Request) {
	if req.Simulation != nil && req.Simulation.Iterations == 0 {
		req.Simulation.Iterations = defaultIterations
	}
	if req.Retirement != nil && req.Retirement.Iterations == 0 {
		req.Retirement.Iterations = defaultIterations
	}
}

// ValidateRequest validates whichever sections the request carries.
func (ip *InputParser) ValidateRequest(req *Request) error {
	if req.Simulation == nil && req.Retirement == nil {
		return fmt.Errorf("request must contain a simulation or retirement section")
	}

	if req.Simulation != nil {
		if err := simulation.ValidateConfig(*req.Simulation); err != nil {
			return fmt.Errorf("simulation section: %w", err)
		}
	}

	if req.Retirement != nil {
		if err := ip.validateRetirement(req.Retirement); err != nil {
			return fmt.Errorf("retirement section: %w", err)
		}
	}

	if req.Target != nil {
		if req.Simulation == nil {
			return fmt.Errorf("target section requires a simulation section")
		}
		if !req.Target.Amount.IsPositive() {
			return fmt.Errorf("target amount must be positive, got %s", req.Target.Amount)
		}
	}
	return nil
}

func (ip *InputParser) validateRetirement(cfg *domain.RetirementConfig) error {
	if cfg.CurrentAge <= 0 {
		return fmt.Errorf("current age must be positive")
	}
	if cfg.RetirementAge <= cfg.CurrentAge {
		return fmt.Errorf("retirement age must exceed current age")
	}
	if cfg.LifeExpectancy <= cfg.RetirementAge {
		return fmt.Errorf("life expectancy must exceed retirement age")
	}
	if cfg.CurrentSavings.IsNegative() {
		return fmt.Errorf("current savings cannot be negative")
	}
	if cfg.Volatility.IsNegative() {
		return fmt.Errorf("volatility cannot be negative")
	}
	if cfg.MonthlyExpenses.IsNegative() {
		return fmt.Errorf("monthly expenses cannot be negative")
	}
	return nil
}
