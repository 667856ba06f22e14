// finsim is a small operator CLI over the Monte Carlo simulation engine:
// goal simulations, retirement plans, and stress-scenario comparisons from
// YAML request files.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/finflow/simulation-engine/internal/config"
	"github.com/finflow/simulation-engine/internal/domain"
	"github.com/finflow/simulation-engine/internal/logging"
	"github.com/finflow/simulation-engine/internal/output"
	"github.com/finflow/simulation-engine/internal/retirement"
	"github.com/finflow/simulation-engine/internal/scenario"
	"github.com/finflow/simulation-engine/internal/simulation"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

type appOptions struct {
	configFile string
	format     string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &appOptions{}

	root := &cobra.Command{
		Use:           "finsim",
		Short:         "Monte Carlo financial simulation engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "request file (YAML)")
	root.PersistentFlags().StringVarP(&opts.format, "format", "f", "console", "output format (console|json)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newSimulateCmd(opts),
		newRetirementCmd(opts),
		newStressCmd(opts),
		newScenariosCmd(opts),
	)
	return root
}

// newEngine builds the engine with a zap-backed logger.
func newEngine(opts *appOptions) (*simulation.Engine, func(), error) {
	zl, err := logging.NewLogger(opts.verbose)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	engine := simulation.NewEngine()
	engine.Logger = logging.NewZapLogger(zl)
	return engine, func() { _ = zl.Sync() }, nil
}

func loadRequest(opts *appOptions) (*config.Request, error) {
	if opts.configFile == "" {
		return nil, fmt.Errorf("--config is required")
	}
	return config.NewInputParser().LoadFromFile(opts.configFile)
}

func printReport(cmd *cobra.Command, opts *appOptions, report *output.Report) error {
	formatter := output.GetFormatterByName(opts.format)
	if formatter == nil {
		return fmt.Errorf("unknown output format %q", opts.format)
	}
	data, err := formatter.Format(report)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func newSimulateCmd(opts *appOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "simulate",
		Short: "Run a Monte Carlo goal simulation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := loadRequest(opts)
			if err != nil {
				return err
			}
			if req.Simulation == nil {
				return fmt.Errorf("request file has no simulation section")
			}
			engine, cleanup, err := newEngine(opts)
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := engine.Simulate(cmd.Context(), *req.Simulation)
			if err != nil {
				return err
			}
			report := &output.SimulationReport{Config: *req.Simulation, Result: result}
			if req.Target != nil {
				target, err := evaluateTarget(cmd.Context(), engine, *req.Simulation, result, req.Target)
				if err != nil {
					return err
				}
				report.Target = target
			}
			return printReport(cmd, opts, &output.Report{Simulation: report})
		},
	}
}

// evaluateTarget computes the goal success rate and, when the request asks
// for one, solves for the contribution hitting the target rate. An
// unreachable target is reported, not treated as a failure.
func evaluateTarget(ctx context.Context, engine *simulation.Engine, cfg domain.SimulationConfig, result *domain.SimulationResult, spec *config.TargetSpec) (*output.TargetReport, error) {
	rate, err := simulation.SuccessRate(result.FinalValues, spec.Amount.InexactFloat64())
	if err != nil {
		return nil, err
	}
	target := &output.TargetReport{
		Amount:      spec.Amount,
		SuccessRate: decimal.NewFromFloat(rate),
	}
	if spec.SuccessRate.IsPositive() {
		solved, err := engine.FindRequiredContribution(ctx, cfg, spec.Amount, spec.SuccessRate, nil)
		switch {
		case err == nil:
			target.RequiredContribution = &solved.Contribution
		case errors.Is(err, simulation.ErrTargetUnreachable):
			target.RequiredContribution = &solved.Contribution
			target.TargetUnreachable = true
		default:
			return nil, err
		}
	}
	return target, nil
}

func newRetirementCmd(opts *appOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "retirement",
		Short: "Run a two-phase retirement plan simulation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := loadRequest(opts)
			if err != nil {
				return err
			}
			if req.Retirement == nil {
				return fmt.Errorf("request file has no retirement section")
			}
			engine, cleanup, err := newEngine(opts)
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := retirement.NewComposer(engine).SimulateRetirement(cmd.Context(), *req.Retirement)
			if err != nil {
				return err
			}
			return printReport(cmd, opts, &output.Report{Retirement: result})
		},
	}
}

func newStressCmd(opts *appOptions) *cobra.Command {
	var scenarioName string
	cmd := &cobra.Command{
		Use:   "stress",
		Short: "Compare a baseline simulation against a stress scenario",
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := loadRequest(opts)
			if err != nil {
				return err
			}
			if req.Simulation == nil {
				return fmt.Errorf("request file has no simulation section")
			}
			engine, cleanup, err := newEngine(opts)
			if err != nil {
				return err
			}
			defer cleanup()

			comparator := scenario.NewComparator(engine, scenario.NewLibrary())
			result, err := comparator.Compare(cmd.Context(), *req.Simulation, scenarioName)
			if err != nil {
				return err
			}
			return printReport(cmd, opts, &output.Report{Comparison: result})
		},
	}
	cmd.Flags().StringVarP(&scenarioName, "scenario", "s", "", "scenario name (see `finsim scenarios`)")
	_ = cmd.MarkFlagRequired("scenario")
	return cmd
}

func newScenariosCmd(opts *appOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "List the available stress scenarios",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printReport(cmd, opts, &output.Report{Scenarios: scenario.NewLibrary().List()})
		},
	}
}
