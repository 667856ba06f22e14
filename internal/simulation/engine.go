package simulation

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/finflow/simulation-engine/internal/domain"
)

// Engine runs Monte Carlo wealth simulations. It holds no per-run state, so
// a single Engine may serve concurrent callers.
type Engine struct {
	Logger Logger

	// Workers is the number of parallel trial workers. Defaults to
	// GOMAXPROCS when zero.
	Workers int

	// BatchSize is how many trials run between cancellation checks.
	// Defaults to 256 when zero.
	BatchSize int
}

// NewEngine creates an engine with a no-op logger and default parallelism.
func NewEngine() *Engine {
	return &Engine{Logger: NopLogger{}}
}

func (e *Engine) log() Logger {
	if e.Logger == nil {
		return NopLogger{}
	}
	return e.Logger
}

// Simulate runs the configured number of independent trials and aggregates
// the per-month and terminal balance distributions.
func (e *Engine) Simulate(ctx context.Context, cfg domain.SimulationConfig) (*domain.SimulationResult, error) {
	return e.simulate(ctx, cfg, nil)
}

// SimulateShocked runs the same simulation with a scenario shock applied to
// the trials' return and cash-flow sequences.
func (e *Engine) SimulateShocked(ctx context.Context, cfg domain.SimulationConfig, shock domain.Shock) (*domain.SimulationResult, error) {
	return e.simulate(ctx, cfg, &shock)
}

func (e *Engine) simulate(ctx context.Context, cfg domain.SimulationConfig, shock *domain.Shock) (*domain.SimulationResult, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = seedFunc()
	}

	spec := buildSpec(cfg, shock)
	months, iters := cfg.Months, cfg.Iterations

	// Month-major buffers: trial i writes column i of every month, so
	// parallel trials never touch the same element.
	byMonth := make([][]float64, months)
	for m := range byMonth {
		byMonth[m] = make([]float64, iters)
	}
	finals := make([]float64, iters)
	depletions := make([]int, iters)

	workers := e.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	batch := e.BatchSize
	if batch <= 0 {
		batch = 256
	}

	batches := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for start := range batches {
				end := min(start+batch, iters)
				for i := start; i < end; i++ {
					rng := rand.New(rand.NewSource(trialSeed(seed, i)))
					finals[i], depletions[i] = runTrial(rng, spec, i, byMonth)
				}
			}
		}()
	}

	// Feed batches until done or the caller cancels; workers drain within
	// one batch of the cancellation.
feed:
	for start := 0; start < iters; start += batch {
		select {
		case <-ctx.Done():
			break feed
		case batches <- start:
		}
	}
	close(batches)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		e.log().Warnf("simulation canceled after partial work: %v", err)
		return nil, err
	}

	result := e.aggregate(byMonth, finals, depletions)
	e.log().Debugf("simulation complete: %d trials x %d months, median %s",
		iters, months, result.Median.StringFixed(2))
	return result, nil
}

// aggregate reduces the month-major balance buffers into percentile
// snapshots per month and for the terminal distribution.
func (e *Engine) aggregate(byMonth [][]float64, finals []float64, depletions []int) *domain.SimulationResult {
	result := &domain.SimulationResult{
		FinalValues:     finals,
		DepletionMonths: depletions,
		TimeSeries:      make([]domain.MonthlySnapshot, len(byMonth)),
	}

	scratch := make([]float64, len(finals))
	for m, balances := range byMonth {
		copy(scratch, balances)
		sort.Float64s(scratch)
		result.TimeSeries[m] = domain.MonthlySnapshot{
			Month:  m + 1,
			P10:    decimal.NewFromFloat(Percentile(scratch, 0.10)),
			Median: decimal.NewFromFloat(Percentile(scratch, 0.50)),
			P90:    decimal.NewFromFloat(Percentile(scratch, 0.90)),
			Mean:   decimal.NewFromFloat(Mean(scratch)),
		}
	}

	copy(scratch, finals)
	sort.Float64s(scratch)
	result.P10 = decimal.NewFromFloat(Percentile(scratch, 0.10))
	result.Median = decimal.NewFromFloat(Percentile(scratch, 0.50))
	result.P90 = decimal.NewFromFloat(Percentile(scratch, 0.90))
	result.Mean = decimal.NewFromFloat(Mean(scratch))
	return result
}

// ValidateConfig rejects configurations before any simulation runs.
func ValidateConfig(cfg domain.SimulationConfig) error {
	switch {
	case cfg.Months <= 0:
		return fmt.Errorf("%w: months must be positive, got %d", ErrInvalidConfiguration, cfg.Months)
	case cfg.Iterations <= 0:
		return fmt.Errorf("%w: iterations must be positive, got %d", ErrInvalidConfiguration, cfg.Iterations)
	case cfg.Volatility.IsNegative():
		return fmt.Errorf("%w: volatility cannot be negative, got %s", ErrInvalidConfiguration, cfg.Volatility)
	case cfg.InitialBalance.IsNegative():
		return fmt.Errorf("%w: initial balance cannot be negative, got %s", ErrInvalidConfiguration, cfg.InitialBalance)
	}
	return nil
}

func buildSpec(cfg domain.SimulationConfig, shock *domain.Shock) *trialSpec {
	spec := &trialSpec{
		initial:      cfg.InitialBalance.InexactFloat64(),
		contribution: cfg.MonthlyContribution.InexactFloat64(),
		months:       cfg.Months,
	}

	annualReturn := cfg.ExpectedReturn.InexactFloat64()
	annualVol := cfg.Volatility.InexactFloat64()
	if shock == nil {
		spec.model = NewReturnModel(annualReturn, annualVol)
		return spec
	}

	spec.model = NewShockedReturnModel(annualReturn, annualVol, *shock)
	if lump := shock.LumpWithdrawal.InexactFloat64(); lump != 0 {
		spec.lumpWithdrawal = lump
		spec.lumpMonth = shock.OnsetMonth
	}
	if shock.ZeroContributions && shock.WindowMonths > 0 {
		spec.zeroContribFrom = shock.OnsetMonth
		spec.zeroContribTo = shock.OnsetMonth + shock.WindowMonths - 1
	}
	return spec
}
