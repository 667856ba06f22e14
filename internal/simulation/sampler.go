package simulation

import (
	"math"
	"math/rand"

	"github.com/finflow/simulation-engine/internal/domain"
)

// ReturnModel converts annualized return assumptions into a monthly random
// return generator. Monthly draws are independent normal variates; months
// are not autocorrelated. That is a deliberate simplification, not a
// market-realism claim.
type ReturnModel struct {
	mean  float64 // monthly mean
	sd    float64 // monthly standard deviation
	shock *shockWindow
}

// shockWindow holds the precomputed monthly parameters a shock imposes.
type shockWindow struct {
	onset      int // 1-based first month of the sustained window
	end        int // last month of the sustained window, inclusive
	mean       float64
	sd         float64
	oneTime    float64 // replaces the sampled return at onset
	hasOneTime bool
}

// NewReturnModel derives monthly parameters from annualized assumptions.
// The monthly mean uses the geometric conversion (1+annual)^(1/12)-1 so
// compounding twelve months reproduces the annual expectation without
// long-horizon drift bias; the monthly standard deviation is vol/sqrt(12).
func NewReturnModel(annualReturn, annualVol float64) ReturnModel {
	return ReturnModel{
		mean: monthlyMean(annualReturn),
		sd:   annualVol / math.Sqrt(12),
	}
}

// NewShockedReturnModel builds a model whose parameters deviate from the
// baseline inside the shock's window, with an optional one-time return
// replacing the draw at the onset month.
func NewShockedReturnModel(annualReturn, annualVol float64, shock domain.Shock) ReturnModel {
	m := NewReturnModel(annualReturn, annualVol)

	windowReturn := annualReturn
	if shock.AnnualReturnTo != nil {
		windowReturn = shock.AnnualReturnTo.InexactFloat64()
	}
	windowReturn += shock.AnnualReturnDelta.InexactFloat64()

	windowVol := annualVol
	if scale := shock.VolatilityScale.InexactFloat64(); scale > 0 {
		windowVol = annualVol * scale
	}

	w := &shockWindow{
		onset: shock.OnsetMonth,
		end:   shock.OnsetMonth + shock.WindowMonths - 1,
		mean:  monthlyMean(windowReturn),
		sd:    windowVol / math.Sqrt(12),
	}
	if shock.OneTimeReturn != nil {
		w.oneTime = shock.OneTimeReturn.InexactFloat64()
		w.hasOneTime = true
	}
	m.shock = w
	return m
}

// Sample draws one month's return from the injected generator. The model
// itself is immutable and safe to share; all randomness state lives in rng.
func (m ReturnModel) Sample(rng *rand.Rand, month int) float64 {
	if m.shock != nil {
		if m.shock.hasOneTime && month == m.shock.onset {
			return m.shock.oneTime
		}
		if month >= m.shock.onset && month <= m.shock.end {
			return m.shock.mean + boxMuller(rng)*m.shock.sd
		}
	}
	return m.mean + boxMuller(rng)*m.sd
}

func monthlyMean(annualReturn float64) float64 {
	return math.Pow(1+annualReturn, 1.0/12) - 1
}

// boxMuller transforms two uniform variates into a standard normal one.
func boxMuller(rng *rand.Rand) float64 {
	u1 := rng.Float64()
	for u1 == 0 { // log(0) is -Inf
		u1 = rng.Float64()
	}
	u2 := rng.Float64()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}
