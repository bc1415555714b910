package sim

import (
	"math"
	"math/rand"

	"github.com/rgehrsitz/finsim/internal/domain"
	"github.com/shopspring/decimal"
)

// ReturnOutcome records one holding's applied monthly return.
type ReturnOutcome struct {
	Rate   decimal.Decimal
	Growth decimal.Decimal
}

// ReturnSource supplies the monthly growth rate for a holding. Sources are
// consulted once per holding per step, in step order, so stateful sources
// (random draws, historical series) stay reproducible for a given seed.
type ReturnSource interface {
	MonthlyRate(monthIndex int, h *domain.Holding) decimal.Decimal
}

// FixedReturns grows every holding at its expected annual return divided by
// twelve. This is the deterministic default.
type FixedReturns struct{}

func (FixedReturns) MonthlyRate(_ int, h *domain.Holding) decimal.Decimal {
	return h.ExpectedReturn.Div(decimal.NewFromInt(12))
}

// SeriesReturns replays a pre-built monthly rate series per holding, falling
// back to the fixed rate when a holding has no series or the series runs
// out.
type SeriesReturns struct {
	Series map[string][]decimal.Decimal
}

func (s SeriesReturns) MonthlyRate(monthIndex int, h *domain.Holding) decimal.Decimal {
	if rates, ok := s.Series[h.ID]; ok && monthIndex < len(rates) {
		return rates[monthIndex]
	}
	return FixedReturns{}.MonthlyRate(monthIndex, h)
}

// RandomReturns draws normally distributed monthly rates around each
// holding's expected return, with monthly volatility scaled from the annual
// figure. A fixed seed makes runs reproducible.
type RandomReturns struct {
	rng *rand.Rand
}

func NewRandomReturns(seed int64) *RandomReturns {
	return &RandomReturns{rng: rand.New(rand.NewSource(seed))}
}

func (r *RandomReturns) MonthlyRate(_ int, h *domain.Holding) decimal.Decimal {
	mean, _ := h.ExpectedReturn.Div(decimal.NewFromInt(12)).Float64()
	vol, _ := h.Volatility.Float64()
	rate := mean + vol/math.Sqrt(12)*r.rng.NormFloat64()
	return decimal.NewFromFloat(rate)
}

// returnSourceFor picks the run's return source from the scenario settings:
// a seed selects random returns, otherwise fixed.
func returnSourceFor(sc *domain.Scenario) ReturnSource {
	if sc.Settings.Seed != nil {
		return NewRandomReturns(*sc.Settings.Seed)
	}
	return FixedReturns{}
}
