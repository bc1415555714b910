package sim

import (
	"time"

	"github.com/rgehrsitz/finsim/internal/domain"
	"github.com/rgehrsitz/finsim/internal/policy"
	"github.com/rgehrsitz/finsim/internal/sequencing"
	"github.com/rgehrsitz/finsim/internal/tax"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// YearPlan is the forward-looking plan produced at year start and consumed
// for the rest of the year. It is never recomputed mid-year.
type YearPlan struct {
	ConversionAmount decimal.Decimal
}

// StepContext is the immutable per-step view handed to every hook. It is
// rebuilt each month and never mutated by modules.
type StepContext struct {
	Date       time.Time
	MonthIndex int // 0-based step index
	Year       int // calendar year
	AgeMonths  int
	YearStart  bool // first month of a calendar year (or of the run)
	YearEnd    bool // last month of a calendar year (or of the run)

	Scenario *domain.Scenario
	Policies *policy.Set
	Tax      *tax.Engine
	Plan     *YearPlan
	Log      *zap.Logger
}

// MonthOfYear returns the calendar month number (1-12).
func (c *StepContext) MonthOfYear() int {
	return int(c.Date.Month())
}

// MonthsElapsedInYear counts the months of the calendar year through the
// current one.
func (c *StepContext) MonthsElapsedInYear() int {
	return int(c.Date.Month())
}

// SequencingContext builds the withdrawal-order context for this step from
// the scenario's withdrawal configuration and the year ledger.
func (c *StepContext) SequencingContext(st *State) sequencing.Context {
	w := c.Scenario.Strategy.Withdrawal
	return sequencing.Context{
		Date:              c.Date,
		AgeMonths:         c.AgeMonths,
		AllowEarlyPenalty: w.AllowEarlyPenalty,
		Election72t:       w.Election72t,
		HarvestMode:       w.HarvestMode,
		HarvestTarget:     w.HarvestTarget,
		RealizedGainsYTD:  st.Ledger.CapitalGains,
	}
}
