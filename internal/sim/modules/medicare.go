package modules

import (
	"github.com/rgehrsitz/finsim/internal/domain"
	"github.com/rgehrsitz/finsim/internal/sim"
	"github.com/shopspring/decimal"
)

const medicareEligibilityAgeMonths = 65 * 12

// Medicare charges the monthly Part B premium from age 65, including the
// IRMAA surcharge keyed to the MAGI recorded two years back (or whatever
// lookback the policy table sets).
type Medicare struct{}

func NewMedicare() *Medicare { return &Medicare{} }

func (*Medicare) Name() string { return "medicare" }

func (*Medicare) Cashflows(ctx *sim.StepContext, st *sim.State) []domain.CashflowItem {
	if ctx.AgeMonths < medicareEligibilityAgeMonths {
		return nil
	}
	fs := ctx.Scenario.Household.FilingStatus
	lookback := ctx.Tax.IRMAALookback(ctx.Year, fs)
	magi := st.MAGIHistory[ctx.Year-lookback] // zero when unrecorded: base premium only

	premium := ctx.Tax.MonthlyPartBPremium(ctx.Year, fs, magi, ctx.Date)
	if premium.LessThanOrEqual(decimal.Zero) {
		return nil
	}
	return []domain.CashflowItem{{
		Date:     ctx.Date,
		Module:   "medicare",
		Category: domain.CashflowOther,
		Amount:   premium.Neg(),
	}}
}
