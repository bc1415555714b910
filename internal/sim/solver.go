package sim

import (
	"github.com/rgehrsitz/finsim/internal/domain"
	"github.com/rgehrsitz/finsim/internal/sequencing"
	"github.com/rgehrsitz/finsim/internal/tax"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const solverMaxIterations = 5

// solverTolerance stops the iteration once successive candidates are within
// a dollar of each other.
var solverTolerance = decimal.NewFromInt(1)

// SolveConversion sizes this year's Roth conversion: fill the target
// ordinary bracket up to its ceiling, stay under the MAGI limit, and shrink
// the amount by whatever portion of the incremental tax would itself be
// funded from pre-tax dollars (which adds ordinary income of its own). The
// feedback loop runs at most five iterations with Aitken acceleration and
// returns the last candidate if it has not converged.
func SolveConversion(ctx *StepContext, st *State, cfg domain.ConversionConfig) decimal.Decimal {
	src := st.Holding(cfg.SourceHolding)
	if src == nil || src.Balance.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	base := tax.Input{
		Year:           ctx.Year,
		Date:           ctx.Date,
		FilingStatus:   ctx.Scenario.Household.FilingStatus,
		OrdinaryIncome: st.Ledger.OrdinaryIncome,
		CapitalGains:   st.Ledger.CapitalGains,
		Deductions:     st.Ledger.Deductions,
		TaxExempt:      st.Ledger.TaxExempt,
		SSBenefits:     st.Ledger.SSBenefits,
	}
	baseRes := ctx.Tax.Federal(base)

	ceiling := ctx.Tax.MarginalOrdinaryCeiling(ctx.Year, base.FilingStatus, cfg.TargetBracketRate, ctx.Date)
	if ceiling == nil {
		ctx.Log.Warn("no bounded bracket for conversion target rate, skipping conversion",
			zap.Int("year", ctx.Year),
			zap.String("rate", cfg.TargetBracketRate.String()))
		return decimal.Zero
	}
	target := decimal.Max(decimal.Zero, ceiling.Sub(baseRes.TaxableOrdinary))

	// MAGI ceiling: the explicit limit when configured, otherwise the first
	// IRMAA tier boundary.
	limit := cfg.MAGILimit
	if limit == nil {
		limit = ctx.Tax.IRMAAHeadroom(ctx.Year, base.FilingStatus, ctx.Date)
	}
	if limit != nil {
		headroom := decimal.Max(decimal.Zero, limit.Sub(ctx.Tax.MAGI(ctx.Year, base.FilingStatus, st.Ledger, ctx.Date)))
		target = decimal.Min(target, headroom)
	}

	if cfg.MaxAmount.GreaterThan(decimal.Zero) {
		target = decimal.Min(target, cfg.MaxAmount)
	}
	target = decimal.Min(target, src.Balance)
	if target.LessThan(cfg.MinAmount) || target.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	seq := sequencing.NewPolicy(ctx.Scenario.Strategy.Withdrawal.Order)
	seqCtx := ctx.SequencingContext(st)

	cand := target
	history := []decimal.Decimal{cand}
	for i := 0; i < solverMaxIterations; i++ {
		withConv := base
		withConv.OrdinaryIncome = base.OrdinaryIncome.Add(cand)
		deltaTax := ctx.Tax.Federal(withConv).Total().Sub(baseRes.Total())

		// If the tax bill is drawn from pre-tax holdings, those draws are
		// themselves ordinary income crowding out conversion headroom.
		taxableFunding := decimal.Zero
		for _, d := range sequencing.Allocate(seq.Sequence(st.Holdings, seqCtx), deltaTax) {
			if d.TaxType == domain.TaxTypeTraditional {
				taxableFunding = taxableFunding.Add(d.Amount)
			}
		}

		next := decimal.Max(decimal.Zero, target.Sub(taxableFunding))
		next = decimal.Min(next, src.Balance)

		history = append(history, next)
		if n := len(history); n >= 3 {
			d1 := history[n-2].Sub(history[n-3])
			d2 := history[n-1].Sub(history[n-2])
			if denom := d2.Sub(d1); !denom.IsZero() {
				accel := history[n-1].Sub(d2.Mul(d2).Div(denom))
				if accel.GreaterThanOrEqual(decimal.Zero) && accel.LessThanOrEqual(target) {
					next = accel
				}
			}
		}

		if next.Sub(cand).Abs().LessThan(solverTolerance) {
			return next
		}
		cand = next
	}

	ctx.Log.Debug("conversion solver hit iteration cap",
		zap.Int("year", ctx.Year), zap.String("amount", cand.String()))
	return cand
}
