package modules

import (
	"github.com/rgehrsitz/finsim/internal/domain"
	"github.com/rgehrsitz/finsim/internal/sim"
	"github.com/rgehrsitz/finsim/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// Rebalance moves money between stock and bond holdings once a year to hold
// a glide-path stock allocation that shifts linearly with age. Transfers
// stay within a tax type so rebalancing never changes tax treatment.
type Rebalance struct{}

func NewRebalance() *Rebalance { return &Rebalance{} }

func (*Rebalance) Name() string { return "rebalance" }

func (m *Rebalance) ActionIntents(ctx *sim.StepContext, st *sim.State) []sim.ActionIntent {
	cfg := ctx.Scenario.Strategy.GlidePath
	if cfg == nil || !ctx.YearStart {
		return nil
	}
	target := m.targetStockFraction(ctx, cfg)

	var intents []sim.ActionIntent
	for _, tt := range []domain.TaxType{domain.TaxTypeTaxable, domain.TaxTypeTraditional, domain.TaxTypeRoth, domain.TaxTypeHSA} {
		if intent := m.groupIntent(ctx, st, tt, target, cfg.Tolerance); intent != nil {
			intents = append(intents, *intent)
		}
	}
	return intents
}

// targetStockFraction interpolates the stock allocation from its starting
// value to the end value reached at the configured age.
func (m *Rebalance) targetStockFraction(ctx *sim.StepContext, cfg *domain.GlidePathConfig) decimal.Decimal {
	startAge := dateutil.AgeInYears(ctx.Scenario.Household.BirthDate, ctx.Scenario.Settings.StartDate)
	curAge := ctx.AgeMonths / 12
	if cfg.EndAge <= startAge || curAge >= cfg.EndAge {
		return cfg.StocksAtEnd
	}
	if curAge <= startAge {
		return cfg.StocksAtStart
	}
	progress := decimal.NewFromInt(int64(curAge - startAge)).
		Div(decimal.NewFromInt(int64(cfg.EndAge - startAge)))
	return cfg.StocksAtStart.Add(cfg.StocksAtEnd.Sub(cfg.StocksAtStart).Mul(progress))
}

// groupIntent produces at most one transfer within a tax type, from the
// overweight asset's largest holding toward the underweight asset's largest
// holding, skipping drifts inside the tolerance band.
func (m *Rebalance) groupIntent(ctx *sim.StepContext, st *sim.State, tt domain.TaxType, target, tolerance decimal.Decimal) *sim.ActionIntent {
	total := decimal.Zero
	stocks := decimal.Zero
	var largestStock, largestBond *domain.Holding
	for i := range st.Holdings {
		h := &st.Holdings[i]
		if h.TaxType != tt || h.Balance.LessThanOrEqual(decimal.Zero) {
			continue
		}
		total = total.Add(h.Balance)
		switch h.Asset {
		case domain.AssetStocks:
			stocks = stocks.Add(h.Balance)
			if largestStock == nil || h.Balance.GreaterThan(largestStock.Balance) {
				largestStock = h
			}
		case domain.AssetBonds:
			if largestBond == nil || h.Balance.GreaterThan(largestBond.Balance) {
				largestBond = h
			}
		}
	}
	if total.LessThanOrEqual(decimal.Zero) || largestStock == nil || largestBond == nil {
		return nil
	}

	drift := stocks.Sub(total.Mul(target))
	if drift.Abs().Div(total).LessThanOrEqual(tolerance) {
		return nil
	}

	src, dst := largestStock, largestBond
	if drift.LessThan(decimal.Zero) {
		src, dst = largestBond, largestStock
	}
	return &sim.ActionIntent{
		Kind:     sim.ActionRebalance,
		Amount:   decimal.Min(drift.Abs(), src.Balance),
		SourceID: src.ID,
		TargetID: dst.ID,
		Priority: sim.PriorityRebalance,
		Module:   "rebalance",
		Label:    "glide path rebalance",
	}
}
