package modules

import (
	"github.com/rgehrsitz/finsim/internal/sim"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Conversion executes the year's Roth conversion plan: the solver sizes the
// annual amount at year start and the module spreads it evenly over the
// months from the configured start month through December.
type Conversion struct {
	convertedYTD decimal.Decimal
}

func NewConversion() *Conversion { return &Conversion{} }

func (*Conversion) Name() string { return "conversion" }

func (m *Conversion) PlanYear(ctx *sim.StepContext, st *sim.State, plan *sim.YearPlan) {
	cfg := ctx.Scenario.Strategy.Conversion
	if cfg == nil {
		return
	}
	m.convertedYTD = decimal.Zero
	plan.ConversionAmount = sim.SolveConversion(ctx, st, *cfg)
	if plan.ConversionAmount.GreaterThan(decimal.Zero) {
		ctx.Log.Info("conversion plan",
			zap.Int("year", ctx.Year),
			zap.String("amount", plan.ConversionAmount.StringFixed(2)))
	}
}

func (m *Conversion) ActionIntents(ctx *sim.StepContext, st *sim.State) []sim.ActionIntent {
	cfg := ctx.Scenario.Strategy.Conversion
	if cfg == nil || ctx.Plan.ConversionAmount.LessThanOrEqual(decimal.Zero) {
		return nil
	}
	start := cfg.StartMonth
	if start < 1 || start > 12 {
		start = 1
	}
	month := ctx.MonthOfYear()
	if month < start {
		return nil
	}
	remaining := ctx.Plan.ConversionAmount.Sub(m.convertedYTD)
	if remaining.LessThanOrEqual(decimal.Zero) {
		return nil
	}
	monthsLeft := 12 - month + 1
	amount := remaining.Div(decimal.NewFromInt(int64(monthsLeft)))
	if monthsLeft == 1 {
		amount = remaining
	}
	return []sim.ActionIntent{{
		Kind:     sim.ActionConvert,
		Amount:   amount,
		SourceID: cfg.SourceHolding,
		TargetID: cfg.TargetHolding,
		Priority: sim.PriorityConversion,
		Module:   "conversion",
		Label:    "roth conversion",
	}}
}

func (m *Conversion) ActionsResolved(ctx *sim.StepContext, st *sim.State, records []sim.ActionRecord) {
	for _, r := range records {
		if r.Kind == sim.ActionConvert && r.Module == "conversion" {
			m.convertedYTD = m.convertedYTD.Add(r.ResolvedAmount)
		}
	}
}
