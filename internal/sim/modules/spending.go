package modules

import (
	"github.com/rgehrsitz/finsim/internal/domain"
	"github.com/rgehrsitz/finsim/internal/policy"
	"github.com/rgehrsitz/finsim/internal/sim"
	"github.com/rgehrsitz/finsim/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// Spending emits the household's monthly outflow, optionally inflated and
// optionally cut by the guardrail while the portfolio trails its target
// track.
type Spending struct{}

func NewSpending() *Spending { return &Spending{} }

func (*Spending) Name() string { return "spending" }

func (m *Spending) Cashflows(ctx *sim.StepContext, st *sim.State) []domain.CashflowItem {
	cfg := ctx.Scenario.Strategy.Spending
	if cfg.Monthly.LessThanOrEqual(decimal.Zero) {
		return nil
	}
	spend := cfg.Monthly
	if cfg.Inflate {
		spend = spend.Mul(policy.InflationFactor(
			ctx.Policies.InflationRate, ctx.Scenario.Settings.StartDate.Year(), ctx.Date))
	}
	if cfg.Guardrail != nil {
		spend = m.applyGuardrail(ctx, st, cfg.Guardrail, spend)
	}
	return []domain.CashflowItem{{
		Date:     ctx.Date,
		Module:   "spending",
		Category: domain.CashflowSpending,
		Amount:   spend.Neg(),
	}}
}

// applyGuardrail compares the portfolio against a straight-line track from
// the starting balance to the target balance at the target date. Falling
// below the trigger fraction of the track cuts spending; the cut holds
// until the portfolio stays healthy for the configured recovery streak.
func (m *Spending) applyGuardrail(ctx *sim.StepContext, st *sim.State, g *domain.GuardrailConfig, spend decimal.Decimal) decimal.Decimal {
	gs := &st.Guardrail
	if gs.InitialBalance.IsZero() {
		gs.InitialBalance = st.PortfolioBalance()
		gs.BaselineSpend = spend
	}

	total := dateutil.MonthsBetween(ctx.Scenario.Settings.StartDate, g.TargetDate)
	onTrack := gs.InitialBalance
	if total > 0 {
		frac := decimal.NewFromInt(int64(ctx.MonthIndex)).Div(decimal.NewFromInt(int64(total)))
		if frac.GreaterThan(decimal.NewFromInt(1)) {
			frac = decimal.NewFromInt(1)
		}
		onTrack = gs.InitialBalance.Add(g.TargetBalance.Sub(gs.InitialBalance).Mul(frac))
	}

	threshold := onTrack.Mul(g.TriggerFraction)
	if st.PortfolioBalance().LessThan(threshold) {
		gs.Reduced = true
		gs.HealthyStreak = 0
	} else if gs.Reduced {
		gs.HealthyStreak++
		if gs.HealthyStreak >= g.RecoveryMonths {
			gs.Reduced = false
			gs.HealthyStreak = 0
		}
	}

	if gs.Reduced {
		gs.ReducedMonths++
		return spend.Mul(decimal.NewFromInt(1).Sub(g.CutFraction))
	}
	return spend
}
