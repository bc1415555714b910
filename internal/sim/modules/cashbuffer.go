package modules

import (
	"github.com/rgehrsitz/finsim/internal/domain"
	"github.com/rgehrsitz/finsim/internal/sequencing"
	"github.com/rgehrsitz/finsim/internal/sim"
	"github.com/shopspring/decimal"
)

// CashBuffer keeps the cash balance inside its floor/ceiling band: it
// refills from holdings in withdrawal order when cash runs low and sweeps
// the excess into a holding when cash runs high.
type CashBuffer struct{}

func NewCashBuffer() *CashBuffer { return &CashBuffer{} }

func (*CashBuffer) Name() string { return "cashbuffer" }

func (m *CashBuffer) ActionIntents(ctx *sim.StepContext, st *sim.State) []sim.ActionIntent {
	cfg := ctx.Scenario.Strategy.CashBuffer
	if cfg == nil {
		return nil
	}
	cash := st.CashBalance()

	if cash.LessThan(cfg.Floor) {
		return m.refill(ctx, st, cfg.Floor.Sub(cash))
	}
	if cfg.Ceiling.GreaterThan(decimal.Zero) && cash.GreaterThan(cfg.Ceiling) && cfg.SweepTo != "" {
		return []sim.ActionIntent{{
			Kind:     sim.ActionDeposit,
			Amount:   cash.Sub(cfg.Ceiling),
			TargetID: cfg.SweepTo,
			FromCash: true,
			Priority: sim.PriorityDeposit,
			Module:   "cashbuffer",
			Label:    "sweep excess cash",
		}}
	}
	return nil
}

// refill allocates the shortfall across holdings in withdrawal order. Any
// portion no holding can cover becomes a sourceless deficit intent, so the
// shortfall still surfaces as negative cash.
func (m *CashBuffer) refill(ctx *sim.StepContext, st *sim.State, need decimal.Decimal) []sim.ActionIntent {
	seq := sequencing.NewPolicy(ctx.Scenario.Strategy.Withdrawal.Order)
	draws := sequencing.Allocate(seq.Sequence(st.Holdings, ctx.SequencingContext(st)), need)

	var intents []sim.ActionIntent
	covered := decimal.Zero
	for _, d := range draws {
		treatment := sim.TreatmentDefault
		if d.TaxType == domain.TaxTypeRothBasis {
			treatment = sim.TreatmentBasis
		}
		intents = append(intents, sim.ActionIntent{
			Kind:      sim.ActionWithdraw,
			Amount:    d.Amount,
			SourceID:  d.HoldingID,
			Priority:  sim.PriorityWithdrawal,
			Treatment: treatment,
			Module:    "cashbuffer",
			Label:     "refill cash buffer",
		})
		covered = covered.Add(d.Amount)
	}
	if shortfall := need.Sub(covered); shortfall.GreaterThan(decimal.Zero) {
		intents = append(intents, sim.ActionIntent{
			Kind:     sim.ActionWithdraw,
			Amount:   shortfall,
			Deficit:  true,
			Priority: sim.PriorityWithdrawal,
			Module:   "cashbuffer",
			Label:    "uncovered deficit",
		})
	}
	return intents
}
