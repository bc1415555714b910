package sim

import (
	"sort"

	"github.com/rgehrsitz/finsim/internal/domain"
	"github.com/rgehrsitz/finsim/internal/sequencing"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// earlyPenaltyRate is the penalty accrued on penalized early withdrawals.
var earlyPenaltyRate = decimal.NewFromFloat(0.10)

// Resolve applies the month's combined intents against the state: stable
// sort by priority (ties keep emission order), then clamp and apply each
// in turn, so later intents observe balances already reduced by earlier
// ones. Returns one record per intent.
func Resolve(ctx *StepContext, st *State, intents []ActionIntent) []ActionRecord {
	sorted := make([]ActionIntent, len(intents))
	copy(sorted, intents)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Priority < sorted[j].Priority })

	records := make([]ActionRecord, 0, len(sorted))
	for _, intent := range sorted {
		var resolved decimal.Decimal
		switch intent.Kind {
		case ActionWithdraw, ActionRMD:
			resolved = resolveWithdraw(ctx, st, intent)
		case ActionDeposit:
			resolved = resolveDeposit(ctx, st, intent)
		case ActionConvert:
			resolved = resolveConvert(ctx, st, intent)
		case ActionRebalance:
			resolved = resolveRebalance(ctx, st, intent)
		}
		records = append(records, ActionRecord{ActionIntent: intent, ResolvedAmount: resolved})
		if !resolved.Equal(intent.Amount) {
			ctx.Log.Debug("intent clamped",
				zap.String("kind", intent.Kind.String()),
				zap.String("module", intent.Module),
				zap.String("requested", intent.Amount.String()),
				zap.String("resolved", resolved.String()))
		}
	}
	return records
}

func resolveWithdraw(ctx *StepContext, st *State, intent ActionIntent) decimal.Decimal {
	if intent.Amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	if intent.Deficit {
		// Nothing is drawn; the full requested amount is recorded so the
		// shortfall surfaces as negative cash for the next step's funding
		// pass.
		return intent.Amount
	}
	if intent.SourceID != "" {
		h := st.Holding(intent.SourceID)
		if h == nil {
			return decimal.Zero
		}
		amount := decimal.Min(intent.Amount, h.Balance)
		applyWithdrawal(ctx, st, h, amount, intent)
		return amount
	}

	// Sourceless withdraw: draw pro-rata across holdings with balance.
	total := decimal.Zero
	for i := range st.Holdings {
		total = total.Add(decimal.Max(st.Holdings[i].Balance, decimal.Zero))
	}
	if total.LessThanOrEqual(decimal.Zero) {
		return intent.Amount // degrades to an uncovered deficit
	}
	amount := decimal.Min(intent.Amount, total)
	for i := range st.Holdings {
		h := &st.Holdings[i]
		if h.Balance.LessThanOrEqual(decimal.Zero) {
			continue
		}
		share := amount.Mul(h.Balance).Div(total)
		applyWithdrawal(ctx, st, h, share, intent)
	}
	return amount
}

// applyWithdrawal moves the amount from the holding to cash and attributes
// its tax effect to the year ledger.
func applyWithdrawal(ctx *StepContext, st *State, h *domain.Holding, amount decimal.Decimal, intent ActionIntent) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return
	}
	gain := h.ReduceLots(amount)
	h.Balance = h.Balance.Sub(amount)
	st.ApplyCash(amount)

	if intent.Treatment == TreatmentBasis || intent.Treatment == TreatmentTaxFree {
		return
	}
	seqCtx := ctx.SequencingContext(st)
	switch h.TaxType {
	case domain.TaxTypeTaxable:
		st.Ledger.CapitalGains = st.Ledger.CapitalGains.Add(gain)
	case domain.TaxTypeTraditional:
		st.Ledger.OrdinaryIncome = st.Ledger.OrdinaryIncome.Add(amount)
		if intent.Kind != ActionRMD && sequencing.PenaltyExposed(domain.TaxTypeTraditional, seqCtx) {
			st.Ledger.Penalties = st.Ledger.Penalties.Add(amount.Mul(earlyPenaltyRate))
		}
	case domain.TaxTypeRoth, domain.TaxTypeHSA:
		if intent.Kind != ActionRMD && sequencing.PenaltyExposed(h.TaxType, seqCtx) {
			st.Ledger.Penalties = st.Ledger.Penalties.Add(amount.Mul(earlyPenaltyRate))
		}
	}
}

func resolveDeposit(ctx *StepContext, st *State, intent ActionIntent) decimal.Decimal {
	if intent.Amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	h := st.Holding(intent.TargetID)
	if h == nil {
		return decimal.Zero
	}
	amount := intent.Amount
	if intent.FromCash {
		available := st.CashBalance()
		if available.LessThanOrEqual(decimal.Zero) {
			return decimal.Zero
		}
		amount = decimal.Min(amount, available)
		st.ApplyCash(amount.Neg())
	}
	h.Balance = h.Balance.Add(amount)
	h.Lots = append(h.Lots, domain.CostBasisLot{Date: ctx.Date, Amount: amount})
	st.ContributionsYTD[h.TaxType] = st.ContributionsYTD[h.TaxType].Add(amount)
	return amount
}

func resolveConvert(ctx *StepContext, st *State, intent ActionIntent) decimal.Decimal {
	src := st.Holding(intent.SourceID)
	dst := st.Holding(intent.TargetID)
	if src == nil || dst == nil || intent.Amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	amount := decimal.Min(intent.Amount, src.Balance)
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	src.Balance = src.Balance.Sub(amount)
	dst.Balance = dst.Balance.Add(amount)
	// The converted amount starts a fresh basis lot in the target.
	dst.Lots = append(dst.Lots, domain.CostBasisLot{Date: ctx.Date, Amount: amount})

	// Traditional-to-Roth conversions are a taxable event recorded in the
	// ledger; no cash moves.
	if intent.Treatment != TreatmentTaxFree && src.TaxType == domain.TaxTypeTraditional {
		st.Ledger.OrdinaryIncome = st.Ledger.OrdinaryIncome.Add(amount)
	}
	return amount
}

func resolveRebalance(ctx *StepContext, st *State, intent ActionIntent) decimal.Decimal {
	src := st.Holding(intent.SourceID)
	dst := st.Holding(intent.TargetID)
	if src == nil || dst == nil || intent.Amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	amount := decimal.Min(intent.Amount, src.Balance)
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	gain := src.ReduceLots(amount)
	src.Balance = src.Balance.Sub(amount)
	dst.Balance = dst.Balance.Add(amount)
	if len(src.Lots) > 0 || src.TaxType == domain.TaxTypeTaxable {
		dst.Lots = append(dst.Lots, domain.CostBasisLot{Date: ctx.Date, Amount: amount})
	}
	// Selling inside a taxable account realizes gains even with no cash
	// effect.
	if src.TaxType == domain.TaxTypeTaxable {
		st.Ledger.CapitalGains = st.Ledger.CapitalGains.Add(gain)
	}
	return amount
}
