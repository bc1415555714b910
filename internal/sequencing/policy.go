package sequencing

import (
	"sort"

	"github.com/rgehrsitz/finsim/internal/domain"
	"github.com/shopspring/decimal"
)

// Policy is the configured withdrawal order.
type Policy struct {
	Order []domain.TaxType
}

// NewPolicy creates a withdrawal-order policy. An empty order falls back to
// taxable, then roth basis, then traditional, roth and HSA.
func NewPolicy(order []domain.TaxType) Policy {
	if len(order) == 0 {
		order = []domain.TaxType{
			domain.TaxTypeTaxable,
			domain.TaxTypeRothBasis,
			domain.TaxTypeTraditional,
			domain.TaxTypeRoth,
			domain.TaxTypeHSA,
		}
	}
	return Policy{Order: order}
}

// effectiveOrder reshapes the configured order for the month: when the
// scenario disallows early penalties, penalty-exposed types move to the
// back of the order in their configured relative order, so they are drawn
// only once every unpenalized source is exhausted. When penalties are
// tolerated the configured order stands as written. Taxable is promoted to
// the front while realized gains remain below the harvest target.
func (p Policy) effectiveOrder(ctx Context) []domain.TaxType {
	order := p.Order
	if !ctx.AllowEarlyPenalty {
		var front, back []domain.TaxType
		for _, tt := range order {
			if PenaltyExposed(tt, ctx) {
				back = append(back, tt)
			} else {
				front = append(front, tt)
			}
		}
		order = append(front, back...)
	}

	if ctx.HarvestTarget.GreaterThan(decimal.Zero) && ctx.RealizedGainsYTD.LessThan(ctx.HarvestTarget) {
		promoted := order[:0:0]
		for _, tt := range order {
			if tt == domain.TaxTypeTaxable {
				promoted = append([]domain.TaxType{tt}, promoted...)
			} else {
				promoted = append(promoted, tt)
			}
		}
		order = promoted
	}
	return order
}

// Sequence produces the ordered withdrawal candidates for the month.
// Holdings keep their scenario order within a tax type, except taxable
// holdings, which are sorted by unrealized gain according to the harvest
// mode (ascending for loss harvesting, descending for gain harvesting,
// otherwise by balance).
func (p Policy) Sequence(holdings []domain.Holding, ctx Context) []Candidate {
	var out []Candidate
	for _, tt := range p.effectiveOrder(ctx) {
		var group []Candidate
		for i := range holdings {
			h := &holdings[i]
			if h.TaxType != tt.HoldingType() || h.Balance.LessThanOrEqual(decimal.Zero) {
				continue
			}
			available := h.Balance
			if tt == domain.TaxTypeRothBasis {
				available = h.SeasonedBasis(ctx.Date)
				if available.LessThanOrEqual(decimal.Zero) {
					continue
				}
			}
			group = append(group, Candidate{
				HoldingID:      h.ID,
				TaxType:        tt,
				Balance:        h.Balance,
				Available:      available,
				UnrealizedGain: h.UnrealizedGain(),
			})
		}
		if tt == domain.TaxTypeTaxable {
			sortTaxable(group, ctx.HarvestMode)
		}
		out = append(out, group...)
	}
	return out
}

func sortTaxable(group []Candidate, mode domain.HarvestMode) {
	switch mode {
	case domain.HarvestLosses:
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].UnrealizedGain.LessThan(group[j].UnrealizedGain)
		})
	case domain.HarvestGains:
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].UnrealizedGain.GreaterThan(group[j].UnrealizedGain)
		})
	default:
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Balance.GreaterThan(group[j].Balance)
		})
	}
}

// Allocate walks the candidates in order and splits the needed amount
// across them, never drawing more than a holding's balance even when the
// same holding appears under two order-list types.
func Allocate(candidates []Candidate, need decimal.Decimal) []Draw {
	var draws []Draw
	taken := map[string]decimal.Decimal{}
	remaining := need
	for _, c := range candidates {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		already := taken[c.HoldingID]
		capacity := decimal.Min(c.Available, c.Balance.Sub(already))
		if capacity.LessThanOrEqual(decimal.Zero) {
			continue
		}
		amount := decimal.Min(remaining, capacity)
		draws = append(draws, Draw{HoldingID: c.HoldingID, TaxType: c.TaxType, Amount: amount})
		taken[c.HoldingID] = already.Add(amount)
		remaining = remaining.Sub(amount)
	}
	return draws
}
