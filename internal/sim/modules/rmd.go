package modules

import (
	"github.com/rgehrsitz/finsim/internal/domain"
	"github.com/rgehrsitz/finsim/internal/sim"
	"github.com/shopspring/decimal"
)

// RMD withdraws the required minimum distribution from each traditional
// holding once per year. RMD intents carry the highest priority so they
// resolve before discretionary withdrawals and conversions deplete the
// holdings.
type RMD struct{}

func NewRMD() *RMD { return &RMD{} }

func (*RMD) Name() string { return "rmd" }

func (*RMD) ActionIntents(ctx *sim.StepContext, st *sim.State) []sim.ActionIntent {
	if !ctx.YearStart {
		return nil
	}
	age := ctx.AgeMonths / 12
	if age < ctx.Tax.RMDStartAge(ctx.Year) {
		return nil
	}
	var intents []sim.ActionIntent
	for i := range st.Holdings {
		h := &st.Holdings[i]
		if h.TaxType != domain.TaxTypeTraditional {
			continue
		}
		required := ctx.Tax.RequiredMinimum(ctx.Year, age, h.Balance)
		if required.LessThanOrEqual(decimal.Zero) {
			continue
		}
		intents = append(intents, sim.ActionIntent{
			Kind:     sim.ActionRMD,
			Amount:   required,
			SourceID: h.ID,
			Priority: sim.PriorityRMD,
			Module:   "rmd",
			Label:    "required minimum distribution",
		})
	}
	return intents
}
