// Package modules contains the strategy modules the orchestrator composes:
// income, spending, cash buffering, rebalancing, Roth conversions, required
// distributions, Social Security and tax settlement. Each module implements
// only the lifecycle hooks it needs.
package modules

import (
	"sort"

	"github.com/rgehrsitz/finsim/internal/domain"
	"github.com/rgehrsitz/finsim/internal/sim"
	"github.com/rgehrsitz/finsim/pkg/dateutil"
	"github.com/shopspring/decimal"
)

var twelve = decimal.NewFromInt(12)

// Salary pays wages for active work periods and routes payroll-deducted
// contributions into their holdings.
type Salary struct{}

func NewSalary() *Salary { return &Salary{} }

func (*Salary) Name() string { return "salary" }

type payrollContribution struct {
	holdingID  string
	taxType    domain.TaxType
	amount     decimal.Decimal
	deductible bool
}

// activePeriods returns the work periods covering the step's month.
func activePeriods(ctx *sim.StepContext) []domain.WorkPeriod {
	var out []domain.WorkPeriod
	for _, wp := range ctx.Scenario.Household.WorkPeriods {
		if dateutil.MonthStart(wp.Start).After(ctx.Date) || dateutil.MonthStart(wp.End).Before(ctx.Date) {
			continue
		}
		out = append(out, wp)
	}
	return out
}

// monthlyContributions sizes this month's payroll contributions, clamped to
// the remaining annual limit per tax type. Holding order is made
// deterministic by sorting the ids.
func monthlyContributions(ctx *sim.StepContext, st *sim.State, wp domain.WorkPeriod) []payrollContribution {
	ids := make([]string, 0, len(wp.Contributions))
	for id := range wp.Contributions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	pending := map[domain.TaxType]decimal.Decimal{}
	var out []payrollContribution
	for _, id := range ids {
		h := st.Holding(id)
		if h == nil {
			continue
		}
		amount := wp.Contributions[id].Div(twelve)
		if limit := ctx.Tax.ContributionLimit(ctx.Year, h.TaxType, ctx.Date); limit != nil {
			used := st.ContributionsYTD[h.TaxType].Add(pending[h.TaxType])
			remaining := decimal.Max(decimal.Zero, limit.Sub(used))
			amount = decimal.Min(amount, remaining)
		}
		if amount.LessThanOrEqual(decimal.Zero) {
			continue
		}
		pending[h.TaxType] = pending[h.TaxType].Add(amount)
		out = append(out, payrollContribution{
			holdingID:  id,
			taxType:    h.TaxType,
			amount:     amount,
			deductible: h.TaxType == domain.TaxTypeTraditional || h.TaxType == domain.TaxTypeHSA,
		})
	}
	return out
}

// Cashflows pays net wages into cash: gross less pre-tax deductions less
// payroll contributions. Pre-tax contributions also reduce taxable income.
func (*Salary) Cashflows(ctx *sim.StepContext, st *sim.State) []domain.CashflowItem {
	var items []domain.CashflowItem
	for _, wp := range activePeriods(ctx) {
		gross := wp.AnnualSalary.Div(twelve)
		preTax := wp.PreTaxDeductions.Div(twelve)
		wages := decimal.Max(decimal.Zero, gross.Sub(preTax))

		contributed := decimal.Zero
		deducted := decimal.Zero
		for _, c := range monthlyContributions(ctx, st, wp) {
			contributed = contributed.Add(c.amount)
			if c.deductible {
				deducted = deducted.Add(c.amount)
			}
		}

		items = append(items, domain.CashflowItem{
			Date:           ctx.Date,
			Module:         "salary",
			Category:       domain.CashflowSalary,
			Amount:         wages.Sub(contributed),
			OrdinaryIncome: wages.Sub(deducted),
			EarnedIncome:   wages,
		})
	}
	return items
}

// ActionIntents deposits the payroll contributions. They are funded from
// the paycheck, not the cash account, so FromCash is false.
func (*Salary) ActionIntents(ctx *sim.StepContext, st *sim.State) []sim.ActionIntent {
	var intents []sim.ActionIntent
	for _, wp := range activePeriods(ctx) {
		for _, c := range monthlyContributions(ctx, st, wp) {
			intents = append(intents, sim.ActionIntent{
				Kind:     sim.ActionDeposit,
				Amount:   c.amount,
				TargetID: c.holdingID,
				Priority: sim.PriorityDeposit,
				Module:   "salary",
				Label:    "payroll contribution",
			})
		}
	}
	return intents
}
