package sim

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rgehrsitz/finsim/internal/domain"
	"github.com/rgehrsitz/finsim/internal/output"
	"github.com/rgehrsitz/finsim/internal/policy"
	"github.com/rgehrsitz/finsim/internal/tax"
	"github.com/rgehrsitz/finsim/pkg/dateutil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Engine runs one scenario month by month. Each step follows a fixed hook
// order: year planning, cashflows, cashflow reaction, cash and ledger
// application, action intents, resolution, action reaction, market returns,
// return reaction, then year-end settlement on December (and the final
// step).
type Engine struct {
	Scenario *domain.Scenario
	Policies *policy.Set
	Tax      *tax.Engine
	Modules  []Module
	Returns  ReturnSource
	Log      *zap.Logger
}

// NewEngine wires an engine from a scenario and policy set. A nil policy
// set uses the built-in defaults; a nil logger disables diagnostics.
func NewEngine(sc *domain.Scenario, ps *policy.Set, modules []Module, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	if ps == nil {
		ps = policy.DefaultSet()
	}
	ps.InflationRate = sc.Settings.InflationRate
	ps.BuildIndex()

	eng := tax.NewEngine(ps, tax.FlatStateTax(sc.Settings.StateRate), log)
	eng.CapitalGains = sc.Settings.CapitalGainsTax

	return &Engine{
		Scenario: sc,
		Policies: ps,
		Tax:      eng,
		Modules:  modules,
		Returns:  returnSourceFor(sc),
		Log:      log,
	}
}

// Run simulates the configured number of months and returns the run result.
func (e *Engine) Run(ctx context.Context) (*output.RunResult, error) {
	if e.Scenario.Settings.Months <= 0 {
		return nil, fmt.Errorf("scenario %s: months must be positive", e.Scenario.ID)
	}

	st := NewState(e.Scenario)
	start := dateutil.MonthStart(e.Scenario.Settings.StartDate)
	res := &output.RunResult{
		RunID:      uuid.NewString(),
		ScenarioID: e.Scenario.ID,
		StartDate:  start,
		Months:     e.Scenario.Settings.Months,
	}
	e.Log.Info("run started",
		zap.String("run_id", res.RunID),
		zap.String("scenario", e.Scenario.ID),
		zap.Int("months", res.Months))

	var plan *YearPlan
	for i := 0; i < e.Scenario.Settings.Months; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("run %s cancelled: %w", res.RunID, err)
		}
		date := dateutil.AddMonths(start, i)
		step := &StepContext{
			Date:       date,
			MonthIndex: i,
			Year:       date.Year(),
			AgeMonths:  dateutil.AgeInMonths(e.Scenario.Household.BirthDate, date),
			YearStart:  i == 0 || dateutil.IsYearStart(date),
			YearEnd:    dateutil.IsYearEnd(date) || i == e.Scenario.Settings.Months-1,
			Scenario:   e.Scenario,
			Policies:   e.Policies,
			Tax:        e.Tax,
			Log:        e.Log,
		}

		if step.YearStart || plan == nil {
			plan = &YearPlan{}
			step.Plan = plan
			for _, m := range e.Modules {
				if p, ok := m.(YearPlanner); ok {
					p.PlanYear(step, st, plan)
				}
			}
		}
		step.Plan = plan

		e.stepMonth(step, st, res)
	}

	e.Log.Info("run finished",
		zap.String("run_id", res.RunID),
		zap.String("ending_balance", res.EndingBalance().StringFixed(2)))
	return res, nil
}

func (e *Engine) stepMonth(step *StepContext, st *State, res *output.RunResult) {
	// Cashflows from every source, then reactions to the combined set.
	var items []domain.CashflowItem
	for _, m := range e.Modules {
		if s, ok := m.(CashflowSource); ok {
			items = append(items, s.Cashflows(step, st)...)
		}
	}
	for _, m := range e.Modules {
		if r, ok := m.(CashflowReactor); ok {
			items = append(items, r.AfterCashflows(step, st, items)...)
		}
	}
	items = append(items, e.accrueCashInterest(step, st)...)

	net := decimal.Zero
	for _, item := range items {
		net = net.Add(item.Amount)
		st.Accumulate(item)
	}
	st.ApplyCash(net)

	// Intents from every source resolve as one batch.
	var intents []ActionIntent
	for _, m := range e.Modules {
		if s, ok := m.(IntentSource); ok {
			intents = append(intents, s.ActionIntents(step, st)...)
		}
	}
	records := Resolve(step, st, intents)
	for _, m := range e.Modules {
		if r, ok := m.(ActionReactor); ok {
			r.ActionsResolved(step, st, records)
		}
	}

	returns := e.applyReturns(step, st)
	for _, m := range e.Modules {
		if r, ok := m.(ReturnReactor); ok {
			r.MarketReturns(step, st, returns)
		}
	}

	if step.YearEnd {
		for _, m := range e.Modules {
			if r, ok := m.(YearEndReactor); ok {
				r.EndOfYear(step, st)
			}
		}
		fs := e.Scenario.Household.FilingStatus
		magi := e.Tax.MAGI(step.Year, fs, st.Ledger, step.Date)
		st.MAGIHistory[step.Year] = magi
		res.Annual = append(res.Annual, output.AnnualRecord{
			Year:      step.Year,
			MAGI:      magi,
			Liability: e.Tax.Settle(step.Year, fs, st.Ledger, step.Date),
			Ledger:    st.Ledger,
		})
		st.ResetYearLedger()
	}

	res.Monthly = append(res.Monthly, e.snapshot(step, st, net, items, records, returns))
}

// accrueCashInterest credits each cash account its monthly interest and
// reports the total as a taxable cashflow item. The credit is applied to
// the accounts directly, so the item carries income attribution only.
func (e *Engine) accrueCashInterest(step *StepContext, st *State) []domain.CashflowItem {
	total := decimal.Zero
	for i := range st.Cash {
		c := &st.Cash[i]
		if c.Balance.LessThanOrEqual(decimal.Zero) || c.InterestRate.LessThanOrEqual(decimal.Zero) {
			continue
		}
		interest := c.Balance.Mul(c.InterestRate).Div(decimal.NewFromInt(12))
		c.Balance = c.Balance.Add(interest)
		total = total.Add(interest)
	}
	if total.LessThanOrEqual(decimal.Zero) {
		return nil
	}
	return []domain.CashflowItem{{
		Date:           step.Date,
		Module:         "cash",
		Category:       domain.CashflowInterest,
		OrdinaryIncome: total,
	}}
}

func (e *Engine) applyReturns(step *StepContext, st *State) map[string]ReturnOutcome {
	outcomes := make(map[string]ReturnOutcome, len(st.Holdings))
	for i := range st.Holdings {
		h := &st.Holdings[i]
		rate := e.Returns.MonthlyRate(step.MonthIndex, h)
		growth := h.Balance.Mul(rate)
		h.Balance = h.Balance.Add(growth)
		outcomes[h.ID] = ReturnOutcome{Rate: rate, Growth: growth}
	}
	return outcomes
}

func (e *Engine) snapshot(step *StepContext, st *State, net decimal.Decimal, items []domain.CashflowItem, records []ActionRecord, returns map[string]ReturnOutcome) output.MonthlyRecord {
	rec := output.MonthlyRecord{
		Date:        step.Date,
		MonthIndex:  step.MonthIndex,
		AgeMonths:   step.AgeMonths,
		Cash:        st.CashBalance(),
		Portfolio:   st.PortfolioBalance(),
		ByTaxType:   map[domain.TaxType]decimal.Decimal{},
		NetCashflow: net,
		Cashflows:   items,
		Returns:     map[string]decimal.Decimal{},
	}
	for _, tt := range []domain.TaxType{domain.TaxTypeTaxable, domain.TaxTypeTraditional, domain.TaxTypeRoth, domain.TaxTypeHSA} {
		rec.ByTaxType[tt] = st.BalanceByTaxType(tt)
	}
	for _, r := range records {
		rec.Actions = append(rec.Actions, output.ActionSummary{
			Kind:      r.Kind.String(),
			Module:    r.Module,
			Label:     r.Label,
			SourceID:  r.SourceID,
			TargetID:  r.TargetID,
			Requested: r.Amount,
			Resolved:  r.ResolvedAmount,
		})
	}
	for id, o := range returns {
		rec.Returns[id] = o.Growth
	}
	return rec
}
