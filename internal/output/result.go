// Package output holds the run result model and its writers. It is a pure
// data sink: the orchestrator fills it, the CLI renders it.
package output

import (
	"time"

	"github.com/rgehrsitz/finsim/internal/domain"
	"github.com/rgehrsitz/finsim/internal/tax"
	"github.com/shopspring/decimal"
)

// ActionSummary is the flattened record of one resolved intent.
type ActionSummary struct {
	Kind      string
	Module    string
	Label     string
	SourceID  string
	TargetID  string
	Requested decimal.Decimal
	Resolved  decimal.Decimal
}

// MonthlyRecord is one step's snapshot, taken after returns are applied.
type MonthlyRecord struct {
	Date       time.Time
	MonthIndex int
	AgeMonths  int

	Cash      decimal.Decimal
	Portfolio decimal.Decimal
	ByTaxType map[domain.TaxType]decimal.Decimal

	NetCashflow decimal.Decimal
	Cashflows   []domain.CashflowItem
	Actions     []ActionSummary
	Returns     map[string]decimal.Decimal
}

// AnnualRecord is the year-end settlement picture.
type AnnualRecord struct {
	Year      int
	MAGI      decimal.Decimal
	Liability tax.Liability
	Ledger    tax.AnnualLedger
}

// RunResult is the complete output of one simulation run.
type RunResult struct {
	RunID      string
	ScenarioID string
	StartDate  time.Time
	Months     int

	Monthly []MonthlyRecord
	Annual  []AnnualRecord
}

// EndingBalance returns the final recorded portfolio balance.
func (r *RunResult) EndingBalance() decimal.Decimal {
	if len(r.Monthly) == 0 {
		return decimal.Zero
	}
	return r.Monthly[len(r.Monthly)-1].Portfolio
}

// Depleted reports whether the portfolio ever went to zero or below, and
// the month it first did.
func (r *RunResult) Depleted() (bool, time.Time) {
	for _, m := range r.Monthly {
		if m.Portfolio.LessThanOrEqual(decimal.Zero) {
			return true, m.Date
		}
	}
	return false, time.Time{}
}

// CashflowTotals sums cashflows per module and category across the run.
func (r *RunResult) CashflowTotals() map[string]decimal.Decimal {
	totals := map[string]decimal.Decimal{}
	for _, m := range r.Monthly {
		for _, cf := range m.Cashflows {
			key := cf.Module + "/" + string(cf.Category)
			totals[key] = totals[key].Add(cf.Amount)
		}
	}
	return totals
}
