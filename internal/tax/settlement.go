package tax

import (
	"time"

	"github.com/rgehrsitz/finsim/internal/domain"
	"github.com/shopspring/decimal"
)

// AnnualLedger is the year's accumulated tax-relevant totals, as tracked by
// the simulation state.
type AnnualLedger struct {
	OrdinaryIncome decimal.Decimal
	CapitalGains   decimal.Decimal
	Deductions     decimal.Decimal
	TaxExempt      decimal.Decimal
	SSBenefits     decimal.Decimal
	EarnedIncome   decimal.Decimal
	Penalties      decimal.Decimal
	TaxPaid        decimal.Decimal
}

// Liability is the settled annual tax bill.
type Liability struct {
	Federal      decimal.Decimal
	CapitalGains decimal.Decimal
	State        decimal.Decimal
	Payroll      decimal.Decimal
	Penalties    decimal.Decimal
	TaxPaid      decimal.Decimal
}

// Total returns the gross liability before credits for tax already paid.
func (l Liability) Total() decimal.Decimal {
	return l.Federal.Add(l.CapitalGains).Add(l.State).Add(l.Payroll).Add(l.Penalties)
}

// Due returns the net amount owed after withholding and estimated payments.
// Negative values are refunds.
func (l Liability) Due() decimal.Decimal {
	return l.Total().Sub(l.TaxPaid)
}

// Settle computes the full-year liability at year end. The result is queued
// by the caller and paid as a cash outflow in the following year.
func (e *Engine) Settle(year int, fs domain.FilingStatus, ledger AnnualLedger, at time.Time) Liability {
	fed := e.Federal(Input{
		Year:           year,
		Date:           at,
		FilingStatus:   fs,
		OrdinaryIncome: ledger.OrdinaryIncome,
		CapitalGains:   ledger.CapitalGains,
		Deductions:     ledger.Deductions,
		TaxExempt:      ledger.TaxExempt,
		SSBenefits:     ledger.SSBenefits,
	})
	return Liability{
		Federal:      fed.OrdinaryTax,
		CapitalGains: fed.CapitalGainsTax,
		State:        e.StateTax(year, fs, fed.TaxableOrdinary),
		Payroll:      e.Payroll(year, fs, ledger.EarnedIncome, at),
		Penalties:    ledger.Penalties,
		TaxPaid:      ledger.TaxPaid,
	}
}

// MAGI approximates the modified adjusted gross income recorded for IRMAA
// lookback: ordinary income, capital gains, taxable benefits and tax-exempt
// interest.
func (e *Engine) MAGI(year int, fs domain.FilingStatus, ledger AnnualLedger, at time.Time) decimal.Decimal {
	taxableSS := e.TaxableSocialSecurity(Input{
		Year:           year,
		Date:           at,
		FilingStatus:   fs,
		OrdinaryIncome: ledger.OrdinaryIncome,
		CapitalGains:   ledger.CapitalGains,
		TaxExempt:      ledger.TaxExempt,
		SSBenefits:     ledger.SSBenefits,
	})
	return ledger.OrdinaryIncome.
		Add(ledger.CapitalGains).
		Add(ledger.TaxExempt).
		Add(taxableSS)
}

// EstimateWithholding returns the additional withholding to take this
// month: year-to-date earned income is annualized, the projected annual
// liability is accrued evenly across elapsed months, and the shortfall
// against tax already paid is withheld. monthsElapsed counts the current
// month (1-12).
func (e *Engine) EstimateWithholding(year int, fs domain.FilingStatus, monthsElapsed int, ledger AnnualLedger, at time.Time) decimal.Decimal {
	if monthsElapsed <= 0 || ledger.EarnedIncome.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	months := decimal.NewFromInt(int64(monthsElapsed))
	twelve := decimal.NewFromInt(12)

	annualized := ledger.EarnedIncome.Div(months).Mul(twelve)
	fed := e.Federal(Input{
		Year:           year,
		Date:           at,
		FilingStatus:   fs,
		OrdinaryIncome: annualized,
	})
	projected := fed.Total().
		Add(e.StateTax(year, fs, fed.TaxableOrdinary)).
		Add(e.Payroll(year, fs, annualized, at))

	target := projected.Mul(months).Div(twelve)
	due := target.Sub(ledger.TaxPaid)
	if due.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return due
}
