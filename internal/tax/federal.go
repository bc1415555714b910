// Package tax implements the policy-table-driven tax computations: federal
// ordinary and capital-gains tax, Social Security taxability, IRMAA
// surcharges, RMD divisors, payroll tax, withholding estimation and the
// deferred year-end settlement.
//
// Every function is pure over its policy inputs. Missing policy data never
// aborts a run: it produces a zero-effect result, logged at warn level by
// the Engine so silent coverage gaps stay visible.
package tax

import (
	"time"

	"github.com/rgehrsitz/finsim/internal/domain"
	"github.com/rgehrsitz/finsim/internal/policy"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Engine binds the policy set and the state-tax collaborator.
type Engine struct {
	Policies     *policy.Set
	StateTax     StateTaxFunc
	CapitalGains bool // stack gains against CG brackets; otherwise taxed as ordinary

	log *zap.Logger
}

// NewEngine creates a tax engine. A nil logger disables diagnostics.
func NewEngine(ps *policy.Set, stateTax StateTaxFunc, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	if stateTax == nil {
		stateTax = func(int, domain.FilingStatus, decimal.Decimal) decimal.Decimal { return decimal.Zero }
	}
	return &Engine{Policies: ps, StateTax: stateTax, log: log}
}

// Input is the income picture a federal tax computation runs on.
type Input struct {
	Year         int
	Date         time.Time
	FilingStatus domain.FilingStatus

	OrdinaryIncome decimal.Decimal
	CapitalGains   decimal.Decimal
	Deductions     decimal.Decimal
	TaxExempt      decimal.Decimal
	SSBenefits     decimal.Decimal
}

// Result decomposes a federal tax computation.
type Result struct {
	TaxableSS       decimal.Decimal
	TaxableOrdinary decimal.Decimal
	OrdinaryTax     decimal.Decimal
	CapitalGainsTax decimal.Decimal
}

// Total returns ordinary plus capital-gains tax.
func (r Result) Total() decimal.Decimal {
	return r.OrdinaryTax.Add(r.CapitalGainsTax)
}

// stackTax runs income through a marginal bracket stack from zero. Bracket
// ceilings are scaled by factor before use.
func stackTax(brackets []domain.TaxBracket, factor, income decimal.Decimal) decimal.Decimal {
	if income.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	tax := decimal.Zero
	prior := decimal.Zero
	for _, b := range brackets {
		var width decimal.Decimal
		if b.Ceiling == nil {
			width = income.Sub(prior)
		} else {
			width = b.Ceiling.Mul(factor).Sub(prior)
		}
		if width.LessThanOrEqual(decimal.Zero) {
			continue
		}
		inBracket := decimal.Min(income.Sub(prior), width)
		if inBracket.LessThanOrEqual(decimal.Zero) {
			break
		}
		tax = tax.Add(inBracket.Mul(b.Rate))
		prior = prior.Add(width)
	}
	return tax
}

// Federal computes ordinary and capital-gains tax for the given income
// picture. Capital gains stack on top of ordinary income against the CG
// brackets when enabled; otherwise they are taxed as ordinary income.
func (e *Engine) Federal(in Input) Result {
	pol := e.Policies.TaxPolicyFor(in.Year, in.FilingStatus)
	if pol == nil {
		e.log.Warn("no federal tax policy, treating year as untaxed",
			zap.Int("year", in.Year), zap.String("filing_status", string(in.FilingStatus)))
		return Result{}
	}
	factor := policy.InflationFactor(e.Policies.InflationRate, pol.Year, in.Date)

	var res Result
	res.TaxableSS = e.TaxableSocialSecurity(in)

	taxable := in.OrdinaryIncome.
		Add(res.TaxableSS).
		Sub(in.Deductions).
		Sub(pol.StandardDeduction.Mul(factor))

	gains := in.CapitalGains
	useCGBrackets := e.CapitalGains && len(pol.CapitalGainsBrackets) > 0
	if !useCGBrackets && gains.GreaterThan(decimal.Zero) {
		taxable = taxable.Add(gains)
	}
	if taxable.LessThan(decimal.Zero) {
		taxable = decimal.Zero
	}
	res.TaxableOrdinary = taxable
	res.OrdinaryTax = stackTax(pol.Brackets, factor, taxable)

	if useCGBrackets && gains.GreaterThan(decimal.Zero) {
		// Gains fill CG brackets starting where ordinary income leaves off.
		withGains := stackTax(pol.CapitalGainsBrackets, factor, taxable.Add(gains))
		without := stackTax(pol.CapitalGainsBrackets, factor, taxable)
		res.CapitalGainsTax = withGains.Sub(without)
	}
	return res
}

// MarginalOrdinaryCeiling returns the inflated ceiling of the ordinary
// bracket with the given rate, or nil when no such bracket exists or the
// bracket is unbounded. Used by the conversion solver's bracket-fill target.
func (e *Engine) MarginalOrdinaryCeiling(year int, fs domain.FilingStatus, rate decimal.Decimal, at time.Time) *decimal.Decimal {
	pol := e.Policies.TaxPolicyFor(year, fs)
	if pol == nil {
		return nil
	}
	factor := policy.InflationFactor(e.Policies.InflationRate, pol.Year, at)
	for _, b := range pol.Brackets {
		if b.Rate.Equal(rate) {
			if b.Ceiling == nil {
				return nil
			}
			c := b.Ceiling.Mul(factor)
			return &c
		}
	}
	return nil
}
