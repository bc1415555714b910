package tax

import (
	"github.com/rgehrsitz/finsim/internal/policy"
	"github.com/shopspring/decimal"
)

var (
	half       = decimal.NewFromFloat(0.5)
	eightyFive = decimal.NewFromFloat(0.85)
)

// TaxableSocialSecurity returns the taxable portion of the benefits in the
// input, using the provisional-income thresholds for the year. Without a
// policy row the benefits are untaxed.
func (e *Engine) TaxableSocialSecurity(in Input) decimal.Decimal {
	if in.SSBenefits.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	pol := e.Policies.SSTaxPolicyFor(in.Year, in.FilingStatus)
	if pol == nil {
		return decimal.Zero
	}

	// Zero-threshold policy: 85% taxable from the first dollar.
	if pol.Base.IsZero() && pol.AdjustedBase.IsZero() {
		return in.SSBenefits.Mul(eightyFive)
	}

	provisional := decimal.Max(in.OrdinaryIncome, decimal.Zero).
		Add(decimal.Max(in.CapitalGains, decimal.Zero)).
		Add(decimal.Max(in.TaxExempt, decimal.Zero)).
		Add(in.SSBenefits.Mul(half))

	factor := policy.InflationFactor(e.Policies.InflationRate, pol.Year, in.Date)
	base := pol.Base.Mul(factor)
	adjusted := pol.AdjustedBase.Mul(factor)

	if provisional.LessThanOrEqual(base) {
		return decimal.Zero
	}
	halfBenefits := in.SSBenefits.Mul(half)
	if provisional.LessThanOrEqual(adjusted) {
		return decimal.Min(provisional.Sub(base).Mul(half), halfBenefits)
	}
	firstTier := decimal.Min(adjusted.Sub(base).Mul(half), halfBenefits)
	taxable := firstTier.Add(provisional.Sub(adjusted).Mul(eightyFive))
	return decimal.Min(taxable, in.SSBenefits.Mul(eightyFive))
}
