package tax

import (
	"time"

	"github.com/rgehrsitz/finsim/internal/domain"
	"github.com/rgehrsitz/finsim/internal/policy"
	"github.com/shopspring/decimal"
)

// Payroll computes FICA tax on annual earned income: Social Security tax up
// to the wage base, Medicare on all wages, plus the additional Medicare
// surtax above the filing-status threshold.
func (e *Engine) Payroll(year int, fs domain.FilingStatus, earned decimal.Decimal, at time.Time) decimal.Decimal {
	if earned.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	pol := e.Policies.PayrollPolicyFor(year)
	if pol == nil {
		return decimal.Zero
	}
	factor := policy.InflationFactor(e.Policies.InflationRate, pol.Year, at)

	ssBase := decimal.Min(earned, pol.SSWageBase.Mul(factor))
	tax := ssBase.Mul(pol.SSRate).Add(earned.Mul(pol.MedicareRate))

	threshold, ok := pol.AdditionalThresholds[fs]
	if ok {
		threshold = threshold.Mul(factor)
		if earned.GreaterThan(threshold) {
			tax = tax.Add(earned.Sub(threshold).Mul(pol.AdditionalRate))
		}
	}
	return tax
}

// ContributionLimit returns the annual cap for a holding tax type. Types
// without a configured limit are uncapped (nil).
func (e *Engine) ContributionLimit(year int, tt domain.TaxType, at time.Time) *decimal.Decimal {
	pol := e.Policies.ContributionLimitsFor(year)
	if pol == nil {
		return nil
	}
	limit, ok := pol.Limits[tt]
	if !ok {
		return nil
	}
	factor := policy.InflationFactor(e.Policies.InflationRate, pol.Year, at)
	adjusted := limit.Mul(factor)
	return &adjusted
}
