package tax

import (
	"time"

	"github.com/rgehrsitz/finsim/internal/domain"
	"github.com/rgehrsitz/finsim/internal/policy"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// IRMAALookback returns how many years back the surcharge looks for MAGI.
// Defaults to 2 when no table is configured.
func (e *Engine) IRMAALookback(year int, fs domain.FilingStatus) int {
	pol := e.Policies.IRMAAPolicyFor(year, fs)
	if pol == nil || pol.LookbackYears <= 0 {
		return 2
	}
	return pol.LookbackYears
}

// IRMAASurcharge returns the combined monthly Part B + Part D surcharge for
// the given lookback MAGI: the first tier whose ceiling is at or above MAGI
// applies; the nil-ceiling top tier catches everything else.
func (e *Engine) IRMAASurcharge(year int, fs domain.FilingStatus, magi decimal.Decimal, at time.Time) decimal.Decimal {
	pol := e.Policies.IRMAAPolicyFor(year, fs)
	if pol == nil || len(pol.Tiers) == 0 {
		e.log.Warn("no IRMAA policy, no surcharge applied",
			zap.Int("year", year), zap.String("filing_status", string(fs)))
		return decimal.Zero
	}
	factor := policy.InflationFactor(e.Policies.InflationRate, pol.Year, at)
	for _, tier := range pol.Tiers {
		if tier.Ceiling == nil || tier.Ceiling.Mul(factor).GreaterThanOrEqual(magi) {
			return tier.PartB.Add(tier.PartD)
		}
	}
	top := pol.Tiers[len(pol.Tiers)-1]
	return top.PartB.Add(top.PartD)
}

// MonthlyPartBPremium returns the inflated base Part B premium plus the
// IRMAA surcharge for the lookback MAGI.
func (e *Engine) MonthlyPartBPremium(year int, fs domain.FilingStatus, magi decimal.Decimal, at time.Time) decimal.Decimal {
	pol := e.Policies.IRMAAPolicyFor(year, fs)
	if pol == nil {
		return decimal.Zero
	}
	factor := policy.InflationFactor(e.Policies.InflationRate, pol.Year, at)
	return pol.PartBBase.Mul(factor).Add(e.IRMAASurcharge(year, fs, magi, at))
}

// IRMAAHeadroom returns the inflated ceiling of the lowest (no-surcharge)
// tier, or nil when no bounded first tier exists. The conversion solver
// uses it as a MAGI ceiling.
func (e *Engine) IRMAAHeadroom(year int, fs domain.FilingStatus, at time.Time) *decimal.Decimal {
	pol := e.Policies.IRMAAPolicyFor(year, fs)
	if pol == nil || len(pol.Tiers) == 0 || pol.Tiers[0].Ceiling == nil {
		return nil
	}
	factor := policy.InflationFactor(e.Policies.InflationRate, pol.Year, at)
	c := pol.Tiers[0].Ceiling.Mul(factor)
	return &c
}
