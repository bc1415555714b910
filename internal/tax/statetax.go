package tax

import (
	"github.com/rgehrsitz/finsim/internal/domain"
	"github.com/shopspring/decimal"
)

// StateTaxFunc is the opaque state-tax collaborator: taxable income for a
// year and filing status in, state tax out. Its internals are supplied by
// the caller.
type StateTaxFunc func(year int, fs domain.FilingStatus, taxableIncome decimal.Decimal) decimal.Decimal

// FlatStateTax returns a StateTaxFunc applying a single flat rate, the
// default when a scenario only configures a rate.
func FlatStateTax(rate decimal.Decimal) StateTaxFunc {
	return func(_ int, _ domain.FilingStatus, taxable decimal.Decimal) decimal.Decimal {
		if taxable.LessThanOrEqual(decimal.Zero) {
			return decimal.Zero
		}
		return taxable.Mul(rate)
	}
}
