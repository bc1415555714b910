package tax

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RMDStartAge returns the age from which required minimum distributions
// apply. Without a table RMDs never trigger.
func (e *Engine) RMDStartAge(year int) int {
	pol := e.Policies.RMDPolicyFor(year)
	if pol == nil {
		return int(^uint(0) >> 1) // effectively never
	}
	return pol.StartAge
}

// RMDDivisor returns the divisor for a floored age, clamping ages past the
// table's last entry to that entry. Below the start age, or without a
// table, the divisor is zero (no distribution required).
func (e *Engine) RMDDivisor(year, age int) decimal.Decimal {
	pol := e.Policies.RMDPolicyFor(year)
	if pol == nil || len(pol.Table) == 0 {
		e.log.Warn("no RMD policy, no distribution required", zap.Int("year", year))
		return decimal.Zero
	}
	if age < pol.StartAge {
		return decimal.Zero
	}
	last := pol.Table[len(pol.Table)-1]
	if age >= last.Age {
		return last.Divisor
	}
	for _, entry := range pol.Table {
		if entry.Age == age {
			return entry.Divisor
		}
	}
	return decimal.Zero
}

// RequiredMinimum returns balance / divisor, or zero when no distribution
// is required at this age.
func (e *Engine) RequiredMinimum(year, age int, balance decimal.Decimal) decimal.Decimal {
	divisor := e.RMDDivisor(year, age)
	if divisor.LessThanOrEqual(decimal.Zero) || balance.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return balance.Div(divisor)
}
