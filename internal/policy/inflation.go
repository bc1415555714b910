package policy

import (
	"time"

	"github.com/rgehrsitz/finsim/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// InflationFactor returns the multiplicative adjustment from January of
// fromYear to the given date at the supplied annual rate. Whole years
// compound; the partial year is interpolated linearly by month.
func InflationFactor(rate decimal.Decimal, fromYear int, at time.Time) decimal.Decimal {
	from := time.Date(fromYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	months := dateutil.MonthsBetween(from, at)
	if months <= 0 {
		return decimal.NewFromInt(1)
	}
	years := months / 12
	rem := months % 12

	factor := decimal.NewFromInt(1).Add(rate).Pow(decimal.NewFromInt(int64(years)))
	if rem > 0 {
		partial := rate.Mul(decimal.NewFromInt(int64(rem))).Div(decimal.NewFromInt(12))
		factor = factor.Mul(decimal.NewFromInt(1).Add(partial))
	}
	return factor
}

// Inflate adjusts a table value from its as-of year to the given date.
func (s *Set) Inflate(value decimal.Decimal, fromYear int, at time.Time) decimal.Decimal {
	return value.Mul(InflationFactor(s.InflationRate, fromYear, at))
}
