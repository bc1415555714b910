// Package ssa estimates the lifetime Social Security benefit at a claim
// date from recorded and projected earnings: wage indexing, top-35 AIME,
// the bend-point PIA formula and the claim-age adjustment.
package ssa

import (
	"sort"
	"time"

	"github.com/rgehrsitz/finsim/internal/domain"
	"github.com/rgehrsitz/finsim/internal/policy"
	"github.com/rgehrsitz/finsim/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// topYears is how many indexed earning years enter the AIME average.
const topYears = 35

// Estimator computes benefit estimates against a policy set.
type Estimator struct {
	Policies *policy.Set
}

// NewEstimator creates a benefit estimator.
func NewEstimator(ps *policy.Set) *Estimator {
	return &Estimator{Policies: ps}
}

type yearEarnings struct {
	year    int
	amount  decimal.Decimal
	months  int
	indexed decimal.Decimal
}

// MonthlyBenefit estimates the monthly benefit payable from the claim date
// for the given household.
func (e *Estimator) MonthlyBenefit(h domain.Household, claimDate time.Time) decimal.Decimal {
	earnings := e.buildEarnings(h, claimDate)
	aime := e.computeAIME(earnings, claimDate.Year())
	pia := e.PIA(aime, claimDate.Year())
	return e.AdjustForClaimAge(pia, h.BirthDate, claimDate)
}

// buildEarnings merges the recorded history with projected work periods,
// pro-rating projected years by months worked net of pre-tax deductions.
func (e *Estimator) buildEarnings(h domain.Household, claimDate time.Time) []yearEarnings {
	byYear := map[int]*yearEarnings{}
	for _, rec := range h.EarningsHistory {
		if rec.Year >= claimDate.Year() {
			continue
		}
		byYear[rec.Year] = &yearEarnings{year: rec.Year, amount: rec.Amount, months: 12}
	}
	for _, wp := range h.WorkPeriods {
		if wp.End.Before(wp.Start) {
			continue // malformed period: condition not met
		}
		monthly := wp.AnnualSalary.Sub(wp.PreTaxDeductions).Div(decimal.NewFromInt(12))
		if monthly.LessThan(decimal.Zero) {
			monthly = decimal.Zero
		}
		for year := wp.Start.Year(); year <= wp.End.Year() && year < claimDate.Year(); year++ {
			months := monthsWorkedInYear(wp, year)
			if months == 0 {
				continue
			}
			ye, ok := byYear[year]
			if !ok {
				ye = &yearEarnings{year: year}
				byYear[year] = ye
			}
			ye.amount = ye.amount.Add(monthly.Mul(decimal.NewFromInt(int64(months))))
			if ye.months < 12 {
				ye.months += months
				if ye.months > 12 {
					ye.months = 12
				}
			}
		}
	}
	out := make([]yearEarnings, 0, len(byYear))
	for _, ye := range byYear {
		out = append(out, *ye)
	}
	return out
}

func monthsWorkedInYear(wp domain.WorkPeriod, year int) int {
	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := time.Date(year, time.December, 1, 0, 0, 0, 0, time.UTC)
	start := dateutil.MonthStart(wp.Start)
	end := dateutil.MonthStart(wp.End)
	if start.Before(yearStart) {
		start = yearStart
	}
	if end.After(yearEnd) {
		end = yearEnd
	}
	if end.Before(start) {
		return 0
	}
	return dateutil.MonthsBetween(start, end) + 1
}

// computeAIME wage-indexes each year to the claim year, keeps the top 35
// indexed years and divides by the months those years contribute.
func (e *Estimator) computeAIME(earnings []yearEarnings, claimYear int) decimal.Decimal {
	if len(earnings) == 0 {
		return decimal.Zero
	}
	claimIndex := e.Policies.WageIndexFor(claimYear)
	for i := range earnings {
		yearIndex := e.Policies.WageIndexFor(earnings[i].year)
		if yearIndex.LessThanOrEqual(decimal.Zero) {
			earnings[i].indexed = earnings[i].amount
			continue
		}
		earnings[i].indexed = earnings[i].amount.Mul(claimIndex).Div(yearIndex)
	}
	sort.Slice(earnings, func(i, j int) bool {
		return earnings[i].indexed.GreaterThan(earnings[j].indexed)
	})
	if len(earnings) > topYears {
		earnings = earnings[:topYears]
	}
	total := decimal.Zero
	months := 0
	for _, ye := range earnings {
		total = total.Add(ye.indexed)
		months += ye.months
	}
	if months == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(months)))
}

// PIA applies the three-band bend-point formula (90%/32%/15%) for the
// claim year. Bend points beyond the table's range are inflated forward.
func (e *Estimator) PIA(aime decimal.Decimal, claimYear int) decimal.Decimal {
	if aime.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	pol := e.Policies.BendPointsFor(claimYear)
	if pol == nil {
		return decimal.Zero
	}
	at := time.Date(claimYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	first := e.Policies.Inflate(pol.First, pol.Year, at)
	second := e.Policies.Inflate(pol.Second, pol.Year, at)

	pia := decimal.Min(aime, first).Mul(decimal.NewFromFloat(0.90))
	if aime.GreaterThan(first) {
		band := decimal.Min(aime, second).Sub(first)
		pia = pia.Add(band.Mul(decimal.NewFromFloat(0.32)))
	}
	if aime.GreaterThan(second) {
		pia = pia.Add(aime.Sub(second).Mul(decimal.NewFromFloat(0.15)))
	}
	return pia
}

// NormalRetirementAgeMonths returns the normal retirement age in months for
// a birth year cohort.
func NormalRetirementAgeMonths(birthYear int) int {
	switch {
	case birthYear <= 1937:
		return 65 * 12
	case birthYear <= 1942:
		return 65*12 + 2*(birthYear-1937)
	case birthYear <= 1954:
		return 66 * 12
	case birthYear <= 1959:
		return 66*12 + 2*(birthYear-1954)
	default:
		return 67 * 12
	}
}

// AdjustForClaimAge applies the early-claiming reduction (5/9% per month
// for the first 36 months, 5/12% beyond) or the delayed retirement credit
// (8% per year, pro-rated monthly, capped at age 70).
func (e *Estimator) AdjustForClaimAge(pia decimal.Decimal, birthDate time.Time, claimDate time.Time) decimal.Decimal {
	if pia.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	claimMonths := dateutil.AgeInMonths(birthDate, claimDate)
	nraMonths := NormalRetirementAgeMonths(birthDate.Year())

	if claimMonths < nraMonths {
		early := nraMonths - claimMonths
		firstBand := early
		if firstBand > 36 {
			firstBand = 36
		}
		reduction := decimal.NewFromInt(int64(firstBand)).Mul(decimal.NewFromFloat(5.0 / 9.0 / 100.0))
		if early > 36 {
			reduction = reduction.Add(decimal.NewFromInt(int64(early - 36)).Mul(decimal.NewFromFloat(5.0 / 12.0 / 100.0)))
		}
		return pia.Mul(decimal.NewFromInt(1).Sub(reduction))
	}

	late := claimMonths - nraMonths
	if max := 70*12 - nraMonths; late > max {
		late = max
	}
	if late <= 0 {
		return pia
	}
	credit := decimal.NewFromInt(int64(late)).Mul(decimal.NewFromFloat(0.08 / 12.0))
	return pia.Mul(decimal.NewFromInt(1).Add(credit))
}
