// Package dateutil provides calendar arithmetic for the monthly simulation
// clock. All dates are normalized to the first of the month in UTC.
package dateutil

import "time"

// MonthStart returns the first day of t's month at midnight UTC.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// AddMonths returns the month-start date n months after t.
func AddMonths(t time.Time, n int) time.Time {
	return MonthStart(t).AddDate(0, n, 0)
}

// MonthsBetween returns the number of whole calendar months from a to b.
// Negative when b precedes a.
func MonthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

// AgeInMonths returns the age in whole months at the given date.
func AgeInMonths(birthDate, at time.Time) int {
	months := MonthsBetween(birthDate, at)
	if at.Day() < birthDate.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

// AgeInYears returns the age in whole years at the given date.
func AgeInYears(birthDate, at time.Time) int {
	return AgeInMonths(birthDate, at) / 12
}

// IsYearStart reports whether t is the first month of a calendar year.
func IsYearStart(t time.Time) bool {
	return t.Month() == time.January
}

// IsYearEnd reports whether t is the last month of a calendar year.
func IsYearEnd(t time.Time) bool {
	return t.Month() == time.December
}
