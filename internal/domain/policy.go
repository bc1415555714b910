package domain

import "github.com/shopspring/decimal"

// TaxBracket is one rung of a marginal-rate stack. A nil Ceiling marks the
// unbounded top bracket.
type TaxBracket struct {
	Ceiling *decimal.Decimal `yaml:"ceiling"`
	Rate    decimal.Decimal  `yaml:"rate"`
}

// TaxPolicy is a federal tax table for one year and filing status.
type TaxPolicy struct {
	Year                 int             `yaml:"year"`
	FilingStatus         FilingStatus    `yaml:"filing_status"`
	StandardDeduction    decimal.Decimal `yaml:"standard_deduction"`
	Brackets             []TaxBracket    `yaml:"brackets"`
	CapitalGainsBrackets []TaxBracket    `yaml:"capital_gains_brackets"`
}

// SSTaxPolicy holds the provisional-income thresholds that govern how much
// of a Social Security benefit is taxable. A zero Base threshold taxes 85%
// of benefits unconditionally (married-filing-separately proxy).
type SSTaxPolicy struct {
	Year         int             `yaml:"year"`
	FilingStatus FilingStatus    `yaml:"filing_status"`
	Base         decimal.Decimal `yaml:"base"`
	AdjustedBase decimal.Decimal `yaml:"adjusted_base"`
}

// IRMAATier is one MAGI tier of the Medicare surcharge schedule. A nil
// Ceiling marks the top tier.
type IRMAATier struct {
	Ceiling *decimal.Decimal `yaml:"ceiling"`
	PartB   decimal.Decimal  `yaml:"part_b"`
	PartD   decimal.Decimal  `yaml:"part_d"`
}

// IRMAAPolicy is the IRMAA surcharge table for one year and filing status.
type IRMAAPolicy struct {
	Year          int             `yaml:"year"`
	FilingStatus  FilingStatus    `yaml:"filing_status"`
	LookbackYears int             `yaml:"lookback_years"`
	PartBBase     decimal.Decimal `yaml:"part_b_base"`
	Tiers         []IRMAATier     `yaml:"tiers"`
}

// RMDEntry maps an age to its RMD divisor.
type RMDEntry struct {
	Age     int             `yaml:"age"`
	Divisor decimal.Decimal `yaml:"divisor"`
}

// RMDPolicy is the required-minimum-distribution divisor table.
type RMDPolicy struct {
	Year     int        `yaml:"year"`
	StartAge int        `yaml:"start_age"`
	Table    []RMDEntry `yaml:"table"`
}

// PayrollPolicy holds FICA rates and thresholds for one year.
type PayrollPolicy struct {
	Year                 int                              `yaml:"year"`
	SSWageBase           decimal.Decimal                  `yaml:"ss_wage_base"`
	SSRate               decimal.Decimal                  `yaml:"ss_rate"`
	MedicareRate         decimal.Decimal                  `yaml:"medicare_rate"`
	AdditionalRate       decimal.Decimal                  `yaml:"additional_rate"`
	AdditionalThresholds map[FilingStatus]decimal.Decimal `yaml:"additional_thresholds"`
}

// WageIndexEntry is one year of the SSA average wage index.
type WageIndexEntry struct {
	Year  int             `yaml:"year"`
	Index decimal.Decimal `yaml:"index"`
}

// BendPointPolicy holds the SSA PIA bend points for a claim year.
type BendPointPolicy struct {
	Year   int             `yaml:"year"`
	First  decimal.Decimal `yaml:"first"`
	Second decimal.Decimal `yaml:"second"`
}

// ContributionLimitPolicy caps annual contributions per holding tax type.
type ContributionLimitPolicy struct {
	Year   int                         `yaml:"year"`
	Limits map[TaxType]decimal.Decimal `yaml:"limits"`
}
