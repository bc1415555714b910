package policy

import (
	"github.com/rgehrsitz/finsim/internal/domain"
	"github.com/shopspring/decimal"
)

func ceiling(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

// DefaultSet returns a policy set seeded with 2025 tables. Scenario files
// may override any table; these defaults keep a minimal snapshot runnable,
// mirroring the published 2025 figures.
func DefaultSet() *Set {
	s := &Set{
		InflationRate: decimal.NewFromFloat(0.025),
		Tax: []domain.TaxPolicy{
			{
				Year:              2025,
				FilingStatus:      domain.FilingSingle,
				StandardDeduction: decimal.NewFromInt(15000),
				Brackets: []domain.TaxBracket{
					{Ceiling: ceiling(11925), Rate: decimal.NewFromFloat(0.10)},
					{Ceiling: ceiling(48475), Rate: decimal.NewFromFloat(0.12)},
					{Ceiling: ceiling(103350), Rate: decimal.NewFromFloat(0.22)},
					{Ceiling: ceiling(197300), Rate: decimal.NewFromFloat(0.24)},
					{Ceiling: ceiling(250525), Rate: decimal.NewFromFloat(0.32)},
					{Ceiling: ceiling(626350), Rate: decimal.NewFromFloat(0.35)},
					{Ceiling: nil, Rate: decimal.NewFromFloat(0.37)},
				},
				CapitalGainsBrackets: []domain.TaxBracket{
					{Ceiling: ceiling(48350), Rate: decimal.Zero},
					{Ceiling: ceiling(533400), Rate: decimal.NewFromFloat(0.15)},
					{Ceiling: nil, Rate: decimal.NewFromFloat(0.20)},
				},
			},
			{
				Year:              2025,
				FilingStatus:      domain.FilingMarriedJointly,
				StandardDeduction: decimal.NewFromInt(30000),
				Brackets: []domain.TaxBracket{
					{Ceiling: ceiling(23850), Rate: decimal.NewFromFloat(0.10)},
					{Ceiling: ceiling(96950), Rate: decimal.NewFromFloat(0.12)},
					{Ceiling: ceiling(206700), Rate: decimal.NewFromFloat(0.22)},
					{Ceiling: ceiling(394600), Rate: decimal.NewFromFloat(0.24)},
					{Ceiling: ceiling(501050), Rate: decimal.NewFromFloat(0.32)},
					{Ceiling: ceiling(751600), Rate: decimal.NewFromFloat(0.35)},
					{Ceiling: nil, Rate: decimal.NewFromFloat(0.37)},
				},
				CapitalGainsBrackets: []domain.TaxBracket{
					{Ceiling: ceiling(96700), Rate: decimal.Zero},
					{Ceiling: ceiling(600050), Rate: decimal.NewFromFloat(0.15)},
					{Ceiling: nil, Rate: decimal.NewFromFloat(0.20)},
				},
			},
		},
		SSTax: []domain.SSTaxPolicy{
			{Year: 2025, FilingStatus: domain.FilingSingle, Base: decimal.NewFromInt(25000), AdjustedBase: decimal.NewFromInt(34000)},
			{Year: 2025, FilingStatus: domain.FilingMarriedJointly, Base: decimal.NewFromInt(32000), AdjustedBase: decimal.NewFromInt(44000)},
			// Married filing separately living with spouse: 85% taxable from
			// the first dollar.
			{Year: 2025, FilingStatus: domain.FilingMarriedSeparately, Base: decimal.Zero, AdjustedBase: decimal.Zero},
		},
		IRMAA: []domain.IRMAAPolicy{
			{
				Year:          2025,
				FilingStatus:  domain.FilingSingle,
				LookbackYears: 2,
				PartBBase:     decimal.NewFromFloat(185.00),
				Tiers: []domain.IRMAATier{
					{Ceiling: ceiling(106000), PartB: decimal.Zero, PartD: decimal.Zero},
					{Ceiling: ceiling(133000), PartB: decimal.NewFromFloat(74.00), PartD: decimal.NewFromFloat(13.70)},
					{Ceiling: ceiling(167000), PartB: decimal.NewFromFloat(185.00), PartD: decimal.NewFromFloat(35.30)},
					{Ceiling: ceiling(200000), PartB: decimal.NewFromFloat(295.90), PartD: decimal.NewFromFloat(57.00)},
					{Ceiling: ceiling(500000), PartB: decimal.NewFromFloat(406.90), PartD: decimal.NewFromFloat(78.60)},
					{Ceiling: nil, PartB: decimal.NewFromFloat(443.90), PartD: decimal.NewFromFloat(85.80)},
				},
			},
			{
				Year:          2025,
				FilingStatus:  domain.FilingMarriedJointly,
				LookbackYears: 2,
				PartBBase:     decimal.NewFromFloat(185.00),
				Tiers: []domain.IRMAATier{
					{Ceiling: ceiling(212000), PartB: decimal.Zero, PartD: decimal.Zero},
					{Ceiling: ceiling(266000), PartB: decimal.NewFromFloat(74.00), PartD: decimal.NewFromFloat(13.70)},
					{Ceiling: ceiling(334000), PartB: decimal.NewFromFloat(185.00), PartD: decimal.NewFromFloat(35.30)},
					{Ceiling: ceiling(400000), PartB: decimal.NewFromFloat(295.90), PartD: decimal.NewFromFloat(57.00)},
					{Ceiling: ceiling(750000), PartB: decimal.NewFromFloat(406.90), PartD: decimal.NewFromFloat(78.60)},
					{Ceiling: nil, PartB: decimal.NewFromFloat(443.90), PartD: decimal.NewFromFloat(85.80)},
				},
			},
		},
		RMD: []domain.RMDPolicy{
			{
				Year:     2025,
				StartAge: 73,
				Table: []domain.RMDEntry{
					{Age: 73, Divisor: decimal.NewFromFloat(26.5)},
					{Age: 74, Divisor: decimal.NewFromFloat(25.5)},
					{Age: 75, Divisor: decimal.NewFromFloat(24.6)},
					{Age: 76, Divisor: decimal.NewFromFloat(23.7)},
					{Age: 77, Divisor: decimal.NewFromFloat(22.9)},
					{Age: 78, Divisor: decimal.NewFromFloat(22.0)},
					{Age: 79, Divisor: decimal.NewFromFloat(21.1)},
					{Age: 80, Divisor: decimal.NewFromFloat(20.2)},
					{Age: 81, Divisor: decimal.NewFromFloat(19.4)},
					{Age: 82, Divisor: decimal.NewFromFloat(18.5)},
					{Age: 83, Divisor: decimal.NewFromFloat(17.7)},
					{Age: 84, Divisor: decimal.NewFromFloat(16.8)},
					{Age: 85, Divisor: decimal.NewFromFloat(16.0)},
					{Age: 86, Divisor: decimal.NewFromFloat(15.2)},
					{Age: 87, Divisor: decimal.NewFromFloat(14.4)},
					{Age: 88, Divisor: decimal.NewFromFloat(13.7)},
					{Age: 89, Divisor: decimal.NewFromFloat(12.9)},
					{Age: 90, Divisor: decimal.NewFromFloat(12.2)},
					{Age: 91, Divisor: decimal.NewFromFloat(11.5)},
					{Age: 92, Divisor: decimal.NewFromFloat(10.8)},
					{Age: 93, Divisor: decimal.NewFromFloat(10.1)},
					{Age: 94, Divisor: decimal.NewFromFloat(9.5)},
					{Age: 95, Divisor: decimal.NewFromFloat(8.9)},
					{Age: 96, Divisor: decimal.NewFromFloat(8.4)},
					{Age: 97, Divisor: decimal.NewFromFloat(7.8)},
					{Age: 98, Divisor: decimal.NewFromFloat(7.3)},
					{Age: 99, Divisor: decimal.NewFromFloat(6.8)},
					{Age: 100, Divisor: decimal.NewFromFloat(6.4)},
				},
			},
		},
		Payroll: []domain.PayrollPolicy{
			{
				Year:           2025,
				SSWageBase:     decimal.NewFromInt(176100),
				SSRate:         decimal.NewFromFloat(0.062),
				MedicareRate:   decimal.NewFromFloat(0.0145),
				AdditionalRate: decimal.NewFromFloat(0.009),
				AdditionalThresholds: map[domain.FilingStatus]decimal.Decimal{
					domain.FilingSingle:            decimal.NewFromInt(200000),
					domain.FilingMarriedJointly:    decimal.NewFromInt(250000),
					domain.FilingMarriedSeparately: decimal.NewFromInt(125000),
					domain.FilingHeadOfHousehold:   decimal.NewFromInt(200000),
				},
			},
		},
		WageIndex: []domain.WageIndexEntry{
			{Year: 2018, Index: decimal.NewFromFloat(52145.80)},
			{Year: 2019, Index: decimal.NewFromFloat(54099.99)},
			{Year: 2020, Index: decimal.NewFromFloat(55628.60)},
			{Year: 2021, Index: decimal.NewFromFloat(60575.07)},
			{Year: 2022, Index: decimal.NewFromFloat(63795.13)},
			{Year: 2023, Index: decimal.NewFromFloat(66621.80)},
		},
		BendPoints: []domain.BendPointPolicy{
			{Year: 2025, First: decimal.NewFromInt(1226), Second: decimal.NewFromInt(7391)},
		},
		ContributionLimits: []domain.ContributionLimitPolicy{
			{
				Year: 2025,
				Limits: map[domain.TaxType]decimal.Decimal{
					domain.TaxTypeTraditional: decimal.NewFromInt(23500),
					domain.TaxTypeRoth:        decimal.NewFromInt(7000),
					domain.TaxTypeHSA:         decimal.NewFromInt(4300),
				},
			},
		},
	}
	s.BuildIndex()
	return s
}
