package policy

import (
	"testing"
	"time"

	"github.com/rgehrsitz/finsim/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaxPolicyLookup(t *testing.T) {
	s := &Set{
		Tax: []domain.TaxPolicy{
			{Year: 2030, FilingStatus: domain.FilingSingle},
			{Year: 2020, FilingStatus: domain.FilingSingle},
			{Year: 2025, FilingStatus: domain.FilingSingle},
		},
	}
	s.BuildIndex()

	tests := []struct {
		name     string
		year     int
		expected int
	}{
		{"exact match", 2025, 2025},
		{"between years takes the most recent prior", 2027, 2025},
		{"past the last year carries it forward", 2099, 2030},
		{"before the first year falls back to the earliest", 2010, 2020},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pol := s.TaxPolicyFor(tt.year, domain.FilingSingle)
			require.NotNil(t, pol)
			assert.Equal(t, tt.expected, pol.Year)
		})
	}

	assert.Nil(t, s.TaxPolicyFor(2025, domain.FilingMarriedJointly),
		"no table for this filing status")
}

func TestInflationFactor(t *testing.T) {
	rate := decimal.NewFromFloat(0.03)

	tests := []struct {
		name     string
		at       time.Time
		expected decimal.Decimal
	}{
		{
			name:     "same month is unadjusted",
			at:       time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
			expected: decimal.NewFromInt(1),
		},
		{
			name:     "earlier date is unadjusted",
			at:       time.Date(2020, time.June, 1, 0, 0, 0, 0, time.UTC),
			expected: decimal.NewFromInt(1),
		},
		{
			name:     "whole years compound",
			at:       time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC),
			expected: decimal.NewFromFloat(1.0609),
		},
		{
			name: "partial year interpolates linearly",
			at:   time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC),
			// six months: 1 + 0.03 * 6/12
			expected: decimal.NewFromFloat(1.015),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InflationFactor(rate, 2025, tt.at)
			assert.True(t, tt.expected.Equal(got), "want %s got %s", tt.expected, got)
		})
	}
}

func TestWageIndexExtrapolation(t *testing.T) {
	s := &Set{
		InflationRate: decimal.NewFromFloat(0.10),
		WageIndex: []domain.WageIndexEntry{
			{Year: 2020, Index: decimal.NewFromInt(50000)},
			{Year: 2022, Index: decimal.NewFromInt(60000)},
		},
	}
	s.BuildIndex()

	assert.True(t, decimal.NewFromInt(50000).Equal(s.WageIndexFor(2019)), "before the table")
	assert.True(t, decimal.NewFromInt(50000).Equal(s.WageIndexFor(2021)), "gap year carries forward")
	assert.True(t, decimal.NewFromInt(60000).Equal(s.WageIndexFor(2022)))
	assert.True(t, decimal.NewFromInt(66000).Equal(s.WageIndexFor(2023)), "extrapolated by inflation")
}

func TestDefaultSetCoversCoreTables(t *testing.T) {
	s := DefaultSet()
	assert.NotNil(t, s.TaxPolicyFor(2025, domain.FilingSingle))
	assert.NotNil(t, s.TaxPolicyFor(2025, domain.FilingMarriedJointly))
	assert.NotNil(t, s.SSTaxPolicyFor(2025, domain.FilingSingle))
	assert.NotNil(t, s.IRMAAPolicyFor(2025, domain.FilingSingle))
	assert.NotNil(t, s.RMDPolicyFor(2025))
	assert.NotNil(t, s.PayrollPolicyFor(2025))
	assert.NotNil(t, s.BendPointsFor(2025))
	assert.NotNil(t, s.ContributionLimitsFor(2025))
}
