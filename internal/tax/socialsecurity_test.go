package tax

import (
	"testing"

	"github.com/rgehrsitz/finsim/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTaxableSocialSecurityTiers(t *testing.T) {
	e := newTestEngine()

	tests := []struct {
		name     string
		ordinary int64
		benefits int64
		expected decimal.Decimal
	}{
		{
			name:     "provisional income below base is untaxed",
			ordinary: 10000, benefits: 10000, // provisional 15000 < 25000
			expected: decimal.Zero,
		},
		{
			name:     "middle tier taxes half the excess",
			ordinary: 24000, benefits: 10000, // provisional 29000
			expected: decimal.NewFromInt(2000), // 0.5 * (29000 - 25000)
		},
		{
			name:     "middle tier capped at half the benefits",
			ordinary: 33000, benefits: 1000, // provisional 33500, excess 8500
			expected: decimal.NewFromInt(500),
		},
		{
			name:     "top tier capped at 85 percent of benefits",
			ordinary: 50000, benefits: 20000, // provisional 60000
			expected: decimal.NewFromInt(17000),
		},
		{
			name:     "no benefits no taxable amount",
			ordinary: 50000, benefits: 0,
			expected: decimal.Zero,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.TaxableSocialSecurity(Input{
				Year:           2025,
				Date:           asOf2025,
				FilingStatus:   domain.FilingSingle,
				OrdinaryIncome: decimal.NewFromInt(tt.ordinary),
				SSBenefits:     decimal.NewFromInt(tt.benefits),
			})
			assert.True(t, tt.expected.Equal(got), "want %s got %s", tt.expected, got)
		})
	}
}

func TestTaxableSocialSecurityZeroThreshold(t *testing.T) {
	e := newTestEngine()

	// Married filing separately carries zero thresholds: 85% taxable from
	// the first dollar regardless of other income.
	got := e.TaxableSocialSecurity(Input{
		Year:         2025,
		Date:         asOf2025,
		FilingStatus: domain.FilingMarriedSeparately,
		SSBenefits:   decimal.NewFromInt(10000),
	})
	assert.True(t, decimal.NewFromInt(8500).Equal(got), "got %s", got)
}

func TestTaxableSocialSecurityIgnoresLosses(t *testing.T) {
	e := newTestEngine()

	// Negative capital gains must not shelter benefits from taxation.
	withLoss := e.TaxableSocialSecurity(Input{
		Year: 2025, Date: asOf2025, FilingStatus: domain.FilingSingle,
		OrdinaryIncome: decimal.NewFromInt(30000),
		CapitalGains:   decimal.NewFromInt(-50000),
		SSBenefits:     decimal.NewFromInt(10000),
	})
	withoutLoss := e.TaxableSocialSecurity(Input{
		Year: 2025, Date: asOf2025, FilingStatus: domain.FilingSingle,
		OrdinaryIncome: decimal.NewFromInt(30000),
		SSBenefits:     decimal.NewFromInt(10000),
	})
	assert.True(t, withoutLoss.Equal(withLoss))
}
