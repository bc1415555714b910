package tax

import (
	"testing"

	"github.com/rgehrsitz/finsim/internal/domain"
	"github.com/rgehrsitz/finsim/internal/policy"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRequiredMinimum(t *testing.T) {
	ps := &policy.Set{
		RMD: []domain.RMDPolicy{{
			Year:     2025,
			StartAge: 73,
			Table: []domain.RMDEntry{
				{Age: 73, Divisor: decimal.NewFromFloat(26.5)},
				{Age: 74, Divisor: decimal.NewFromFloat(25.5)},
				{Age: 75, Divisor: decimal.NewFromFloat(20.0)},
			},
		}},
	}
	ps.BuildIndex()
	e := NewEngine(ps, nil, nil)

	balance := decimal.NewFromInt(200000)

	tests := []struct {
		name     string
		age      int
		expected decimal.Decimal
	}{
		{"below the start age nothing is required", 60, decimal.Zero},
		{"just below the start age", 72, decimal.Zero},
		{"divisor applies at 75", 75, decimal.NewFromInt(10000)},
		{"ages past the table clamp to its last entry", 95, decimal.NewFromInt(10000)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.RequiredMinimum(2025, tt.age, balance)
			assert.True(t, tt.expected.Equal(got), "want %s got %s", tt.expected, got)
		})
	}
}

func TestRMDWithoutTable(t *testing.T) {
	e := NewEngine(&policy.Set{}, nil, nil)
	assert.True(t, e.RequiredMinimum(2025, 80, decimal.NewFromInt(100000)).IsZero())
	assert.Greater(t, e.RMDStartAge(2025), 120, "no table means RMDs never trigger")
}

func TestPayrollTax(t *testing.T) {
	e := newTestEngine()

	t.Run("below the wage base", func(t *testing.T) {
		got := e.Payroll(2025, domain.FilingSingle, decimal.NewFromInt(100000), asOf2025)
		// 6.2% SS + 1.45% Medicare on the full amount.
		want := decimal.NewFromFloat(7650)
		assert.True(t, want.Equal(got), "want %s got %s", want, got)
	})

	t.Run("SS portion caps at the wage base", func(t *testing.T) {
		got := e.Payroll(2025, domain.FilingSingle, decimal.NewFromInt(300000), asOf2025)
		ss := decimal.NewFromInt(176100).Mul(decimal.NewFromFloat(0.062))
		medicare := decimal.NewFromInt(300000).Mul(decimal.NewFromFloat(0.0145))
		additional := decimal.NewFromInt(100000).Mul(decimal.NewFromFloat(0.009))
		want := ss.Add(medicare).Add(additional)
		assert.True(t, want.Equal(got), "want %s got %s", want, got)
	})

	t.Run("no earned income no payroll tax", func(t *testing.T) {
		assert.True(t, e.Payroll(2025, domain.FilingSingle, decimal.Zero, asOf2025).IsZero())
	})
}
