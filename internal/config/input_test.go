package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rgehrsitz/finsim/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validScenario = `
scenario:
  id: drawdown
  household:
    birth_date: 1960-01-10T00:00:00Z
    filing_status: single
  cash_accounts:
    - id: checking
      balance: 25000
  holdings:
    - id: brokerage
      tax_type: taxable
      asset: stocks
      balance: 400000
      lots:
        - date: 2015-06-01T00:00:00Z
          amount: 250000
    - id: ira
      tax_type: traditional
      asset: stocks
      balance: 600000
  strategy:
    withdrawal:
      order: [taxable, roth_basis, traditional]
    spending:
      monthly: 6000
      inflate: true
    cash_buffer:
      floor: 15000
      ceiling: 40000
      sweep_to: brokerage
  settings:
    start_date: 2025-01-01T00:00:00Z
    months: 360
    inflation_rate: 0.025
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	p := NewParser(nil)
	in, err := p.LoadFromFile(writeScenario(t, validScenario))
	require.NoError(t, err)

	assert.Equal(t, "drawdown", in.Scenario.ID)
	assert.Equal(t, domain.FilingSingle, in.Scenario.Household.FilingStatus)
	assert.Equal(t, 360, in.Scenario.Settings.Months)
	assert.Len(t, in.Scenario.Holdings, 2)
	assert.True(t, decimal.NewFromInt(6000).Equal(in.Scenario.Strategy.Spending.Monthly))
	assert.Equal(t,
		[]domain.TaxType{domain.TaxTypeTaxable, domain.TaxTypeRothBasis, domain.TaxTypeTraditional},
		in.Scenario.Strategy.Withdrawal.Order)

	require.NotNil(t, in.Policies, "omitted tables fall back to defaults")
	assert.NotNil(t, in.Policies.TaxPolicyFor(2025, domain.FilingSingle))
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := NewParser(nil).LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidateRejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Input)
	}{
		{"zero months", func(in *Input) { in.Scenario.Settings.Months = 0 }},
		{"missing birth date", func(in *Input) { in.Scenario.Household.BirthDate = time.Time{} }},
		{"no cash account", func(in *Input) { in.Scenario.CashAccounts = nil }},
		{"duplicate holding id", func(in *Input) {
			in.Scenario.Holdings = append(in.Scenario.Holdings, in.Scenario.Holdings[0])
		}},
		{"unknown holding tax type", func(in *Input) {
			in.Scenario.Holdings[0].TaxType = "ttsp"
		}},
		{"roth_basis is not a holding type", func(in *Input) {
			in.Scenario.Holdings[0].TaxType = domain.TaxTypeRothBasis
		}},
		{"basis above balance", func(in *Input) {
			in.Scenario.Holdings[0].Lots[0].Amount = decimal.NewFromInt(999999)
		}},
		{"unknown order entry", func(in *Input) {
			in.Scenario.Strategy.Withdrawal.Order = []domain.TaxType{"pension"}
		}},
		{"sweep target not found", func(in *Input) {
			in.Scenario.Strategy.CashBuffer.SweepTo = "nope"
		}},
		{"ceiling below floor", func(in *Input) {
			in.Scenario.Strategy.CashBuffer.Ceiling = decimal.NewFromInt(1)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParser(nil)
			in, err := p.LoadFromFile(writeScenario(t, validScenario))
			require.NoError(t, err)

			tt.mutate(in)
			assert.Error(t, p.Validate(in))
		})
	}
}

func TestValidateConversionReferences(t *testing.T) {
	p := NewParser(nil)
	in, err := p.LoadFromFile(writeScenario(t, validScenario))
	require.NoError(t, err)

	in.Scenario.Strategy.Conversion = &domain.ConversionConfig{
		TargetBracketRate: decimal.NewFromFloat(0.22),
		SourceHolding:     "ira",
		TargetHolding:     "missing-roth",
	}
	assert.Error(t, p.Validate(in))

	in.Scenario.Holdings = append(in.Scenario.Holdings, domain.Holding{
		ID: "roth", TaxType: domain.TaxTypeRoth, Asset: domain.AssetStocks,
	})
	in.Scenario.Strategy.Conversion.TargetHolding = "roth"
	assert.NoError(t, p.Validate(in))
}
