package sequencing

import (
	"testing"
	"time"

	"github.com/rgehrsitz/finsim/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func retiredContext() Context {
	return Context{
		Date:      time.Date(2030, time.June, 1, 0, 0, 0, 0, time.UTC),
		AgeMonths: 65 * 12,
	}
}

func sampleHoldings() []domain.Holding {
	return []domain.Holding{
		{
			ID: "brokerage", TaxType: domain.TaxTypeTaxable, Balance: dec(100),
			Lots: []domain.CostBasisLot{{Date: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), Amount: dec(60)}},
		},
		{
			ID: "roth", TaxType: domain.TaxTypeRoth, Balance: dec(200),
			Lots: []domain.CostBasisLot{{Date: time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC), Amount: dec(120)}},
		},
		{ID: "ira", TaxType: domain.TaxTypeTraditional, Balance: dec(500)},
	}
}

func TestAllocateFollowsConfiguredOrder(t *testing.T) {
	p := NewPolicy([]domain.TaxType{domain.TaxTypeTaxable, domain.TaxTypeRothBasis, domain.TaxTypeTraditional})
	ctx := retiredContext()

	tests := []struct {
		name     string
		need     decimal.Decimal
		expected []Draw
	}{
		{
			name: "taxable then seasoned basis",
			need: dec(220),
			expected: []Draw{
				{HoldingID: "brokerage", TaxType: domain.TaxTypeTaxable, Amount: dec(100)},
				{HoldingID: "roth", TaxType: domain.TaxTypeRothBasis, Amount: dec(120)},
			},
		},
		{
			name: "overflow reaches traditional",
			need: dec(250),
			expected: []Draw{
				{HoldingID: "brokerage", TaxType: domain.TaxTypeTaxable, Amount: dec(100)},
				{HoldingID: "roth", TaxType: domain.TaxTypeRothBasis, Amount: dec(120)},
				{HoldingID: "ira", TaxType: domain.TaxTypeTraditional, Amount: dec(30)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draws := Allocate(p.Sequence(sampleHoldings(), ctx), tt.need)
			require.Len(t, draws, len(tt.expected))
			for i, want := range tt.expected {
				assert.Equal(t, want.HoldingID, draws[i].HoldingID)
				assert.Equal(t, want.TaxType, draws[i].TaxType)
				assert.True(t, want.Amount.Equal(draws[i].Amount),
					"draw %d: want %s got %s", i, want.Amount, draws[i].Amount)
			}
		})
	}
}

func TestSequenceSkipsUnseasonedBasis(t *testing.T) {
	p := NewPolicy([]domain.TaxType{domain.TaxTypeRothBasis})
	ctx := retiredContext()
	holdings := []domain.Holding{
		{
			ID: "roth", TaxType: domain.TaxTypeRoth, Balance: dec(200),
			// Contributed 13 months ago: below the 60-month seasoning bar.
			Lots: []domain.CostBasisLot{{Date: time.Date(2029, time.May, 1, 0, 0, 0, 0, time.UTC), Amount: dec(120)}},
		},
	}
	assert.Empty(t, p.Sequence(holdings, ctx))
}

func TestPenaltyFilteringBeforeFiftyNineAndAHalf(t *testing.T) {
	holdings := sampleHoldings()
	order := []domain.TaxType{domain.TaxTypeTraditional, domain.TaxTypeTaxable, domain.TaxTypeRoth}
	p := NewPolicy(order)

	young := Context{Date: retiredContext().Date, AgeMonths: 55 * 12}

	t.Run("penalized types demoted to last resort", func(t *testing.T) {
		candidates := p.Sequence(holdings, young)
		require.Len(t, candidates, 3)
		assert.Equal(t, "brokerage", candidates[0].HoldingID)
		assert.Equal(t, domain.TaxTypeTraditional, candidates[1].TaxType)
		assert.Equal(t, domain.TaxTypeRoth, candidates[2].TaxType)
	})

	t.Run("tolerated penalties keep the configured order", func(t *testing.T) {
		tolerant := young
		tolerant.AllowEarlyPenalty = true
		candidates := p.Sequence(holdings, tolerant)
		require.Len(t, candidates, 3)
		assert.Equal(t, domain.TaxTypeTraditional, candidates[0].TaxType)
		assert.Equal(t, "brokerage", candidates[1].HoldingID)
		assert.Equal(t, domain.TaxTypeRoth, candidates[2].TaxType)
	})

	t.Run("72t election unblocks traditional", func(t *testing.T) {
		elected := young
		elected.Election72t = true
		candidates := p.Sequence(holdings, elected)
		require.NotEmpty(t, candidates)
		assert.Equal(t, domain.TaxTypeTraditional, candidates[0].TaxType)
	})
}

func TestAllocateFallsThroughToPenalizedSources(t *testing.T) {
	// At 50 with penalties disallowed, the need is covered from taxable and
	// seasoned Roth basis first; only the remainder touches a penalized
	// type, in its configured relative order.
	holdings := []domain.Holding{
		{
			ID: "brokerage", TaxType: domain.TaxTypeTaxable, Balance: dec(100),
			Lots: []domain.CostBasisLot{{Date: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), Amount: dec(100)}},
		},
		{
			ID: "roth", TaxType: domain.TaxTypeRoth, Balance: dec(200),
			Lots: []domain.CostBasisLot{{Date: time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC), Amount: dec(120)}},
		},
		{ID: "hsa", TaxType: domain.TaxTypeHSA, Balance: dec(100)},
		{ID: "ira", TaxType: domain.TaxTypeTraditional, Balance: dec(100)},
	}
	p := NewPolicy([]domain.TaxType{
		domain.TaxTypeTaxable,
		domain.TaxTypeTraditional,
		domain.TaxTypeRoth,
		domain.TaxTypeHSA,
		domain.TaxTypeRothBasis,
	})
	ctx := Context{Date: retiredContext().Date, AgeMonths: 50 * 12}

	tests := []struct {
		name     string
		need     decimal.Decimal
		expected []Draw
	}{
		{
			name: "unpenalized sources cover the need",
			need: dec(220),
			expected: []Draw{
				{HoldingID: "brokerage", TaxType: domain.TaxTypeTaxable, Amount: dec(100)},
				{HoldingID: "roth", TaxType: domain.TaxTypeRothBasis, Amount: dec(120)},
			},
		},
		{
			name: "remainder falls through to traditional",
			need: dec(250),
			expected: []Draw{
				{HoldingID: "brokerage", TaxType: domain.TaxTypeTaxable, Amount: dec(100)},
				{HoldingID: "roth", TaxType: domain.TaxTypeRothBasis, Amount: dec(120)},
				{HoldingID: "ira", TaxType: domain.TaxTypeTraditional, Amount: dec(30)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draws := Allocate(p.Sequence(holdings, ctx), tt.need)
			require.Len(t, draws, len(tt.expected))
			for i, want := range tt.expected {
				assert.Equal(t, want.HoldingID, draws[i].HoldingID)
				assert.Equal(t, want.TaxType, draws[i].TaxType)
				assert.True(t, want.Amount.Equal(draws[i].Amount),
					"draw %d: want %s got %s", i, want.Amount, draws[i].Amount)
			}
		})
	}
}

func TestHarvestPromotionMovesTaxableFirst(t *testing.T) {
	p := NewPolicy([]domain.TaxType{domain.TaxTypeTraditional, domain.TaxTypeTaxable})
	ctx := retiredContext()
	ctx.HarvestMode = domain.HarvestGains
	ctx.HarvestTarget = dec(50)
	ctx.RealizedGainsYTD = dec(10)

	candidates := p.Sequence(sampleHoldings(), ctx)
	require.NotEmpty(t, candidates)
	assert.Equal(t, domain.TaxTypeTaxable, candidates[0].TaxType)

	// Once the target is met the configured order returns.
	ctx.RealizedGainsYTD = dec(50)
	candidates = p.Sequence(sampleHoldings(), ctx)
	require.NotEmpty(t, candidates)
	assert.Equal(t, domain.TaxTypeTraditional, candidates[0].TaxType)
}

func TestAllocateNeverOverdrawsDoubleListedHolding(t *testing.T) {
	// The same Roth holding appears as both roth_basis and roth; combined
	// draws must not exceed its balance.
	p := NewPolicy([]domain.TaxType{domain.TaxTypeRothBasis, domain.TaxTypeRoth})
	ctx := retiredContext()
	holdings := []domain.Holding{
		{
			ID: "roth", TaxType: domain.TaxTypeRoth, Balance: dec(100),
			Lots: []domain.CostBasisLot{{Date: time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC), Amount: dec(80)}},
		},
	}

	draws := Allocate(p.Sequence(holdings, ctx), dec(150))
	total := decimal.Zero
	for _, d := range draws {
		total = total.Add(d.Amount)
	}
	assert.True(t, total.Equal(dec(100)), "total drawn %s", total)
}

func TestSortTaxableByHarvestMode(t *testing.T) {
	holdings := []domain.Holding{
		{ID: "winner", TaxType: domain.TaxTypeTaxable, Balance: dec(100),
			Lots: []domain.CostBasisLot{{Date: time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), Amount: dec(20)}}},
		{ID: "loser", TaxType: domain.TaxTypeTaxable, Balance: dec(100),
			Lots: []domain.CostBasisLot{{Date: time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), Amount: dec(150)}}},
	}
	p := NewPolicy([]domain.TaxType{domain.TaxTypeTaxable})

	tests := []struct {
		name  string
		mode  domain.HarvestMode
		first string
	}{
		{"gain harvesting sells winners first", domain.HarvestGains, "winner"},
		{"loss harvesting sells losers first", domain.HarvestLosses, "loser"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := retiredContext()
			ctx.HarvestMode = tt.mode
			candidates := p.Sequence(holdings, ctx)
			require.Len(t, candidates, 2)
			assert.Equal(t, tt.first, candidates[0].HoldingID)
		})
	}
}
