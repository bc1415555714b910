package sim

import (
	"testing"
	"time"

	"github.com/rgehrsitz/finsim/internal/domain"
	"github.com/rgehrsitz/finsim/internal/policy"
	"github.com/rgehrsitz/finsim/internal/tax"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func testScenario() *domain.Scenario {
	return &domain.Scenario{
		ID: "test",
		Household: domain.Household{
			BirthDate:    time.Date(1960, time.January, 10, 0, 0, 0, 0, time.UTC),
			FilingStatus: domain.FilingSingle,
		},
		CashAccounts: []domain.CashAccount{{ID: "checking", Balance: dec(1000)}},
		Holdings: []domain.Holding{
			{ID: "brokerage", TaxType: domain.TaxTypeTaxable, Asset: domain.AssetStocks, Balance: dec(1000),
				Lots: []domain.CostBasisLot{{Date: time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC), Amount: dec(400)}}},
			{ID: "ira", TaxType: domain.TaxTypeTraditional, Asset: domain.AssetStocks, Balance: dec(2000)},
			{ID: "roth", TaxType: domain.TaxTypeRoth, Asset: domain.AssetStocks, Balance: dec(500),
				Lots: []domain.CostBasisLot{{Date: time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC), Amount: dec(300)}}},
		},
		Settings: domain.Settings{
			StartDate: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
			Months:    12,
		},
	}
}

func testStepContext(sc *domain.Scenario, ageMonths int) *StepContext {
	ps := policy.DefaultSet()
	ps.InflationRate = decimal.Zero
	ps.BuildIndex()
	return &StepContext{
		Date:      time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		Year:      2025,
		AgeMonths: ageMonths,
		Scenario:  sc,
		Policies:  ps,
		Tax:       tax.NewEngine(ps, nil, nil),
		Plan:      &YearPlan{},
		Log:       zap.NewNop(),
	}
}

func TestResolveClampsWithdrawalToBalance(t *testing.T) {
	sc := testScenario()
	ctx := testStepContext(sc, 66*12)
	st := NewState(sc)

	records := Resolve(ctx, st, []ActionIntent{{
		Kind: ActionWithdraw, Amount: dec(1500), SourceID: "brokerage", Priority: PriorityWithdrawal,
	}})

	require.Len(t, records, 1)
	assert.True(t, dec(1000).Equal(records[0].ResolvedAmount))
	assert.True(t, st.Holding("brokerage").Balance.IsZero())
	assert.True(t, dec(2000).Equal(st.CashBalance()), "1000 starting + 1000 withdrawn")
	// Full liquidation realizes the whole 600 embedded gain.
	assert.True(t, dec(600).Equal(st.Ledger.CapitalGains), "got %s", st.Ledger.CapitalGains)
}

func TestResolveTraditionalAttribution(t *testing.T) {
	t.Run("ordinary income, no penalty at 66", func(t *testing.T) {
		sc := testScenario()
		ctx := testStepContext(sc, 66*12)
		st := NewState(sc)

		Resolve(ctx, st, []ActionIntent{{
			Kind: ActionWithdraw, Amount: dec(500), SourceID: "ira", Priority: PriorityWithdrawal,
		}})
		assert.True(t, dec(500).Equal(st.Ledger.OrdinaryIncome))
		assert.True(t, st.Ledger.Penalties.IsZero())
	})

	t.Run("early withdrawal accrues the 10 percent penalty", func(t *testing.T) {
		sc := testScenario()
		ctx := testStepContext(sc, 50*12)
		st := NewState(sc)

		Resolve(ctx, st, []ActionIntent{{
			Kind: ActionWithdraw, Amount: dec(500), SourceID: "ira", Priority: PriorityWithdrawal,
		}})
		assert.True(t, dec(50).Equal(st.Ledger.Penalties), "got %s", st.Ledger.Penalties)
	})

	t.Run("72t election avoids the penalty", func(t *testing.T) {
		sc := testScenario()
		sc.Strategy.Withdrawal.Election72t = true
		ctx := testStepContext(sc, 50*12)
		st := NewState(sc)

		Resolve(ctx, st, []ActionIntent{{
			Kind: ActionWithdraw, Amount: dec(500), SourceID: "ira", Priority: PriorityWithdrawal,
		}})
		assert.True(t, st.Ledger.Penalties.IsZero())
	})

	t.Run("required distributions are never penalized", func(t *testing.T) {
		sc := testScenario()
		ctx := testStepContext(sc, 50*12)
		st := NewState(sc)

		Resolve(ctx, st, []ActionIntent{{
			Kind: ActionRMD, Amount: dec(500), SourceID: "ira", Priority: PriorityRMD,
		}})
		assert.True(t, st.Ledger.Penalties.IsZero())
		assert.True(t, dec(500).Equal(st.Ledger.OrdinaryIncome))
	})
}

func TestResolveBasisTreatmentIsTaxFree(t *testing.T) {
	sc := testScenario()
	ctx := testStepContext(sc, 50*12)
	st := NewState(sc)

	Resolve(ctx, st, []ActionIntent{{
		Kind: ActionWithdraw, Amount: dec(200), SourceID: "roth",
		Priority: PriorityWithdrawal, Treatment: TreatmentBasis,
	}})
	assert.True(t, st.Ledger.OrdinaryIncome.IsZero())
	assert.True(t, st.Ledger.Penalties.IsZero())
	assert.True(t, dec(300).Equal(st.Holding("roth").Balance))
}

func TestResolvePriorityOrdering(t *testing.T) {
	sc := testScenario()
	sc.Holdings = sc.Holdings[:2] // brokerage + ira
	sc.Holdings[1].Balance = dec(100)
	ctx := testStepContext(sc, 75*12)
	st := NewState(sc)

	// Emitted out of order: the RMD must still resolve first and leave
	// nothing for the discretionary withdrawal.
	records := Resolve(ctx, st, []ActionIntent{
		{Kind: ActionWithdraw, Amount: dec(100), SourceID: "ira", Priority: PriorityWithdrawal},
		{Kind: ActionRMD, Amount: dec(100), SourceID: "ira", Priority: PriorityRMD},
	})

	require.Len(t, records, 2)
	assert.Equal(t, ActionRMD, records[0].Kind)
	assert.True(t, dec(100).Equal(records[0].ResolvedAmount))
	assert.True(t, records[1].ResolvedAmount.IsZero(), "holding already drained")
}

func TestResolveDeficitIntentMovesNothing(t *testing.T) {
	sc := testScenario()
	ctx := testStepContext(sc, 66*12)
	st := NewState(sc)

	records := Resolve(ctx, st, []ActionIntent{{
		Kind: ActionWithdraw, Amount: dec(750), Deficit: true, Priority: PriorityWithdrawal,
	}})

	require.Len(t, records, 1)
	assert.True(t, dec(750).Equal(records[0].ResolvedAmount))
	assert.True(t, dec(1000).Equal(st.CashBalance()), "cash untouched")
	assert.True(t, dec(1000).Equal(st.Holding("brokerage").Balance))
}

func TestResolveDepositClampsToCash(t *testing.T) {
	sc := testScenario()
	ctx := testStepContext(sc, 66*12)
	st := NewState(sc)

	records := Resolve(ctx, st, []ActionIntent{{
		Kind: ActionDeposit, Amount: dec(1500), TargetID: "brokerage",
		FromCash: true, Priority: PriorityDeposit,
	}})

	require.Len(t, records, 1)
	assert.True(t, dec(1000).Equal(records[0].ResolvedAmount))
	assert.True(t, st.CashBalance().IsZero())
	assert.True(t, dec(2000).Equal(st.Holding("brokerage").Balance))
	assert.True(t, dec(1000).Equal(st.ContributionsYTD[domain.TaxTypeTaxable]))
}

func TestResolveConvertTaxesTraditionalSource(t *testing.T) {
	sc := testScenario()
	ctx := testStepContext(sc, 66*12)
	st := NewState(sc)

	records := Resolve(ctx, st, []ActionIntent{{
		Kind: ActionConvert, Amount: dec(3000), SourceID: "ira", TargetID: "roth",
		Priority: PriorityConversion,
	}})

	require.Len(t, records, 1)
	assert.True(t, dec(2000).Equal(records[0].ResolvedAmount), "clamped to source balance")
	assert.True(t, st.Holding("ira").Balance.IsZero())
	assert.True(t, dec(2500).Equal(st.Holding("roth").Balance))
	assert.True(t, dec(2000).Equal(st.Ledger.OrdinaryIncome))
	assert.True(t, dec(1000).Equal(st.CashBalance()), "conversions move no cash")

	// The conversion starts a fresh basis lot dated this step.
	lots := st.Holding("roth").Lots
	require.Len(t, lots, 2)
	assert.True(t, dec(2000).Equal(lots[1].Amount))
	assert.Equal(t, ctx.Date, lots[1].Date)
}

func TestResolveRebalanceRealizesTaxableGains(t *testing.T) {
	sc := testScenario()
	sc.Holdings = append(sc.Holdings, domain.Holding{
		ID: "bonds", TaxType: domain.TaxTypeTaxable, Asset: domain.AssetBonds, Balance: dec(100),
	})
	ctx := testStepContext(sc, 66*12)
	st := NewState(sc)

	Resolve(ctx, st, []ActionIntent{{
		Kind: ActionRebalance, Amount: dec(500), SourceID: "brokerage", TargetID: "bonds",
		Priority: PriorityRebalance,
	}})

	assert.True(t, dec(500).Equal(st.Holding("brokerage").Balance))
	assert.True(t, dec(600).Equal(st.Holding("bonds").Balance))
	// Half the position sold: half the 600 gain realized.
	assert.True(t, dec(300).Equal(st.Ledger.CapitalGains), "got %s", st.Ledger.CapitalGains)
	assert.True(t, dec(1000).Equal(st.CashBalance()))
}
