// Package sim is the simulation core: the single-owner mutable state, the
// month-stepping orchestrator, the strategy-module contract, the action
// resolver and the Roth conversion solver.
package sim

import (
	"github.com/rgehrsitz/finsim/internal/domain"
	"github.com/rgehrsitz/finsim/internal/tax"
	"github.com/shopspring/decimal"
)

// PendingTax is one queued year-end liability, paid the following year.
type PendingTax struct {
	TaxYear int
	Amount  decimal.Decimal
}

// GuardrailState is the spending guardrail's bookkeeping.
type GuardrailState struct {
	BaselineSpend  decimal.Decimal
	InitialBalance decimal.Decimal
	Reduced        bool
	HealthyStreak  int
	ReducedMonths  int
}

// State is the mutable simulation state for one run. It is constructed
// once from the scenario snapshot, mutated in place by the orchestrator
// and modules, and never shared across runs.
type State struct {
	Cash     []domain.CashAccount
	Holdings []domain.Holding

	// Ledger accumulates the current calendar year's tax-relevant totals
	// and resets at year end.
	Ledger tax.AnnualLedger

	// PendingTaxDue is owned by the tax module: written at year end, read
	// and cleared by its payment cashflow.
	PendingTaxDue []PendingTax

	ContributionsYTD map[domain.TaxType]decimal.Decimal
	MAGIHistory      map[int]decimal.Decimal
	Guardrail        GuardrailState
}

// NewState deep-copies the scenario's accounts and holdings into a fresh
// run state.
func NewState(sc *domain.Scenario) *State {
	st := &State{
		Cash:             make([]domain.CashAccount, len(sc.CashAccounts)),
		Holdings:         make([]domain.Holding, len(sc.Holdings)),
		ContributionsYTD: map[domain.TaxType]decimal.Decimal{},
		MAGIHistory:      map[int]decimal.Decimal{},
	}
	copy(st.Cash, sc.CashAccounts)
	for i, h := range sc.Holdings {
		st.Holdings[i] = h
		st.Holdings[i].Lots = make([]domain.CostBasisLot, len(h.Lots))
		copy(st.Holdings[i].Lots, h.Lots)
	}
	return st
}

// Holding returns the holding with the given id, or nil.
func (s *State) Holding(id string) *domain.Holding {
	for i := range s.Holdings {
		if s.Holdings[i].ID == id {
			return &s.Holdings[i]
		}
	}
	return nil
}

// CashBalance returns the total across cash accounts.
func (s *State) CashBalance() decimal.Decimal {
	total := decimal.Zero
	for _, c := range s.Cash {
		total = total.Add(c.Balance)
	}
	return total
}

// PortfolioBalance returns holdings plus cash.
func (s *State) PortfolioBalance() decimal.Decimal {
	total := s.CashBalance()
	for _, h := range s.Holdings {
		total = total.Add(h.Balance)
	}
	return total
}

// BalanceByTaxType sums holding balances for one tax type.
func (s *State) BalanceByTaxType(tt domain.TaxType) decimal.Decimal {
	total := decimal.Zero
	for _, h := range s.Holdings {
		if h.TaxType == tt {
			total = total.Add(h.Balance)
		}
	}
	return total
}

// ApplyCash applies a net cash delta to the primary (first) cash account.
// The balance may go negative; deficits surface to the funding module on
// the next step.
func (s *State) ApplyCash(amount decimal.Decimal) {
	if len(s.Cash) == 0 {
		return
	}
	s.Cash[0].Balance = s.Cash[0].Balance.Add(amount)
}

// Accumulate folds one cashflow item's tax attribution into the year
// ledger.
func (s *State) Accumulate(item domain.CashflowItem) {
	s.Ledger.OrdinaryIncome = s.Ledger.OrdinaryIncome.Add(item.OrdinaryIncome)
	s.Ledger.CapitalGains = s.Ledger.CapitalGains.Add(item.CapitalGains)
	s.Ledger.Deductions = s.Ledger.Deductions.Add(item.Deduction)
	s.Ledger.TaxExempt = s.Ledger.TaxExempt.Add(item.TaxExempt)
	s.Ledger.SSBenefits = s.Ledger.SSBenefits.Add(item.SSBenefit)
	s.Ledger.EarnedIncome = s.Ledger.EarnedIncome.Add(item.EarnedIncome)
	s.Ledger.TaxPaid = s.Ledger.TaxPaid.Add(item.TaxPaid)
}

// ResetYearLedger clears the year ledger and contribution totals at a year
// boundary.
func (s *State) ResetYearLedger() {
	s.Ledger = tax.AnnualLedger{}
	s.ContributionsYTD = map[domain.TaxType]decimal.Decimal{}
}
