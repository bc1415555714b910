package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashflowCategory labels a cashflow for reporting.
type CashflowCategory string

const (
	CashflowSalary         CashflowCategory = "salary"
	CashflowSpending       CashflowCategory = "spending"
	CashflowSocialSecurity CashflowCategory = "social_security"
	CashflowTaxPayment     CashflowCategory = "tax_payment"
	CashflowWithholding    CashflowCategory = "withholding"
	CashflowInterest       CashflowCategory = "interest"
	CashflowOther          CashflowCategory = "other"
)

// CashflowItem is a dated cash delta with optional tax attribution. Amounts
// are positive for inflows and negative for outflows.
type CashflowItem struct {
	Date     time.Time
	Module   string
	Category CashflowCategory
	Amount   decimal.Decimal

	// Tax attribution accumulated into the year ledger.
	OrdinaryIncome decimal.Decimal
	CapitalGains   decimal.Decimal
	TaxExempt      decimal.Decimal
	Deduction      decimal.Decimal
	SSBenefit      decimal.Decimal
	EarnedIncome   decimal.Decimal
	TaxPaid        decimal.Decimal
}
