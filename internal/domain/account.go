package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SeasoningMonths is how long a Roth contribution lot must age before it
// counts as penalty-free basis.
const SeasoningMonths = 60

// CashAccount is a liquid account that receives and funds cashflows.
type CashAccount struct {
	ID           string          `yaml:"id"`
	Balance      decimal.Decimal `yaml:"balance"`
	InterestRate decimal.Decimal `yaml:"interest_rate"`
}

// CostBasisLot records a single contribution or purchase into a holding.
type CostBasisLot struct {
	Date   time.Time       `yaml:"date"`
	Amount decimal.Decimal `yaml:"amount"`
}

// Holding is an invested position inside an account.
type Holding struct {
	ID             string          `yaml:"id"`
	AccountID      string          `yaml:"account_id"`
	TaxType        TaxType         `yaml:"tax_type"`
	Asset          AssetClass      `yaml:"asset"`
	Balance        decimal.Decimal `yaml:"balance"`
	Lots           []CostBasisLot  `yaml:"lots"`
	ExpectedReturn decimal.Decimal `yaml:"expected_return"`
	Volatility     decimal.Decimal `yaml:"volatility"`
}

// CostBasis returns the sum of the holding's cost-basis lots.
func (h *Holding) CostBasis() decimal.Decimal {
	basis := decimal.Zero
	for _, lot := range h.Lots {
		basis = basis.Add(lot.Amount)
	}
	return basis
}

// UnrealizedGain returns balance minus cost basis. Negative values indicate
// an unrealized loss.
func (h *Holding) UnrealizedGain() decimal.Decimal {
	return h.Balance.Sub(h.CostBasis())
}

// SeasonedBasis returns the sum of contribution lots aged at least
// SeasoningMonths as of the given date, capped at the current balance.
func (h *Holding) SeasonedBasis(asOf time.Time) decimal.Decimal {
	seasoned := decimal.Zero
	for _, lot := range h.Lots {
		if monthsBetween(lot.Date, asOf) >= SeasoningMonths {
			seasoned = seasoned.Add(lot.Amount)
		}
	}
	if seasoned.GreaterThan(h.Balance) {
		return h.Balance
	}
	return seasoned
}

// ReduceLots consumes cost basis pro-rata across lots for a withdrawal of
// the given amount and returns the realized gain. Traditional and HSA
// holdings carry no lots; their realized gain is zero.
func (h *Holding) ReduceLots(amount decimal.Decimal) decimal.Decimal {
	if amount.LessThanOrEqual(decimal.Zero) || h.Balance.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	if len(h.Lots) == 0 {
		return decimal.Zero
	}
	fraction := amount.Div(h.Balance)
	if fraction.GreaterThan(decimal.NewFromInt(1)) {
		fraction = decimal.NewFromInt(1)
	}
	basisConsumed := decimal.Zero
	for i := range h.Lots {
		consumed := h.Lots[i].Amount.Mul(fraction)
		h.Lots[i].Amount = h.Lots[i].Amount.Sub(consumed)
		basisConsumed = basisConsumed.Add(consumed)
	}
	gain := amount.Sub(basisConsumed)
	if gain.LessThan(decimal.Zero) {
		return gain // realized loss
	}
	return gain
}

func monthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}
