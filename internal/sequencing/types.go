// Package sequencing implements the withdrawal-order policy shared by
// every withdrawal-emitting strategy module: a configured tax-type order,
// reshaped each month by early-penalty exposure, gain-harvest promotion and
// tax-aware lot selection, with Roth basis draws capped to seasoned
// contribution lots.
package sequencing

import (
	"time"

	"github.com/rgehrsitz/finsim/internal/domain"
	"github.com/shopspring/decimal"
)

// EarlyPenaltyAgeMonths is the age (59½, in months) below which
// tax-advantaged withdrawals are penalty-exposed.
const EarlyPenaltyAgeMonths = 59*12 + 6

// Candidate is one holding eligible for withdrawal, in resolution order.
// Available may be less than Balance (seasoned-basis caps).
type Candidate struct {
	HoldingID      string
	TaxType        domain.TaxType // order-list type, may be roth_basis
	Balance        decimal.Decimal
	Available      decimal.Decimal
	UnrealizedGain decimal.Decimal
}

// Context carries the per-month inputs that reshape the configured order.
type Context struct {
	Date              time.Time
	AgeMonths         int
	AllowEarlyPenalty bool
	Election72t       bool
	HarvestMode       domain.HarvestMode
	HarvestTarget     decimal.Decimal
	RealizedGainsYTD  decimal.Decimal
}

// Draw is one allocated withdrawal against a specific holding.
type Draw struct {
	HoldingID string
	TaxType   domain.TaxType
	Amount    decimal.Decimal
}

// PenaltyExposed reports whether withdrawing from the given order-list tax
// type before 59½ incurs the early-withdrawal penalty. Basis draws are
// never penalized; traditional escapes under an active 72(t) election.
func PenaltyExposed(tt domain.TaxType, ctx Context) bool {
	if ctx.AgeMonths >= EarlyPenaltyAgeMonths {
		return false
	}
	switch tt {
	case domain.TaxTypeTraditional:
		return !ctx.Election72t
	case domain.TaxTypeRoth, domain.TaxTypeHSA:
		return true
	default:
		return false
	}
}
