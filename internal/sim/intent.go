package sim

import "github.com/shopspring/decimal"

// ActionKind classifies a proposed transaction.
type ActionKind int

const (
	ActionWithdraw ActionKind = iota
	ActionDeposit
	ActionConvert
	ActionRebalance
	ActionRMD
)

func (k ActionKind) String() string {
	switch k {
	case ActionWithdraw:
		return "withdraw"
	case ActionDeposit:
		return "deposit"
	case ActionConvert:
		return "convert"
	case ActionRebalance:
		return "rebalance"
	case ActionRMD:
		return "rmd"
	default:
		return "unknown"
	}
}

// Treatment overrides the tax attribution the resolver would derive from
// the holding's tax type.
type Treatment int

const (
	TreatmentDefault Treatment = iota
	TreatmentBasis             // Roth basis draw: tax- and penalty-free
	TreatmentTaxFree
	TreatmentOrdinary
)

// Standard intent priorities; lower resolves first.
const (
	PriorityRMD        = 10
	PriorityWithdrawal = 20
	PriorityConversion = 30
	PriorityRebalance  = 40
	PriorityDeposit    = 50
)

// ActionIntent is a proposed transaction. Intents are proposals only;
// resolution may clamp them to available balances.
type ActionIntent struct {
	Kind      ActionKind
	Amount    decimal.Decimal
	SourceID  string // holding id; empty withdraw sources pro-rata
	TargetID  string // holding id for deposit/convert/rebalance
	FromCash  bool   // deposits funded from the cash account
	Deficit   bool   // resolve at full amount with no draw; cash goes negative
	Priority  int
	Treatment Treatment
	Module    string
	Label     string
}

// ActionRecord is the authoritative record of what actually happened: the
// intent plus the amount applied after clamping.
type ActionRecord struct {
	ActionIntent
	ResolvedAmount decimal.Decimal
}
