package sim

import "github.com/rgehrsitz/finsim/internal/domain"

// Module is the minimal strategy-module contract. Modules opt into lifecycle
// hooks by implementing the capability interfaces below; the orchestrator
// type-asserts each one per step, so an unimplemented hook is a no-op.
type Module interface {
	Name() string
}

// YearPlanner runs once at the start of each calendar year (and on the first
// step of a run) before any cashflows.
type YearPlanner interface {
	PlanYear(ctx *StepContext, st *State, plan *YearPlan)
}

// CashflowSource contributes the month's cash inflows and outflows. The
// returned items are applied to cash and accumulated into the year ledger by
// the orchestrator, not by the module.
type CashflowSource interface {
	Cashflows(ctx *StepContext, st *State) []domain.CashflowItem
}

// CashflowReactor observes the month's combined cashflows after every source
// has contributed but before they are applied. It may return additional
// items (withholding reacts to gross pay this way).
type CashflowReactor interface {
	AfterCashflows(ctx *StepContext, st *State, items []domain.CashflowItem) []domain.CashflowItem
}

// IntentSource proposes the month's account transactions.
type IntentSource interface {
	ActionIntents(ctx *StepContext, st *State) []ActionIntent
}

// ActionReactor observes the month's resolved actions.
type ActionReactor interface {
	ActionsResolved(ctx *StepContext, st *State, records []ActionRecord)
}

// ReturnReactor observes the month's applied market returns.
type ReturnReactor interface {
	MarketReturns(ctx *StepContext, st *State, returns map[string]ReturnOutcome)
}

// YearEndReactor runs on the last month of each calendar year (and the final
// step of a run), before the orchestrator records MAGI and resets the
// ledger.
type YearEndReactor interface {
	EndOfYear(ctx *StepContext, st *State)
}
