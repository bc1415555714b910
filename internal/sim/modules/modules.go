package modules

import (
	"github.com/rgehrsitz/finsim/internal/domain"
	"github.com/rgehrsitz/finsim/internal/policy"
	"github.com/rgehrsitz/finsim/internal/sim"
	"github.com/rgehrsitz/finsim/internal/ssa"
)

// Standard assembles the module set for a scenario. Optional modules are
// included only when their strategy section is configured; income, spending,
// distributions and tax settlement always run.
func Standard(sc *domain.Scenario, ps *policy.Set) []sim.Module {
	mods := []sim.Module{
		NewSalary(),
		NewSpending(),
	}
	if sc.Strategy.SocialSecurity != nil {
		mods = append(mods, NewSocialSecurity(ssa.NewEstimator(ps)))
	}
	mods = append(mods, NewMedicare(), NewRMD())
	if sc.Strategy.Conversion != nil {
		mods = append(mods, NewConversion())
	}
	if sc.Strategy.GlidePath != nil {
		mods = append(mods, NewRebalance())
	}
	if sc.Strategy.CashBuffer != nil {
		mods = append(mods, NewCashBuffer())
	}
	// Tax runs last so its withholding reaction sees every other module's
	// cashflows.
	mods = append(mods, NewTax())
	return mods
}
