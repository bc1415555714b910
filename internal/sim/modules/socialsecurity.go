package modules

import (
	"github.com/rgehrsitz/finsim/internal/domain"
	"github.com/rgehrsitz/finsim/internal/sim"
	"github.com/rgehrsitz/finsim/internal/ssa"
	"github.com/rgehrsitz/finsim/pkg/dateutil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SocialSecurity pays the estimated benefit from the claim date onward,
// with annual cost-of-living adjustments compounding from the claim year.
type SocialSecurity struct {
	estimator *ssa.Estimator

	base     decimal.Decimal
	computed bool
}

func NewSocialSecurity(est *ssa.Estimator) *SocialSecurity {
	return &SocialSecurity{estimator: est}
}

func (*SocialSecurity) Name() string { return "socialsecurity" }

func (m *SocialSecurity) Cashflows(ctx *sim.StepContext, st *sim.State) []domain.CashflowItem {
	cfg := ctx.Scenario.Strategy.SocialSecurity
	if cfg == nil || ctx.Date.Before(dateutil.MonthStart(cfg.ClaimDate)) {
		return nil
	}
	if !m.computed {
		m.base = m.estimator.MonthlyBenefit(ctx.Scenario.Household, cfg.ClaimDate)
		m.computed = true
		ctx.Log.Info("social security benefit estimated",
			zap.String("claim_date", cfg.ClaimDate.Format("2006-01")),
			zap.String("monthly", m.base.StringFixed(2)))
	}
	if m.base.LessThanOrEqual(decimal.Zero) {
		return nil
	}

	amount := m.base
	if years := ctx.Year - cfg.ClaimDate.Year(); years > 0 && cfg.COLARate.GreaterThan(decimal.Zero) {
		amount = amount.Mul(decimal.NewFromInt(1).Add(cfg.COLARate).Pow(decimal.NewFromInt(int64(years))))
	}
	return []domain.CashflowItem{{
		Date:      ctx.Date,
		Module:    "socialsecurity",
		Category:  domain.CashflowSocialSecurity,
		Amount:    amount,
		SSBenefit: amount,
	}}
}
