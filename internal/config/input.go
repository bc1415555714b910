// Package config loads and validates the scenario file.
package config

import (
	"fmt"
	"os"

	"github.com/rgehrsitz/finsim/internal/domain"
	"github.com/rgehrsitz/finsim/internal/policy"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Input is the top-level scenario file: the scenario itself plus optional
// policy tables. Omitted tables fall back to the built-in defaults.
type Input struct {
	Scenario domain.Scenario `yaml:"scenario"`
	Policies *policy.Set     `yaml:"policies"`
}

// Parser loads scenario files.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a parser. A nil logger disables coverage warnings.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log}
}

// LoadFromFile reads, parses and validates a YAML scenario file.
func (p *Parser) LoadFromFile(filename string) (*Input, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	var in Input
	if err := yaml.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	if in.Policies == nil {
		in.Policies = policy.DefaultSet()
	}
	if err := p.Validate(&in); err != nil {
		return nil, fmt.Errorf("validate %s: %w", filename, err)
	}
	return &in, nil
}

// Validate checks the scenario for structural errors and warns about policy
// coverage gaps. Coverage gaps are not errors: missing tables produce
// zero-effect results at run time.
func (p *Parser) Validate(in *Input) error {
	sc := &in.Scenario
	if sc.ID == "" {
		sc.ID = "scenario"
	}
	if sc.Settings.StartDate.IsZero() {
		return fmt.Errorf("settings.start_date is required")
	}
	if sc.Settings.Months <= 0 {
		return fmt.Errorf("settings.months must be positive, got %d", sc.Settings.Months)
	}
	if sc.Household.BirthDate.IsZero() {
		return fmt.Errorf("household.birth_date is required")
	}
	if sc.Household.FilingStatus == "" {
		sc.Household.FilingStatus = domain.FilingSingle
	}
	if err := p.validateAccounts(sc); err != nil {
		return err
	}
	if err := p.validateStrategy(sc); err != nil {
		return err
	}
	p.warnPolicyCoverage(in)
	return nil
}

func (p *Parser) validateAccounts(sc *domain.Scenario) error {
	if len(sc.CashAccounts) == 0 {
		return fmt.Errorf("at least one cash account is required")
	}
	seen := map[string]bool{}
	for i, h := range sc.Holdings {
		if h.ID == "" {
			return fmt.Errorf("holding %d: id is required", i)
		}
		if seen[h.ID] {
			return fmt.Errorf("holding %d: duplicate id %q", i, h.ID)
		}
		seen[h.ID] = true
		if !h.TaxType.Real() {
			return fmt.Errorf("holding %s: %q is a withdrawal-order type, not a holding tax type", h.ID, h.TaxType)
		}
		switch h.TaxType {
		case domain.TaxTypeTaxable, domain.TaxTypeTraditional, domain.TaxTypeRoth, domain.TaxTypeHSA:
		default:
			return fmt.Errorf("holding %s: unknown tax type %q", h.ID, h.TaxType)
		}
		if h.Balance.LessThan(decimal.Zero) {
			return fmt.Errorf("holding %s: balance must not be negative", h.ID)
		}
		basis := decimal.Zero
		for _, lot := range h.Lots {
			basis = basis.Add(lot.Amount)
		}
		if basis.GreaterThan(h.Balance) {
			return fmt.Errorf("holding %s: cost basis %s exceeds balance %s", h.ID, basis, h.Balance)
		}
	}
	return nil
}

func (p *Parser) validateStrategy(sc *domain.Scenario) error {
	for i, tt := range sc.Strategy.Withdrawal.Order {
		switch tt {
		case domain.TaxTypeTaxable, domain.TaxTypeTraditional, domain.TaxTypeRoth,
			domain.TaxTypeRothBasis, domain.TaxTypeHSA:
		default:
			return fmt.Errorf("withdrawal.order[%d]: unknown tax type %q", i, tt)
		}
	}
	if cb := sc.Strategy.CashBuffer; cb != nil {
		if cb.Ceiling.GreaterThan(decimal.Zero) && cb.Ceiling.LessThan(cb.Floor) {
			return fmt.Errorf("cash_buffer: ceiling %s below floor %s", cb.Ceiling, cb.Floor)
		}
		if cb.SweepTo != "" && findHolding(sc, cb.SweepTo) == nil {
			return fmt.Errorf("cash_buffer: sweep_to holding %q not found", cb.SweepTo)
		}
	}
	if cv := sc.Strategy.Conversion; cv != nil {
		if findHolding(sc, cv.SourceHolding) == nil {
			return fmt.Errorf("conversion: source_holding %q not found", cv.SourceHolding)
		}
		if findHolding(sc, cv.TargetHolding) == nil {
			return fmt.Errorf("conversion: target_holding %q not found", cv.TargetHolding)
		}
		if cv.TargetBracketRate.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("conversion: target_bracket_rate must be positive")
		}
	}
	if ss := sc.Strategy.SocialSecurity; ss != nil && ss.ClaimDate.IsZero() {
		return fmt.Errorf("social_security: claim_date is required")
	}
	return nil
}

func findHolding(sc *domain.Scenario, id string) *domain.Holding {
	for i := range sc.Holdings {
		if sc.Holdings[i].ID == id {
			return &sc.Holdings[i]
		}
	}
	return nil
}

// warnPolicyCoverage flags simulated years whose tax tables rely on the
// earliest-fallback rule, so silent gaps in custom policy files are visible
// up front.
func (p *Parser) warnPolicyCoverage(in *Input) {
	in.Policies.InflationRate = in.Scenario.Settings.InflationRate
	in.Policies.BuildIndex()

	fs := in.Scenario.Household.FilingStatus
	firstYear := in.Scenario.Settings.StartDate.Year()
	pol := in.Policies.TaxPolicyFor(firstYear, fs)
	switch {
	case pol == nil:
		p.log.Warn("no federal tax policy covers the simulation, income will be untaxed",
			zap.String("filing_status", string(fs)))
	case pol.Year > firstYear:
		p.log.Warn("first simulated year precedes the earliest tax policy, falling back to it",
			zap.Int("first_year", firstYear), zap.Int("policy_year", pol.Year))
	}
}
