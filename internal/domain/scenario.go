package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EarningsRecord is one calendar year of recorded earned income, used by
// the Social Security benefit estimate.
type EarningsRecord struct {
	Year   int             `yaml:"year"`
	Amount decimal.Decimal `yaml:"amount"`
}

// WorkPeriod describes a projected span of future employment.
type WorkPeriod struct {
	Start            time.Time       `yaml:"start"`
	End              time.Time       `yaml:"end"`
	AnnualSalary     decimal.Decimal `yaml:"annual_salary"`
	PreTaxDeductions decimal.Decimal `yaml:"pre_tax_deductions"` // annual, reduces SSA-counted wages

	// Payroll-funded contributions per holding, keyed by holding id.
	Contributions map[string]decimal.Decimal `yaml:"contributions"`
}

// Household identifies the filer the simulation projects.
type Household struct {
	BirthDate       time.Time        `yaml:"birth_date"`
	FilingStatus    FilingStatus     `yaml:"filing_status"`
	State           string           `yaml:"state"`
	EarningsHistory []EarningsRecord `yaml:"earnings_history"`
	WorkPeriods     []WorkPeriod     `yaml:"work_periods"`
}

// SpendingConfig drives the spending module.
type SpendingConfig struct {
	Monthly   decimal.Decimal  `yaml:"monthly"`
	Inflate   bool             `yaml:"inflate"`
	Guardrail *GuardrailConfig `yaml:"guardrail"`
}

// GuardrailConfig reduces discretionary spending while portfolio health
// trails a target track.
type GuardrailConfig struct {
	TargetBalance   decimal.Decimal `yaml:"target_balance"`
	TargetDate      time.Time       `yaml:"target_date"`
	CutFraction     decimal.Decimal `yaml:"cut_fraction"`     // fraction of monthly spend suppressed
	TriggerFraction decimal.Decimal `yaml:"trigger_fraction"` // cut when balance < trigger * on-track balance
	RecoveryMonths  int             `yaml:"recovery_months"`  // consecutive healthy months before restoring
}

// CashBufferConfig keeps cash between a floor and ceiling.
type CashBufferConfig struct {
	Floor   decimal.Decimal `yaml:"floor"`
	Ceiling decimal.Decimal `yaml:"ceiling"`
	SweepTo string          `yaml:"sweep_to"` // holding id receiving excess cash
}

// GlidePathConfig drives annual rebalancing toward a stock/bond target that
// shifts linearly with age.
type GlidePathConfig struct {
	StocksAtStart decimal.Decimal `yaml:"stocks_at_start"`
	StocksAtEnd   decimal.Decimal `yaml:"stocks_at_end"`
	EndAge        int             `yaml:"end_age"`
	Tolerance     decimal.Decimal `yaml:"tolerance"` // skip rebalance when drift below this
}

// ConversionConfig bounds the Roth conversion plan solved each year start.
type ConversionConfig struct {
	TargetBracketRate decimal.Decimal  `yaml:"target_bracket_rate"` // fill ordinary income up to this bracket's ceiling
	MAGILimit         *decimal.Decimal `yaml:"magi_limit"`          // IRMAA headroom ceiling, table as-of-year dollars
	MinAmount         decimal.Decimal  `yaml:"min_amount"`
	MaxAmount         decimal.Decimal  `yaml:"max_amount"`
	StartMonth        int              `yaml:"start_month"` // 1-12, conversions run StartMonth..December
	SourceHolding     string           `yaml:"source_holding"`
	TargetHolding     string           `yaml:"target_holding"`
}

// SocialSecurityConfig sets the claim date for benefits.
type SocialSecurityConfig struct {
	ClaimDate time.Time       `yaml:"claim_date"`
	COLARate  decimal.Decimal `yaml:"cola_rate"`
}

// HarvestMode selects tax-aware lot ordering inside taxable holdings.
type HarvestMode string

const (
	HarvestNone   HarvestMode = "none"
	HarvestGains  HarvestMode = "gains"
	HarvestLosses HarvestMode = "losses"
)

// WithdrawalConfig is the ordered withdrawal policy shared by all
// withdrawal-emitting modules.
type WithdrawalConfig struct {
	Order             []TaxType       `yaml:"order"`
	AllowEarlyPenalty bool            `yaml:"allow_early_penalty"`
	Election72t       bool            `yaml:"election_72t"`
	HarvestMode       HarvestMode     `yaml:"harvest_mode"`
	HarvestTarget     decimal.Decimal `yaml:"harvest_target"` // promote taxable while YTD gains below this
}

// StrategyConfig gathers all module configuration.
type StrategyConfig struct {
	Withdrawal     WithdrawalConfig      `yaml:"withdrawal"`
	Spending       SpendingConfig        `yaml:"spending"`
	CashBuffer     *CashBufferConfig     `yaml:"cash_buffer"`
	GlidePath      *GlidePathConfig      `yaml:"glide_path"`
	Conversion     *ConversionConfig     `yaml:"conversion"`
	SocialSecurity *SocialSecurityConfig `yaml:"social_security"`
}

// Settings are the global simulation assumptions.
type Settings struct {
	StartDate       time.Time       `yaml:"start_date"`
	Months          int             `yaml:"months"`
	InflationRate   decimal.Decimal `yaml:"inflation_rate"`
	TaxPaymentMonth int             `yaml:"tax_payment_month"` // month of following year the settled liability is paid
	CapitalGainsTax bool            `yaml:"capital_gains_tax"` // stack gains on CG brackets; otherwise taxed as ordinary
	StateRate       decimal.Decimal `yaml:"state_rate"`        // flat state tax rate fallback
	Seed            *int64          `yaml:"seed"`
}

// Scenario is the immutable input snapshot for one simulation run.
type Scenario struct {
	ID           string         `yaml:"id"`
	Household    Household      `yaml:"household"`
	CashAccounts []CashAccount  `yaml:"cash_accounts"`
	Holdings     []Holding      `yaml:"holdings"`
	Strategy     StrategyConfig `yaml:"strategy"`
	Settings     Settings       `yaml:"settings"`
}
