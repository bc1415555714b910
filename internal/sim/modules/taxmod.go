package modules

import (
	"github.com/rgehrsitz/finsim/internal/domain"
	"github.com/rgehrsitz/finsim/internal/sim"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// defaultTaxPaymentMonth is April, when the prior year's settled liability
// comes due.
const defaultTaxPaymentMonth = 4

// Tax withholds against earned income each month, settles the year's
// liability at year end, and pays (or refunds) the settled amount in the
// following year's payment month.
type Tax struct{}

func NewTax() *Tax { return &Tax{} }

func (*Tax) Name() string { return "tax" }

// AfterCashflows reacts to the month's combined cashflows with a
// withholding item: the year ledger plus this month's attributions is
// annualized and the accrued shortfall withheld.
func (*Tax) AfterCashflows(ctx *sim.StepContext, st *sim.State, items []domain.CashflowItem) []domain.CashflowItem {
	projected := st.Ledger
	for _, item := range items {
		projected.OrdinaryIncome = projected.OrdinaryIncome.Add(item.OrdinaryIncome)
		projected.EarnedIncome = projected.EarnedIncome.Add(item.EarnedIncome)
		projected.TaxPaid = projected.TaxPaid.Add(item.TaxPaid)
	}
	withheld := ctx.Tax.EstimateWithholding(
		ctx.Year,
		ctx.Scenario.Household.FilingStatus,
		ctx.MonthsElapsedInYear(),
		projected,
		ctx.Date,
	)
	if withheld.LessThanOrEqual(decimal.Zero) {
		return nil
	}
	return []domain.CashflowItem{{
		Date:     ctx.Date,
		Module:   "tax",
		Category: domain.CashflowWithholding,
		Amount:   withheld.Neg(),
		TaxPaid:  withheld,
	}}
}

// Cashflows pays queued settlements in the payment month. A negative due
// amount is a refund and flows in.
func (*Tax) Cashflows(ctx *sim.StepContext, st *sim.State) []domain.CashflowItem {
	month := ctx.Scenario.Settings.TaxPaymentMonth
	if month < 1 || month > 12 {
		month = defaultTaxPaymentMonth
	}
	if ctx.MonthOfYear() != month || len(st.PendingTaxDue) == 0 {
		return nil
	}
	var items []domain.CashflowItem
	for _, due := range st.PendingTaxDue {
		items = append(items, domain.CashflowItem{
			Date:     ctx.Date,
			Module:   "tax",
			Category: domain.CashflowTaxPayment,
			Amount:   due.Amount.Neg(),
		})
		ctx.Log.Info("tax settlement paid",
			zap.Int("tax_year", due.TaxYear),
			zap.String("amount", due.Amount.StringFixed(2)))
	}
	st.PendingTaxDue = nil
	return items
}

// EndOfYear settles the year and queues the net due for next year's
// payment month.
func (*Tax) EndOfYear(ctx *sim.StepContext, st *sim.State) {
	liability := ctx.Tax.Settle(ctx.Year, ctx.Scenario.Household.FilingStatus, st.Ledger, ctx.Date)
	due := liability.Due()
	if due.IsZero() {
		return
	}
	st.PendingTaxDue = append(st.PendingTaxDue, sim.PendingTax{TaxYear: ctx.Year, Amount: due})
}
