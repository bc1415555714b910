package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/rgehrsitz/finsim/internal/domain"
)

// WriteMonthlyCSV writes one row per simulated month.
func WriteMonthlyCSV(w io.Writer, res *RunResult) error {
	cw := csv.NewWriter(w)
	header := []string{
		"date", "month", "age_months", "cash", "portfolio",
		"taxable", "traditional", "roth", "hsa", "net_cashflow",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, m := range res.Monthly {
		row := []string{
			m.Date.Format("2006-01-02"),
			strconv.Itoa(m.MonthIndex),
			strconv.Itoa(m.AgeMonths),
			m.Cash.StringFixed(2),
			m.Portfolio.StringFixed(2),
			m.ByTaxType[domain.TaxTypeTaxable].StringFixed(2),
			m.ByTaxType[domain.TaxTypeTraditional].StringFixed(2),
			m.ByTaxType[domain.TaxTypeRoth].StringFixed(2),
			m.ByTaxType[domain.TaxTypeHSA].StringFixed(2),
			m.NetCashflow.StringFixed(2),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteAnnualCSV writes one row per settled tax year.
func WriteAnnualCSV(w io.Writer, res *RunResult) error {
	cw := csv.NewWriter(w)
	header := []string{
		"year", "magi", "ordinary_income", "capital_gains", "ss_benefits",
		"federal_tax", "capital_gains_tax", "state_tax", "payroll_tax",
		"penalties", "tax_paid", "due",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, a := range res.Annual {
		row := []string{
			strconv.Itoa(a.Year),
			a.MAGI.StringFixed(2),
			a.Ledger.OrdinaryIncome.StringFixed(2),
			a.Ledger.CapitalGains.StringFixed(2),
			a.Ledger.SSBenefits.StringFixed(2),
			a.Liability.Federal.StringFixed(2),
			a.Liability.CapitalGains.StringFixed(2),
			a.Liability.State.StringFixed(2),
			a.Liability.Payroll.StringFixed(2),
			a.Liability.Penalties.StringFixed(2),
			a.Liability.TaxPaid.StringFixed(2),
			a.Liability.Due().StringFixed(2),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
