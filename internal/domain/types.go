// Package domain defines the data model shared by the simulation engine:
// the scenario snapshot, account and holding state, policy tables and
// cashflow records.
package domain

// TaxType classifies a holding by its tax treatment.
type TaxType string

const (
	TaxTypeTaxable     TaxType = "taxable"
	TaxTypeTraditional TaxType = "traditional"
	TaxTypeRoth        TaxType = "roth"
	TaxTypeHSA         TaxType = "hsa"

	// TaxTypeRothBasis is a pseudo tax type used only in withdrawal order
	// lists: draws against seasoned Roth contribution lots.
	TaxTypeRothBasis TaxType = "roth_basis"
)

// Real reports whether tt names an actual holding tax type rather than the
// roth_basis withdrawal-order pseudo type.
func (tt TaxType) Real() bool {
	return tt != TaxTypeRothBasis
}

// HoldingType returns the holding tax type that withdrawals of tt draw from.
func (tt TaxType) HoldingType() TaxType {
	if tt == TaxTypeRothBasis {
		return TaxTypeRoth
	}
	return tt
}

// FilingStatus is the federal filing status used for policy table selection.
type FilingStatus string

const (
	FilingSingle            FilingStatus = "single"
	FilingMarriedJointly    FilingStatus = "married_jointly"
	FilingMarriedSeparately FilingStatus = "married_separately"
	FilingHeadOfHousehold   FilingStatus = "head_of_household"
)

// AssetClass is a coarse asset categorization used for glide-path
// rebalancing and return assumptions.
type AssetClass string

const (
	AssetStocks AssetClass = "stocks"
	AssetBonds  AssetClass = "bonds"
	AssetCash   AssetClass = "cash"
)
