package tax

import "github.com/shopspring/decimal"

var one = decimal.NewFromInt(1)

// VATOnExclusive returns the VAT charged on a VAT-exclusive amount.
func VATOnExclusive(exclusive decimal.Decimal) decimal.Decimal {
	return exclusive.Mul(VATRate).Round(2)
}

// VATPortionOfInclusive extracts the VAT portion from a VAT-inclusive
// amount (the tax fraction: amount × 15/115).
func VATPortionOfInclusive(inclusive decimal.Decimal) decimal.Decimal {
	return inclusive.Sub(inclusive.Div(one.Add(VATRate))).Round(2)
}

// AddVAT returns the VAT-inclusive amount for a VAT-exclusive amount.
func AddVAT(exclusive decimal.Decimal) decimal.Decimal {
	return exclusive.Add(VATOnExclusive(exclusive))
}

// CompanyIncomeTax calculates corporate income tax on taxable income at the
// flat company rate. Losses yield zero tax.
func CompanyIncomeTax(taxableIncome decimal.Decimal) decimal.Decimal {
	if taxableIncome.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return taxableIncome.Mul(CompanyTaxRate).Round(2)
}
