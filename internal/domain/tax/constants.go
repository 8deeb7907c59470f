// Package tax implements the South African Revenue Service (SARS) statutory
// calculations used across payroll and compliance reporting: PAYE income tax
// brackets, UIF and SDL payroll levies, VAT and the corporate income tax
// rate. All figures are for the 2025/26 year of assessment.
package tax

import "github.com/shopspring/decimal"

// VATRate is the standard VAT rate (15%)
var VATRate = decimal.NewFromFloat(0.15)

// CompanyTaxRate is the corporate income tax rate (27%)
var CompanyTaxRate = decimal.NewFromFloat(0.27)

// UIF (Unemployment Insurance Fund) contribution parameters.
// Employee and employer each contribute 1% of remuneration, capped at the
// monthly remuneration ceiling.
var (
	UIFRate           = decimal.NewFromFloat(0.01)
	UIFMonthlyCeiling = decimal.NewFromFloat(17712.00)
	UIFMonthlyCapEach = decimal.NewFromFloat(177.12)
)

// SDLRate is the Skills Development Levy rate (1% of leviable payroll)
var SDLRate = decimal.NewFromFloat(0.01)

// PrimaryRebate is the annual primary tax rebate applied to all natural persons
var PrimaryRebate = decimal.NewFromFloat(17235.00)

// TaxBracket is one row of the statutory income tax table. Tax on annual
// taxable income within the bracket is BaseAmount plus Rate applied to the
// portion above Threshold.
type TaxBracket struct {
	Threshold  decimal.Decimal
	BaseAmount decimal.Decimal
	Rate       decimal.Decimal
}

// IncomeTaxBrackets is the 2025/26 individual income tax table, ordered by
// ascending threshold. Lookup walks the table from the top.
var IncomeTaxBrackets = []TaxBracket{
	{Threshold: decimal.NewFromInt(0), BaseAmount: decimal.NewFromInt(0), Rate: decimal.NewFromFloat(0.18)},
	{Threshold: decimal.NewFromInt(237100), BaseAmount: decimal.NewFromInt(42678), Rate: decimal.NewFromFloat(0.26)},
	{Threshold: decimal.NewFromInt(370500), BaseAmount: decimal.NewFromInt(77362), Rate: decimal.NewFromFloat(0.31)},
	{Threshold: decimal.NewFromInt(512800), BaseAmount: decimal.NewFromInt(121475), Rate: decimal.NewFromFloat(0.36)},
	{Threshold: decimal.NewFromInt(673000), BaseAmount: decimal.NewFromInt(179147), Rate: decimal.NewFromFloat(0.39)},
	{Threshold: decimal.NewFromInt(857900), BaseAmount: decimal.NewFromInt(251258), Rate: decimal.NewFromFloat(0.41)},
	{Threshold: decimal.NewFromInt(1817000), BaseAmount: decimal.NewFromInt(644489), Rate: decimal.NewFromFloat(0.45)},
}
