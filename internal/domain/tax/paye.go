package tax

import "github.com/shopspring/decimal"

var monthsPerYear = decimal.NewFromInt(12)

// AnnualIncomeTax calculates gross income tax on annual taxable income using
// the statutory bracket table, before rebates. Negative income yields zero.
func AnnualIncomeTax(annualTaxable decimal.Decimal) decimal.Decimal {
	if annualTaxable.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	bracket := IncomeTaxBrackets[0]
	for _, b := range IncomeTaxBrackets {
		if annualTaxable.GreaterThan(b.Threshold) {
			bracket = b
		}
	}
	excess := annualTaxable.Sub(bracket.Threshold)
	return bracket.BaseAmount.Add(excess.Mul(bracket.Rate))
}

// AnnualPAYE calculates annual PAYE: bracket tax minus the primary rebate,
// floored at zero.
func AnnualPAYE(annualTaxable decimal.Decimal) decimal.Decimal {
	paye := AnnualIncomeTax(annualTaxable).Sub(PrimaryRebate)
	if paye.IsNegative() {
		return decimal.Zero
	}
	return paye
}

// MonthlyPAYE calculates the monthly PAYE deduction by annualising the
// monthly taxable remuneration, applying the annual table and rebate, and
// dividing back to a month. Result is rounded to cents.
func MonthlyPAYE(monthlyTaxable decimal.Decimal) decimal.Decimal {
	annual := monthlyTaxable.Mul(monthsPerYear)
	return AnnualPAYE(annual).Div(monthsPerYear).Round(2)
}

// MonthlyUIFEmployee calculates the employee UIF contribution: 1% of gross
// remuneration capped at the monthly ceiling.
func MonthlyUIFEmployee(monthlyGross decimal.Decimal) decimal.Decimal {
	if monthlyGross.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	base := monthlyGross
	if base.GreaterThan(UIFMonthlyCeiling) {
		base = UIFMonthlyCeiling
	}
	return base.Mul(UIFRate).Round(2)
}

// MonthlyUIFTotal calculates the combined employee plus employer UIF
// contribution payable on the EMP201 (2% capped).
func MonthlyUIFTotal(monthlyGross decimal.Decimal) decimal.Decimal {
	return MonthlyUIFEmployee(monthlyGross).Mul(decimal.NewFromInt(2))
}

// MonthlySDL calculates the Skills Development Levy: 1% of gross
// remuneration, employer-paid, uncapped.
func MonthlySDL(monthlyGross decimal.Decimal) decimal.Decimal {
	if monthlyGross.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return monthlyGross.Mul(SDLRate).Round(2)
}
