package tax

import (
	"time"

	"github.com/shopspring/decimal"
)

// StraightLineMonthlyDepreciation returns the monthly depreciation charge
// for an asset depreciated straight-line over its useful life. Residual
// value is excluded from the depreciable base.
func StraightLineMonthlyDepreciation(cost, residual decimal.Decimal, usefulLifeMonths int) decimal.Decimal {
	if usefulLifeMonths <= 0 {
		return decimal.Zero
	}
	base := cost.Sub(residual)
	if base.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return base.Div(decimal.NewFromInt(int64(usefulLifeMonths))).Round(2)
}

// AccumulatedDepreciation returns total straight-line depreciation from the
// acquisition date up to asOf, clamped to the depreciable base once the
// useful life has elapsed. Dates before acquisition yield zero.
func AccumulatedDepreciation(cost, residual decimal.Decimal, acquiredAt time.Time, usefulLifeMonths int, asOf time.Time) decimal.Decimal {
	if usefulLifeMonths <= 0 || !asOf.After(acquiredAt) {
		return decimal.Zero
	}
	months := monthsBetween(acquiredAt, asOf)
	if months <= 0 {
		return decimal.Zero
	}
	if months > usefulLifeMonths {
		months = usefulLifeMonths
	}
	monthly := StraightLineMonthlyDepreciation(cost, residual, usefulLifeMonths)
	accumulated := monthly.Mul(decimal.NewFromInt(int64(months)))

	// Rounding of the monthly charge can overshoot the base in the final month.
	base := cost.Sub(residual)
	if accumulated.GreaterThan(base) {
		return base
	}
	return accumulated
}

// BookValue returns the carrying value of the asset as of the given date.
func BookValue(cost, residual decimal.Decimal, acquiredAt time.Time, usefulLifeMonths int, asOf time.Time) decimal.Decimal {
	return cost.Sub(AccumulatedDepreciation(cost, residual, acquiredAt, usefulLifeMonths, asOf))
}

// monthsBetween counts whole calendar months elapsed between two dates.
func monthsBetween(from, to time.Time) int {
	if !to.After(from) {
		return 0
	}
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if to.Day() < from.Day() {
		months--
	}
	return months
}
