// Package pricing computes what a registrant owes for a camp.
package pricing

import (
	"github.com/gdg-garage/camp-registration-api/internal/models"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CalculateFee applies the percentage discount to baseFee, then subtracts the
// flat discount, flooring at zero. The result is rounded half-up to cents once,
// at the end. Out of range inputs are clamped rather than rejected: the
// percentage to [0, 100] and negative amounts to zero.
func CalculateFee(baseFee, discountPercentage, discountAmount decimal.Decimal) decimal.Decimal {
	base := atLeastZero(baseFee)
	pct := decimal.Min(atLeastZero(discountPercentage), hundred)
	amount := atLeastZero(discountAmount)

	afterPct := base.Mul(hundred.Sub(pct)).Div(hundred)
	result := atLeastZero(afterPct.Sub(amount))

	// Round is half away from zero, which is half-up for non-negative values.
	return result.Round(2)
}

// ForCategory prices a registrant of the given category.
func ForCategory(baseFee decimal.Decimal, category models.Category) decimal.Decimal {
	return CalculateFee(baseFee, category.DiscountPercentage, category.DiscountAmount)
}

func atLeastZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
