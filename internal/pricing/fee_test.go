package pricing

import (
	"math/rand"
	"testing"

	"github.com/gdg-garage/camp-registration-api/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCalculateFee(t *testing.T) {
	tests := []struct {
		name   string
		base   string
		pct    string
		amount string
		want   string
	}{
		{"no discount", "100", "0", "0", "100.00"},
		{"percentage only", "250", "15", "0", "212.50"},
		{"flat only", "250", "0", "50", "200.00"},
		{"percentage then flat", "200", "10", "30", "150.00"},
		{"floored at zero", "100", "50", "60", "0.00"},
		{"percentage clamped above 100", "100", "110", "0", "0.00"},
		{"negative percentage clamped", "100", "-20", "0", "100.00"},
		{"negative amount clamped", "100", "0", "-5", "100.00"},
		{"negative base clamped", "-10", "0", "0", "0.00"},
		{"half rounds up", "0.05", "50", "0", "0.03"},
		{"rounded once at the end", "1.00", "0.5", "0.004", "0.99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateFee(d(tt.base), d(tt.pct), d(tt.amount))
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestCalculateFee_DeterministicAndNonNegative(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		base := decimal.NewFromInt(rng.Int63n(100000)).Shift(-2)
		pct := decimal.NewFromInt(rng.Int63n(10001)).Shift(-2)
		amount := decimal.NewFromInt(rng.Int63n(50000)).Shift(-2)

		first := CalculateFee(base, pct, amount)
		second := CalculateFee(base, pct, amount)

		assert.True(t, first.Equal(second))
		assert.False(t, first.IsNegative(), "fee(%s, %s, %s) = %s", base, pct, amount, first)
		assert.True(t, first.Equal(first.Round(2)))
		assert.True(t, first.LessThanOrEqual(base))
	}
}

func TestForCategory(t *testing.T) {
	category := models.Category{DiscountPercentage: d("15"), DiscountAmount: decimal.Zero}
	assert.Equal(t, "212.50", ForCategory(d("250.00"), category).StringFixed(2))
}
