package fare

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/travigo/railreserve/pkg/railway"
)

func TestComputeFare(t *testing.T) {
	base := decimal.NewFromInt(100)

	tests := []struct {
		category railway.PassengerCategory
		expected string
	}{
		{railway.PassengerCategoryChild, "75.00"},
		{railway.PassengerCategoryElderly, "65.00"},
		{railway.PassengerCategoryDisabled, "50.00"},
		{railway.PassengerCategoryRegular, "100.00"},
		{railway.PassengerCategory("unknown-category"), "100.00"},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, ComputeFare(base, test.category).StringFixed(2), string(test.category))
	}
}

func TestComputeFareRoundsHalfUp(t *testing.T) {
	// 10.05 * 0.75 = 7.5375
	assert.Equal(t, "7.54", ComputeFare(decimal.RequireFromString("10.05"), railway.PassengerCategoryChild).StringFixed(2))
	// 0.07 * 0.5 = 0.035
	assert.Equal(t, "0.04", ComputeFare(decimal.RequireFromString("0.07"), railway.PassengerCategoryDisabled).StringFixed(2))
}

func TestDiscountRatesBounded(t *testing.T) {
	one := decimal.NewFromInt(1)

	for _, category := range railway.PassengerCategories {
		rate := DiscountRate(category)
		assert.True(t, rate.GreaterThanOrEqual(decimal.Zero), string(category))
		assert.True(t, rate.LessThan(one), string(category))
	}
}

func TestNewQuoteKeepsUnroundedPrice(t *testing.T) {
	base := decimal.RequireFromString("33.333")
	quote := NewQuote(base, railway.PassengerCategoryElderly)

	assert.True(t, quote.Price.Equal(base))
	assert.Equal(t, "21.67", quote.Display())
	assert.Equal(t, railway.PassengerCategoryElderly, quote.Category)

	fallback := NewQuote(base, railway.PassengerCategory("vip"))
	assert.Equal(t, railway.PassengerCategoryRegular, fallback.Category)
	assert.Equal(t, "33.33", fallback.Display())
}
