// Package fare prices a ticket for a passenger category.
package fare

import (
	"github.com/shopspring/decimal"
	"github.com/travigo/railreserve/pkg/railway"
)

var discountRates = map[railway.PassengerCategory]decimal.Decimal{
	railway.PassengerCategoryRegular:  decimal.Zero,
	railway.PassengerCategoryChild:    decimal.RequireFromString("0.25"),
	railway.PassengerCategoryElderly:  decimal.RequireFromString("0.35"),
	railway.PassengerCategoryDisabled: decimal.RequireFromString("0.50"),
}

// DiscountRate is always in [0,1). Unknown categories pay the regular fare.
func DiscountRate(category railway.PassengerCategory) decimal.Decimal {
	if rate, ok := discountRates[category]; ok {
		return rate
	}

	return decimal.Zero
}

// ComputeFare returns the discounted fare rounded half-up to 2 decimal places.
func ComputeFare(baseFare decimal.Decimal, category railway.PassengerCategory) decimal.Decimal {
	rate := DiscountRate(category)

	return baseFare.Mul(decimal.NewFromInt(1).Sub(rate)).Round(2)
}

type Quote struct {
	Category        railway.PassengerCategory
	Rate            decimal.Decimal
	Price           decimal.Decimal
	DiscountedPrice decimal.Decimal
}

func NewQuote(baseFare decimal.Decimal, category railway.PassengerCategory) Quote {
	if !category.Known() {
		category = railway.PassengerCategoryRegular
	}

	return Quote{
		Category:        category,
		Rate:            DiscountRate(category),
		Price:           baseFare,
		DiscountedPrice: ComputeFare(baseFare, category),
	}
}

func (q Quote) Display() string {
	return q.DiscountedPrice.StringFixed(2)
}
