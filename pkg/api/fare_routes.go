package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/travigo/railreserve/pkg/fare"
	"github.com/travigo/railreserve/pkg/railway"
)

type QuoteView struct {
	Category        railway.PassengerCategory `json:"passenger_category"`
	Rate            decimal.Decimal           `json:"discount_rate"`
	Price           decimal.Decimal           `json:"price"`
	DiscountedPrice string                    `json:"discounted_price"`
}

func newQuoteView(quote fare.Quote) QuoteView {
	return QuoteView{
		Category:        quote.Category,
		Rate:            quote.Rate,
		Price:           quote.Price,
		DiscountedPrice: quote.Display(),
	}
}

func getFare(c *fiber.Ctx) error {
	baseFare, err := decimal.NewFromString(c.Query("fare"))
	if err != nil || !baseFare.IsPositive() {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Parameter fare should be a positive number",
		})
	}

	category := railway.ParsePassengerCategory(c.Query("category"))

	return c.JSON(newQuoteView(fare.NewQuote(baseFare, category)))
}
