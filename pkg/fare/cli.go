package fare

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/travigo/railreserve/pkg/railway"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "fare",
		Usage: "Preview the discounted fare for each passenger category",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "fare",
				Usage:    "base fare",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "category",
				Usage: "only show this passenger category",
			},
		},
		Action: func(c *cli.Context) error {
			baseFare, err := decimal.NewFromString(c.String("fare"))
			if err != nil {
				return fmt.Errorf("invalid fare: %w", err)
			}
			if !baseFare.IsPositive() {
				return fmt.Errorf("invalid fare: %s is not a positive number", baseFare)
			}

			categories := railway.PassengerCategories
			if c.String("category") != "" {
				categories = []railway.PassengerCategory{railway.ParsePassengerCategory(c.String("category"))}
			}

			for _, category := range categories {
				quote := NewQuote(baseFare, category)
				fmt.Printf("%-10s %3s%%  %s\n", quote.Category, quote.Rate.Shift(2).String(), quote.Display())
			}

			return nil
		},
	}
}
