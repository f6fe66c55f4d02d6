package reservations

import (
	"errors"
	"fmt"

	"github.com/kr/pretty"
	"github.com/travigo/railreserve/pkg/backend"
	"github.com/travigo/railreserve/pkg/config"
	"github.com/travigo/railreserve/pkg/railway"
	"github.com/travigo/railreserve/pkg/session"
	"github.com/urfave/cli/v2"
)

// Open logs in with the command line credentials and fetches the reservations once
func Open(c *cli.Context) (*Lifecycle, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	client := backend.NewClient(cfg.BackendAddress, cfg.RequestTimeout)

	sess, err := session.LoginWithCLI(c, client)
	if err != nil {
		return nil, err
	}

	lifecycle := NewLifecycle(client, sess, Options{
		Timeout:       cfg.RequestTimeout,
		RetryAttempts: cfg.RetryAttempts,
	})

	if err := lifecycle.Retry(c.Context); err != nil {
		return nil, err
	}

	return lifecycle, nil
}

func printBucket(title string, bucket Bucket) {
	fmt.Println(title)

	if bucket.Empty() {
		fmt.Println("  No reservations found")
		return
	}

	for _, line := range bucket.Lines() {
		fmt.Printf("  %s\n", line)

		for _, reservation := range bucket.Get(line) {
			fmt.Printf("    #%-6s %s  seat %-10s %-9s %-9s %s\n",
				reservation.ReservationID,
				reservation.Schedule.Departure.Format("2006-01-02 15:04"),
				reservation.SeatLabel(),
				reservation.PassengerCategory,
				reservation.Status,
				reservation.DiscountedPrice.StringFixed(2),
			)
		}
	}
}

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "reservations",
		Usage: "Look at and cancel reservations",
		Flags: session.CLIFlags(),
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list upcoming and past reservations",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "dump the grouped reservations",
					},
				},
				Action: func(c *cli.Context) error {
					lifecycle, err := Open(c)
					if err != nil {
						return err
					}

					groups := lifecycle.Groups()

					if c.Bool("pretty") {
						pretty.Println(groups.Upcoming.All(), groups.Past.All())
						return nil
					}

					printBucket("Upcoming", groups.Upcoming)
					printBucket("Past", groups.Past)

					return nil
				},
			},
			{
				Name:  "cancel",
				Usage: "cancel an active reservation",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "reservation id",
						Required: true,
					},
				},
				Action: func(c *cli.Context) error {
					lifecycle, err := Open(c)
					if err != nil {
						return err
					}

					reservationID := railway.Identifier(c.String("id"))

					err = lifecycle.Cancel(c.Context, reservationID)
					if errors.Is(err, ErrNotCancellable) || errors.Is(err, ErrUnknownReservation) {
						return cli.Exit(err.Error(), 2)
					} else if err != nil {
						return err
					}

					fmt.Printf("Reservation %s cancelled\n", reservationID)
					printBucket("Upcoming", lifecycle.Groups().Upcoming)

					return nil
				},
			},
		},
	}
}
