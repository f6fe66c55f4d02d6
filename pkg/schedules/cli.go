package schedules

import (
	"fmt"

	"github.com/kr/pretty"
	"github.com/travigo/railreserve/pkg/backend"
	"github.com/travigo/railreserve/pkg/config"
	"github.com/travigo/railreserve/pkg/railway"
	"github.com/urfave/cli/v2"
)

func newClient() (*backend.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	return backend.NewClient(cfg.BackendAddress, cfg.RequestTimeout), nil
}

func printSchedules(list []railway.Schedule) {
	if len(list) == 0 {
		fmt.Println("No trains found")
		return
	}

	for _, schedule := range list {
		fmt.Printf("%-10s %s -> %s  %s - %s  %s  %s\n",
			schedule.TransitLine,
			schedule.OriginName,
			schedule.DestinationName,
			schedule.Departure.Format("15:04"),
			schedule.Arrival.Format("15:04"),
			railway.FormatJourneyDuration(schedule.Duration()),
			schedule.Fare.StringFixed(2),
		)
	}
}

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "schedules",
		Usage: "Search train schedules",
		Subcommands: []*cli.Command{
			{
				Name:  "search",
				Usage: "search schedules between two stations",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "source", Required: true},
					&cli.StringFlag{Name: "destination", Required: true},
					&cli.StringFlag{Name: "date", Usage: "travel date, YYYY-MM-DD"},
					&cli.StringFlag{Name: "sort", Usage: "arrival, departure or fare"},
					&cli.StringFlag{Name: "filter", Usage: "expression such as 'Fare < 50 && DurationMinutes < 120'"},
					&cli.BoolFlag{Name: "stops", Usage: "also fetch the stops of every result"},
					&cli.BoolFlag{Name: "pretty"},
				},
				Action: func(c *cli.Context) error {
					client, err := newClient()
					if err != nil {
						return err
					}

					search := NewSearch(client)

					if c.String("sort") != "" {
						key, err := ParseSortKey(c.String("sort"))
						if err != nil {
							return err
						}
						search.SortBy(key)
					}

					filter, err := CompileFilter(c.String("filter"))
					if err != nil {
						return err
					}
					search.SetFilter(filter)

					results, err := search.Run(c.Context, backend.ScheduleSearch{
						Source:      c.String("source"),
						Destination: c.String("destination"),
						Date:        c.String("date"),
					})
					if err != nil {
						return err
					}

					if c.Bool("pretty") {
						pretty.Println(results)
					} else {
						printSchedules(results)
					}

					if c.Bool("stops") {
						lines := make([]string, 0, len(results))
						for _, schedule := range results {
							lines = append(lines, schedule.TransitLine)
						}
						search.Stops.Prefetch(c.Context, lines)

						for _, line := range lines {
							stops, ok := search.Stops.Get(line)
							if !ok {
								fmt.Printf("%s: stops unavailable (%v)\n", line, search.Stops.LastError(line))
								continue
							}
							printStops(line, stops)
						}
					}

					return nil
				},
			},
			{
				Name:  "stops",
				Usage: "list the intermediate stops of a transit line",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "line", Required: true},
				},
				Action: func(c *cli.Context) error {
					client, err := newClient()
					if err != nil {
						return err
					}

					stops, err := NewSearch(client).ExpandStops(c.Context, c.String("line"))
					if err != nil {
						return err
					}

					printStops(c.String("line"), stops)

					return nil
				},
			},
		},
	}
}

func printStops(line string, stops []railway.Stop) {
	fmt.Printf("%s\n", line)

	if len(stops) == 0 {
		fmt.Println("  No intermediate stops")
		return
	}

	for _, stop := range stops {
		fmt.Printf("  %-24s arr %s  dep %s  (%d min)\n",
			stop.StationName,
			stop.Arrival.Format("15:04"),
			stop.Departure.Format("15:04"),
			stop.DwellMinutes(),
		)
	}
}
