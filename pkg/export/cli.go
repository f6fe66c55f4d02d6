package export

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/travigo/railreserve/pkg/reservations"
	"github.com/travigo/railreserve/pkg/session"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export data as CSV",
		Subcommands: []*cli.Command{
			{
				Name:  "reservations",
				Usage: "write grouped reservations as CSV",
				Flags: append(session.CLIFlags(), &cli.StringFlag{
					Name:  "output",
					Usage: "file to write to, defaults to stdout",
				}),
				Action: func(c *cli.Context) error {
					lifecycle, err := reservations.Open(c)
					if err != nil {
						return err
					}

					output := os.Stdout
					if path := c.String("output"); path != "" {
						file, err := os.Create(path)
						if err != nil {
							return err
						}
						defer file.Close()

						output = file
					}

					if err := WriteGroups(output, lifecycle.Groups()); err != nil {
						return err
					}

					log.Debug().Str("output", c.String("output")).Msg("Exported reservations")

					return nil
				},
			},
		},
	}
}
