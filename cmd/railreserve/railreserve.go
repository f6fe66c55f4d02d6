package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/travigo/railreserve/pkg/api"
	"github.com/travigo/railreserve/pkg/events"
	"github.com/travigo/railreserve/pkg/export"
	"github.com/travigo/railreserve/pkg/fare"
	"github.com/travigo/railreserve/pkg/reservations"
	"github.com/travigo/railreserve/pkg/schedules"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"
)

func main() {
	if os.Getenv("RAILRESERVE_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	if os.Getenv("RAILRESERVE_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "railreserve",
		Description: "Railway reservation client - web api, event runner and command line tools",

		Commands: []*cli.Command{
			api.RegisterCLI(),
			events.RegisterCLI(),
			reservations.RegisterCLI(),
			schedules.RegisterCLI(),
			export.RegisterCLI(),
			fare.RegisterCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
