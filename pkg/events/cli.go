package events

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/travigo/railreserve/pkg/config"
	"github.com/travigo/railreserve/pkg/railway"
	"github.com/travigo/railreserve/pkg/redis_client"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "events",
		Usage: "Provides the reservation events runner",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "consume reservation events",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "pretty print every consumed event",
					},
				},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load()
					if err != nil {
						return err
					}
					if err := redis_client.Connect(cfg); err != nil {
						return err
					}

					handler := LogEvent
					if c.Bool("pretty") {
						handler = PrettyPrintEvent
					}

					if _, err := StartConsumers(redis_client.QueueConnection, handler); err != nil {
						return err
					}

					signals := make(chan os.Signal, 1)
					signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
					defer signal.Stop(signals)

					<-signals // wait for signal
					go func() {
						<-signals // hard exit on second signal (in case shutdown gets stuck)
						os.Exit(1)
					}()

					<-redis_client.QueueConnection.StopAllConsuming() // wait for all Consume() calls to finish

					return nil
				},
			},
			{
				Name:  "stats",
				Usage: "show the reservation events queue counters",
				Action: func(c *cli.Context) error {
					cfg, err := config.Load()
					if err != nil {
						return err
					}
					if err := redis_client.Connect(cfg); err != nil {
						return err
					}

					stats, err := redis_client.QueueConnection.CollectStats([]string{QueueName})
					if err != nil {
						return err
					}

					queueStats := stats.QueueStats[QueueName]
					log.Info().
						Str("queue", QueueName).
						Int64("ready", queueStats.ReadyCount).
						Int64("rejected", queueStats.RejectedCount).
						Int64("unacked", queueStats.UnackedCount()).
						Int64("consumers", queueStats.ConsumerCount()).
						Msg("Queue stats")

					return nil
				},
			},
			{
				Name:  "test-event",
				Usage: "publish a test reservation event",
				Action: func(c *cli.Context) error {
					cfg, err := config.Load()
					if err != nil {
						return err
					}
					if err := redis_client.Connect(cfg); err != nil {
						return err
					}

					publisher, err := NewQueuePublisher(redis_client.QueueConnection)
					if err != nil {
						log.Fatal().Err(err).Msg("Failed to open event queue")
					}

					event := NewEvent(EventTypeReservationRequested)
					event.Email = "test@example.com"
					event.TransitLine = "TEST-1"
					event.Category = railway.PassengerCategoryRegular
					event.Price = decimal.NewFromInt(10)

					return publisher.Publish(context.Background(), event)
				},
			},
		},
	}
}
