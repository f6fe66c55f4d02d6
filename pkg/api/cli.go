package api

import (
	"github.com/rs/zerolog/log"
	"github.com/travigo/railreserve/pkg/backend"
	"github.com/travigo/railreserve/pkg/config"
	"github.com/travigo/railreserve/pkg/events"
	"github.com/travigo/railreserve/pkg/redis_client"
	"github.com/travigo/railreserve/pkg/session"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Provides the browser facing reservation API",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Usage: "listen target for the web server, defaults to RAILRESERVE_LISTEN",
					},
				},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load()
					if err != nil {
						return err
					}

					listen := cfg.Listen
					if c.String("listen") != "" {
						listen = c.String("listen")
					}

					var sessions session.Store
					var publisher events.Publisher

					if cfg.RedisEnabled() {
						if err := redis_client.Connect(cfg); err != nil {
							return err
						}

						sessions = session.NewRedisStore(redis_client.Client, cfg.SessionTTL)

						queuePublisher, err := events.NewQueuePublisher(redis_client.QueueConnection)
						if err != nil {
							return err
						}
						publisher = queuePublisher
					} else {
						log.Warn().Msg("No redis configured, sessions are kept in memory and events are dropped")

						sessions = session.NewMemoryStore(cfg.SessionTTL)
						publisher = events.NopPublisher{}
					}

					server := NewServer(
						backend.NewClient(cfg.BackendAddress, cfg.RequestTimeout),
						sessions,
						Options{
							RequestTimeout: cfg.RequestTimeout,
							RetryAttempts:  cfg.RetryAttempts,
							Recorder:       &events.Recorder{Publisher: publisher},
							SessionTTL:     cfg.SessionTTL,
						},
					)

					log.Info().Str("listen", listen).Str("backend", cfg.BackendAddress).Msg("Starting web api")

					return server.Listen(listen)
				},
			},
		},
	}
}
