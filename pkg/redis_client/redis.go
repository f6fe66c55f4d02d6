package redis_client

import (
	"context"
	"errors"

	"github.com/adjust/rmq/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/travigo/railreserve/pkg/config"
)

var Client *redis.Client
var QueueConnection rmq.Connection

const queueTag = "railreserve"

var ErrNotConfigured = errors.New("redis address is not configured")

func Connect(cfg config.Config) error {
	if !cfg.RedisEnabled() {
		return ErrNotConfigured
	}

	Client = redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDatabase,
	})

	if err := Client.Ping(context.Background()).Err(); err != nil {
		return err
	}

	queueErrors := make(chan error, 10)
	go logQueueErrors(queueErrors)

	var err error
	QueueConnection, err = rmq.OpenConnectionWithRedisClient(queueTag, Client, queueErrors)
	if err != nil {
		return err
	}

	log.Debug().Str("address", cfg.RedisAddress).Int("database", cfg.RedisDatabase).Msg("Connected to redis")

	return nil
}

func logQueueErrors(queueErrors <-chan error) {
	for err := range queueErrors {
		log.Error().Err(err).Msg("Queue connection error")
	}
}
