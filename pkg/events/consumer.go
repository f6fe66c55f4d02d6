package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/adjust/rmq/v5"
	"github.com/kr/pretty"
	"github.com/rs/zerolog/log"
)

const (
	numConsumers = 5
	batchSize    = 20
	batchTimeout = 2 * time.Second
)

type Handler func(event Event)

func StartConsumers(connection rmq.Connection, handler Handler) (rmq.Queue, error) {
	log.Info().Msg("Starting events consumers")

	queue, err := connection.OpenQueue(QueueName)
	if err != nil {
		return nil, err
	}
	if err := queue.StartConsuming(numConsumers*200, 1*time.Second); err != nil {
		return nil, err
	}

	for i := 0; i < numConsumers; i++ {
		log.Debug().Msgf("Starting events consumer %d", i)

		if _, err := queue.AddBatchConsumer(fmt.Sprintf("reservation-events-%d", i), batchSize, batchTimeout, NewBatchConsumer(i, handler)); err != nil {
			return nil, err
		}
	}

	return queue, nil
}

type BatchConsumer struct {
	id      int
	handler Handler
}

func NewBatchConsumer(id int, handler Handler) *BatchConsumer {
	return &BatchConsumer{id: id, handler: handler}
}

func (consumer *BatchConsumer) Consume(batch rmq.Deliveries) {
	for _, delivery := range batch {
		var event Event
		if err := json.Unmarshal([]byte(delivery.Payload()), &event); err != nil {
			log.Error().Err(err).Int("consumer", consumer.id).Msg("Failed to decode event, rejecting")

			if err := delivery.Reject(); err != nil {
				log.Error().Err(err).Msg("Failed to reject event")
			}
			continue
		}

		if consumer.handler != nil {
			consumer.handler(event)
		}

		if err := delivery.Ack(); err != nil {
			log.Error().Err(err).Str("id", event.ID).Msg("Failed to ack event")
		}
	}
}

// LogEvent is the default handler for the events runner
func LogEvent(event Event) {
	log.Info().
		Str("id", event.ID).
		Str("type", string(event.Type)).
		Str("email", event.Email).
		Str("transitline", event.TransitLine).
		Str("reservation", event.ReservationID.String()).
		Str("category", string(event.Category)).
		Str("price", event.Price.StringFixed(2)).
		Time("timestamp", event.Timestamp).
		Msg("Reservation event")
}

func PrettyPrintEvent(event Event) {
	pretty.Println(event)
}
