package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/adjust/rmq/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/travigo/railreserve/pkg/backend"
	"github.com/travigo/railreserve/pkg/railway"
)

const QueueName = "reservation-events"

type EventType string

const (
	EventTypeReservationRequested EventType = "ReservationRequested"
	EventTypeReservationCancelled EventType = "ReservationCancelled"
)

type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`

	Email         string                    `json:"email"`
	TransitLine   string                    `json:"transit_line"`
	ReservationID railway.Identifier        `json:"reservation_id,omitempty"`
	Category      railway.PassengerCategory `json:"category,omitempty"`
	Price         decimal.Decimal           `json:"price"`
}

func NewEvent(eventType EventType) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type QueuePublisher struct {
	Queue rmq.Queue
}

func NewQueuePublisher(connection rmq.Connection) (*QueuePublisher, error) {
	queue, err := connection.OpenQueue(QueueName)
	if err != nil {
		return nil, err
	}

	return &QueuePublisher{Queue: queue}, nil
}

func (p *QueuePublisher) Publish(ctx context.Context, event Event) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.Queue.PublishBytes(eventBytes)
}

// NopPublisher drops events when no queue is configured
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, event Event) error {
	return nil
}

// Recorder turns reservation activity into events. Publishing failures are logged and
// never fail the operation that triggered them.
type Recorder struct {
	Publisher Publisher
}

func (r *Recorder) ReservationCancelled(ctx context.Context, reservation railway.Reservation) {
	event := NewEvent(EventTypeReservationCancelled)
	event.Email = reservation.CustomerEmail
	event.TransitLine = reservation.TransitLine
	event.ReservationID = reservation.ReservationID
	event.Category = reservation.PassengerCategory
	event.Price = reservation.Price

	r.publish(ctx, event)
}

func (r *Recorder) TicketRequested(ctx context.Context, request backend.ReserveTicketRequest) {
	event := NewEvent(EventTypeReservationRequested)
	event.Email = request.CustomerEmail
	event.TransitLine = request.TransitLine
	event.Category = request.PassengerCategory
	event.Price = request.Price

	r.publish(ctx, event)
}

func (r *Recorder) publish(ctx context.Context, event Event) {
	if r == nil || r.Publisher == nil {
		return
	}

	if err := r.Publisher.Publish(ctx, event); err != nil {
		log.Error().Err(err).Str("type", string(event.Type)).Str("transitline", event.TransitLine).Msg("Failed to publish event")
	}
}
