package tickets

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/travigo/railreserve/pkg/backend"
	"github.com/travigo/railreserve/pkg/fare"
	"github.com/travigo/railreserve/pkg/railway"
)

var (
	ErrSubmitInFlight  = errors.New("ticket request already in progress")
	ErrNoCustomerEmail = errors.New("customer email is required to reserve a ticket")
	ErrNoTransitLine   = errors.New("schedule has no transit line")
)

type Reserver interface {
	ReserveTicket(ctx context.Context, request backend.ReserveTicketRequest) error
}

type Notifier interface {
	TicketRequested(ctx context.Context, request backend.ReserveTicketRequest)
}

// Checkout is the purchase dialog for a single schedule. The customer picks a passenger
// category, previews the discounted price and submits the request.
type Checkout struct {
	reserver      Reserver
	customerEmail string
	schedule      railway.Schedule
	notifier      Notifier

	mutex      sync.Mutex
	category   railway.PassengerCategory
	submitting bool
}

func NewCheckout(reserver Reserver, customerEmail string, schedule railway.Schedule, notifier Notifier) *Checkout {
	return &Checkout{
		reserver:      reserver,
		customerEmail: customerEmail,
		schedule:      schedule,
		notifier:      notifier,
		category:      railway.PassengerCategoryRegular,
	}
}

func (c *Checkout) Schedule() railway.Schedule {
	return c.schedule
}

func (c *Checkout) Category() railway.PassengerCategory {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.category
}

func (c *Checkout) SetCategory(category railway.PassengerCategory) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.category = category
}

func (c *Checkout) Quote() fare.Quote {
	return fare.NewQuote(c.schedule.Fare, c.Category())
}

// Submit sends the undiscounted fare together with the category. The backend applies the
// discount itself, the preview is only informational.
func (c *Checkout) Submit(ctx context.Context) error {
	if c.customerEmail == "" {
		return ErrNoCustomerEmail
	}
	if c.schedule.TransitLine == "" {
		return ErrNoTransitLine
	}

	c.mutex.Lock()
	if c.submitting {
		c.mutex.Unlock()
		return ErrSubmitInFlight
	}
	c.submitting = true
	category := c.category
	c.mutex.Unlock()

	request := backend.ReserveTicketRequest{
		TransitLine:       c.schedule.TransitLine,
		CustomerEmail:     c.customerEmail,
		Price:             c.schedule.Fare,
		PassengerCategory: category,
	}

	err := c.reserver.ReserveTicket(ctx, request)

	c.mutex.Lock()
	c.submitting = false
	if err == nil {
		c.category = railway.PassengerCategoryRegular
	}
	c.mutex.Unlock()

	if err != nil {
		log.Error().Err(err).Str("transitline", request.TransitLine).Msg("Failed to reserve ticket")
		return err
	}

	log.Info().
		Str("transitline", request.TransitLine).
		Str("category", string(category)).
		Msg("Ticket reserved")

	if c.notifier != nil {
		c.notifier.TicketRequested(ctx, request)
	}

	return nil
}
