package backend

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"
	"github.com/travigo/railreserve/pkg/railway"
)

type reservationsResponse struct {
	Envelope
	Reservations []railway.Reservation `json:"reservations"`
}

func (c *Client) FetchReservations(ctx context.Context, email string) ([]railway.Reservation, error) {
	response, err := call[reservationsResponse](ctx, c, EndpointFetchReservations, map[string]string{
		"email": email,
	})
	if err != nil {
		return nil, err
	}

	return response.Reservations, nil
}

func (c *Client) CancelReservation(ctx context.Context, reservationID railway.Identifier) error {
	_, err := call[Envelope](ctx, c, EndpointCancelReservation, map[string]any{
		"reservation_id": reservationID,
	})

	return err
}

type ReserveTicketRequest struct {
	TransitLine       string                    `json:"transit_line"`
	CustomerEmail     string                    `json:"customer_email"`
	Price             decimal.Decimal           `json:"-"`
	PassengerCategory railway.PassengerCategory `json:"passenger_category"`
}

// MarshalJSON sends the price as a plain JSON number
func (r ReserveTicketRequest) MarshalJSON() ([]byte, error) {
	type alias ReserveTicketRequest

	return json.Marshal(struct {
		alias
		Price json.Number `json:"price"`
	}{
		alias: alias(r),
		Price: json.Number(r.Price.String()),
	})
}

func (c *Client) ReserveTicket(ctx context.Context, request ReserveTicketRequest) error {
	_, err := call[Envelope](ctx, c, EndpointReserveTicket, request)

	return err
}
