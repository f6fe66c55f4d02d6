package backend

import (
	"context"
	"encoding/json"

	"github.com/travigo/railreserve/pkg/railway"
)

type RevenueGrouping string

const (
	RevenueByTransitLine RevenueGrouping = "transit_line"
	RevenueByCustomer    RevenueGrouping = "customer_email"
	RevenueByMonth       RevenueGrouping = "month"
)

type revenueResponse struct {
	Envelope
	Data []map[string]any `json:"data"`
}

func (c *Client) CalculateRevenue(ctx context.Context, grouping RevenueGrouping) ([]map[string]any, error) {
	response, err := call[revenueResponse](ctx, c, EndpointCalculateRevenue, map[string]string{
		"type": string(grouping),
	})
	if err != nil {
		return nil, err
	}

	return response.Data, nil
}

type ReservationSearchType string

const (
	ReservationSearchByTransitLine  ReservationSearchType = "transit_line"
	ReservationSearchByCustomerName ReservationSearchType = "customer_name"
)

func (c *Client) SearchReservations(ctx context.Context, searchType ReservationSearchType, value string) ([]railway.Reservation, error) {
	response, err := call[reservationsResponse](ctx, c, EndpointSearchReservations, map[string]string{
		"search_type": string(searchType),
		"value":       value,
	})
	if err != nil {
		return nil, err
	}

	return response.Reservations, nil
}

type metadataResponse struct {
	Envelope
	raw map[string]json.RawMessage
}

func (m *metadataResponse) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &m.Envelope); err != nil {
		return err
	}

	return json.Unmarshal(data, &m.raw)
}

// FetchMetadata returns the whole metadata document minus the envelope fields
func (c *Client) FetchMetadata(ctx context.Context) (map[string]json.RawMessage, error) {
	response, err := call[metadataResponse](ctx, c, EndpointMetadata, map[string]string{
		"temp": "",
	})
	if err != nil {
		return nil, err
	}

	delete(response.raw, "success")
	delete(response.raw, "message")

	return response.raw, nil
}
