package backend

import (
	"context"
	"encoding/json"

	"github.com/travigo/railreserve/pkg/railway"
)

type Representative struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	SSN       string `json:"ssn"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"`
}

type representativesResponse struct {
	Envelope
	Representatives []Representative `json:"reps"`
}

func (c *Client) FetchRepresentatives(ctx context.Context) ([]Representative, error) {
	response, err := call[representativesResponse](ctx, c, EndpointFetchReps, struct{}{})
	if err != nil {
		return nil, err
	}

	return response.Representatives, nil
}

func (c *Client) CreateRepresentative(ctx context.Context, representative Representative) error {
	_, err := call[Envelope](ctx, c, EndpointCreateRep, representative)

	return err
}

func (c *Client) UpdateRepresentative(ctx context.Context, representative Representative) error {
	_, err := call[Envelope](ctx, c, EndpointUpdateRep, representative)

	return err
}

func (c *Client) DeleteRepresentative(ctx context.Context, representative Representative) error {
	_, err := call[Envelope](ctx, c, EndpointDeleteRep, representative)

	return err
}

type StationTrain struct {
	railway.Schedule
	TrainName string `json:"train_name,omitempty"`
}

type trainsResponse struct {
	Envelope
	Trains []StationTrain `json:"trains"`
}

func (c *Client) FetchTrainsForStation(ctx context.Context, stationName string) ([]StationTrain, error) {
	response, err := call[trainsResponse](ctx, c, EndpointTrainsForStation, map[string]string{
		"station_name": stationName,
	})
	if err != nil {
		return nil, err
	}

	return response.Trains, nil
}

type customersResponse struct {
	Envelope
	Customers []json.RawMessage `json:"customers"`
}

// FetchCustomersForTransit lists the customers booked on a line for a travel date. The
// records are passed through untouched, their layout belongs to the staff screens.
func (c *Client) FetchCustomersForTransit(ctx context.Context, transitLine string, travelDate string) ([]json.RawMessage, error) {
	response, err := call[customersResponse](ctx, c, EndpointCustomersForTransit, map[string]string{
		"transit_line": transitLine,
		"travel_date":  travelDate,
	})
	if err != nil {
		return nil, err
	}

	return response.Customers, nil
}

func (c *Client) UpdateTrainSchedule(ctx context.Context, train StationTrain) error {
	_, err := call[Envelope](ctx, c, EndpointUpdateSchedule, train)

	return err
}

func (c *Client) DeleteTrainSchedule(ctx context.Context, transitLine string) error {
	_, err := call[Envelope](ctx, c, EndpointDeleteSchedule, map[string]string{
		"transit_line": transitLine,
	})

	return err
}
