package backend

import (
	"context"

	"github.com/travigo/railreserve/pkg/railway"
)

type ScheduleSearch struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Date        string `json:"date"`
}

type schedulesResponse struct {
	Envelope
	Schedules []railway.Schedule `json:"schedules"`
}

type stopsResponse struct {
	Envelope
	Stops []railway.Stop `json:"stops"`
}

func (c *Client) SearchSchedules(ctx context.Context, search ScheduleSearch) ([]railway.Schedule, error) {
	response, err := call[schedulesResponse](ctx, c, EndpointTrainSchedule, search)
	if err != nil {
		return nil, err
	}

	return response.Schedules, nil
}

func (c *Client) FetchStops(ctx context.Context, transitLine string) ([]railway.Stop, error) {
	response, err := call[stopsResponse](ctx, c, EndpointTrainStops, map[string]string{
		"transit_line": transitLine,
	})
	if err != nil {
		return nil, err
	}

	return response.Stops, nil
}
