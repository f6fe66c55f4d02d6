package railway

import (
	"math"
	"time"
)

// Stop is an intermediate station on a transit line. A line's stops are kept in route order.
type Stop struct {
	StationName string    `json:"station_name"`
	Arrival     Timestamp `json:"arrival"`
	Departure   Timestamp `json:"departure"`
}

func (s Stop) Dwell() time.Duration {
	return s.Departure.Sub(s.Arrival.Time)
}

func (s Stop) DwellMinutes() int {
	return int(math.Ceil(s.Dwell().Minutes()))
}
