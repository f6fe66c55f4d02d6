package railway

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

type Schedule struct {
	TransitLine     string          `json:"transit_line"`
	OriginName      string          `json:"origin_name"`
	DestinationName string          `json:"destination_name"`
	Departure       Timestamp       `json:"departure"`
	Arrival         Timestamp       `json:"arrival"`
	Fare            decimal.Decimal `json:"fare"`
}

func (s Schedule) Duration() time.Duration {
	return s.Arrival.Sub(s.Departure.Time)
}

// FormatJourneyDuration renders a journey length the way it is shown on the search
// results, whole hours followed by the remaining minutes rounded up.
func FormatJourneyDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	hours := int(d / time.Hour)
	minutes := int(math.Ceil(float64(d%time.Hour) / float64(time.Minute)))

	return fmt.Sprintf("%d hrs %d mins", hours, minutes)
}
