package export

import (
	"io"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/travigo/railreserve/pkg/reservations"
)

type Row struct {
	Bucket          string `csv:"bucket"`
	TransitLine     string `csv:"transit_line"`
	ReservationID   string `csv:"reservation_id"`
	Departure       string `csv:"departure"`
	Seat            string `csv:"seat"`
	Category        string `csv:"passenger_category"`
	Status          string `csv:"status"`
	Price           string `csv:"price"`
	DiscountedPrice string `csv:"discounted_price"`
}

// Rows flattens grouped reservations, upcoming first, keeping the line order of each bucket
func Rows(groups reservations.Groups) []*Row {
	var rows []*Row

	for _, bucketName := range []string{reservations.BucketUpcoming, reservations.BucketPast} {
		bucket, _ := groups.Bucket(bucketName)

		for _, reservation := range bucket.All() {
			departure := ""
			if !reservation.Schedule.Departure.IsZero() {
				departure = reservation.Schedule.Departure.Format(time.RFC3339)
			}

			rows = append(rows, &Row{
				Bucket:          bucketName,
				TransitLine:     reservation.TransitLine,
				ReservationID:   reservation.ReservationID.String(),
				Departure:       departure,
				Seat:            reservation.SeatLabel(),
				Category:        string(reservation.PassengerCategory),
				Status:          string(reservation.Status),
				Price:           reservation.Price.StringFixed(2),
				DiscountedPrice: reservation.DiscountedPrice.StringFixed(2),
			})
		}
	}

	return rows
}

func WriteGroups(w io.Writer, groups reservations.Groups) error {
	rows := Rows(groups)
	if rows == nil {
		rows = []*Row{}
	}

	return gocsv.Marshal(rows, w)
}
