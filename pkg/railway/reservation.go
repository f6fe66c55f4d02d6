package railway

import (
	"github.com/shopspring/decimal"
)

type ReservationStatus string

const (
	ReservationStatusActive    ReservationStatus = "active"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

type Reservation struct {
	ReservationID     Identifier        `json:"reservation_id"`
	TransitLine       string            `json:"transit_line"`
	CustomerEmail     string            `json:"customer_email"`
	SeatNumber        Identifier        `json:"seat_number,omitempty"`
	PassengerCategory PassengerCategory `json:"passenger_category"`
	Price             decimal.Decimal   `json:"price"`
	DiscountedPrice   decimal.Decimal   `json:"discounted_price"`
	Status            ReservationStatus `json:"status"`
	CreatedAt         Timestamp         `json:"created_at"`

	Schedule Schedule `json:"schedule"`
}

func (r Reservation) IsActive() bool {
	return r.Status == ReservationStatusActive
}

func (r Reservation) SeatLabel() string {
	if r.SeatNumber == "" {
		return "Unassigned"
	}

	return r.SeatNumber.String()
}
