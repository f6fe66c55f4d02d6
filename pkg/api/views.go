package api

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
	"github.com/liip/sheriff"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/travigo/railreserve/pkg/backend"
	"github.com/travigo/railreserve/pkg/railway"
	"github.com/travigo/railreserve/pkg/reservations"
	"github.com/travigo/railreserve/pkg/session"
	"github.com/travigo/railreserve/pkg/stopscache"
)

type SessionView struct {
	Token     string       `json:"token" groups:"basic,detailed"`
	Role      session.Role `json:"role" groups:"basic,detailed"`
	Email     string       `json:"email" groups:"basic,detailed"`
	FirstName string       `json:"firstname" groups:"basic,detailed"`
	LastName  string       `json:"lastname" groups:"basic,detailed"`
	Username  string       `json:"username" groups:"detailed"`
	CreatedAt time.Time    `json:"created_at" groups:"detailed"`
}

type ScheduleView struct {
	TransitLine     string            `json:"transit_line" groups:"basic,detailed"`
	OriginName      string            `json:"origin_name" groups:"basic,detailed"`
	DestinationName string            `json:"destination_name" groups:"basic,detailed"`
	Departure       railway.Timestamp `json:"departure" groups:"basic,detailed"`
	Arrival         railway.Timestamp `json:"arrival" groups:"basic,detailed"`
	Fare            decimal.Decimal   `json:"fare" groups:"basic,detailed"`
	JourneyDuration string            `json:"journey_duration" groups:"detailed" copier:"-"`
}

func newScheduleView(schedule railway.Schedule) ScheduleView {
	var view ScheduleView
	copier.Copy(&view, &schedule)
	view.JourneyDuration = railway.FormatJourneyDuration(schedule.Duration())

	return view
}

func newScheduleViews(list []railway.Schedule) []ScheduleView {
	views := []ScheduleView{}
	for _, schedule := range list {
		views = append(views, newScheduleView(schedule))
	}

	return views
}

type StopView struct {
	StationName  string            `json:"station_name" groups:"basic,detailed"`
	Arrival      railway.Timestamp `json:"arrival" groups:"basic,detailed"`
	Departure    railway.Timestamp `json:"departure" groups:"basic,detailed"`
	DwellMinutes int               `json:"dwell_minutes" groups:"basic,detailed"`
}

func newStopViews(list []railway.Stop) []StopView {
	views := []StopView{}
	for _, stop := range list {
		var view StopView
		copier.Copy(&view, &stop)
		views = append(views, view)
	}

	return views
}

type ReservationView struct {
	ReservationID     railway.Identifier        `json:"reservation_id" groups:"basic,detailed"`
	TransitLine       string                    `json:"transit_line" groups:"basic,detailed"`
	SeatLabel         string                    `json:"seat" groups:"basic,detailed"`
	PassengerCategory railway.PassengerCategory `json:"passenger_category" groups:"basic,detailed"`
	Status            railway.ReservationStatus `json:"status" groups:"basic,detailed"`
	IsActive          bool                      `json:"cancellable" groups:"basic,detailed"`
	Price             decimal.Decimal           `json:"price" groups:"detailed"`
	DiscountedPrice   decimal.Decimal           `json:"discounted_price" groups:"basic,detailed"`
	CustomerEmail     string                    `json:"customer_email" groups:"detailed"`
	CreatedAt         railway.Timestamp         `json:"created_at" groups:"detailed"`
	Schedule          ScheduleView              `json:"schedule" groups:"basic,detailed" copier:"-"`
}

type LineView struct {
	TransitLine  string            `json:"transit_line" groups:"basic,detailed"`
	Reservations []ReservationView `json:"reservations" groups:"basic,detailed"`
}

type ReservationsView struct {
	State    string     `json:"state" groups:"basic,detailed"`
	Error    string     `json:"error" groups:"basic,detailed"`
	LoadedAt time.Time  `json:"loaded_at" groups:"detailed"`
	Upcoming []LineView `json:"upcoming" groups:"basic,detailed"`
	Past     []LineView `json:"past" groups:"basic,detailed"`
}

func newLineViews(bucket reservations.Bucket) []LineView {
	views := []LineView{}

	for _, line := range bucket.Lines() {
		lineView := LineView{TransitLine: line, Reservations: []ReservationView{}}

		for _, reservation := range bucket.Get(line) {
			var view ReservationView
			copier.Copy(&view, &reservation)
			view.Schedule = newScheduleView(reservation.Schedule)

			lineView.Reservations = append(lineView.Reservations, view)
		}

		views = append(views, lineView)
	}

	return views
}

func newReservationsView(lifecycle *reservations.Lifecycle) ReservationsView {
	groups := lifecycle.Groups()

	view := ReservationsView{
		State:    lifecycle.State().String(),
		LoadedAt: lifecycle.LoadedAt(),
		Upcoming: newLineViews(groups.Upcoming),
		Past:     newLineViews(groups.Past),
	}
	if err := lifecycle.LastError(); err != nil && lifecycle.State() == reservations.StateLoadFailed {
		view.Error = err.Error()
	}

	return view
}

func viewGroups(c *fiber.Ctx) []string {
	if c.Query("view") == "detailed" {
		return []string{"detailed"}
	}

	return []string{"basic"}
}

func render(c *fiber.Ctx, status int, value interface{}) error {
	reduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: viewGroups(c),
	}, value)
	if err != nil {
		log.Error().Err(err).Msg("Sheriff could not reduce response")

		c.Status(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Could not reduce response",
		})
	}

	c.Status(status)
	return c.JSON(reduced)
}

// errorStatus maps operation failures onto HTTP statuses
func errorStatus(err error) int {
	switch {
	case errors.Is(err, reservations.ErrUnknownReservation):
		return fiber.StatusNotFound
	case errors.Is(err, reservations.ErrNotCancellable),
		errors.Is(err, reservations.ErrCancelInFlight),
		errors.Is(err, reservations.ErrFetchInFlight),
		errors.Is(err, stopscache.ErrFetchPending):
		return fiber.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout
	case errors.Is(err, backend.ErrOperationFailed):
		return fiber.StatusBadGateway
	}

	return fiber.StatusInternalServerError
}

func sendError(c *fiber.Ctx, err error) error {
	c.Status(errorStatus(err))
	return c.JSON(fiber.Map{
		"error": err.Error(),
	})
}
