package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/travigo/railreserve/pkg/backend"
	"github.com/travigo/railreserve/pkg/session"
	"golang.org/x/exp/slices"
)

type RepresentativeView struct {
	SSN       string `json:"ssn" groups:"basic,detailed"`
	FirstName string `json:"firstname" groups:"basic,detailed"`
	LastName  string `json:"lastname" groups:"basic,detailed"`
	Username  string `json:"username" groups:"basic,detailed"`
	Email     string `json:"email" groups:"basic,detailed"`
}

var revenueGroupings = []backend.RevenueGrouping{
	backend.RevenueByTransitLine,
	backend.RevenueByCustomer,
	backend.RevenueByMonth,
}

var reservationSearchTypes = []backend.ReservationSearchType{
	backend.ReservationSearchByTransitLine,
	backend.ReservationSearchByCustomerName,
}

// AdminRouter is the staff surface. Representatives and admins share the schedule and
// reservation tools, managing representatives and revenue stay with admins.
func (s *Server) AdminRouter(router fiber.Router) {
	adminOnly := s.RequireSession(session.RoleAdmin)

	router.Get("/representatives", adminOnly, s.listRepresentatives)
	router.Post("/representatives", adminOnly, s.createRepresentative)
	router.Put("/representatives/:ssn", adminOnly, s.updateRepresentative)
	router.Delete("/representatives/:ssn", adminOnly, s.deleteRepresentative)

	router.Get("/revenue", adminOnly, s.getRevenue)
	router.Get("/reservations", s.searchReservations)

	router.Get("/schedules", s.listStationTrains)
	router.Get("/schedules/:transitLine/customers", s.listTransitCustomers)
	router.Put("/schedules/:transitLine", s.updateTrainSchedule)
	router.Delete("/schedules/:transitLine", s.deleteTrainSchedule)
}

func badRequest(c *fiber.Ctx, message string) error {
	c.Status(fiber.StatusBadRequest)
	return c.JSON(fiber.Map{
		"error": message,
	})
}

func (s *Server) listRepresentatives(c *fiber.Ctx) error {
	representatives, err := s.backend.FetchRepresentatives(c.UserContext())
	if err != nil {
		return sendError(c, err)
	}

	views := []RepresentativeView{}
	copier.Copy(&views, &representatives)

	return render(c, fiber.StatusOK, views)
}

func (s *Server) createRepresentative(c *fiber.Ctx) error {
	var representative backend.Representative
	if err := c.BodyParser(&representative); err != nil {
		return badRequest(c, "Request body could not be parsed")
	}
	if representative.SSN == "" || representative.Email == "" || representative.Password == "" {
		return badRequest(c, "Parameters ssn, email and password are required")
	}

	if err := s.backend.CreateRepresentative(c.UserContext(), representative); err != nil {
		return sendError(c, err)
	}

	log.Info().Str("ssn", representative.SSN).Msg("Representative created")

	c.Status(fiber.StatusCreated)
	return c.JSON(fiber.Map{
		"success": true,
	})
}

func (s *Server) updateRepresentative(c *fiber.Ctx) error {
	var representative backend.Representative
	if err := c.BodyParser(&representative); err != nil {
		return badRequest(c, "Request body could not be parsed")
	}
	representative.SSN = c.Params("ssn")

	if err := s.backend.UpdateRepresentative(c.UserContext(), representative); err != nil {
		return sendError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
	})
}

func (s *Server) deleteRepresentative(c *fiber.Ctx) error {
	representative := backend.Representative{SSN: c.Params("ssn")}

	if err := s.backend.DeleteRepresentative(c.UserContext(), representative); err != nil {
		return sendError(c, err)
	}

	log.Info().Str("ssn", representative.SSN).Msg("Representative deleted")

	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) getRevenue(c *fiber.Ctx) error {
	grouping := backend.RevenueGrouping(c.Query("type", string(backend.RevenueByTransitLine)))
	if !slices.Contains(revenueGroupings, grouping) {
		return badRequest(c, "Parameter type should be one of transit_line, customer_email or month")
	}

	revenue, err := s.backend.CalculateRevenue(c.UserContext(), grouping)
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(fiber.Map{
		"type": grouping,
		"data": revenue,
	})
}

func (s *Server) searchReservations(c *fiber.Ctx) error {
	searchType := backend.ReservationSearchType(c.Query("search_type"))
	if !slices.Contains(reservationSearchTypes, searchType) {
		return badRequest(c, "Parameter search_type should be transit_line or customer_name")
	}

	value := strings.TrimSpace(c.Query("value"))
	if value == "" {
		return badRequest(c, "Parameter value is required")
	}

	found, err := s.backend.SearchReservations(c.UserContext(), searchType, value)
	if err != nil {
		return sendError(c, err)
	}

	views := []ReservationView{}
	for _, reservation := range found {
		var view ReservationView
		copier.Copy(&view, &reservation)
		view.Schedule = newScheduleView(reservation.Schedule)

		views = append(views, view)
	}

	return render(c, fiber.StatusOK, views)
}

func (s *Server) listStationTrains(c *fiber.Ctx) error {
	station := strings.TrimSpace(c.Query("station"))
	if station == "" {
		return badRequest(c, "Parameter station is required")
	}

	trains, err := s.backend.FetchTrainsForStation(c.UserContext(), station)
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(trains)
}

func (s *Server) listTransitCustomers(c *fiber.Ctx) error {
	travelDate := c.Query("date")
	if travelDate == "" {
		return badRequest(c, "Parameter date is required")
	}

	customers, err := s.backend.FetchCustomersForTransit(c.UserContext(), c.Params("transitLine"), travelDate)
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(customers)
}

func (s *Server) updateTrainSchedule(c *fiber.Ctx) error {
	var train backend.StationTrain
	if err := c.BodyParser(&train); err != nil {
		return badRequest(c, "Request body could not be parsed")
	}
	train.TransitLine = c.Params("transitLine")

	if err := s.backend.UpdateTrainSchedule(c.UserContext(), train); err != nil {
		return sendError(c, err)
	}

	log.Info().Str("transitline", train.TransitLine).Msg("Train schedule updated")

	return c.JSON(fiber.Map{
		"success": true,
	})
}

func (s *Server) deleteTrainSchedule(c *fiber.Ctx) error {
	transitLine := c.Params("transitLine")

	if err := s.backend.DeleteTrainSchedule(c.UserContext(), transitLine); err != nil {
		return sendError(c, err)
	}

	log.Info().Str("transitline", transitLine).Msg("Train schedule deleted")

	return c.SendStatus(fiber.StatusNoContent)
}
