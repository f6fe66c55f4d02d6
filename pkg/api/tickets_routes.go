package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/travigo/railreserve/pkg/railway"
	"github.com/travigo/railreserve/pkg/tickets"
)

func (s *Server) TicketsRouter(router fiber.Router) {
	router.Post("/", s.reserveTicket)
}

// reserveTicket buys a ticket for one of the schedules in the current search results
func (s *Server) reserveTicket(c *fiber.Ctx) error {
	var requestBody struct {
		TransitLine       string `json:"transit_line"`
		PassengerCategory string `json:"passenger_category"`
	}
	if err := c.BodyParser(&requestBody); err != nil {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Request body could not be parsed",
		})
	}

	ws := currentWorkspace(c)

	schedule, found := ws.search.Lookup(requestBody.TransitLine)
	if !found {
		c.Status(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "Transit line is not part of the current search results",
		})
	}

	checkout := tickets.NewCheckout(s.backend, ws.session.Email, schedule, s.ticketsNotifier())
	checkout.SetCategory(railway.ParsePassengerCategory(requestBody.PassengerCategory))
	quote := checkout.Quote()

	if err := checkout.Submit(c.UserContext()); err != nil {
		return sendError(c, err)
	}

	c.Status(fiber.StatusCreated)
	return c.JSON(fiber.Map{
		"success": true,
		"quote":   newQuoteView(quote),
	})
}
