package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/travigo/railreserve/pkg/export"
	"github.com/travigo/railreserve/pkg/railway"
	"github.com/travigo/railreserve/pkg/reservations"
)

func (s *Server) ReservationsRouter(router fiber.Router) {
	router.Get("/", s.listReservations)
	router.Get("/export", s.exportReservations)
	router.Post("/refresh", s.refreshReservations)
	router.Post("/:id/cancel", s.cancelReservation)
}

// listReservations loads the list the first time it is looked at, later calls show what
// was last fetched
func (s *Server) listReservations(c *fiber.Ctx) error {
	lifecycle := currentWorkspace(c).lifecycle

	if lifecycle.State() == reservations.StateIdle {
		lifecycle.Fetch(c.UserContext())
	}

	return render(c, fiber.StatusOK, newReservationsView(lifecycle))
}

func (s *Server) refreshReservations(c *fiber.Ctx) error {
	lifecycle := currentWorkspace(c).lifecycle

	var err error
	if c.QueryBool("retry") {
		err = lifecycle.Retry(c.UserContext())
	} else {
		err = lifecycle.Fetch(c.UserContext())
	}

	status := fiber.StatusOK
	if err != nil {
		status = errorStatus(err)
	}

	return render(c, status, newReservationsView(lifecycle))
}

func (s *Server) cancelReservation(c *fiber.Ctx) error {
	lifecycle := currentWorkspace(c).lifecycle
	reservationID := railway.Identifier(c.Params("id"))

	if err := lifecycle.Cancel(c.UserContext(), reservationID); err != nil {
		return sendError(c, err)
	}

	return render(c, fiber.StatusOK, newReservationsView(lifecycle))
}

func (s *Server) exportReservations(c *fiber.Ctx) error {
	lifecycle := currentWorkspace(c).lifecycle

	if lifecycle.State() == reservations.StateIdle {
		if err := lifecycle.Fetch(c.UserContext()); err != nil {
			return sendError(c, err)
		}
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="reservations.csv"`)

	return export.WriteGroups(c, lifecycle.Groups())
}
