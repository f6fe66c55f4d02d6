package api

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/travigo/railreserve/pkg/backend"
	"github.com/travigo/railreserve/pkg/schedules"
	"github.com/travigo/railreserve/pkg/stopscache"
)

func (s *Server) SchedulesRouter(router fiber.Router) {
	router.Post("/search", s.searchSchedules)
	router.Post("/sort", s.sortSchedules)
	router.Get("/:line/stops", s.getStops)
}

func parseSortKey(value string) (schedules.SortKey, error) {
	if value == "" {
		return "", nil
	}

	return schedules.ParseSortKey(value)
}

func (s *Server) searchSchedules(c *fiber.Ctx) error {
	var requestBody struct {
		Source        string `json:"source"`
		Destination   string `json:"destination"`
		Date          string `json:"date"`
		Sort          string `json:"sort"`
		Filter        string `json:"filter"`
		PrefetchStops bool   `json:"prefetch_stops"`
	}
	if err := c.BodyParser(&requestBody); err != nil {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Request body could not be parsed",
		})
	}

	if requestBody.Source == "" || requestBody.Destination == "" {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Source and destination are required",
		})
	}

	sortKey, err := parseSortKey(requestBody.Sort)
	if err != nil {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	filter, err := schedules.CompileFilter(requestBody.Filter)
	if err != nil {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	search := currentWorkspace(c).search
	search.SetFilter(filter)
	search.SortBy(sortKey)

	results, err := search.Run(c.UserContext(), backend.ScheduleSearch{
		Source:      requestBody.Source,
		Destination: requestBody.Destination,
		Date:        requestBody.Date,
	})
	if err != nil {
		return sendError(c, err)
	}

	if requestBody.PrefetchStops {
		lines := make([]string, 0, len(results))
		for _, schedule := range results {
			lines = append(lines, schedule.TransitLine)
		}

		go search.Stops.Prefetch(context.Background(), lines)
	}

	return render(c, fiber.StatusOK, newScheduleViews(results))
}

func (s *Server) sortSchedules(c *fiber.Ctx) error {
	var requestBody struct {
		Sort string `json:"sort"`
	}
	if err := c.BodyParser(&requestBody); err != nil {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Request body could not be parsed",
		})
	}

	sortKey, err := parseSortKey(requestBody.Sort)
	if err != nil {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	results, err := currentWorkspace(c).search.SortBy(sortKey)
	if err != nil {
		return sendError(c, err)
	}

	return render(c, fiber.StatusOK, newScheduleViews(results))
}

func (s *Server) getStops(c *fiber.Ctx) error {
	transitLine := c.Params("line")
	search := currentWorkspace(c).search

	if _, found := search.Lookup(transitLine); !found {
		c.Status(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "Transit line is not part of the current search results",
		})
	}

	stops, err := search.ExpandStops(c.UserContext(), transitLine)
	if errors.Is(err, stopscache.ErrFetchPending) {
		c.Status(fiber.StatusAccepted)
		return c.JSON(fiber.Map{
			"state": stopscache.StatePending.String(),
		})
	} else if err != nil {
		return sendError(c, err)
	}

	return render(c, fiber.StatusOK, newStopViews(stops))
}
