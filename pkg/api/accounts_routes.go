package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/travigo/railreserve/pkg/backend"
)

func (s *Server) signup(c *fiber.Ctx) error {
	var registration backend.Registration
	if err := c.BodyParser(&registration); err != nil {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Request body could not be parsed",
		})
	}

	if registration.Email == "" || registration.Password == "" {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Parameters email and password are required",
		})
	}

	err := s.backend.Register(c.UserContext(), registration)

	var applicationError *backend.ApplicationError
	if errors.As(err, &applicationError) {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": applicationError.Message,
		})
	} else if err != nil {
		return sendError(c, err)
	}

	log.Info().Str("email", registration.Email).Msg("Customer registered")

	c.Status(fiber.StatusCreated)
	return c.JSON(fiber.Map{
		"success": true,
	})
}

func (s *Server) getMetadata(c *fiber.Ctx) error {
	metadata, err := s.backend.FetchMetadata(c.UserContext())
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(metadata)
}
