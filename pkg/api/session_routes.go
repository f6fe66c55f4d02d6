package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/travigo/railreserve/pkg/backend"
	"github.com/travigo/railreserve/pkg/session"
)

func (s *Server) SessionRouter(router fiber.Router) {
	router.Post("/", s.createSession)
	router.Delete("/", s.RequireSession(), s.deleteSession)
}

func (s *Server) createSession(c *fiber.Ctx) error {
	var requestBody struct {
		Role     string `json:"role"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&requestBody); err != nil {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Request body could not be parsed",
		})
	}

	role := session.Role(requestBody.Role)
	if role == "" {
		role = session.RoleCustomer
	}

	sess, err := session.Login(c.UserContext(), s.backend, role, requestBody.Email, requestBody.Password)

	var applicationError *backend.ApplicationError
	switch {
	case errors.Is(err, session.ErrUnknownRole), errors.Is(err, session.ErrMissingEmail):
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.As(err, &applicationError):
		c.Status(fiber.StatusUnauthorized)
		return c.JSON(fiber.Map{
			"error": "Invalid username or password",
		})
	case err != nil:
		return sendError(c, err)
	}

	if err := s.sessions.Save(c.UserContext(), sess); err != nil {
		log.Error().Err(err).Msg("Failed to store session")

		c.Status(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Could not store session",
		})
	}

	var view SessionView
	copier.Copy(&view, sess)

	return render(c, fiber.StatusCreated, view)
}

func (s *Server) deleteSession(c *fiber.Ctx) error {
	ws := currentWorkspace(c)

	if err := s.sessions.Delete(c.UserContext(), ws.session.Token); err != nil {
		log.Error().Err(err).Msg("Failed to delete session")

		c.Status(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Could not delete session",
		})
	}
	s.workspaces.drop(c.UserContext(), ws.session.Token)

	log.Info().Str("email", ws.session.Email).Msg("Session destroyed")

	return c.SendStatus(fiber.StatusNoContent)
}
