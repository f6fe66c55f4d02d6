package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/travigo/railreserve/pkg/session"
	"golang.org/x/exp/slices"
)

const workspaceLocal = "workspace"

func bearerToken(header string) string {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}

	return strings.TrimSpace(token)
}

// RequireSession resolves the bearer token to a session. When roles are given the session
// must have one of them.
func (s *Server) RequireSession(roles ...session.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			c.Status(fiber.StatusUnauthorized)
			return c.JSON(fiber.Map{
				"error": "A bearer token is required",
			})
		}

		sess, err := s.sessions.Get(c.UserContext(), token)
		if errors.Is(err, session.ErrSessionNotFound) {
			s.workspaces.drop(c.UserContext(), token)

			c.Status(fiber.StatusUnauthorized)
			return c.JSON(fiber.Map{
				"error": "Session has expired or does not exist",
			})
		} else if err != nil {
			log.Error().Err(err).Msg("Failed to load session")

			c.Status(fiber.StatusInternalServerError)
			return c.JSON(fiber.Map{
				"error": "Could not load session",
			})
		}

		if len(roles) > 0 && !slices.Contains(roles, sess.Role) {
			c.Status(fiber.StatusForbidden)
			return c.JSON(fiber.Map{
				"error": "Not available for this role",
			})
		}

		c.Locals(workspaceLocal, s.workspace(c.UserContext(), sess))

		return c.Next()
	}
}

func currentWorkspace(c *fiber.Ctx) *workspace {
	return c.Locals(workspaceLocal).(*workspace)
}
