package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
	"github.com/travigo/railreserve/pkg/backend"
	"github.com/travigo/railreserve/pkg/railway"
	"github.com/travigo/railreserve/pkg/session"
)

type QueryView struct {
	QueryID    railway.Identifier `json:"query_id" groups:"basic,detailed"`
	Question   string             `json:"question" groups:"basic,detailed"`
	Answer     string             `json:"answer" groups:"basic,detailed"`
	Answered   bool               `json:"answered" groups:"basic,detailed" copier:"-"`
	CustomerID string             `json:"customer_id" groups:"detailed"`
}

func newQueryViews(list []backend.Query) []QueryView {
	views := []QueryView{}
	for _, query := range list {
		var view QueryView
		copier.Copy(&view, &query)
		view.Answered = query.Answer != ""

		views = append(views, view)
	}

	return views
}

// QueriesRouter serves the customer questions board. Customers ask, staff answer, everyone
// can read.
func (s *Server) QueriesRouter(router fiber.Router) {
	router.Get("/", s.listQueries)
	router.Post("/", s.RequireSession(session.RoleCustomer), s.createQuery)
	router.Post("/:id/answer", s.RequireSession(session.RoleRepresentative, session.RoleAdmin), s.answerQuery)
}

func (s *Server) listQueries(c *fiber.Ctx) error {
	queries, err := s.backend.FetchQueries(c.UserContext(), strings.TrimSpace(c.Query("keyword")))
	if err != nil {
		return sendError(c, err)
	}

	return render(c, fiber.StatusOK, newQueryViews(queries))
}

func (s *Server) createQuery(c *fiber.Ctx) error {
	var requestBody struct {
		Question string `json:"question"`
	}
	if err := c.BodyParser(&requestBody); err != nil || strings.TrimSpace(requestBody.Question) == "" {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Parameter question is required",
		})
	}

	ws := currentWorkspace(c)

	if err := s.backend.CreateQuery(c.UserContext(), requestBody.Question, ws.session.CustomerEmail()); err != nil {
		return sendError(c, err)
	}

	c.Status(fiber.StatusCreated)
	return c.JSON(fiber.Map{
		"success": true,
	})
}

func (s *Server) answerQuery(c *fiber.Ctx) error {
	var requestBody struct {
		Answer string `json:"answer"`
	}
	if err := c.BodyParser(&requestBody); err != nil || strings.TrimSpace(requestBody.Answer) == "" {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Parameter answer is required",
		})
	}

	queryID := railway.Identifier(c.Params("id"))

	if err := s.backend.AnswerQuery(c.UserContext(), queryID, requestBody.Answer); err != nil {
		return sendError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
	})
}
