package api

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/travigo/railreserve/pkg/backend"
	"github.com/travigo/railreserve/pkg/config"
	"github.com/travigo/railreserve/pkg/events"
	"github.com/travigo/railreserve/pkg/railway"
	"github.com/travigo/railreserve/pkg/reservations"
	"github.com/travigo/railreserve/pkg/schedules"
	"github.com/travigo/railreserve/pkg/session"
	"github.com/travigo/railreserve/pkg/tickets"
)

// Backend is everything the browser facing surface needs from the reservation backend
type Backend interface {
	reservations.Backend
	schedules.Backend
	tickets.Reserver
	session.Authenticator
	AccountsBackend
	QueriesBackend
	StaffBackend
}

type AccountsBackend interface {
	Register(ctx context.Context, registration backend.Registration) error
	FetchMetadata(ctx context.Context) (map[string]json.RawMessage, error)
}

type QueriesBackend interface {
	FetchQueries(ctx context.Context, keyword string) ([]backend.Query, error)
	CreateQuery(ctx context.Context, question string, customerEmail string) error
	AnswerQuery(ctx context.Context, queryID railway.Identifier, answer string) error
}

// StaffBackend is what representatives and admins reach through /api/admin
type StaffBackend interface {
	FetchRepresentatives(ctx context.Context) ([]backend.Representative, error)
	CreateRepresentative(ctx context.Context, representative backend.Representative) error
	UpdateRepresentative(ctx context.Context, representative backend.Representative) error
	DeleteRepresentative(ctx context.Context, representative backend.Representative) error

	FetchTrainsForStation(ctx context.Context, stationName string) ([]backend.StationTrain, error)
	FetchCustomersForTransit(ctx context.Context, transitLine string, travelDate string) ([]json.RawMessage, error)
	UpdateTrainSchedule(ctx context.Context, train backend.StationTrain) error
	DeleteTrainSchedule(ctx context.Context, transitLine string) error

	CalculateRevenue(ctx context.Context, grouping backend.RevenueGrouping) ([]map[string]any, error)
	SearchReservations(ctx context.Context, searchType backend.ReservationSearchType, value string) ([]railway.Reservation, error)
}

type Options struct {
	RequestTimeout time.Duration
	RetryAttempts  int
	Recorder       *events.Recorder

	// SessionTTL bounds how long a session's workspace is kept. Zero means config.DefaultSessionTTL.
	SessionTTL time.Duration
}

type Server struct {
	backend  Backend
	sessions session.Store
	options  Options

	workspaces *workspaces
}

func NewServer(b Backend, sessions session.Store, options Options) *Server {
	if options.SessionTTL <= 0 {
		options.SessionTTL = config.DefaultSessionTTL
	}

	return &Server{
		backend:    b,
		sessions:   sessions,
		options:    options,
		workspaces: newWorkspaces(options.SessionTTL),
	}
}

func (s *Server) App() *fiber.App {
	webApp := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	webApp.Use(NewLogger())

	group := webApp.Group("/api")

	group.Get("/fare", getFare)
	group.Get("/metadata", s.getMetadata)
	group.Post("/signup", s.signup)

	s.SessionRouter(group.Group("/session"))
	s.ReservationsRouter(group.Group("/reservations", s.RequireSession(session.RoleCustomer)))
	s.SchedulesRouter(group.Group("/schedules", s.RequireSession()))
	s.TicketsRouter(group.Group("/tickets", s.RequireSession(session.RoleCustomer)))
	s.QueriesRouter(group.Group("/queries", s.RequireSession()))
	s.AdminRouter(group.Group("/admin", s.RequireSession(session.RoleAdmin, session.RoleRepresentative)))

	return webApp
}

func (s *Server) Listen(listen string) error {
	return s.App().Listen(listen)
}

func (s *Server) reservationsNotifier() reservations.Notifier {
	if s.options.Recorder == nil {
		return nil
	}

	return s.options.Recorder
}

func (s *Server) ticketsNotifier() tickets.Notifier {
	if s.options.Recorder == nil {
		return nil
	}

	return s.options.Recorder
}
