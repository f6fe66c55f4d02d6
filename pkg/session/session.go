package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/travigo/railreserve/pkg/backend"
)

type Role string

const (
	RoleCustomer       Role = "customer"
	RoleRepresentative Role = "customer-representative"
	RoleAdmin          Role = "admin"
)

func (r Role) Known() bool {
	switch r {
	case RoleCustomer, RoleRepresentative, RoleAdmin:
		return true
	}

	return false
}

func (r Role) IsEmployee() bool {
	return r == RoleRepresentative || r == RoleAdmin
}

var (
	ErrUnknownRole     = errors.New("unknown role")
	ErrMissingEmail    = errors.New("email is required")
	ErrSessionNotFound = errors.New("session not found")
)

// Session is created at login and destroyed at logout. It is never mutated in between.
type Session struct {
	Token     string    `json:"token"`
	Role      Role      `json:"role"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstname"`
	LastName  string    `json:"lastname"`
	Username  string    `json:"username,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Session) CustomerEmail() string {
	return s.Email
}

type Authenticator interface {
	Login(ctx context.Context, email string, password string) (backend.User, error)
	EmployeeLogin(ctx context.Context, email string, password string) (backend.User, error)
}

// Login authenticates against the customer or the employee endpoint depending on the role
// and returns a fresh session. Employees get the role reported by the backend when it
// sends a known one.
func Login(ctx context.Context, authenticator Authenticator, role Role, email string, password string) (*Session, error) {
	if !role.Known() {
		return nil, ErrUnknownRole
	}
	if email == "" {
		return nil, ErrMissingEmail
	}

	var user backend.User
	var err error
	if role.IsEmployee() {
		user, err = authenticator.EmployeeLogin(ctx, email, password)
	} else {
		user, err = authenticator.Login(ctx, email, password)
	}
	if err != nil {
		log.Warn().Err(err).Str("email", email).Str("role", string(role)).Msg("Login failed")
		return nil, err
	}

	if role.IsEmployee() {
		if reported := Role(user.Role); reported.IsEmployee() {
			role = reported
		}
	}

	if user.Email == "" {
		user.Email = email
	}

	session := &Session{
		Token:     uuid.NewString(),
		Role:      role,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Username:  user.Username,
		CreatedAt: time.Now(),
	}

	log.Info().Str("email", session.Email).Str("role", string(session.Role)).Msg("Session created")

	return session, nil
}
