package backend

import (
	"context"
)

type User struct {
	Email     string `json:"email"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Username  string `json:"username,omitempty"`
	Role      string `json:"role,omitempty"`
}

type Registration struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Username  string `json:"username"`
}

type loginResponse struct {
	Envelope
	User User `json:"user"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) Login(ctx context.Context, email string, password string) (User, error) {
	response, err := call[loginResponse](ctx, c, EndpointLogin, credentials{Email: email, Password: password})

	return response.User, err
}

func (c *Client) EmployeeLogin(ctx context.Context, email string, password string) (User, error) {
	response, err := call[loginResponse](ctx, c, EndpointEmployeeLogin, credentials{Email: email, Password: password})

	return response.User, err
}

func (c *Client) Register(ctx context.Context, registration Registration) error {
	_, err := call[Envelope](ctx, c, EndpointRegister, registration)

	return err
}
