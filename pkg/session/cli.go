package session

import (
	"github.com/urfave/cli/v2"
)

// CLIFlags are the credentials shared by every command acting for a customer
func CLIFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "email",
			Usage:    "account email",
			EnvVars:  []string{"RAILRESERVE_EMAIL"},
			Required: true,
		},
		&cli.StringFlag{
			Name:    "password",
			Usage:   "account password",
			EnvVars: []string{"RAILRESERVE_PASSWORD"},
		},
		&cli.StringFlag{
			Name:  "role",
			Value: string(RoleCustomer),
			Usage: "customer, customer-representative or admin",
		},
	}
}

func LoginWithCLI(c *cli.Context, authenticator Authenticator) (*Session, error) {
	return Login(c.Context, authenticator, Role(c.String("role")), c.String("email"), c.String("password"))
}
