package commands

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"notasapp/internal/client/app"
)

func (e *Env) password(c *cli.Context) (string, error) {
	if p := c.String("password"); p != "" {
		return p, nil
	}
	p, err := e.ReadPassword("Password: ")
	if err != nil {
		return "", cli.Exit(err.Error(), 2)
	}
	return p, nil
}

func (e *Env) loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Sign in and store the token locally",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", EnvVars: []string{"NOTAS_PASSWORD"}},
		},
		Action: e.clientAction(false, func(c *cli.Context, client *app.Client) error {
			pass, err := e.password(c)
			if err != nil {
				return err
			}
			user, err := client.Auth.Login(c.Context, c.String("email"), pass)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			fmt.Fprintf(out(c), "logged in as %s <%s>\n", user.Name, user.Email)
			return nil
		}),
	}
}

func (e *Env) registerCommand() *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "Create an account and store the token locally",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Required: true},
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", EnvVars: []string{"NOTAS_PASSWORD"}},
		},
		Action: e.clientAction(false, func(c *cli.Context, client *app.Client) error {
			pass, err := e.password(c)
			if err != nil {
				return err
			}
			user, err := client.Auth.Register(c.Context, c.String("name"), c.String("email"), pass)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			fmt.Fprintf(out(c), "registered %s <%s>\n", user.Name, user.Email)
			return nil
		}),
	}
}

func (e *Env) logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "Forget the stored token",
		Action: e.clientAction(false, func(c *cli.Context, client *app.Client) error {
			if err := client.Auth.Logout(c.Context); err != nil {
				return cli.Exit(err.Error(), 1)
			}
			fmt.Fprintln(out(c), "logged out")
			return nil
		}),
	}
}

func (e *Env) whoamiCommand() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "Show the profile of the stored token",
		Action: e.clientAction(false, func(c *cli.Context, client *app.Client) error {
			user, err := client.Auth.Profile(c.Context)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			fmt.Fprintf(out(c), "%s <%s>\n", user.Name, user.Email)
			return nil
		}),
	}
}
