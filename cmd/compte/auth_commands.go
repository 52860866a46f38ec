package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"
)

func registerCommand() *cli.Command {
	return &cli.Command{
		Name:      "register",
		Usage:     "Create a user",
		ArgsUsage: "EMAIL",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "password",
				Aliases:  []string{"p"},
				Usage:    "Password of the new user",
				Required: true,
			},
		},
		Action: withEnv(func(c *cli.Context, e *env) error {
			if c.NArg() != 1 {
				return fmt.Errorf("email is required")
			}

			message, err := e.client.Register(c.Context, c.Args().Get(0), c.String("password"))
			if err != nil {
				return describeAPIError("register", err)
			}

			if e.json {
				return e.printJSON(map[string]string{"message": message})
			}
			fmt.Fprintln(e.stdout, message)
			return nil
		}),
	}
}

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:      "login",
		Usage:     "Log in and store the auth token",
		ArgsUsage: "EMAIL",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "password",
				Aliases:  []string{"p"},
				Usage:    "Account password",
				Required: true,
			},
		},
		Action: withEnv(func(c *cli.Context, e *env) error {
			if c.NArg() != 1 {
				return fmt.Errorf("email is required")
			}
			email := c.Args().Get(0)

			token, err := e.client.Login(c.Context, email, c.String("password"))
			if err != nil {
				return describeAPIError("log in", err)
			}
			if err := e.store.SetToken(c.Context, token); err != nil {
				return err
			}

			e.logger.Info("logged in", "email", email, "storage", e.store.Path())
			if e.json {
				return e.printJSON(map[string]string{"email": email, "status": "logged_in"})
			}
			fmt.Fprintf(e.stdout, "✓ Logged in as %s\n", email)
			return nil
		}),
	}
}

func logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "Forget the stored auth token",
		Action: withEnv(func(c *cli.Context, e *env) error {
			if err := e.store.Clear(c.Context); err != nil {
				return err
			}
			if e.json {
				return e.printJSON(map[string]string{"status": "logged_out"})
			}
			fmt.Fprintln(e.stdout, "✓ Logged out")
			return nil
		}),
	}
}

func meCommand() *cli.Command {
	return &cli.Command{
		Name:  "me",
		Usage: "Show the authenticated user",
		Action: withEnv(func(c *cli.Context, e *env) error {
			profile, err := e.client.Me(c.Context)
			if err != nil {
				return describeAPIError("fetch profile", err)
			}

			if e.json {
				return e.printJSON(profile)
			}
			fmt.Fprintf(e.stdout, "ID:       %d\n", profile.ID)
			fmt.Fprintf(e.stdout, "Email:    %s\n", profile.Email)
			fmt.Fprintf(e.stdout, "Accounts: %d\n", profile.AccountCount)
			return nil
		}),
	}
}

func passwordCommand() *cli.Command {
	return &cli.Command{
		Name:  "password",
		Usage: "Change the password of the authenticated user",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "current",
				Usage:    "Current password",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "new",
				Usage:    "New password",
				Required: true,
			},
		},
		Action: withEnv(func(c *cli.Context, e *env) error {
			current, next := c.String("current"), c.String("new")
			if current == "" || next == "" {
				return errors.New("--current and --new must not be empty")
			}

			message, err := e.client.UpdatePassword(c.Context, current, next)
			if err != nil {
				return err
			}

			if e.json {
				return e.printJSON(map[string]string{"message": message})
			}
			fmt.Fprintf(e.stdout, "✓ %s\n", message)
			return nil
		}),
	}
}
