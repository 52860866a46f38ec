package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

func healthCommand() *cli.Command {
	return &cli.Command{
		Name:  "health",
		Usage: "Check that the API answers",
		Action: withEnv(func(c *cli.Context, e *env) error {
			message, err := e.client.Ping(c.Context)
			if err != nil {
				return fmt.Errorf("health check failed: %w", err)
			}

			if e.json {
				return e.printJSON(map[string]string{"status": "ok", "url": e.client.BaseURL(), "message": message})
			}
			fmt.Fprintf(e.stdout, "✓ API is up: %s\n", message)
			fmt.Fprintf(e.stdout, "  URL: %s\n", e.client.BaseURL())
			return nil
		}),
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show version information",
		Action: func(c *cli.Context) error {
			w := c.App.Writer
			fmt.Fprintf(w, "compte CLI\n")
			fmt.Fprintf(w, "  Version: %s\n", version)
			fmt.Fprintf(w, "  Commit:  %s\n", commit)
			fmt.Fprintf(w, "  Built:   %s\n", date)
			return nil
		},
	}
}
