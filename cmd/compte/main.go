package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
)

var (
	// Version information (set via ldflags during build)
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "compte",
		Usage: "Banking account and transaction client",
		Description: `A command-line client for the compte banking API.

Log in once, then list accounts, make deposits and browse transactions.
The auth token is kept in a local SQLite file (see --storage).`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Commands: []*cli.Command{
			// Authentication
			registerCommand(),
			loginCommand(),
			logoutCommand(),
			meCommand(),
			passwordCommand(),
			// Accounts
			accountsCommands(),
			depositCommand(),
			// Transactions
			transactionsCommand(),
			browseCommand(),
			watchCommand(),
			// Server utility commands
			{
				Name:  "server",
				Usage: "Server utility commands",
				Subcommands: []*cli.Command{
					healthCommand(),
					versionCommand(),
				},
			},
		},
		// Global flags available to all commands. Unset flags fall back to the
		// environment and .env (see service/config).
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Usage:   "API base URL (default http://localhost:8000)",
				EnvVars: []string{"COMPTE_SERVER_URL"},
			},
			&cli.StringFlag{
				Name:    "storage",
				Usage:   "Path of the local storage database holding the auth token",
				EnvVars: []string{"COMPTE_STORAGE_PATH"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level: debug, info, warn or error (default error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.DurationFlag{
				Name:    "timeout",
				Usage:   "API request timeout (default 30s)",
				EnvVars: []string{"COMPTE_HTTP_TIMEOUT"},
			},
			&cli.StringFlag{
				Name:    "nats-url",
				Usage:   "NATS server URL for live refresh",
				EnvVars: []string{"NATS_URL"},
			},
			&cli.StringFlag{
				Name:    "metrics-addr",
				Usage:   "Serve Prometheus metrics on this address during browse and watch",
				EnvVars: []string{"METRICS_ADDR"},
			},
			&cli.BoolFlag{
				Name:    "json",
				Aliases: []string{"j"},
				Usage:   "Output in JSON format",
			},
		},
	}
}
