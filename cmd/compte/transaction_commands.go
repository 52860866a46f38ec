package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/brojonat/compte/client"
	natspkg "github.com/brojonat/compte/service/nats"
	"github.com/brojonat/compte/service/tui"
	"github.com/brojonat/compte/service/txpage"
)

// errFetchFailed is returned after the notifier has already told the user.
var errFetchFailed = errors.New("transactions could not be loaded")

func routeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "iban",
			Usage: "Account IBAN (instead of ROUTE)",
		},
		&cli.StringFlag{
			Name:    "category",
			Aliases: []string{"c"},
			Usage:   "all, income or expense (the labels Revenue and Dépenses are accepted too)",
		},
		&cli.BoolFlag{
			Name:    "user",
			Aliases: []string{"u"},
			Usage:   "Start in user scope: transactions of every account",
		},
	}
}

// routeFromArgs builds the page route from ROUTE or --iban, then applies --category.
func routeFromArgs(c *cli.Context) (txpage.Route, error) {
	var route txpage.Route
	switch {
	case c.NArg() > 1:
		return route, fmt.Errorf("expected at most one ROUTE argument, got %d", c.NArg())
	case c.NArg() == 1 && c.IsSet("iban"):
		return route, errors.New("give either ROUTE or --iban, not both")
	case c.NArg() == 1:
		r, err := txpage.ParseRoute(c.Args().Get(0))
		if err != nil {
			return route, err
		}
		route = r
	default:
		iban := c.String("iban")
		if iban == "" && !c.Bool("user") {
			return route, errors.New("a ROUTE such as /compte/<iban>/all or --iban is required")
		}
		route = txpage.Route{IBAN: iban, Param: client.LabelAll}
	}

	if c.IsSet("category") {
		category, err := client.ParseCategory(c.String("category"))
		if err != nil {
			return route, err
		}
		route = route.WithCategory(category)
	}
	return route, nil
}

func scopeFromArgs(c *cli.Context) client.Scope {
	if c.Bool("user") {
		return client.ScopeUser
	}
	return client.ScopeAccount
}

func (e *env) newPage(c *cli.Context, notifier txpage.Notifier, route txpage.Route) *txpage.Page {
	return txpage.New(e.client, notifier, route,
		txpage.WithLogger(e.logger),
		txpage.WithMetrics(e.metrics),
		txpage.WithScope(scopeFromArgs(c)),
	)
}

func transactionsCommand() *cli.Command {
	return &cli.Command{
		Name:      "transactions",
		Aliases:   []string{"txns", "tx"},
		Usage:     "List transactions of an account or of every account",
		ArgsUsage: "[ROUTE]",
		Description: `Loads the transaction page once and prints it.

ROUTE is /compte/<iban>/<param> or a bare <iban>. <param> selects the
category: Revenue, Dépenses, anything else means all.

Examples:
  compte transactions /compte/FR7612345/Revenue
  compte transactions --iban FR7612345 --category expense
  compte transactions --user --jq '.montant > 100'`,
		Flags: append(routeFlags(),
			&cli.StringSliceFlag{
				Name:  "jq",
				Usage: "Only print transactions for which this jq expression is truthy (repeatable, all must match)",
			},
		),
		Action: withEnv(func(c *cli.Context, e *env) error {
			route, err := routeFromArgs(c)
			if err != nil {
				return err
			}
			filters, err := compileJQFilters(c.StringSlice("jq"))
			if err != nil {
				return err
			}

			page := e.newPage(c, txpage.NewLogNotifier(e.stderr, e.logger), route)
			if page.Load(c.Context, page.Mount()) == txpage.OutcomeFailed {
				return errFetchFailed
			}

			views := make([]txpage.TransactionView, 0)
			for _, v := range page.Views() {
				if filters.match(v.Transaction, e.logger) {
					views = append(views, v)
				}
			}

			if e.json {
				txns := make([]client.Transaction, len(views))
				for i, v := range views {
					txns[i] = v.Transaction
				}
				return e.printJSON(txns)
			}
			return txpage.RenderList(e.stdout, page.Filter(), views)
		}),
	}
}

func browseCommand() *cli.Command {
	return &cli.Command{
		Name:      "browse",
		Usage:     "Interactive transaction page",
		ArgsUsage: "[ROUTE]",
		Description: `Opens the transaction page in the terminal.

Keys: t toggles account/user scope, a/r/d show all/Revenue/Dépenses,
g refreshes, q quits. With --nats-url the page refreshes whenever a
transaction is announced for the account.`,
		Flags: append(routeFlags(),
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Write logs to this file while the page is open (logs are discarded otherwise)",
			},
		),
		Action: withEnv(func(c *cli.Context, e *env) error {
			route, err := routeFromArgs(c)
			if err != nil {
				return err
			}

			var logOut io.Writer = io.Discard
			if path := c.String("log-file"); path != "" {
				f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
				if err != nil {
					return fmt.Errorf("failed to open log file: %w", err)
				}
				defer f.Close()
				logOut = f
			}
			e.redirectLogs(logOut)

			ctx, cancel := context.WithCancel(c.Context)
			defer cancel()
			e.serveMetrics(ctx)

			toast := tui.NewToast()
			page := e.newPage(c, toast, route)

			var opts []tui.Option
			if e.cfg.NATSURL != "" {
				refresh, closeSub, err := e.liveRefresh(page)
				if err != nil {
					return err
				}
				defer closeSub()
				opts = append(opts, tui.WithRefresh(refresh))
			}

			return tui.Run(ctx, tui.NewModel(ctx, page, toast, opts...))
		}),
	}
}

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "Print the transaction page again whenever a transaction is announced",
		ArgsUsage: "[ROUTE]",
		Flags:     routeFlags(),
		Action: withEnv(func(c *cli.Context, e *env) error {
			if e.cfg.NATSURL == "" {
				return errors.New("watch requires --nats-url (or NATS_URL)")
			}
			route, err := routeFromArgs(c)
			if err != nil {
				return err
			}

			ctx := c.Context
			e.serveMetrics(ctx)

			page := e.newPage(c, txpage.NewLogNotifier(e.stderr, e.logger), route)
			refresh, closeSub, err := e.liveRefresh(page)
			if err != nil {
				return err
			}
			defer closeSub()

			render := func() error {
				if e.json {
					return e.printJSON(page.Transactions())
				}
				if err := page.Render(e.stdout); err != nil {
					return err
				}
				fmt.Fprintln(e.stdout)
				return nil
			}

			if page.Load(ctx, page.Mount()) == txpage.OutcomeApplied {
				if err := render(); err != nil {
					return err
				}
			}

			for {
				select {
				case <-ctx.Done():
					return nil
				case <-refresh:
					if page.Load(ctx, page.Refresh()) == txpage.OutcomeApplied {
						if err := render(); err != nil {
							return err
						}
					}
				}
			}
		}),
	}
}

// liveRefresh subscribes to every transaction event and signals on the
// returned channel when one concerns the page's current filter. Signals
// coalesce while a refresh is pending.
func (e *env) liveRefresh(page *txpage.Page) (<-chan struct{}, func(), error) {
	sub, err := newSubscriber(e.cfg.NATSURL, e.logger)
	if err != nil {
		return nil, nil, err
	}

	refresh := make(chan struct{}, 1)
	subject := natspkg.SubjectFor(client.Filter{Scope: client.ScopeUser})
	err = sub.Subscribe(subject, func(event *natspkg.TransactionEvent) {
		if !natspkg.Matches(page.Filter(), event) {
			return
		}
		select {
		case refresh <- struct{}{}:
		default:
		}
	})
	if err != nil {
		sub.Close()
		return nil, nil, err
	}

	e.logger.Debug("live refresh enabled", "subject", subject)
	return refresh, func() { _ = sub.Close() }, nil
}
