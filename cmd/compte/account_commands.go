package main

import (
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/brojonat/compte/client"
)

func accountsCommands() *cli.Command {
	return &cli.Command{
		Name:    "accounts",
		Aliases: []string{"account"},
		Usage:   "Account commands",
		Subcommands: []*cli.Command{
			accountsListCommand(),
			accountsAddCommand(),
			accountsShowCommand(),
		},
	}
}

func accountsListCommand() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List the accounts of the authenticated user",
		Action: withEnv(func(c *cli.Context, e *env) error {
			accounts, err := e.client.ListAccounts(c.Context)
			if err != nil {
				return describeAPIError("list accounts", err)
			}

			if e.json {
				return e.printJSON(accounts)
			}

			if len(accounts) == 0 {
				fmt.Fprintln(e.stdout, "No accounts found")
				return nil
			}

			w := tabwriter.NewWriter(e.stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tIBAN\tBALANCE\tCREATED")
			for _, a := range accounts {
				created := a.DateCreation
				if created == "" {
					created = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\n", a.Name, a.IBAN, a.Balance, created)
			}
			return w.Flush()
		}),
	}
}

func accountsAddCommand() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Open an account",
		ArgsUsage: "NAME IBAN",
		Action: withEnv(func(c *cli.Context, e *env) error {
			if c.NArg() != 2 {
				return fmt.Errorf("account name and iban are required")
			}

			account, err := e.client.AddAccount(c.Context, c.Args().Get(0), c.Args().Get(1))
			if err != nil {
				return describeAPIError("add account", err)
			}

			if e.json {
				return e.printJSON(account)
			}
			fmt.Fprintf(e.stdout, "✓ Account %q added (%s)\n", account.Name, account.IBAN)
			return nil
		}),
	}
}

func accountsShowCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Aliases:   []string{"get"},
		Usage:     "Show an account with its balance and history",
		ArgsUsage: "IBAN",
		Action: withEnv(func(c *cli.Context, e *env) error {
			if c.NArg() != 1 {
				return fmt.Errorf("iban is required")
			}
			iban := c.Args().Get(0)

			detail, err := e.client.GetAccount(c.Context, iban)
			if errors.Is(err, client.ErrAccountNotFound) {
				return fmt.Errorf("account %s not found", iban)
			}
			if err != nil {
				return describeAPIError("fetch account", err)
			}

			if e.json {
				return e.printJSON(detail)
			}

			fmt.Fprintf(e.stdout, "Name:     %s\n", detail.Name)
			fmt.Fprintf(e.stdout, "IBAN:     %s\n", detail.IBAN)
			fmt.Fprintf(e.stdout, "Balance:  %.2f\n", detail.Balance)
			if detail.DateCreation != "" {
				fmt.Fprintf(e.stdout, "Created:  %s\n", detail.DateCreation)
			}
			fmt.Fprintf(e.stdout, "Pending:  %d\n", len(detail.OnGoing))

			if len(detail.History) == 0 {
				return nil
			}
			fmt.Fprintln(e.stdout)
			w := tabwriter.NewWriter(e.stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tTYPE\tAMOUNT")
			for _, h := range detail.History {
				fmt.Fprintf(w, "%s\t%s\t%.2f\n", h.Date, h.Type, h.Amount)
			}
			return w.Flush()
		}),
	}
}

func depositCommand() *cli.Command {
	return &cli.Command{
		Name:      "deposit",
		Usage:     "Deposit money on an account",
		ArgsUsage: "IBAN AMOUNT",
		Action: withEnv(func(c *cli.Context, e *env) error {
			if c.NArg() != 2 {
				return fmt.Errorf("iban and amount are required")
			}
			iban := c.Args().Get(0)
			amount, err := strconv.ParseFloat(c.Args().Get(1), 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", c.Args().Get(1), err)
			}

			message, err := e.client.Deposit(c.Context, iban, amount)
			if err != nil {
				return describeAPIError("deposit", err)
			}

			if e.json {
				return e.printJSON(map[string]interface{}{"iban": iban, "amount": amount, "message": message})
			}
			fmt.Fprintln(e.stdout, message)
			return nil
		}),
	}
}
