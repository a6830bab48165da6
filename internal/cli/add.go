package cli

import (
	"context"
	"flag"
	"strings"

	"github.com/google/subcommands"

	"expenses/internal/core"
	"expenses/internal/services"
)

// addCmd holds the flags for the 'add' subcommand.
type addCmd struct {
	app *App

	description string
	amount      string
	category    string
	currency    string
	rate        string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "add an expense" }
func (*addCmd) Usage() string {
	return `expenses add -description <text> -amount <decimal> [-category <name>] [-currency <code>] [-conversion-rate <decimal>]

  Records a new expense dated today. The amount is stored as given and
  converted to the base currency with the conversion rate.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.description, "description", "", "Description of the expense (required)")
	f.StringVar(&c.amount, "amount", "", "Amount of the expense, must not be negative (required)")
	f.StringVar(&c.category, "category", "", "Category of the expense (default \""+core.DefaultCategory+"\")")
	f.StringVar(&c.currency, "currency", "", "Currency of the expense (default \""+core.DefaultCurrency+"\")")
	f.StringVar(&c.rate, "conversion-rate", "1.0", "Conversion rate to the base currency")
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	req, err := c.request(f)
	if err != nil {
		return c.app.exit(err)
	}

	return c.app.exit(c.app.withService(ctx, func(svc *services.LedgerService) error {
		e, err := svc.Add(ctx, req)
		if err != nil {
			return err
		}
		c.app.printer().Added(e)
		return nil
	}))
}

func (c *addCmd) request(f *flag.FlagSet) (services.AddRequest, error) {
	if err := noArgs(f); err != nil {
		return services.AddRequest{}, err
	}
	if strings.TrimSpace(c.description) == "" {
		return services.AddRequest{}, usageErrorf("-description is required")
	}
	if strings.TrimSpace(c.amount) == "" {
		return services.AddRequest{}, usageErrorf("-amount is required")
	}
	amount, err := core.ParseAmount(c.amount)
	if err != nil {
		return services.AddRequest{}, err
	}
	rate, err := core.ParseRate(c.rate)
	if err != nil {
		return services.AddRequest{}, err
	}
	return services.AddRequest{
		Description: c.description,
		Amount:      amount,
		Category:    c.category,
		Currency:    c.currency,
		Rate:        rate,
	}, nil
}
