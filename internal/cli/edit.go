package cli

import (
	"context"
	"errors"
	"flag"

	"github.com/google/subcommands"

	"expenses/internal/core"
	"expenses/internal/services"
)

type editCmd struct {
	app *App

	id          int64
	description string
	amount      string
	category    string
	currency    string
	rate        string
}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "edit an expense" }
func (*editCmd) Usage() string {
	return `expenses edit -id <id> [-description <text>] [-amount <decimal>] [-category <name>] [-currency <code>] [-conversion-rate <decimal>]

  Updates the first expense carrying the id. Only the given fields change;
  the conversion rate applies when a new amount is given. The date is kept.
`
}

func (c *editCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.id, "id", 0, "ID of the expense to edit (required)")
	f.StringVar(&c.description, "description", "", "New description of the expense")
	f.StringVar(&c.amount, "amount", "", "New amount of the expense, must not be negative")
	f.StringVar(&c.category, "category", "", "New category of the expense")
	f.StringVar(&c.currency, "currency", "", "New currency of the expense")
	f.StringVar(&c.rate, "conversion-rate", "1.0", "Conversion rate to the base currency")
}

func (c *editCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	req, err := c.request(f)
	if err != nil {
		return c.app.exit(err)
	}

	var updated core.Expense
	err = c.app.withService(ctx, func(svc *services.LedgerService) error {
		updated, err = svc.Edit(ctx, req)
		return err
	})
	if errors.Is(err, core.ErrNotFound) {
		c.app.printer().NotFound(c.id)
		return subcommands.ExitFailure
	}
	if err != nil {
		return c.app.exit(err)
	}
	c.app.printer().Updated(updated)
	return subcommands.ExitSuccess
}

func (c *editCmd) request(f *flag.FlagSet) (services.EditRequest, error) {
	if err := noArgs(f); err != nil {
		return services.EditRequest{}, err
	}
	if c.id < 1 {
		return services.EditRequest{}, usageErrorf("-id is required and must be positive")
	}

	// an amount given as 0 must still be applied, so presence is what counts
	set := map[string]bool{}
	f.Visit(func(fl *flag.Flag) { set[fl.Name] = true })

	req := services.EditRequest{
		ID:          c.id,
		Description: c.description,
		Category:    c.category,
		Currency:    c.currency,
	}
	if set["amount"] {
		amount, err := core.ParseAmount(c.amount)
		if err != nil {
			return services.EditRequest{}, err
		}
		req.Amount = &amount
	}
	rate, err := core.ParseRate(c.rate)
	if err != nil {
		return services.EditRequest{}, err
	}
	req.Rate = rate
	return req, nil
}
