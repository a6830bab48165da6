package cli

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"expenses/internal/services"
)

type listCmd struct {
	app *App
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list all expenses" }
func (*listCmd) Usage() string {
	return `expenses list

  Prints every expense in stored order.
`
}

func (*listCmd) SetFlags(*flag.FlagSet) {}

func (c *listCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := noArgs(f); err != nil {
		return c.app.exit(err)
	}
	return c.app.exit(c.app.withService(ctx, func(svc *services.LedgerService) error {
		expenses, err := svc.List(ctx)
		if err != nil {
			return err
		}
		return c.app.printer().Expenses(expenses)
	}))
}
