package cli

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"expenses/internal/core"
	"expenses/internal/services"
)

type summaryCmd struct {
	app   *App
	month int
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "show total expenses" }
func (*summaryCmd) Usage() string {
	return `expenses summary [-month <1-12>]

  Prints the total of base amounts and a per-category breakdown, optionally
  restricted to one month of any year.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.month, "month", 0, "Only count expenses dated in this month (1-12)")
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := noArgs(f); err != nil {
		return c.app.exit(err)
	}
	if c.month != 0 {
		if err := core.ValidateMonth(c.month); err != nil {
			return c.app.exit(err)
		}
	}
	return c.app.exit(c.app.withService(ctx, func(svc *services.LedgerService) error {
		s, err := svc.Summary(ctx, c.month)
		if err != nil {
			return err
		}
		c.app.printer().Summary(s)
		return nil
	}))
}
