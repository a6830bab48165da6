package cli

import (
	"context"
	"errors"
	"flag"

	"github.com/google/subcommands"

	"expenses/internal/core"
	"expenses/internal/services"
)

type deleteCmd struct {
	app *App
	id  int64
}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "delete an expense" }
func (*deleteCmd) Usage() string {
	return `expenses delete -id <id>

  Removes every expense carrying the id.
`
}

func (c *deleteCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.id, "id", 0, "ID of the expense to delete (required)")
}

func (c *deleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := noArgs(f); err != nil {
		return c.app.exit(err)
	}
	if c.id < 1 {
		return c.app.exit(usageErrorf("-id is required and must be positive"))
	}

	err := c.app.withService(ctx, func(svc *services.LedgerService) error {
		_, err := svc.Delete(ctx, c.id)
		return err
	})
	if errors.Is(err, core.ErrNotFound) {
		c.app.printer().NotFound(c.id)
		return subcommands.ExitFailure
	}
	if err != nil {
		return c.app.exit(err)
	}
	c.app.printer().Deleted()
	return subcommands.ExitSuccess
}
