package cli

import (
	"context"
	"flag"
	"strings"

	"github.com/google/subcommands"

	"expenses/internal/services"
)

type searchCmd struct {
	app     *App
	keyword string
}

func (*searchCmd) Name() string     { return "search" }
func (*searchCmd) Synopsis() string { return "search expenses by description or category" }
func (*searchCmd) Usage() string {
	return `expenses search -keyword <text>

  Prints the expenses whose description or category contains the keyword,
  ignoring case.
`
}

func (c *searchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.keyword, "keyword", "", "Keyword to search for in description or category (required)")
}

func (c *searchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := noArgs(f); err != nil {
		return c.app.exit(err)
	}
	if strings.TrimSpace(c.keyword) == "" {
		return c.app.exit(usageErrorf("-keyword is required"))
	}
	return c.app.exit(c.app.withService(ctx, func(svc *services.LedgerService) error {
		matches, err := svc.Search(ctx, c.keyword)
		if err != nil {
			return err
		}
		return c.app.printer().SearchResults(c.keyword, matches)
	}))
}
