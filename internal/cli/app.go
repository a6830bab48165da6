package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/google/subcommands"

	"expenses/internal/backend"
	"expenses/internal/config"
	"expenses/internal/core"
	"expenses/internal/log"
	"expenses/internal/report"
	"expenses/internal/services"
)

// errUsage marks problems with the command line itself.
var errUsage = errors.New("usage")

func usageErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

// App carries what every subcommand needs: the configuration, where to
// write, and how to build the ledger service.
type App struct {
	Config  *config.Config
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *log.Logger
	Factory backend.Factory
}

func NewApp(cfg *config.Config, stdout, stderr io.Writer, logger *log.Logger) *App {
	if logger == nil {
		logger = log.Discard()
	}
	return &App{
		Config:  cfg,
		Stdout:  stdout,
		Stderr:  stderr,
		Logger:  logger,
		Factory: backend.NewFactory(logger),
	}
}

// RegisterFlags binds the global flags that override the storage
// configuration for a single invocation.
func (a *App) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&a.Config.DataBackend, "backend", a.Config.DataBackend,
		"storage backend: "+strings.Join(config.ValidBackends, ", "))
	fs.StringVar(&a.Config.DataFile, "file", a.Config.DataFile, "path of the JSON ledger file")
	fs.StringVar(&a.Config.SQLiteDBPath, "db", a.Config.SQLiteDBPath, "path of the SQLite database")
}

// withService validates the configuration, opens the backend, runs fn and
// releases the backend.
func (a *App) withService(ctx context.Context, fn func(*services.LedgerService) error) error {
	if err := a.Config.Validate(); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	bcfg, err := backend.FromAppConfig(a.Config)
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	res, err := a.Factory.CreateBackend(ctx, bcfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := res.Cleanup(); cerr != nil {
			a.Logger.WarnContext(ctx, "Failed to release backend", log.FieldError, cerr)
		}
	}()
	return fn(res.Service)
}

func (a *App) printer() *report.Printer {
	return report.New(a.Stdout, a.Config.BaseCurrency)
}

// exit reports err on stderr and maps it to an exit status: bad input is a
// usage error, everything else a failure.
func (a *App) exit(err error) subcommands.ExitStatus {
	if err == nil {
		return subcommands.ExitSuccess
	}
	fmt.Fprintf(a.Stderr, "Error: %v\n", err)
	if isUsage(err) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}

func isUsage(err error) bool {
	for _, target := range []error{
		errUsage,
		core.ErrInvalidAmount,
		core.ErrInvalidRate,
		core.ErrInvalidMonth,
		core.ErrEmptyDescription,
		core.ErrEmptyKeyword,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// noArgs rejects stray positional arguments.
func noArgs(f *flag.FlagSet) error {
	if f.NArg() > 0 {
		return usageErrorf("unexpected arguments: %s", strings.Join(f.Args(), " "))
	}
	return nil
}

// Register adds the ledger subcommands to c.
func Register(c *subcommands.Commander, app *App) {
	c.Register(&addCmd{app: app}, "ledger")
	c.Register(&listCmd{app: app}, "ledger")
	c.Register(&summaryCmd{app: app}, "ledger")
	c.Register(&deleteCmd{app: app}, "ledger")
	c.Register(&editCmd{app: app}, "ledger")
	c.Register(&searchCmd{app: app}, "ledger")
}
