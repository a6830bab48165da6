package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/google/subcommands"

	"expenses/internal/cli"
)

func main() {
	cfg := cli.LoadConfig()
	logger, err := cli.SetupLogger(cfg, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(int(subcommands.ExitUsageError))
	}

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	app := cli.NewApp(cfg, os.Stdout, os.Stderr, logger)
	app.RegisterFlags(flag.CommandLine)
	cli.Register(commander, app)

	flag.Parse()

	ctx, stop := cli.SignalContext(context.Background())
	status := commander.Execute(ctx)
	stop()
	os.Exit(int(status))
}
