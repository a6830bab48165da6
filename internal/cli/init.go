// Package cli implements the expenses command line: process setup shared by
// the binary and one subcommand per ledger operation.
package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"expenses/internal/config"
	"expenses/internal/log"
)

// SetupLogger builds the process logger from the configured level and makes
// it the slog default. Diagnostics go to w so reports on stdout stay clean.
func SetupLogger(cfg *config.Config, w io.Writer) (*log.Logger, error) {
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	format, err := log.ParseFormat(cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	logger := log.New(log.Config{
		Level:     level,
		Component: log.ComponentCLI,
		Format:    format,
		Output:    w,
	})
	log.SetDefault(logger)
	return logger, nil
}

// LoadEnvFile loads the .env file for local use.
// Errors are ignored silently as the file is optional.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadConfig reads the configuration from the environment after applying
// the optional .env file. Validation happens once flags are parsed.
func LoadConfig() *config.Config {
	LoadEnvFile()
	return config.Load()
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM, so a slow
// remote store can be interrupted cleanly.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
