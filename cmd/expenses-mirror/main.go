package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"expenses/internal/amqp"
	"expenses/internal/backend"
	"expenses/internal/cli"
	"expenses/internal/config"
	"expenses/internal/log"
	"expenses/internal/storage"
	"expenses/internal/worker"
)

func main() {
	cfg := cli.LoadConfig()
	logger, err := cli.SetupLogger(cfg, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	logger = logger.WithComponent(log.ComponentMirror)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(2)
	}
	if err := cfg.ValidateMirror(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(2)
	}

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Mirror worker stopped", log.FieldError, err)
		stop()
		os.Exit(1)
	}
	logger.Info("Mirror worker shutdown complete")
}

func run(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	sourceCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	replicaCfg, err := backend.MirrorFromAppConfig(cfg)
	if err != nil {
		return err
	}

	factory := backend.NewFactory(logger)
	source, err := factory.CreateStore(ctx, sourceCfg)
	if err != nil {
		return fmt.Errorf("open source %s: %w", sourceCfg.Type, err)
	}
	defer closeStore(source)

	replica, err := factory.CreateStore(ctx, replicaCfg)
	if err != nil {
		return fmt.Errorf("open replica %s: %w", replicaCfg.Type, err)
	}
	defer closeStore(replica)

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		return fmt.Errorf("initialize AMQP client: %w", err)
	}
	defer client.Close()

	logger.Info("Starting mirror worker",
		"source", sourceCfg.Type.String(),
		"replica", replicaCfg.Type.String(),
		"resync_interval", cfg.MirrorResyncInterval.String())

	return worker.NewMirror(replica, logger).Run(ctx, client, source, cfg.MirrorResyncInterval)
}

func closeStore(s storage.Store) {
	if c, ok := s.(io.Closer); ok {
		c.Close()
	}
}
