package main

import (
	"context"
	"errors"
	"os"

	"golang.org/x/sync/errgroup"

	"finpocket/internal/amqp"
	"finpocket/internal/cli"
	"finpocket/internal/log"
	"finpocket/internal/worker"
)

func main() {
	bootstrap := log.New(log.DefaultConfig())
	if err := cli.LoadEnvFile(); err != nil {
		bootstrap.Warn("Failed to load .env file", log.FieldError, err)
	}

	cfg := cli.LoadAndValidateConfig(bootstrap)
	logger := cli.SetupLogger(cfg, log.ComponentWorker)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker", log.FieldErrorType, log.ErrorTypeConfiguration)
		os.Exit(1)
	}

	ctx, stop := cli.SignalContext(context.Background(), logger)
	defer stop()

	logger.Info("Starting finpocket-worker",
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue,
		"snapshot_interval", cfg.SnapshotInterval.String(),
		log.FieldOperation, log.OpStartup)

	client, err := amqp.NewClient(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	projection := worker.NewProjection(logger)
	reporter := worker.NewReporter(projection, cfg.SnapshotInterval, cfg.CurrencySymbol, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := client.Consume(gctx, projection.HandleEvent)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		return reporter.Run(gctx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Worker stopped with error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}
