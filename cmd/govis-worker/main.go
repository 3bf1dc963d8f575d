// Command govis-worker rebuilds the dashboard on refresh requests from the
// message queue and on a schedule, storing each result as a snapshot.
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"govis/internal/amqp"
	"govis/internal/cli"
	"govis/internal/log"
	"govis/internal/worker"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT")).WithComponent(log.ComponentWorker)
	logger.Info("Starting govis-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	stack := cli.InitStack(context.Background(), logger, cfg)

	var snapStore worker.SnapshotStore
	if state := stack.Backend.State; state != nil {
		snapStore = state
	} else {
		logger.Warn("No state store, snapshots will not be persisted")
	}
	// The worker always rebuilds from the source, bypassing the cache.
	refresher := worker.NewRefreshWorker(stack.Dashboard, snapStore, logger)

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		stack.Close(logger)
		os.Exit(1)
	}

	ctx, done := cli.GracefulShutdown(logger, shutdownTimeout, func(context.Context) {
		if err := client.Close(); err != nil {
			logger.Error("AMQP close error", log.FieldError, err)
		}
		stack.Close(logger)
	})

	logger.Info("Performing startup refresh...")
	if _, err := refresher.RefreshNow(ctx, "startup"); err != nil {
		// Keep consuming; the next request or tick may succeed.
		logger.Error("Startup refresh failed", log.FieldError, err)
	}

	go refresher.RunPeriodic(ctx, cfg.RefreshInterval)

	go func() {
		err := client.ConsumeRefresh(ctx, refresher.HandleRefreshMessage)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Message consumption failed", log.FieldError, err)
		}
	}()

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped")
}
