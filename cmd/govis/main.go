// Command govis serves the spending dashboard, the SQL console and the AI
// query assistant over HTTP.
//
// @title govis API
// @version 1.0
// @description Government spending dashboard, read-only SQL console and AI query assistant.
// @BasePath /
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"govis/internal/amqp"
	"govis/internal/cli"
	"govis/internal/console"
	apphttp "govis/internal/http"
	"govis/internal/log"
	"govis/internal/nl2sql"
	"govis/internal/worker"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	cfg := cli.LoadAndValidateConfig(logger)

	initCtx := context.Background()
	stack := cli.InitStack(initCtx, logger, cfg)
	variant := stack.Extractor.Variant()
	allowed := stack.Catalog.AllowedTables(variant)

	deps := apphttp.Deps{
		Dashboard:          stack.Dashboard,
		Pinger:             stack.Backend.Backend,
		Variant:            variant,
		Tables:             stack.Catalog.Tables(variant),
		Backend:            stack.Type.String(),
		RequestTimeout:     cfg.QueryTimeout + 5*time.Second,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Logger:             logger,
	}

	// History and snapshots live in the SQLite state store when it opened.
	var (
		history   console.HistoryStore
		snapStore worker.SnapshotStore
	)
	if state := stack.Backend.State; state != nil {
		history = state
		snapStore = state
		deps.Snapshots = state
	}

	deps.Console = console.New(stack.Backend.Backend, history, console.Config{
		Timeout: cfg.QueryTimeout,
		MaxRows: cfg.QueryMaxRows,
		Allowed: allowed,
	}, logger)

	var gen nl2sql.Generator
	if cfg.GeminiAPIKey != "" {
		g, err := nl2sql.NewGemini(initCtx, cfg.GeminiAPIKey, cfg.GeminiModel, logger)
		if err != nil {
			logger.Warn("AI assistant disabled", log.FieldError, err)
		} else {
			gen = g
		}
	}
	schemaText, err := stack.Catalog.Describe(variant)
	if err != nil {
		logger.Error("Failed to describe schema", log.FieldError, err)
		os.Exit(1)
	}
	deps.Assistant = nl2sql.NewAssistant(gen, stack.Type.Dialect(), schemaText, allowed)

	refresher := worker.NewRefreshWorker(worker.BuilderFunc(stack.Dashboard.Refresh), snapStore, logger)
	deps.Refresher = refresher

	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		c, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Warn("AMQP unavailable, refreshes run inline", log.FieldError, err)
		} else {
			amqpClient = c
			deps.Publisher = c
		}
	}

	srv := apphttp.NewServer(":"+cfg.Port, deps)

	ctx, done := cli.GracefulShutdown(logger, shutdownTimeout, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				logger.Error("AMQP close error", log.FieldError, err)
			}
		}
		stack.Close(logger)
	})

	// Without a broker there is no worker, so the server keeps snapshots fresh.
	if amqpClient == nil {
		go refresher.RunPeriodic(ctx, cfg.RefreshInterval)
	}

	go func() {
		logger.Info("Starting govis server",
			"port", cfg.Port,
			log.FieldBackend, stack.Type.String(),
			log.FieldSchemaVariant, variant.String(),
			"ai_enabled", gen != nil,
			"amqp_enabled", amqpClient != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
			os.Exit(1)
		}
	}()

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
