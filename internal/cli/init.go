// Package cli provides common CLI initialization utilities shared by
// cmd/govis and cmd/govis-worker.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"govis/internal/aggregate"
	"govis/internal/backend"
	"govis/internal/cache"
	"govis/internal/config"
	"govis/internal/dashboard"
	"govis/internal/log"
	"govis/internal/schema"
)

// SetupLogger builds the process logger from level and format and installs
// it as the slog default. Unknown levels fall back to info.
func SetupLogger(level, format string) *log.Logger {
	cfg := log.DefaultConfig()
	if lvl, err := log.ParseLevel(level); err == nil {
		cfg.Level = lvl
	}
	if format != "" {
		cfg.Format = format
	}
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// Stack is the data side shared by the server and the worker.
type Stack struct {
	Backend   *backend.BackendResult
	Type      backend.BackendType
	Extractor schema.Extractor
	Catalog   schema.Catalog
	Dashboard *dashboard.Service
	Caches    *cache.Manager
}

// InitStack opens the configured backend and builds the dashboard service
// on top of it. Exits the process on failure.
func InitStack(ctx context.Context, logger *log.Logger, cfg *config.Config) *Stack {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}

	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err, log.FieldBackend, bcfg.Type.String())
		os.Exit(1)
	}

	ext, err := schema.New(bcfg.Variant)
	if err != nil {
		logger.Error("Unknown schema variant", log.FieldError, err, log.FieldSchemaVariant, bcfg.Variant.String())
		_ = res.Close()
		os.Exit(1)
	}
	catalog, err := schema.LoadCatalog()
	if err != nil {
		logger.Error("Failed to load schema catalog", log.FieldError, err)
		_ = res.Close()
		os.Exit(1)
	}

	opts := aggregate.DefaultOptions()
	opts.TopMinistries = cfg.DashboardTopN
	opts.TopContractors = cfg.DashboardTopN
	opts.TopExpenseTypes = cfg.DashboardTopN
	opts.HighValueLimit = cfg.HighValueLimit

	// A zero TTL disables the payload cache.
	var (
		payloads cache.Cache[dashboard.Payload]
		caches   *cache.Manager
	)
	if cfg.DashboardCacheTTL > 0 {
		lru := cache.NewLRUCache[dashboard.Payload](cfg.DashboardCacheSize, cfg.DashboardCacheTTL)
		caches = cache.NewManager(logger)
		caches.Register(lru)
		caches.StartCleanup(cfg.DashboardCacheTTL)
		payloads = lru
	}

	logger.Info("Data stack initialized",
		log.FieldBackend, bcfg.Type.String(),
		log.FieldSchemaVariant, bcfg.Variant.String(),
		"state_store", res.State != nil)

	return &Stack{
		Backend:   res,
		Type:      bcfg.Type,
		Extractor: ext,
		Catalog:   catalog,
		Dashboard: dashboard.NewService(res.Backend, ext, opts, payloads, logger),
		Caches:    caches,
	}
}

// Close stops cache cleanup and releases the backend.
func (s *Stack) Close(logger *log.Logger) {
	if s.Caches != nil {
		s.Caches.Stop()
	}
	if err := s.Backend.Close(); err != nil {
		logger.Error("Failed to close backend", log.FieldError, err)
	}
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// Returns a context that will be cancelled on shutdown signals,
// and a channel that signals when shutdown is complete.
func GracefulShutdown(logger *log.Logger, timeout time.Duration, cleanup func(ctx context.Context)) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String(), log.FieldOperation, log.OpShutdown)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		cancel()

		if cleanup != nil {
			cleanup(shutdownCtx)
		}

		if shutdownCtx.Err() != nil {
			logger.Warn("Shutdown timeout reached")
		} else {
			logger.Info("Shutdown complete")
		}
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
