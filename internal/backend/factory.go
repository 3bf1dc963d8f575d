package backend

import (
	"context"
	"fmt"

	"govis/internal/core"
	"govis/internal/log"
	"govis/internal/schema"
	"govis/internal/sources"
	"govis/internal/sources/google"
	"govis/internal/sources/memory"
	"govis/internal/sources/postgres"
	"govis/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	extractor, err := schema.New(config.Variant)
	if err != nil {
		return nil, err
	}
	queries := extractor.Queries()

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(ctx, config, queries)
	case PostgresBackend:
		return f.createPostgresBackend(ctx, config, queries)
	case SheetsBackend:
		return f.createSheetsBackend(ctx, config)
	case MemoryBackend:
		return f.createMemoryBackend(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config, queries schema.Queries) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(ctx, config.SQLiteDBPath, queries, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.InfoContext(ctx, "Initialized SQLite backend",
		"db_path", config.SQLiteDBPath,
		log.FieldSchemaVariant, config.Variant.String())

	return &BackendResult{
		Backend: repo,
		State:   repo,
		Cleanup: repo.Close,
	}, nil
}

func (f *DefaultFactory) createPostgresBackend(ctx context.Context, config Config, queries schema.Queries) (*BackendResult, error) {
	src, err := postgres.New(ctx, config.PostgresURL, config.PostgresMaxConns, queries, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Postgres source: %w", err)
	}

	state := f.openState(ctx, config)
	f.logger.InfoContext(ctx, "Initialized Postgres backend",
		"max_conns", config.PostgresMaxConns,
		log.FieldSchemaVariant, config.Variant.String(),
		"state_store", state != nil)

	return &BackendResult{
		Backend: src,
		State:   state,
		Cleanup: func() error {
			src.Close()
			return closeState(state)
		},
	}, nil
}

func (f *DefaultFactory) createSheetsBackend(ctx context.Context, config Config) (*BackendResult, error) {
	cli, err := google.New(ctx, config.Google, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	state := f.openState(ctx, config)
	f.logger.InfoContext(ctx, "Initialized Google Sheets backend",
		"spreadsheet_id", config.Google.SpreadsheetID,
		"state_store", state != nil)

	return &BackendResult{
		Backend: sheetsBackend{Client: cli},
		State:   state,
		Cleanup: func() error { return closeState(state) },
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(ctx context.Context, config Config) (*BackendResult, error) {
	store, err := memory.NewFromFile(config.MemorySeedFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize memory backend: %w", err)
	}

	state := f.openState(ctx, config)
	f.logger.InfoContext(ctx, "Initialized memory backend",
		"seed_file", config.MemorySeedFile,
		"state_store", state != nil)

	return &BackendResult{
		Backend: store,
		State:   state,
		Cleanup: func() error { return closeState(state) },
	}, nil
}

// openState opens the SQLite history/snapshot store next to a non-SQLite
// backend. Failure only disables history and snapshots.
func (f *DefaultFactory) openState(ctx context.Context, config Config) *storage.SQLiteRepository {
	if config.SQLiteDBPath == "" {
		return nil
	}
	repo, err := storage.NewSQLiteRepository(ctx, config.SQLiteDBPath, schema.Queries{}, f.logger)
	if err != nil {
		f.logger.WarnContext(ctx, "State store unavailable, continuing without history and snapshots",
			log.FieldError, err, "db_path", config.SQLiteDBPath)
		return nil
	}
	return repo
}

func closeState(state *storage.SQLiteRepository) error {
	if state == nil {
		return nil
	}
	return state.Close()
}

// sheetsBackend adds the executor half the Sheets API cannot provide.
type sheetsBackend struct {
	*google.Client
}

var _ Backend = sheetsBackend{}

func (sheetsBackend) Query(context.Context, string, int) (sources.QueryResult, error) {
	return sources.QueryResult{}, fmt.Errorf("sheets backend: %w", core.ErrQueryUnsupported)
}
