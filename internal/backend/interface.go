package backend

import (
	"context"

	"govis/internal/sources"
	"govis/internal/storage"
)

// Backend represents a unified backend interface that provides all necessary operations
type Backend interface {
	sources.RowSource
	sources.QueryExecutor
	sources.Pinger
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the backend instance, the optional SQLite state
// store for query history and snapshots, and a cleanup function
type BackendResult struct {
	Backend Backend
	State   *storage.SQLiteRepository
	Cleanup CleanupFunc
}

// Close runs the cleanup function if there is one
func (r *BackendResult) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory creates backends based on configuration
type Factory interface {
	// CreateBackend creates a backend instance based on the provided config
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend   BackendType = "sqlite"
	PostgresBackend BackendType = "postgres"
	SheetsBackend   BackendType = "sheets"
	MemoryBackend   BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, PostgresBackend, SheetsBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// Dialect names the SQL dialect the backend executes, used in AI prompts
func (bt BackendType) Dialect() string {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return "SQLite"
	default:
		return "PostgreSQL"
	}
}
