// Package sources declares the ports through which expenditure rows and
// ad-hoc SQL reach the rest of the service.
package sources

//go:generate mockgen -source=ports.go -destination=mocks/mock_sources.go -package=mock_sources

import (
	"context"

	"govis/internal/core"
)

type (
	// RowSource materializes the two row collections the dashboard needs.
	// Failures to reach the store wrap core.ErrDataSourceUnavailable.
	RowSource interface {
		ExpenditureRows(ctx context.Context) ([]core.Row, error)
		ExpenseRows(ctx context.Context) ([]core.Row, error)
	}

	// QueryExecutor runs a statement that already passed the read-only
	// guard and returns at most maxRows rows.
	QueryExecutor interface {
		Query(ctx context.Context, query string, maxRows int) (QueryResult, error)
	}

	// Pinger reports whether the backing store is reachable.
	Pinger interface {
		Ping(ctx context.Context) error
	}
)

// QueryResult is the outcome of one console query.
type QueryResult struct {
	Columns   []string   `json:"columns"`
	Rows      []core.Row `json:"rows"`
	Truncated bool       `json:"truncated"`
}
