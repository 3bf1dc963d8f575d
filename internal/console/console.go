// Package console runs guarded ad-hoc SQL against the active backend and
// keeps a history of what was run.
package console

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"govis/internal/core"
	"govis/internal/log"
	"govis/internal/nl2sql"
	"govis/internal/sources"
	"govis/internal/storage"
)

// Sources of a query, recorded in history.
const (
	SourceConsole = "console"
	SourceAI      = "ai"
)

// HistoryStore persists executed queries. Optional.
type HistoryStore interface {
	RecordQuery(ctx context.Context, q storage.QueryRecord) error
	RecentQueries(ctx context.Context, limit int) ([]storage.QueryRecord, error)
}

type Config struct {
	Timeout time.Duration
	MaxRows int
	// Allowed lists the tables a statement may reference.
	Allowed map[string]bool
}

type Service struct {
	exec    sources.QueryExecutor
	history HistoryStore
	cfg     Config
	logger  *log.StructuredLogger
	plain   *log.Logger
}

// Result is one executed statement.
type Result struct {
	ID              string     `json:"id"`
	SQL             string     `json:"sql"`
	Columns         []string   `json:"columns"`
	Data            []core.Row `json:"data"`
	RowCount        int        `json:"rowCount"`
	Truncated       bool       `json:"truncated"`
	ExecutionTimeMs int64      `json:"executionTimeMs"`
}

// New builds a console. history may be nil.
func New(exec sources.QueryExecutor, history HistoryStore, cfg Config, logger *log.Logger) *Service {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRows <= 0 {
		cfg.MaxRows = 1000
	}
	logger = logger.WithComponent(log.ComponentConsole)
	return &Service{
		exec:    exec,
		history: history,
		cfg:     cfg,
		logger:  log.NewStructuredLogger(logger),
		plain:   logger,
	}
}

// Run validates query and executes it. Rejections wrap core.ErrQueryRejected
// and are recorded in history like failures.
func (s *Service) Run(ctx context.Context, query, source string) (Result, error) {
	res := Result{ID: uuid.New().String(), SQL: query}
	start := time.Now()

	stmt, err := nl2sql.ValidateReadOnly(query, s.cfg.Allowed)
	if err != nil {
		s.record(ctx, res, source, start, err)
		return res, err
	}
	res.SQL = stmt

	qctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	out, err := s.exec.Query(qctx, stmt, s.cfg.MaxRows)
	res.ExecutionTimeMs = time.Since(start).Milliseconds()
	if err != nil {
		s.record(ctx, res, source, start, err)
		return res, err
	}

	res.Columns = out.Columns
	res.Data = out.Rows
	if res.Data == nil {
		res.Data = []core.Row{}
	}
	res.RowCount = len(out.Rows)
	res.Truncated = out.Truncated
	s.record(ctx, res, source, start, nil)
	return res, nil
}

// History returns recent queries, or an empty list without a store.
func (s *Service) History(ctx context.Context, limit int) ([]storage.QueryRecord, error) {
	if s.history == nil {
		return []storage.QueryRecord{}, nil
	}
	return s.history.RecentQueries(ctx, limit)
}

func (s *Service) record(ctx context.Context, res Result, source string, start time.Time, runErr error) {
	dur := time.Since(start).Milliseconds()
	s.logger.LogQuery(ctx, res.ID, source, res.RowCount, dur, runErr)

	if s.history == nil || errors.Is(runErr, core.ErrQueryUnsupported) {
		return
	}
	rec := storage.QueryRecord{
		ID:         res.ID,
		Query:      res.SQL,
		Source:     source,
		RowCount:   res.RowCount,
		DurationMs: dur,
		CreatedAt:  start,
	}
	if runErr != nil {
		rec.Error = runErr.Error()
	}
	// History must never fail the query itself.
	if err := s.history.RecordQuery(context.WithoutCancel(ctx), rec); err != nil {
		s.plain.WarnContext(ctx, "Failed to record query history", log.FieldQueryID, res.ID, log.FieldError, err)
	}
}
