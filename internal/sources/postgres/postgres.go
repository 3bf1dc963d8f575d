// Package postgres is a row source over a PostgreSQL database holding one of
// the published schema variants.
package postgres

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"govis/internal/core"
	"govis/internal/log"
	"govis/internal/schema"
	"govis/internal/sources"
)

var (
	_ sources.RowSource     = (*Source)(nil)
	_ sources.QueryExecutor = (*Source)(nil)
	_ sources.Pinger        = (*Source)(nil)
)

type Source struct {
	pool    *pgxpool.Pool
	queries schema.Queries
	logger  *log.Logger
}

// New connects a pool. maxConns <= 0 keeps the pgx default.
func New(ctx context.Context, url string, maxConns int, queries schema.Queries, logger *log.Logger) (*Source, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse postgres url: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = int32(maxConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, core.Unavailable("ping postgres", err)
	}

	return &Source{pool: pool, queries: queries, logger: logger.WithComponent(log.ComponentSources)}, nil
}

func (s *Source) Close() {
	s.pool.Close()
}

func (s *Source) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return core.Unavailable("ping postgres", err)
	}
	return nil
}

func (s *Source) ExpenditureRows(ctx context.Context) ([]core.Row, error) {
	return s.collect(ctx, "read expenditures", s.queries.Expenditures)
}

func (s *Source) ExpenseRows(ctx context.Context) ([]core.Row, error) {
	return s.collect(ctx, "read expenses", s.queries.Expenses)
}

func (s *Source) collect(ctx context.Context, op, query string) ([]core.Row, error) {
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, core.Unavailable(op, err)
	}
	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, core.Unavailable(op, err)
	}

	out := make([]core.Row, len(maps))
	for i, m := range maps {
		out[i] = normalizeRow(m)
	}
	s.logger.DebugContext(ctx, "Rows fetched", log.FieldOperation, op, log.FieldRowCount, len(out))
	return out, nil
}

// Query runs a console statement inside a read-only transaction that is
// always rolled back.
func (s *Source) Query(ctx context.Context, query string, maxRows int) (sources.QueryResult, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return sources.QueryResult{}, core.Unavailable("begin read-only transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows, err := tx.Query(ctx, query)
	if err != nil {
		return sources.QueryResult{}, statementError(ctx, err)
	}
	defer rows.Close()

	var res sources.QueryResult
	for _, fd := range rows.FieldDescriptions() {
		res.Columns = append(res.Columns, fd.Name)
	}
	for rows.Next() {
		if maxRows > 0 && len(res.Rows) == maxRows {
			res.Truncated = true
			break
		}
		values, err := rows.Values()
		if err != nil {
			return sources.QueryResult{}, fmt.Errorf("read row values: %w", err)
		}
		row := make(core.Row, len(values))
		for i, v := range values {
			row[res.Columns[i]] = normalizeValue(v)
		}
		res.Rows = append(res.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return sources.QueryResult{}, statementError(ctx, err)
	}
	return res, nil
}

// statementError reports server-side statement errors (syntax, unknown
// column, read-only violation) as failed queries. Connection problems keep
// the unavailable classification.
func statementError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("execute query: %w: %w", ctxErr, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return core.FailQuery(err)
	}
	return core.Unavailable("execute query", err)
}

func normalizeRow(m map[string]any) core.Row {
	row := make(core.Row, len(m))
	for k, v := range m {
		row[k] = normalizeValue(v)
	}
	return row
}

// normalizeValue renders driver values as text so that every row source
// hands the extractors the same shapes.
func normalizeValue(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return t
	case []byte:
		return string(t)
	case int16:
		return strconv.FormatInt(int64(t), 10)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		return t.Format(time.RFC3339)
	case driver.Valuer:
		dv, err := t.Value()
		if err != nil || dv == nil {
			return nil
		}
		return normalizeValue(dv)
	default:
		return fmt.Sprint(t)
	}
}
