package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite"

	"govis/internal/core"
	"govis/internal/log"
	"govis/internal/schema"
	"govis/internal/sources"
)

var (
	_ sources.RowSource     = (*SQLiteRepository)(nil)
	_ sources.QueryExecutor = (*SQLiteRepository)(nil)
	_ sources.Pinger        = (*SQLiteRepository)(nil)
)

// timeLayout is fixed width so that text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteRepository is both a row source over the expenditure tables and the
// store for query history and dashboard snapshots.
type SQLiteRepository struct {
	db      *sql.DB
	queries schema.Queries
	logger  *log.Logger
}

func NewSQLiteRepository(ctx context.Context, dbPath string, queries schema.Queries, logger *log.Logger) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, core.Unavailable("ping sqlite", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	logger = logger.WithComponent(log.ComponentStorage)
	logger.InfoContext(ctx, "SQLite repository ready", "path", dbPath)
	return &SQLiteRepository{db: db, queries: queries, logger: logger}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return core.Unavailable("ping sqlite", err)
	}
	return nil
}

func (r *SQLiteRepository) ExpenditureRows(ctx context.Context) ([]core.Row, error) {
	return r.collect(ctx, "read expenditures", r.queries.Expenditures)
}

func (r *SQLiteRepository) ExpenseRows(ctx context.Context) ([]core.Row, error) {
	return r.collect(ctx, "read expenses", r.queries.Expenses)
}

func (r *SQLiteRepository) collect(ctx context.Context, op, query string) ([]core.Row, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, core.Unavailable(op, err)
	}
	defer rows.Close()

	res, err := scanRows(rows, 0)
	if err != nil {
		return nil, core.Unavailable(op, err)
	}
	r.logger.DebugContext(ctx, "Rows fetched", log.FieldOperation, op, log.FieldRowCount, len(res.Rows))
	return res.Rows, nil
}

// Query runs a console statement inside a transaction that is always
// rolled back, so a statement that slips past the guard cannot persist.
func (r *SQLiteRepository) Query(ctx context.Context, query string, maxRows int) (sources.QueryResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return sources.QueryResult{}, core.Unavailable("begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		return sources.QueryResult{}, statementError(ctx, err)
	}
	defer rows.Close()

	res, err := scanRows(rows, maxRows)
	if err != nil {
		return sources.QueryResult{}, statementError(ctx, err)
	}
	return res, nil
}

// statementError classifies a console statement failure: a cancelled or
// expired context stays a context error, anything else is the statement's
// own fault.
func statementError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("execute query: %w: %w", ctxErr, err)
	}
	return core.FailQuery(err)
}

// scanRows reads at most maxRows rows (all when maxRows <= 0), rendering
// every value as text or nil.
func scanRows(rows *sql.Rows, maxRows int) (sources.QueryResult, error) {
	cols, err := rows.Columns()
	if err != nil {
		return sources.QueryResult{}, fmt.Errorf("read columns: %w", err)
	}

	res := sources.QueryResult{Columns: cols, Rows: []core.Row{}}
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if maxRows > 0 && len(res.Rows) == maxRows {
			res.Truncated = true
			break
		}
		if err := rows.Scan(ptrs...); err != nil {
			return sources.QueryResult{}, fmt.Errorf("scan row: %w", err)
		}
		row := make(core.Row, len(cols))
		for i, c := range cols {
			row[c] = textValue(values[i])
		}
		res.Rows = append(res.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return sources.QueryResult{}, fmt.Errorf("iterate rows: %w", err)
	}
	return res, nil
}

func textValue(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return t
	case []byte:
		return string(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
