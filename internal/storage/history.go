package storage

import (
	"context"
	"fmt"
	"time"
)

// QueryRecord is one executed console or AI query.
type QueryRecord struct {
	ID         string    `json:"id"`
	Query      string    `json:"query"`
	Source     string    `json:"source"`
	RowCount   int       `json:"rowCount"`
	DurationMs int64     `json:"durationMs"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (r *SQLiteRepository) RecordQuery(ctx context.Context, q QueryRecord) error {
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO query_history (id, query, source, row_count, duration_ms, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		q.ID, q.Query, q.Source, q.RowCount, q.DurationMs, q.Error, q.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("insert query history: %w", err)
	}
	return nil
}

// RecentQueries returns the newest entries first.
func (r *SQLiteRepository) RecentQueries(ctx context.Context, limit int) ([]QueryRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, query, source, row_count, duration_ms, error, created_at
		 FROM query_history ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list query history: %w", err)
	}
	defer rows.Close()

	out := []QueryRecord{}
	for rows.Next() {
		var (
			q       QueryRecord
			created string
		)
		if err := rows.Scan(&q.ID, &q.Query, &q.Source, &q.RowCount, &q.DurationMs, &q.Error, &created); err != nil {
			return nil, fmt.Errorf("scan query history: %w", err)
		}
		q.CreatedAt, _ = time.Parse(timeLayout, created)
		out = append(out, q)
	}
	return out, rows.Err()
}
