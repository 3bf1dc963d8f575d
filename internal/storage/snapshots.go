package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"govis/internal/log"
)

// ErrSnapshotNotFound is returned when no snapshot has the requested id.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Snapshot is a persisted dashboard payload.
type Snapshot struct {
	ID            string          `json:"id"`
	Reason        string          `json:"reason"`
	TotalAmount   string          `json:"totalAmount"`
	TotalProjects int             `json:"totalProjects"`
	CreatedAt     time.Time       `json:"createdAt"`
	Payload       json.RawMessage `json:"payload,omitempty"`
}

func (r *SQLiteRepository) SaveSnapshot(ctx context.Context, s Snapshot) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO dashboard_snapshots (id, reason, total_amount, total_projects, payload, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		s.ID, s.Reason, s.TotalAmount, s.TotalProjects, string(s.Payload), s.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	r.logger.InfoContext(ctx, "Dashboard snapshot saved", log.FieldSnapshotID, s.ID, "reason", s.Reason)
	return nil
}

// RecentSnapshots lists snapshot metadata, newest first, without payloads.
func (r *SQLiteRepository) RecentSnapshots(ctx context.Context, limit int) ([]Snapshot, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, reason, total_amount, total_projects, created_at
		 FROM dashboard_snapshots ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	out := []Snapshot{}
	for rows.Next() {
		var (
			s       Snapshot
			created string
		)
		if err := rows.Scan(&s.ID, &s.Reason, &s.TotalAmount, &s.TotalProjects, &created); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		s.CreatedAt, _ = time.Parse(timeLayout, created)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) Snapshot(ctx context.Context, id string) (Snapshot, error) {
	var (
		s       Snapshot
		created string
		payload string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, reason, total_amount, total_projects, payload, created_at
		 FROM dashboard_snapshots WHERE id = ?`, id).
		Scan(&s.ID, &s.Reason, &s.TotalAmount, &s.TotalProjects, &payload, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, ErrSnapshotNotFound
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("read snapshot %s: %w", id, err)
	}
	s.Payload = json.RawMessage(payload)
	s.CreatedAt, _ = time.Parse(timeLayout, created)
	return s, nil
}
