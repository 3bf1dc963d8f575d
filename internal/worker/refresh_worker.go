package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"govis/internal/amqp"
	"govis/internal/dashboard"
	"govis/internal/log"
	"govis/internal/storage"
)

// Builder produces a fresh dashboard payload, bypassing any cache.
type Builder interface {
	Build(ctx context.Context) (dashboard.Payload, error)
}

// BuilderFunc adapts a function, such as a cache-refreshing build, to Builder.
type BuilderFunc func(ctx context.Context) (dashboard.Payload, error)

func (f BuilderFunc) Build(ctx context.Context) (dashboard.Payload, error) {
	return f(ctx)
}

// SnapshotStore persists built payloads.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, s storage.Snapshot) error
}

// RefreshWorker rebuilds the dashboard on request or on a schedule and
// stores each result as a snapshot.
type RefreshWorker struct {
	builder Builder
	store   SnapshotStore
	logger  *log.Logger
}

func NewRefreshWorker(builder Builder, store SnapshotStore, logger *log.Logger) *RefreshWorker {
	return &RefreshWorker{
		builder: builder,
		store:   store,
		logger:  logger.WithComponent(log.ComponentWorker),
	}
}

// HandleRefreshMessage processes a single refresh message from AMQP. The
// snapshot takes the message id so a redelivered message is traceable.
func (w *RefreshWorker) HandleRefreshMessage(ctx context.Context, msg *amqp.RefreshMessage) error {
	_, err := w.refresh(ctx, msg.ID, msg.Reason)
	return err
}

// RefreshNow rebuilds and stores a snapshot under a new id.
func (w *RefreshWorker) RefreshNow(ctx context.Context, reason string) (storage.Snapshot, error) {
	return w.refresh(ctx, uuid.New().String(), reason)
}

// RunPeriodic refreshes every interval until ctx is done. A non-positive
// interval disables it.
func (w *RefreshWorker) RunPeriodic(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		w.logger.InfoContext(ctx, "Periodic refresh disabled")
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.logger.InfoContext(ctx, "Periodic refresh started", "interval", interval.String())
	for {
		select {
		case <-ctx.Done():
			w.logger.InfoContext(ctx, "Periodic refresh stopped")
			return
		case <-ticker.C:
			if _, err := w.RefreshNow(ctx, "scheduled"); err != nil && ctx.Err() == nil {
				w.logger.ErrorContext(ctx, "Scheduled refresh failed", log.FieldError, err)
			}
		}
	}
}

func (w *RefreshWorker) refresh(ctx context.Context, id, reason string) (storage.Snapshot, error) {
	start := time.Now()

	p, err := w.builder.Build(ctx)
	if err != nil {
		return storage.Snapshot{}, fmt.Errorf("build dashboard: %w", err)
	}

	body, err := json.Marshal(p)
	if err != nil {
		return storage.Snapshot{}, fmt.Errorf("encode payload: %w", err)
	}

	snap := storage.Snapshot{
		ID:            id,
		Reason:        reason,
		TotalAmount:   strconv.FormatFloat(p.Summary.TotalAmount, 'f', -1, 64),
		TotalProjects: p.Summary.TotalProjects,
		CreatedAt:     time.Now(),
		Payload:       body,
	}
	if w.store != nil {
		if err := w.store.SaveSnapshot(ctx, snap); err != nil {
			return storage.Snapshot{}, fmt.Errorf("save snapshot: %w", err)
		}
	}

	w.logger.InfoContext(ctx, "Dashboard refreshed",
		log.FieldSnapshotID, id,
		"reason", reason,
		log.FieldOperation, log.OpRefresh,
		log.FieldDuration, time.Since(start).Milliseconds())
	return snap, nil
}
