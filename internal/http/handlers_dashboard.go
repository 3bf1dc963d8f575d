package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"govis/internal/dashboard"
	"govis/internal/export"
	"govis/internal/log"
	"govis/internal/storage"
)

// RefreshResponse reports how a refresh request was handled.
type RefreshResponse struct {
	Status     string `json:"status"`
	MessageID  string `json:"messageId,omitempty"`
	SnapshotID string `json:"snapshotId,omitempty"`
}

// SnapshotsResponse lists snapshot metadata.
type SnapshotsResponse struct {
	Snapshots []storage.Snapshot `json:"snapshots"`
}

// handleDashboard godoc
// @Summary Dashboard payload
// @Description Aggregated spending dashboard. Cached; refresh=true rebuilds it.
// @Tags dashboard
// @Produce json
// @Param refresh query bool false "bypass the cache"
// @Success 200 {object} dashboard.Payload
// @Failure 503 {object} ErrorResponse
// @Router /api/dashboard [get]
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	var (
		p   dashboard.Payload
		err error
	)
	if queryBool(r, "refresh") {
		p, err = s.deps.Dashboard.Refresh(r.Context())
	} else {
		p, err = s.deps.Dashboard.Dashboard(r.Context())
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, p)
}

// handleDashboardRefresh godoc
// @Summary Refresh the dashboard
// @Description Drops the cached payload. With a message broker configured the rebuild is queued (202), otherwise it runs inline (200).
// @Tags dashboard
// @Produce json
// @Success 200 {object} RefreshResponse
// @Success 202 {object} RefreshResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/dashboard/refresh [post]
func (s *Server) handleDashboardRefresh(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	ctx := r.Context()
	logger := log.FromContext(ctx)

	s.deps.Dashboard.Invalidate()

	if s.deps.Publisher != nil {
		msg, err := s.deps.Publisher.PublishRefresh(ctx, "api")
		if err == nil {
			logger.InfoContext(ctx, "Dashboard refresh queued", log.FieldMessageID, msg.ID)
			writeJSON(w, r, http.StatusAccepted, RefreshResponse{Status: "queued", MessageID: msg.ID})
			return
		}
		logger.WarnContext(ctx, "Refresh publish failed, rebuilding inline", log.FieldError, err)
	}

	if s.deps.Refresher != nil {
		snap, err := s.deps.Refresher.RefreshNow(ctx, "api")
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, RefreshResponse{Status: "refreshed", SnapshotID: snap.ID})
		return
	}

	if _, err := s.deps.Dashboard.Refresh(ctx); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, RefreshResponse{Status: "refreshed"})
}

// handleDashboardExport godoc
// @Summary Export the dashboard as XLSX
// @Tags dashboard
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Failure 503 {object} ErrorResponse
// @Router /api/dashboard/export.xlsx [get]
func (s *Server) handleDashboardExport(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	p, err := s.deps.Dashboard.Dashboard(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	// Render fully before writing so a failure can still send a JSON error.
	var buf bytes.Buffer
	if err := export.WriteDashboard(&buf, p); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Dashboard export failed",
			log.FieldOperation, log.OpExport, log.FieldError, err)
		writeError(w, r, http.StatusInternalServerError, "export_failed", "could not render the workbook")
		return
	}

	name := fmt.Sprintf("dashboard-%s.xlsx", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// handleSnapshots godoc
// @Summary Recent dashboard snapshots
// @Description Metadata of the latest persisted rebuilds, newest first.
// @Tags dashboard
// @Produce json
// @Param limit query int false "max entries (default 20, max 200)"
// @Success 200 {object} SnapshotsResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/dashboard/snapshots [get]
func (s *Server) handleSnapshots(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	if s.deps.Snapshots == nil {
		writeError(w, r, http.StatusServiceUnavailable, "snapshots_unavailable", "snapshot storage is not configured")
		return
	}

	snaps, err := s.deps.Snapshots.RecentSnapshots(r.Context(), parseLimit(r))
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "List snapshots failed", log.FieldError, err)
		writeError(w, r, http.StatusInternalServerError, "internal_error", "could not list snapshots")
		return
	}
	writeJSON(w, r, http.StatusOK, SnapshotsResponse{Snapshots: snaps})
}

// handleSnapshot godoc
// @Summary One dashboard snapshot
// @Description The persisted rebuild including its full dashboard payload.
// @Tags dashboard
// @Produce json
// @Param id path string true "snapshot id"
// @Success 200 {object} storage.Snapshot
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/dashboard/snapshots/{id} [get]
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/dashboard/snapshots/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, r, http.StatusNotFound, "not_found", "no such snapshot")
		return
	}
	if s.deps.Snapshots == nil {
		writeError(w, r, http.StatusServiceUnavailable, "snapshots_unavailable", "snapshot storage is not configured")
		return
	}

	snap, err := s.deps.Snapshots.Snapshot(r.Context(), id)
	if errors.Is(err, storage.ErrSnapshotNotFound) {
		writeError(w, r, http.StatusNotFound, "not_found", "no such snapshot")
		return
	}
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Read snapshot failed",
			log.FieldSnapshotID, id, log.FieldError, err)
		writeError(w, r, http.StatusInternalServerError, "internal_error", "could not read snapshot")
		return
	}
	writeJSON(w, r, http.StatusOK, snap)
}
