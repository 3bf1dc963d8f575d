package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"govis/internal/log"
	"govis/internal/schema"
)

// HealthResponse is the body of /healthz.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    string    `json:"uptime"`
}

// ReadyResponse is the body of /readyz.
type ReadyResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Backend   string            `json:"backend"`
	Checks    map[string]string `json:"checks"`
}

// SchemaResponse describes the tables of the active schema variant.
type SchemaResponse struct {
	Variant schema.Variant `json:"variant"`
	Tables  []schema.Table `json:"tables"`
}

// handleHealth godoc
// @Summary Liveness probe
// @Tags ops
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	writeJSON(w, r, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
	})
}

// handleReady godoc
// @Summary Readiness probe
// @Description Checks that the data source is reachable.
// @Tags ops
// @Produce json
// @Success 200 {object} ReadyResponse
// @Failure 503 {object} ReadyResponse
// @Router /readyz [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	resp := ReadyResponse{
		Status:    "ready",
		Timestamp: time.Now().UTC(),
		Backend:   s.deps.Backend,
		Checks:    map[string]string{"data_source": "ok"},
	}
	status := http.StatusOK
	if s.deps.Pinger != nil {
		if err := s.deps.Pinger.Ping(ctx); err != nil {
			s.logger.WarnContext(ctx, "Readiness check failed", log.FieldBackend, s.deps.Backend, log.FieldError, err)
			resp.Status = "not_ready"
			resp.Checks["data_source"] = "unavailable"
			status = http.StatusServiceUnavailable
		}
	}
	if s.deps.Assistant != nil && s.deps.Assistant.Available() {
		resp.Checks["ai_assistant"] = "configured"
	} else {
		resp.Checks["ai_assistant"] = "disabled"
	}
	writeJSON(w, r, status, resp)
}

// handleMetrics writes Prometheus text exposition.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	traceMetrics := s.traceMiddleware.GetMetrics()
	rateLimitMetrics := s.rateLimiter.GetMetrics()
	securityMetrics := s.securityChecker.GetMetrics()
	dash := s.deps.Dashboard.Stats()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	metric := func(name, kind, help string, value any) {
		fmt.Fprintf(w, "# HELP %s %s\n", name, help)
		fmt.Fprintf(w, "# TYPE %s %s\n", name, kind)
		fmt.Fprintf(w, "%s %v\n\n", name, value)
	}

	metric("http_requests_total", "counter", "Total number of HTTP requests", traceMetrics.TotalRequests)
	metric("http_requests_in_flight", "gauge", "Requests currently being served", traceMetrics.InFlight)
	fmt.Fprintf(w, "# HELP http_request_errors_total HTTP responses with an error status\n")
	fmt.Fprintf(w, "# TYPE http_request_errors_total counter\n")
	fmt.Fprintf(w, "http_request_errors_total{class=\"4xx\"} %d\n", traceMetrics.ClientErrors)
	fmt.Fprintf(w, "http_request_errors_total{class=\"5xx\"} %d\n\n", traceMetrics.ServerErrors)
	metric("http_request_duration_avg_microseconds", "gauge", "Mean request duration", traceMetrics.AverageResponseTime)

	metric("dashboard_builds_total", "counter", "Dashboard payloads built from the data source", dash.Builds)
	metric("dashboard_build_failures_total", "counter", "Dashboard builds that failed", dash.Failures)
	metric("cache_hits_total", "counter", "Total cache hits", dash.Cache.Hits)
	metric("cache_misses_total", "counter", "Total cache misses", dash.Cache.Misses)
	metric("cache_evictions_total", "counter", "Total cache evictions", dash.Cache.Evictions)
	metric("cache_entries", "gauge", "Current cache entries", dash.Cache.Size)

	metric("rate_limit_hits_total", "counter", "Total rate limit hits", rateLimitMetrics.TotalHits)
	metric("active_rate_limit_clients", "gauge", "Currently tracked rate limit clients", rateLimitMetrics.ClientCount)
	metric("suspicious_requests_total", "counter", "Total suspicious requests detected", securityMetrics.SuspiciousRequests)
	metric("invalid_ip_attempts_total", "counter", "Forwarding headers carrying an invalid IP", securityMetrics.InvalidIPAttempts)

	metric("uptime_seconds", "gauge", "Application uptime in seconds", fmt.Sprintf("%.0f", time.Since(s.startTime).Seconds()))
}

// handleSchema godoc
// @Summary Schema catalog
// @Description Tables and columns of the active schema variant, as given to the AI assistant.
// @Tags sql
// @Produce json
// @Success 200 {object} SchemaResponse
// @Router /api/schema [get]
func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	tables := s.deps.Tables
	if tables == nil {
		tables = []schema.Table{}
	}
	writeJSON(w, r, http.StatusOK, SchemaResponse{Variant: s.deps.Variant, Tables: tables})
}
