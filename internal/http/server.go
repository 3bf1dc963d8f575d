// Package http exposes the dashboard, the SQL console and the AI query
// assistant as a JSON API.
package http

import (
	"context"
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "govis/docs"
	"govis/internal/amqp"
	"govis/internal/console"
	"govis/internal/dashboard"
	"govis/internal/log"
	"govis/internal/middleware/ratelimit"
	"govis/internal/middleware/security"
	"govis/internal/middleware/trace"
	"govis/internal/nl2sql"
	"govis/internal/schema"
	"govis/internal/sources"
	"govis/internal/storage"
)

type (
	// DashboardService builds and caches the dashboard payload.
	DashboardService interface {
		Dashboard(ctx context.Context) (dashboard.Payload, error)
		Refresh(ctx context.Context) (dashboard.Payload, error)
		Invalidate()
		Stats() dashboard.Stats
	}

	// QueryConsole runs guarded SQL and lists what was run.
	QueryConsole interface {
		Run(ctx context.Context, query, source string) (console.Result, error)
		History(ctx context.Context, limit int) ([]storage.QueryRecord, error)
	}

	// SQLAssistant turns questions into validated SQL.
	SQLAssistant interface {
		Available() bool
		Generate(ctx context.Context, question string) (nl2sql.Answer, error)
	}

	// SnapshotLister reads persisted dashboard snapshots.
	SnapshotLister interface {
		RecentSnapshots(ctx context.Context, limit int) ([]storage.Snapshot, error)
		Snapshot(ctx context.Context, id string) (storage.Snapshot, error)
	}

	// RefreshPublisher hands a refresh to the worker.
	RefreshPublisher interface {
		PublishRefresh(ctx context.Context, reason string) (*amqp.RefreshMessage, error)
	}

	// Refresher rebuilds the dashboard in-process and stores a snapshot.
	Refresher interface {
		RefreshNow(ctx context.Context, reason string) (storage.Snapshot, error)
	}
)

// Deps are the collaborators the server routes to. Dashboard and Console
// are required; the rest are optional and their endpoints degrade to 503.
type Deps struct {
	Dashboard DashboardService
	Console   QueryConsole
	Assistant SQLAssistant
	Snapshots SnapshotLister
	Publisher RefreshPublisher
	Refresher Refresher
	Pinger    sources.Pinger

	Variant schema.Variant
	Tables  []schema.Table
	Backend string

	RequestTimeout     time.Duration
	RateLimitPerMinute int
	Logger             *log.Logger
}

// Server is the HTTP front of the service.
type Server struct {
	*http.Server

	deps      Deps
	logger    *log.Logger
	startTime time.Time

	rateLimiter     *ratelimit.Limiter
	securityChecker *security.Detector
	traceMiddleware *trace.Middleware
}

// NewServer wires routes and middleware. Call Shutdown to stop it and its
// background cleanup.
func NewServer(addr string, deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = log.Discard()
	}
	if deps.RequestTimeout <= 0 {
		deps.RequestTimeout = 30 * time.Second
	}
	logger := deps.Logger.WithComponent(log.ComponentHTTP)

	detector := security.NewDetector(deps.Logger)
	s := &Server{
		deps:            deps,
		logger:          logger,
		startTime:       time.Now(),
		securityChecker: detector,
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: deps.RateLimitPerMinute,
		}, deps.Logger),
		traceMiddleware: trace.NewMiddleware(detector.ExtractClientIP, deps.Logger),
	}

	mux := http.NewServeMux()
	s.routes(mux)

	var handler http.Handler = mux
	handler = detector.Middleware(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = s.traceMiddleware.Middleware(handler)

	s.Server = &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      deps.RequestTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}
	return s
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/metrics", s.handleMetrics)
	mux.Handle("/swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	mux.Handle("/api/dashboard", s.api(s.handleDashboard))
	mux.Handle("/api/dashboard/refresh", s.api(s.handleDashboardRefresh))
	mux.Handle("/api/dashboard/export.xlsx", s.api(s.handleDashboardExport))
	mux.Handle("/api/dashboard/snapshots", s.api(s.handleSnapshots))
	mux.Handle("/api/dashboard/snapshots/", s.api(s.handleSnapshot))
	mux.Handle("/api/sql", s.api(s.handleSQL))
	mux.Handle("/api/sql/history", s.api(s.handleSQLHistory))
	mux.Handle("/api/ai", s.api(s.handleAI))
	mux.Handle("/api/schema", s.api(s.handleSchema))
	mux.Handle("/api/", s.api(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "not_found", "unknown endpoint")
	}))
}

// api applies the rate limit, no-store caching and the request timeout.
func (s *Server) api(h http.HandlerFunc) http.Handler {
	timed := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), s.deps.RequestTimeout)
		defer cancel()
		h(w, r.WithContext(ctx))
	})
	limited := s.rateLimiter.Middleware(s.securityChecker.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
	})
	return limited(security.NoStore(timed))
}

// Shutdown stops accepting requests and the rate limiter cleanup.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.InfoContext(ctx, "Shutting down HTTP server", log.FieldOperation, log.OpShutdown)
	s.rateLimiter.Stop()
	return s.Server.Shutdown(ctx)
}
