package http

import (
	"errors"
	"net/http"

	"govis/internal/console"
	"govis/internal/core"
	"govis/internal/log"
	"govis/internal/storage"
)

// SQLRequest is the body of POST /api/sql.
type SQLRequest struct {
	Query string `json:"query"`
}

// HistoryResponse lists executed queries, newest first.
type HistoryResponse struct {
	Queries []storage.QueryRecord `json:"queries"`
}

// AIRequest is the body of POST /api/ai.
type AIRequest struct {
	Question string `json:"question"`
	Execute  bool   `json:"execute"`
}

// AIResponse carries the generated statement and, when executed, its rows.
type AIResponse struct {
	Success     bool       `json:"success"`
	SQL         string     `json:"sql"`
	Explanation string     `json:"explanation,omitempty"`
	Columns     []string   `json:"columns,omitempty"`
	Data        []core.Row `json:"data,omitempty"`
	RowCount    *int       `json:"rowCount,omitempty"`
	Truncated   bool       `json:"truncated,omitempty"`
}

// handleSQL godoc
// @Summary Run a read-only SQL query
// @Description The statement must be a single SELECT over the schema's tables.
// @Tags sql
// @Accept json
// @Produce json
// @Param request body SQLRequest true "query"
// @Success 200 {object} console.Result
// @Failure 400 {object} ErrorResponse
// @Failure 501 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/sql [post]
func (s *Server) handleSQL(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req SQLRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	query := sanitizeInput(req.Query)
	if query == "" {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "query is required")
		return
	}

	res, err := s.deps.Console.Run(r.Context(), query, console.SourceConsole)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

// handleSQLHistory godoc
// @Summary Query history
// @Tags sql
// @Produce json
// @Param limit query int false "max entries (default 20, max 200)"
// @Success 200 {object} HistoryResponse
// @Router /api/sql/history [get]
func (s *Server) handleSQLHistory(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	queries, err := s.deps.Console.History(r.Context(), parseLimit(r))
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "List query history failed", log.FieldError, err)
		writeError(w, r, http.StatusInternalServerError, "internal_error", "could not list query history")
		return
	}
	if queries == nil {
		queries = []storage.QueryRecord{}
	}
	writeJSON(w, r, http.StatusOK, HistoryResponse{Queries: queries})
}

// handleAI godoc
// @Summary Generate SQL from a question
// @Description Asks the language model for a read-only query. With execute=true the query is also run.
// @Tags sql
// @Accept json
// @Produce json
// @Param request body AIRequest true "question"
// @Success 200 {object} AIResponse
// @Failure 400 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/ai [post]
func (s *Server) handleAI(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req AIRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	question := sanitizeInput(req.Question)
	if question == "" {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "question is required")
		return
	}
	if s.deps.Assistant == nil || !s.deps.Assistant.Available() {
		writeServiceError(w, r, core.ErrGeneratorUnavailable)
		return
	}

	ctx := r.Context()
	ans, err := s.deps.Assistant.Generate(ctx, question)
	if err != nil {
		var rejected *core.QueryRejectedError
		if errors.As(err, &rejected) {
			log.FromContext(ctx).WarnContext(ctx, "Generated SQL rejected",
				log.FieldOperation, log.OpGenerate, "reason", rejected.Reason)
		}
		writeServiceError(w, r, err)
		return
	}

	resp := AIResponse{Success: true, SQL: ans.SQL, Explanation: ans.Explanation}
	if req.Execute {
		res, err := s.deps.Console.Run(ctx, ans.SQL, console.SourceAI)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		resp.Columns = res.Columns
		resp.Data = res.Data
		resp.RowCount = &res.RowCount
		resp.Truncated = res.Truncated
	}
	writeJSON(w, r, http.StatusOK, resp)
}
