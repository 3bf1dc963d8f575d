package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"govis/internal/core"
	"govis/internal/log"
	"govis/internal/nl2sql"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 64 << 10

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// writeJSON buffers the encoding so that a failure can still become a 500.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Encode response failed",
			log.FieldPath, r.URL.Path, log.FieldError, err)
		buf.Reset()
		status = http.StatusInternalServerError
		_ = enc.Encode(ErrorResponse{Error: "internal_error", Message: "could not encode the response", Code: status})
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	if status >= 500 {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			log.FieldPath, r.URL.Path, log.FieldStatusCode, status, "reason", code)
	}
	writeJSON(w, r, status, ErrorResponse{Error: code, Message: message, Code: status})
}

// writeServiceError maps the error taxonomy onto status codes.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		rejected *core.QueryRejectedError
		failed   *core.QueryFailedError
	)
	switch {
	case errors.As(err, &rejected):
		writeError(w, r, http.StatusBadRequest, "query_rejected", rejected.Reason)
	case errors.Is(err, core.ErrQueryRejected):
		writeError(w, r, http.StatusBadRequest, "query_rejected", err.Error())
	case errors.Is(err, nl2sql.ErrEmptyQuestion):
		writeError(w, r, http.StatusBadRequest, "invalid_request", "question is required")
	case errors.Is(err, core.ErrQueryUnsupported):
		writeError(w, r, http.StatusNotImplemented, "query_unsupported", "the active data backend cannot run SQL")
	case errors.Is(err, core.ErrGeneratorQuota):
		writeError(w, r, http.StatusTooManyRequests, "generator_quota",
			"the AI service is over its usage limit, please wait a moment and try again")
	case errors.Is(err, core.ErrGeneratorUnavailable):
		writeError(w, r, http.StatusServiceUnavailable, "generator_unavailable", "the AI assistant is not configured")
	case errors.Is(err, core.ErrDataSourceUnavailable):
		writeError(w, r, http.StatusServiceUnavailable, "data_source_unavailable", "the data source is currently unavailable")
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, r, http.StatusGatewayTimeout, "timeout", "the request took too long")
	case errors.As(err, &failed):
		writeError(w, r, http.StatusBadRequest, "query_failed", failed.Err.Error())
	default:
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Unhandled service error", log.FieldError, err)
		writeError(w, r, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// allowMethod answers 405 with an Allow header when r uses another method.
func allowMethod(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	return false
}

// decodeJSON reads a bounded JSON body into v, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return false
	}
	return true
}
